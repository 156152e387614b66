package httpserver

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminKeyHeader = "X-Admin-Key"

// sessionInfo is one row of GET /debug/sessions.
type sessionInfo struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Date      string    `json:"date"`
	Busy      bool      `json:"busy"`
	HasBoard  bool      `json:"hasBoard"`
	Clients   int       `json:"clients"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
}

// mountDebug registers admin diagnostics. Without a configured key hash the
// routes are not mounted at all and fall through to the JSON 404.
func (s *Server) mountDebug(r chi.Router) {
	if s.opts.AdminKeyHash == "" {
		return
	}
	r.Route("/debug", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/sessions", s.handleDebugSessions)
	})
}

// requireAdmin checks the X-Admin-Key header against the configured bcrypt hash.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(adminKeyHeader)
		if key == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(s.opts.AdminKeyHash), []byte(key)); err != nil {
			s.log.Warn().Str("ip", r.RemoteAddr).Msg("rejected admin key")
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleDebugSessions lists live sessions, newest first.
func (s *Server) handleDebugSessions(w http.ResponseWriter, r *http.Request) {
	list := s.store.List(r.Context())
	out := make([]sessionInfo, 0, len(list))
	for _, sess := range list {
		out = append(out, sessionInfo{
			ID:        sess.ID,
			Mode:      sess.Mode,
			Date:      sess.Date,
			Busy:      sess.Game.Busy(),
			HasBoard:  sess.Game.Board() != nil,
			Clients:   s.hub.ClientCount(sess.ID),
			CreatedAt: sess.CreatedAt,
			LastSeen:  sess.LastSeen(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	writeJSON(w, http.StatusOK, out)
}
