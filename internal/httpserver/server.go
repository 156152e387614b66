// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the trivia board backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Board endpoints: POST /game/new, GET /game/{id}, POST /game/{id}/restart,
//     POST /game/{id}/reveal, GET /game/{id}/events (SSE), GET /game/{id}/history.
//   - Board of the day: mounted under /daily.
//   - Admin diagnostics: /debug/* (bcrypt-checked key).
//
// Notes:
//   - Each session owns one setup.Game; the HTTP layer only translates
//     requests into StartRequested / ClueActivated events.
//   - Mutating routes require the session token issued by /game/new.
//   - The SSE route sits outside the request timeout so streams stay open.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/daily"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/history"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/setup"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/sse"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/store"
)

const (
	ModeRandom = "random"
	ModeDaily  = "daily"

	requestTimeout = 30 * time.Second
)

// Options carries the tunables the server needs from configuration.
type Options struct {
	Categories       int
	CluesPerCategory int
	FetchLimit       int
	DailySalt        string
	JWTSecret        string
	TokenTTL         time.Duration
	AdminKeyHash     string
	ClientOrigin     string
	SecureCookies    bool
}

// Server bundles router, session store, trivia source and SSE hub.
type Server struct {
	r       *chi.Mux
	store   store.Store
	src     setup.Source
	hub     *sse.Broadcaster
	history *history.Store // nil disables history recording
	opts    Options
	log     zerolog.Logger
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, src setup.Source, hist *history.Store, opts Options, log zerolog.Logger) *Server {
	if opts.JWTSecret == "" {
		opts.JWTSecret = "dev_secret_change_me"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 6 * time.Hour
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{
		r:       chi.NewRouter(),
		store:   st,
		src:     src,
		hub:     sse.NewBroadcaster(),
		history: hist,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)         // add X-Request-ID
	s.r.Use(chimw.RealIP)            // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog(log))          // one zerolog line per request
	s.r.Use(chimw.Recoverer)         // recover from panics
	s.r.Use(jsonContentType)         // default JSON responses
	s.r.Use(cors(opts.ClientOrigin)) // credentials-friendly CORS

	// --- streaming (no timeout) ---
	s.r.Get("/game/{id}/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"trivia-go","endpoints":["/health","POST /game/new","POST /game/{id}/reveal","POST /game/{id}/restart","GET /game/{id}/events","POST /daily/new"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		// --- board sessions ---
		r.Post("/game/new", s.handleNewGame)
		r.Get("/game/{id}", s.handleGetGame)
		r.Get("/game/{id}/history", s.handleSessionHistory)
		r.With(s.requireSession).Post("/game/{id}/restart", s.handleRestart)
		r.With(s.requireSession).Post("/game/{id}/reveal", s.handleReveal)

		// --- board of the day ---
		s.mountDaily(r)

		// --- admin ---
		s.mountDebug(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// ServeHTTP lets the Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Store exposes the session store (used by the sweeper in main).
func (s *Server) Store() store.Store { return s.store }

// EvictSessions disconnects the event streams of sessions removed from the store.
func (s *Server) EvictSessions(ids []string) {
	for _, id := range ids {
		s.hub.CloseSession(id)
	}
	s.log.Info().Int("removed", len(ids)).Strs("ids", ids).Msg("evicted idle sessions")
}

// Start begins serving HTTP on addr and shuts down gracefully when ctx ends.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Key")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured line per request.
func accessLog(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Str("reqId", chimw.GetReqID(r.Context())).
				Msg("http")
		})
	}
}

// ------------------------------- sessions ----------------------------------

// newSession registers a session whose game renders into the SSE hub.
func (s *Server) newSession(ctx context.Context, mode string, extra ...setup.Option) (*store.Session, error) {
	id := uuid.NewString()
	now := s.now().UTC()
	date := daily.DateKey(now)
	glog := s.log.With().Str("gameId", id).Str("mode", mode).Logger()

	opts := []setup.Option{
		setup.WithDimensions(s.opts.Categories, s.opts.CluesPerCategory),
		setup.WithFetchLimit(s.opts.FetchLimit),
		setup.WithLogger(glog),
		setup.WithObserver(s.recordAttempt(id, mode, date)),
	}
	opts = append(opts, extra...)

	sess := &store.Session{
		ID:        id,
		Mode:      mode,
		Date:      date,
		Game:      setup.New(s.src, &sessionView{hub: s.hub, id: id, log: glog}, opts...),
		CreatedAt: now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// recordAttempt returns an observer that logs setup attempts to the history store.
// Recording is best effort: failures are logged, never surfaced.
func (s *Server) recordAttempt(sessionID, mode, date string) func(setup.Attempt) {
	return func(a setup.Attempt) {
		if s.history == nil {
			return
		}
		e := history.Entry{
			SessionID:   sessionID,
			BoardID:     a.BoardID,
			Mode:        mode,
			Date:        date,
			Status:      history.StatusOK,
			CategoryIDs: a.CategoryIDs,
			StartedAt:   a.StartedAt,
			FinishedAt:  a.FinishedAt,
		}
		if a.Err != nil {
			e.Status, e.Error = history.StatusFailed, a.Err.Error()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.history.Record(ctx, e); err != nil {
			s.log.Warn().Err(err).Str("gameId", sessionID).Msg("record setup attempt")
		}
	}
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the {"error": code} shape used across the API.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
