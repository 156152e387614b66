// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the "board of the day" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new     → start a session whose board is seeded by today's date
//   - GET  /daily/history → recorded setup attempts for today (or a given date)
//
// Every daily session on the same UTC date draws the same categories and
// clues as long as the trivia source returns the same catalog.
// Seeding is HMAC(salt, date), so the board cannot be predicted without the salt.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/daily"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/history"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/setup"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/history", s.handleDailyHistory)
	})
}

// handleDailyNew starts a daily session; the response matches POST /game/new.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	seed := daily.Seed(s.now(), s.opts.DailySalt)
	s.startSession(w, r, ModeDaily, setup.WithSeed(seed))
}

// dailyHistoryRes is returned by /daily/history.
type dailyHistoryRes struct {
	Date     string          `json:"date"`
	Attempts []history.Entry `json:"attempts"`
}

// handleDailyHistory returns the attempts recorded for ?date= (default today).
// An optional ?limit= caps the result; the store defaults to 50.
func (s *Server) handleDailyHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history_disabled")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := s.history.ByDate(r.Context(), date, limit)
	if err != nil {
		s.log.Error().Err(err).Str("date", date).Msg("query daily history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if rows == nil {
		rows = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, dailyHistoryRes{Date: date, Attempts: rows})
}
