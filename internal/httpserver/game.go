package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/board"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/setup"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/sse"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/store"
)

// newGameRes is returned by POST /game/new and POST /daily/new.
type newGameRes struct {
	GameID  string          `json:"gameId"`
	Token   string          `json:"token"`
	Mode    string          `json:"mode"`
	Board   *board.Snapshot `json:"board,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

const maxRevealBody = 1 << 10

// revealReq/Res payloads for POST /game/{id}/reveal.
type revealReq struct {
	Category *int `json:"category"`
	Clue     *int `json:"clue"`
}
type revealRes struct {
	Category      int               `json:"category"`
	Clue          int               `json:"clue"`
	Text          string            `json:"text"`
	Showing       board.RevealState `json:"showing"`
	NewlyRevealed bool              `json:"newlyRevealed"`
}

// gameRes is returned by GET /game/{id} and POST /game/{id}/restart.
type gameRes struct {
	GameID  string          `json:"gameId"`
	Mode    string          `json:"mode"`
	Date    string          `json:"date"`
	Loading bool            `json:"loading"`
	Board   *board.Snapshot `json:"board"`
}

// handleNewGame creates a random-board session and runs its first setup.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	s.startSession(w, r, ModeRandom)
}

// startSession creates a session, issues its token and runs the first setup.
// On setup failure the session is kept (no board) so the client can retry via restart.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, mode string, extra ...setup.Option) {
	sess, err := s.newSession(r.Context(), mode, extra...)
	if err != nil {
		s.log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setTokenCookie(w, tok, exp)

	res := newGameRes{GameID: sess.ID, Token: tok, Mode: mode}
	if err := sess.Game.Dispatch(r.Context(), setup.StartRequested{}); err != nil {
		res.Error, res.Message = "setup_failed", err.Error()
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	snap := sess.Game.Board().Snapshot()
	res.Board = &snap
	writeJSON(w, http.StatusCreated, res)
}

// handleGetGame returns the current board of a session.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, gameView(sess))
}

// handleRestart replaces the session's board with a fresh one.
//   - 409 if a setup is already running (the trigger is dropped).
//   - 502 if setup fails; the previous board stays in place.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	err := sess.Game.Dispatch(r.Context(), setup.StartRequested{})
	switch {
	case errors.Is(err, setup.ErrSetupInProgress):
		writeError(w, http.StatusConflict, "setup_in_progress")
		return
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "setup_failed", "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, gameView(sess))
}

// handleReveal activates one clue.
// A no-op (already answered) or a stale coordinate yields 204 with no body.
func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req revealReq
	r.Body = http.MaxBytesReader(w, r.Body, maxRevealBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Category == nil || req.Clue == nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	rv, ok := sess.Game.Activate(*req.Category, *req.Clue)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, revealRes{
		Category:      rv.Category,
		Clue:          rv.Clue,
		Text:          rv.Text,
		Showing:       rv.Showing,
		NewlyRevealed: rv.NewlyRevealed,
	})
}

// handleEvents streams the session's view signals as server-sent events.
// A newly connected client first receives the current board, if any.
// Open streams keep the session alive across sweeps.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	s.hub.Serve(w, r, sse.Stream{
		Session: sess.ID,
		Initial: func() []sse.Message {
			b := sess.Game.Board()
			if b == nil {
				return nil
			}
			msg, err := sse.NewMessage(evBoard, b.Snapshot())
			if err != nil {
				s.log.Warn().Err(err).Str("gameId", sess.ID).Msg("encode initial board")
				return nil
			}
			return []sse.Message{msg}
		},
		OnHeartbeat: sess.Touch,
	})
}

// handleSessionHistory lists every setup attempt of one session.
func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusServiceUnavailable, "history_disabled")
		return
	}
	rows, err := s.history.BySession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error().Err(err).Msg("query session history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// gameView builds the GET /game/{id} payload.
func gameView(sess *store.Session) gameRes {
	res := gameRes{GameID: sess.ID, Mode: sess.Mode, Date: sess.Date, Loading: sess.Game.Busy()}
	if b := sess.Game.Board(); b != nil {
		snap := b.Snapshot()
		res.Board = &snap
	}
	return res
}
