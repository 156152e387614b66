package httpserver

import (
	"github.com/rs/zerolog"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/board"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/sse"
)

// SSE event names sent to the browser.
const (
	evSetupStart = "setup_start"
	evSetupEnd   = "setup_end"
	evBoard      = "board"
	evReveal     = "reveal"
	evFailure    = "failure"
)

// sessionView forwards a game's view signals to the session's SSE clients.
type sessionView struct {
	hub *sse.Broadcaster
	id  string
	log zerolog.Logger
}

func (v *sessionView) publish(event string, payload any) {
	if err := v.hub.Publish(v.id, event, payload); err != nil {
		v.log.Warn().Err(err).Str("event", event).Msg("publish view event")
	}
}

func (v *sessionView) OnSetupStart() { v.publish(evSetupStart, map[string]bool{"loading": true}) }

func (v *sessionView) OnSetupEnd() { v.publish(evSetupEnd, map[string]bool{"loading": false}) }

func (v *sessionView) RenderBoard(b *board.Board) { v.publish(evBoard, b.Snapshot()) }

func (v *sessionView) RenderReveal(catIdx, clueIdx int, text string, newlyRevealed bool) {
	showing := board.Answer
	if newlyRevealed {
		showing = board.Question
	}
	v.publish(evReveal, revealRes{
		Category:      catIdx,
		Clue:          clueIdx,
		Text:          text,
		Showing:       showing,
		NewlyRevealed: newlyRevealed,
	})
}

func (v *sessionView) NotifyFailure(msg string) {
	v.publish(evFailure, map[string]string{"message": msg})
}
