package setup

import (
	"context"
	"fmt"
)

// Event is an inbound trigger from the view layer.
type Event interface{ event() }

// StartRequested asks for a new board (initial start or restart).
type StartRequested struct{}

// ClueActivated reports a click on the cell at (Category, Clue).
type ClueActivated struct {
	Category int
	Clue     int
}

func (StartRequested) event() {}
func (ClueActivated) event()  {}

// Dispatch routes ev to Start or Activate.
func (g *Game) Dispatch(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case StartRequested:
		return g.Start(ctx)
	case ClueActivated:
		g.Activate(e.Category, e.Clue)
		return nil
	default:
		return fmt.Errorf("setup: unknown event %T", ev)
	}
}
