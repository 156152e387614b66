// apps/go-server/internal/board/board.go
//
// Reveal state machine for a trivia board.
// Responsibilities:
//   - Apply activations to a single clue: hidden → question → answer.
//   - Resolve (category, clue) coordinates against a Board.
//   - Produce read-only snapshots for rendering.
//
// Notes:
//   - Answer is terminal; activating an answered clue is a no-op.
//   - Activating one clue never touches any other clue.

package board

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutOfRange is returned when a coordinate does not exist on the board.
var ErrOutOfRange = errors.New("coordinate out of range")

// Reveal describes the outcome of one activation.
type Reveal struct {
	Category      int         `json:"category"`
	Clue          int         `json:"clue"`
	Text          string      `json:"text,omitempty"`
	Showing       RevealState `json:"showing"`
	NewlyRevealed bool        `json:"newlyRevealed"`
	Changed       bool        `json:"-"`
}

// New assembles a Board from already-built categories.
func New(id string, cats []*Category) *Board {
	return &Board{
		ID:         id,
		Categories: cats,
		CreatedAt:  time.Now().UTC(),
	}
}

// Dimensions reports (categories, clues per category).
// Clues per category is taken from the first column; setup guarantees all match.
func (b *Board) Dimensions() (int, int) {
	if len(b.Categories) == 0 {
		return 0, 0
	}
	return len(b.Categories), len(b.Categories[0].Clues)
}

// Activate advances the clue at (catIdx, clueIdx) by one step.
//
// Transitions:
//   - Hidden   → Question: returns the question, NewlyRevealed = true.
//   - Question → Answer:   returns the answer.
//   - Answer:              no change, empty text, Changed = false.
func (b *Board) Activate(catIdx, clueIdx int) (Reveal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if catIdx < 0 || catIdx >= len(b.Categories) {
		return Reveal{}, fmt.Errorf("%w: category %d of %d", ErrOutOfRange, catIdx, len(b.Categories))
	}
	cat := b.Categories[catIdx]
	if clueIdx < 0 || clueIdx >= len(cat.Clues) {
		return Reveal{}, fmt.Errorf("%w: clue %d of %d", ErrOutOfRange, clueIdx, len(cat.Clues))
	}

	c := cat.Clues[clueIdx]
	text, newly, changed := c.activate()
	return Reveal{
		Category:      catIdx,
		Clue:          clueIdx,
		Text:          text,
		Showing:       c.Showing,
		NewlyRevealed: newly,
		Changed:       changed,
	}, nil
}

// activate applies one step of the reveal machine to c.
func (c *Clue) activate() (text string, newly bool, changed bool) {
	switch c.Showing {
	case Hidden:
		c.Showing = Question
		return c.Question, true, true
	case Question:
		c.Showing = Answer
		return c.Answer, false, true
	default:
		return "", false, false
	}
}

// visibleText is what a viewer should currently see for c.
func (c *Clue) visibleText() string {
	switch c.Showing {
	case Question:
		return c.Question
	case Answer:
		return c.Answer
	}
	return ""
}

// Cell is one rendered square of a snapshot.
type Cell struct {
	Showing RevealState `json:"showing"`
	Text    string      `json:"text,omitempty"`
}

// Column is one rendered category of a snapshot.
type Column struct {
	Title string `json:"title"`
	Cells []Cell `json:"cells"`
}

// Snapshot is a copy of the board safe to hand to a renderer.
// Hidden cells carry no text, so answers never leak to the client early.
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Columns   []Column  `json:"columns"`
}

// Snapshot copies the current visible state of the board.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	cols := make([]Column, len(b.Categories))
	for i, cat := range b.Categories {
		cells := make([]Cell, len(cat.Clues))
		for j, c := range cat.Clues {
			cells[j] = Cell{Showing: c.Showing, Text: c.visibleText()}
		}
		cols[i] = Column{Title: cat.Title, Cells: cells}
	}
	return Snapshot{ID: b.ID, CreatedAt: b.CreatedAt, Columns: cols}
}

// CategoryIDs lists the source ids of the board's categories in column order.
func (b *Board) CategoryIDs() []int {
	ids := make([]int, len(b.Categories))
	for i, c := range b.Categories {
		ids[i] = c.ID
	}
	return ids
}
