// apps/go-server/internal/board/types.go
//
// Core type definitions for the trivia board.
// Defines:
//   - RevealState: how much of a clue is showing (hidden/question/answer).
//   - Clue, Category, Board: the in-memory model of one game session.
//   - CatalogEntry, RemoteCategory, RemoteClue: the shapes the selector
//     consumes from a trivia source.

package board

import (
	"errors"
	"sync"
	"time"
)

// RevealState tracks how far a single clue has been revealed.
// The zero value is Hidden, so a freshly built Clue starts covered.
type RevealState int

const (
	Hidden   RevealState = iota // nothing shown yet
	Question                    // question text is showing
	Answer                      // answer text is showing (terminal)
)

// String returns the lowercase wire name of the state.
func (s RevealState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Question:
		return "question"
	case Answer:
		return "answer"
	}
	return "unknown"
}

// MarshalText lets RevealState encode as its name in JSON.
func (s RevealState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a wire name back into a RevealState.
func (s *RevealState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hidden":
		*s = Hidden
	case "question":
		*s = Question
	case "answer":
		*s = Answer
	default:
		return errors.New("board: unknown reveal state " + string(b))
	}
	return nil
}

// Clue is a single question/answer pair plus its reveal state.
type Clue struct {
	Question string
	Answer   string
	Showing  RevealState
}

// Category is a titled column of clues. Clue order maps to row position.
type Category struct {
	ID    int    // identifier of the source category
	Title string // copied verbatim from the source
	Clues []*Clue
}

// Board holds the categories of one game. Category order maps to column position.
// A Board is built once per setup run and never merged with a previous one.
type Board struct {
	ID         string
	Categories []*Category
	CreatedAt  time.Time

	mu sync.Mutex // guards every Clue.Showing on this board
}

// CatalogEntry describes one category offered by a trivia source.
type CatalogEntry struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	CluesCount int    `json:"clues_count"`
}

// RemoteClue is a clue as delivered by a trivia source.
type RemoteClue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// RemoteCategory is a full category record as delivered by a trivia source.
type RemoteCategory struct {
	ID    int          `json:"id"`
	Title string       `json:"title"`
	Clues []RemoteClue `json:"clues"`
}
