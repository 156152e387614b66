// apps/go-server/internal/clues/library.go
//
// Local clue library served through the same contract as the remote API.
//
// Responsibilities:
//   - Load a clue dataset from a JSON file or fall back to the embedded default.
//   - Answer ListCategories / GetCategory like the remote service does.
//
// Loading behavior:
//   1. If a path is given (TRIVIA_DATA_FILE), read that file.
//   2. Otherwise use assets/clues.json, parsed once (sync.Once).
//
// Dataset format:
//   {"categories": [{"id": 1, "title": "...", "clues": [{"question": "...", "answer": "..."}]}]}
//
// Constraints:
//   • Category ids must be positive and unique.
//   • Clues with a blank question or answer are dropped on load.

package clues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/jeopardy/apps/go-server/assets"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/board"
)

var ErrCategoryNotFound = errors.New("category not found")

// Library is an immutable in-memory set of categories.
type Library struct {
	order []int                          // ids in file order
	byID  map[int]*board.RemoteCategory
}

var (
	embeddedOnce sync.Once
	embedded     *Library
	embeddedErr  error
)

// Load returns a Library read from path, or the embedded default when path is empty.
func Load(path string) (*Library, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clue file %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the embedded library, parsing it on first use.
func Default() (*Library, error) {
	embeddedOnce.Do(func() {
		data, err := assets.Clues()
		if err != nil {
			embeddedErr = err
			return
		}
		embedded, embeddedErr = Parse(data)
	})
	return embedded, embeddedErr
}

// Parse builds a Library from JSON data.
func Parse(data []byte) (*Library, error) {
	var doc struct {
		Categories []board.RemoteCategory `json:"categories"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse clue library: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, errors.New("clues: library has no categories")
	}

	lib := &Library{byID: make(map[int]*board.RemoteCategory, len(doc.Categories))}
	for i := range doc.Categories {
		c := doc.Categories[i]
		if c.ID <= 0 {
			return nil, fmt.Errorf("clues: category %q has invalid id %d", c.Title, c.ID)
		}
		if _, dup := lib.byID[c.ID]; dup {
			return nil, fmt.Errorf("clues: duplicate category id %d", c.ID)
		}
		kept := c.Clues[:0]
		for _, cl := range c.Clues {
			if strings.TrimSpace(cl.Question) != "" && strings.TrimSpace(cl.Answer) != "" {
				kept = append(kept, cl)
			}
		}
		c.Clues = kept
		lib.byID[c.ID] = &c
		lib.order = append(lib.order, c.ID)
	}
	return lib, nil
}

// ListCategories returns every category with its clue count.
func (l *Library) ListCategories(ctx context.Context) ([]board.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]board.CatalogEntry, 0, len(l.order))
	for _, id := range l.order {
		c := l.byID[id]
		out = append(out, board.CatalogEntry{ID: c.ID, Title: c.Title, CluesCount: len(c.Clues)})
	}
	return out, nil
}

// GetCategory returns a copy of the category with the given id.
func (l *Library) GetCategory(ctx context.Context, id int) (*board.RemoteCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, ok := l.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
	}
	cp := *c
	cp.Clues = append([]board.RemoteClue(nil), c.Clues...)
	return &cp, nil
}

// Stats returns (categories, total clues).
func (l *Library) Stats() (categories int, clueCount int) {
	for _, c := range l.byID {
		clueCount += len(c.Clues)
	}
	return len(l.byID), clueCount
}
