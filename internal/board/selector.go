// apps/go-server/internal/board/selector.go
//
// Random selection of categories and clues for a new board.
//
// Both selections use a partial Fisher–Yates shuffle: swap a random
// remaining element into position i for the first k positions and take
// that prefix. Every k-subset is equally likely and the loop runs exactly
// k times, however close k is to the pool size.

package board

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrInsufficientCategories = errors.New("not enough eligible categories")
	ErrInsufficientClues      = errors.New("not enough clues in category")
	ErrInvalidDimensions      = errors.New("board dimensions must be positive")
)

// Shared generator for callers that pass a nil *rand.Rand.
var (
	defaultMu  sync.Mutex
	defaultRng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// ChooseCategoryIDs picks c distinct category ids from catalog, considering
// only entries that carry at least q clues. Duplicate ids in the catalog
// count once. The returned order is the sampled order.
func ChooseCategoryIDs(rng *rand.Rand, catalog []CatalogEntry, c, q int) ([]int, error) {
	if c <= 0 || q <= 0 {
		return nil, ErrInvalidDimensions
	}

	seen := make(map[int]struct{}, len(catalog))
	eligible := make([]int, 0, len(catalog))
	for _, e := range catalog {
		if e.CluesCount < q {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		eligible = append(eligible, e.ID)
	}
	if len(eligible) < c {
		return nil, fmt.Errorf("%w: %d eligible with >= %d clues, need %d",
			ErrInsufficientCategories, len(eligible), q, c)
	}

	picked := make([]int, c)
	for i, idx := range pickIndices(rng, len(eligible), c) {
		picked[i] = eligible[idx]
	}
	return picked, nil
}

// BuildCategory selects q distinct clues from rc and returns a Category
// with every clue Hidden. The title is copied verbatim.
func BuildCategory(rng *rand.Rand, rc RemoteCategory, q int) (*Category, error) {
	if q <= 0 {
		return nil, ErrInvalidDimensions
	}
	if len(rc.Clues) < q {
		return nil, fmt.Errorf("%w: category %d %q has %d, need %d",
			ErrInsufficientClues, rc.ID, rc.Title, len(rc.Clues), q)
	}

	clues := make([]*Clue, q)
	for i, idx := range pickIndices(rng, len(rc.Clues), q) {
		src := rc.Clues[idx]
		clues[i] = &Clue{Question: src.Question, Answer: src.Answer, Showing: Hidden}
	}
	return &Category{ID: rc.ID, Title: rc.Title, Clues: clues}, nil
}

// pickIndices returns k distinct indices from [0, n) in random order.
// Callers guarantee 0 < k <= n.
func pickIndices(rng *rand.Rand, n, k int) []int {
	if rng == nil {
		defaultMu.Lock()
		defer defaultMu.Unlock()
		rng = defaultRng
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:k]
}
