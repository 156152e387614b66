package board

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func catalogOf(counts ...int) []CatalogEntry {
	out := make([]CatalogEntry, len(counts))
	for i, n := range counts {
		out[i] = CatalogEntry{ID: 100 + i, Title: fmt.Sprintf("cat %d", i), CluesCount: n}
	}
	return out
}

func remoteWith(n int) RemoteCategory {
	rc := RemoteCategory{ID: 7, Title: "Potent Potables"}
	for i := 0; i < n; i++ {
		rc.Clues = append(rc.Clues, RemoteClue{
			Question: fmt.Sprintf("q%d", i),
			Answer:   fmt.Sprintf("a%d", i),
		})
	}
	return rc
}

func TestChooseCategoryIDsDistinctAndEligible(t *testing.T) {
	// 10 eligible, 4 too small.
	catalog := catalogOf(5, 9, 2, 5, 6, 1, 8, 5, 5, 3, 7, 5, 4, 12)
	byID := map[int]CatalogEntry{}
	for _, e := range catalog {
		byID[e.ID] = e
	}

	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		ids, err := ChooseCategoryIDs(rng, catalog, 6, 5)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if len(ids) != 6 {
			t.Fatalf("seed %d: expected 6 ids, got %d", seed, len(ids))
		}
		seen := map[int]bool{}
		for _, id := range ids {
			e, ok := byID[id]
			if !ok {
				t.Fatalf("seed %d: id %d not in catalog", seed, id)
			}
			if e.CluesCount < 5 {
				t.Fatalf("seed %d: id %d has only %d clues", seed, id, e.CluesCount)
			}
			if seen[id] {
				t.Fatalf("seed %d: duplicate id %d", seed, id)
			}
			seen[id] = true
		}
	}
}

func TestChooseCategoryIDsInsufficient(t *testing.T) {
	catalog := catalogOf(5, 5, 5, 5, 5, 4, 1)
	_, err := ChooseCategoryIDs(rand.New(rand.NewSource(1)), catalog, 6, 5)
	if !errors.Is(err, ErrInsufficientCategories) {
		t.Fatalf("expected ErrInsufficientCategories, got %v", err)
	}
}

func TestChooseCategoryIDsDuplicateIDsCountOnce(t *testing.T) {
	catalog := []CatalogEntry{
		{ID: 1, CluesCount: 5}, {ID: 1, CluesCount: 5}, {ID: 2, CluesCount: 5},
	}
	if _, err := ChooseCategoryIDs(nil, catalog, 3, 5); !errors.Is(err, ErrInsufficientCategories) {
		t.Fatalf("expected ErrInsufficientCategories, got %v", err)
	}
	ids, err := ChooseCategoryIDs(nil, catalog, 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids[0] == ids[1] {
		t.Fatalf("duplicate id returned: %v", ids)
	}
}

func TestChooseCategoryIDsExactPool(t *testing.T) {
	// Sample size equal to pool size must terminate and return every id.
	catalog := catalogOf(5, 5, 5, 5, 5, 5)
	ids, err := ChooseCategoryIDs(rand.New(rand.NewSource(3)), catalog, 6, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[int]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if len(seen) != 6 {
		t.Fatalf("expected all 6 ids, got %v", ids)
	}
}

func TestChooseCategoryIDsInvalidDimensions(t *testing.T) {
	for _, tc := range []struct{ c, q int }{{0, 5}, {6, 0}, {-1, 5}} {
		if _, err := ChooseCategoryIDs(nil, catalogOf(5), tc.c, tc.q); !errors.Is(err, ErrInvalidDimensions) {
			t.Fatalf("c=%d q=%d: expected ErrInvalidDimensions, got %v", tc.c, tc.q, err)
		}
	}
}

func TestChooseCategoryIDsRoughlyUniform(t *testing.T) {
	catalog := catalogOf(5, 5, 5, 5)
	rng := rand.New(rand.NewSource(42))
	hits := map[int]int{}
	const runs = 8000
	for i := 0; i < runs; i++ {
		ids, err := ChooseCategoryIDs(rng, catalog, 1, 5)
		if err != nil {
			t.Fatal(err)
		}
		hits[ids[0]]++
	}
	// Each id expected ~2000 times.
	for id, n := range hits {
		if n < 1700 || n > 2300 {
			t.Fatalf("id %d drawn %d times out of %d", id, n, runs)
		}
	}
}

func TestBuildCategory(t *testing.T) {
	rc := remoteWith(12)
	pool := map[string]string{}
	for _, c := range rc.Clues {
		pool[c.Question] = c.Answer
	}

	for seed := int64(0); seed < 100; seed++ {
		cat, err := BuildCategory(rand.New(rand.NewSource(seed)), rc, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cat.Title != rc.Title || cat.ID != rc.ID {
			t.Fatalf("title/id not copied: %+v", cat)
		}
		if len(cat.Clues) != 5 {
			t.Fatalf("expected 5 clues, got %d", len(cat.Clues))
		}
		seen := map[string]bool{}
		for _, c := range cat.Clues {
			if c.Showing != Hidden {
				t.Fatalf("clue %q not hidden", c.Question)
			}
			ans, ok := pool[c.Question]
			if !ok || ans != c.Answer {
				t.Fatalf("clue %q/%q not from pool", c.Question, c.Answer)
			}
			if seen[c.Question] {
				t.Fatalf("duplicate clue %q", c.Question)
			}
			seen[c.Question] = true
		}
	}
}

func TestBuildCategoryInsufficientClues(t *testing.T) {
	_, err := BuildCategory(nil, remoteWith(3), 5)
	if !errors.Is(err, ErrInsufficientClues) {
		t.Fatalf("expected ErrInsufficientClues, got %v", err)
	}
}

func TestBuildCategoryWholePool(t *testing.T) {
	cat, err := BuildCategory(nil, remoteWith(5), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Clues) != 5 {
		t.Fatalf("expected 5 clues, got %d", len(cat.Clues))
	}
}
