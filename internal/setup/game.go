// apps/go-server/internal/setup/game.go
//
// Orchestrator for one trivia board session.
// Responsibilities:
//   - Run the setup pipeline: list categories → choose ids → fetch each
//     category concurrently → build categories → publish the new Board.
//   - Own the single "current board" and swap it atomically on success.
//   - Route clue activations to the board state machine and forward
//     effective reveals to the view.
//
// Failure model:
//   - Setup is all-or-nothing. Any error leaves the previous board in place,
//     notifies the view once, and is returned to the caller.
//   - OnSetupEnd always fires once OnSetupStart has fired.
//   - A Start while another Start is running is dropped with ErrSetupInProgress.
//   - Out-of-range activations are ignored without notifying anyone.

package setup

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/board"
)

const (
	DefaultCategories       = 6
	DefaultCluesPerCategory = 5
)

var (
	ErrSetupInProgress = errors.New("board setup already in progress")
	ErrMalformed       = errors.New("malformed trivia response")
)

// Source is where categories and clues come from.
type Source interface {
	ListCategories(ctx context.Context) ([]board.CatalogEntry, error)
	GetCategory(ctx context.Context, id int) (*board.RemoteCategory, error)
}

// View receives lifecycle and rendering signals. Implementations must not block for long.
type View interface {
	OnSetupStart()
	OnSetupEnd()
	RenderBoard(b *board.Board)
	RenderReveal(catIdx, clueIdx int, text string, newlyRevealed bool)
	NotifyFailure(msg string)
}

// Attempt summarizes one finished setup run for observers.
type Attempt struct {
	BoardID     string
	CategoryIDs []int
	StartedAt   time.Time
	FinishedAt  time.Time
	Err         error
}

// Game owns the current board of one session.
type Game struct {
	src     Source
	view    View
	log     zerolog.Logger
	cats    int
	clues   int
	limit   int
	newID   func() string
	observe func(Attempt)

	rngMu sync.Mutex
	rng   *rand.Rand

	current atomic.Pointer[board.Board]
	running atomic.Bool
}

// Option configures a Game.
type Option func(*Game)

// WithDimensions sets categories per board and clues per category.
func WithDimensions(categories, clues int) Option {
	return func(g *Game) {
		if categories > 0 {
			g.cats = categories
		}
		if clues > 0 {
			g.clues = clues
		}
	}
}

// WithRand uses rng for every selection; nil keeps the shared generator.
func WithRand(rng *rand.Rand) Option { return func(g *Game) { g.rng = rng } }

// WithSeed is WithRand with a fresh generator seeded by seed.
func WithSeed(seed int64) Option {
	return func(g *Game) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option { return func(g *Game) { g.log = l } }

// WithFetchLimit bounds concurrent category fetches (default: one per category).
func WithFetchLimit(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.limit = n
		}
	}
}

// WithBoardID overrides how new board ids are generated.
func WithBoardID(fn func() string) Option { return func(g *Game) { g.newID = fn } }

// WithObserver registers fn to be called after every setup attempt.
func WithObserver(fn func(Attempt)) Option { return func(g *Game) { g.observe = fn } }

// New constructs a Game. No setup runs until Start is called.
func New(src Source, view View, opts ...Option) *Game {
	if view == nil {
		view = NopView{}
	}
	g := &Game{
		src:   src,
		view:  view,
		log:   zerolog.Nop(),
		cats:  DefaultCategories,
		clues: DefaultCluesPerCategory,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(g)
	}
	if g.limit == 0 {
		g.limit = g.cats
	}
	return g
}

// Board returns the currently published board, or nil before the first successful setup.
func (g *Game) Board() *board.Board { return g.current.Load() }

// Busy reports whether a setup run is in flight.
func (g *Game) Busy() bool { return g.running.Load() }

// Dimensions returns the configured (categories, clues per category).
func (g *Game) Dimensions() (int, int) { return g.cats, g.clues }

// Start runs the setup pipeline and publishes a fresh board on success.
func (g *Game) Start(ctx context.Context) error {
	if !g.running.CompareAndSwap(false, true) {
		g.log.Debug().Msg("setup already running; trigger ignored")
		return ErrSetupInProgress
	}
	defer g.running.Store(false)

	g.view.OnSetupStart()
	defer g.view.OnSetupEnd()

	started := time.Now().UTC()
	b, err := g.build(ctx)

	if g.observe != nil {
		a := Attempt{StartedAt: started, FinishedAt: time.Now().UTC(), Err: err}
		if b != nil {
			a.BoardID, a.CategoryIDs = b.ID, b.CategoryIDs()
		}
		g.observe(a)
	}

	if err != nil {
		g.log.Error().Err(err).Dur("took", time.Since(started)).Msg("board setup failed")
		g.view.NotifyFailure(failureMessage(err))
		return fmt.Errorf("setup board: %w", err)
	}

	g.current.Store(b)
	g.log.Info().
		Str("board", b.ID).
		Ints("categories", b.CategoryIDs()).
		Dur("took", time.Since(started)).
		Msg("board ready")
	g.view.RenderBoard(b)
	return nil
}

// build performs the remote calls and selection; it never touches g.current.
func (g *Game) build(ctx context.Context) (*board.Board, error) {
	catalog, err := g.src.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	g.rngMu.Lock()
	ids, err := board.ChooseCategoryIDs(g.rng, catalog, g.cats, g.clues)
	g.rngMu.Unlock()
	if err != nil {
		return nil, err
	}

	remote := make([]*board.RemoteCategory, len(ids))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.limit)
	for i, id := range ids {
		i, id := i, id
		eg.Go(func() error {
			rc, err := g.src.GetCategory(egCtx, id)
			if err != nil {
				return fmt.Errorf("get category %d: %w", id, err)
			}
			if rc == nil {
				return fmt.Errorf("%w: category %d: empty body", ErrMalformed, id)
			}
			remote[i] = rc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	cats := make([]*board.Category, len(remote))
	for i, rc := range remote {
		cat, err := board.BuildCategory(g.rng, *rc, g.clues)
		if err != nil {
			return nil, err
		}
		cats[i] = cat
	}
	return board.New(g.newID(), cats), nil
}

// Activate advances the clue at (catIdx, clueIdx) on the current board.
// It reports false, and renders nothing, for no-op or out-of-range activations.
func (g *Game) Activate(catIdx, clueIdx int) (board.Reveal, bool) {
	b := g.current.Load()
	if b == nil {
		g.log.Debug().Int("category", catIdx).Int("clue", clueIdx).Msg("activation before any board; ignored")
		return board.Reveal{}, false
	}
	r, err := b.Activate(catIdx, clueIdx)
	if err != nil {
		g.log.Debug().Err(err).Str("board", b.ID).Msg("activation ignored")
		return board.Reveal{}, false
	}
	if !r.Changed {
		return r, false
	}
	g.view.RenderReveal(r.Category, r.Clue, r.Text, r.NewlyRevealed)
	return r, true
}

// failureMessage turns a setup error into the text shown to the user.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, board.ErrInsufficientCategories):
		return "The trivia service does not have enough categories right now. Please try again later."
	case errors.Is(err, board.ErrInsufficientClues):
		return "A category came back without enough clues. Please try again."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Loading the board took too long. Please try again."
	default:
		return "Could not load a new board. Please try again."
	}
}

// NopView discards every signal.
type NopView struct{}

func (NopView) OnSetupStart()                       {}
func (NopView) OnSetupEnd()                         {}
func (NopView) RenderBoard(*board.Board)            {}
func (NopView) RenderReveal(int, int, string, bool) {}
func (NopView) NotifyFailure(string)                {}
