package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/clues"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/config"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/httpserver"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/jservice"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/logger"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/setup"
	"github.com/robalobadob/jeopardy/apps/go-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	lg := logger.New(cfg)

	if err := run(cfg, lg); err != nil {
		lg.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
	lg.Info().Msg("server stopped")
}

// run owns every resource that needs closing, so deferred cleanup runs before main exits.
func run(cfg *config.Config, lg zerolog.Logger) error {
	src, err := newSource(cfg, lg)
	if err != nil {
		return fmt.Errorf("trivia source: %w", err)
	}

	hist, db, err := openHistory(cfg.DB.Path, lg)
	if err != nil {
		return fmt.Errorf("history database: %w", err)
	}
	if db != nil {
		defer db.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, src, hist, httpserver.Options{
		Categories:       cfg.Board.Categories,
		CluesPerCategory: cfg.Board.CluesPerCategory,
		FetchLimit:       cfg.Trivia.FetchLimit,
		DailySalt:        cfg.Daily.Salt,
		JWTSecret:        cfg.Session.JWTSecret,
		TokenTTL:         cfg.Session.TTL,
		AdminKeyHash:     cfg.Admin.KeyHash,
		ClientOrigin:     cfg.ClientOrigin,
		SecureCookies:    cfg.IsProduction(),
	}, lg)

	go store.RunSweeper(ctx, mem, cfg.Session.TTL, sweepInterval(cfg.Session.TTL), srv.EvictSessions)

	lg.Info().
		Str("port", cfg.Port).
		Str("source", cfg.Trivia.Source).
		Int("categories", cfg.Board.Categories).
		Int("clues", cfg.Board.CluesPerCategory).
		Msg("starting go-server")
	return srv.Start(ctx, ":"+cfg.Port)
}

// newSource picks the remote trivia API or the local clue library.
func newSource(cfg *config.Config, lg zerolog.Logger) (setup.Source, error) {
	if cfg.Trivia.Source == config.SourceLocal {
		lib, err := clues.Load(cfg.Trivia.DataFile)
		if err != nil {
			return nil, err
		}
		cats, n := lib.Stats()
		lg.Info().Int("categories", cats).Int("clues", n).Str("file", cfg.Trivia.DataFile).Msg("using local clue library")
		return lib, nil
	}
	lg.Info().Str("baseUrl", cfg.Trivia.BaseURL).Msg("using remote trivia API")
	return jservice.New(cfg.Trivia.BaseURL,
		jservice.WithTimeout(cfg.Trivia.Timeout),
		jservice.WithCatalogCount(cfg.Trivia.CatalogCount),
		jservice.WithLogger(lg.With().Str("component", "jservice").Logger()),
	), nil
}

// sweepInterval checks a few times per TTL, but never more than once a minute.
func sweepInterval(ttl time.Duration) time.Duration {
	if d := ttl / 4; d > time.Minute {
		return d
	}
	return time.Minute
}
