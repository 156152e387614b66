package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/config"
)

func TestRunReturnsSetupErrors(t *testing.T) {
	cfg := &config.Config{
		Port:   "0",
		Trivia: config.Trivia{Source: config.SourceLocal, DataFile: filepath.Join(t.TempDir(), "missing.json")},
		Board:  config.Board{Categories: 6, CluesPerCategory: 5},
		DB:     config.DB{Path: filepath.Join(t.TempDir(), "history.db")},
	}
	if err := run(cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected an error for a missing clue file")
	}
}

func TestOpenHistoryDisabled(t *testing.T) {
	hist, db, err := openHistory("", zerolog.Nop())
	if hist != nil || db != nil || err != nil {
		t.Fatalf("expected history disabled, got %v %v %v", hist, db, err)
	}
}

func TestOpenHistory(t *testing.T) {
	hist, db, err := openHistory(filepath.Join(t.TempDir(), "h.db"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if hist == nil {
		t.Fatal("expected a history store")
	}
}

func TestSweepInterval(t *testing.T) {
	if got := sweepInterval(time.Minute); got != time.Minute {
		t.Fatalf("short ttl: got %v", got)
	}
	if got := sweepInterval(6 * time.Hour); got != 90*time.Minute {
		t.Fatalf("long ttl: got %v", got)
	}
}
