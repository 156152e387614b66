package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("TRIVIA_SOURCE", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "5175" || cfg.Board.Categories != 6 || cfg.Board.CluesPerCategory != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Trivia.Timeout != 8*time.Second || cfg.Session.TTL != 6*time.Hour {
		t.Fatalf("durations not decoded: %v %v", cfg.Trivia.Timeout, cfg.Session.TTL)
	}
	if cfg.Trivia.Source != SourceRemote {
		t.Fatalf("expected remote source, got %q", cfg.Trivia.Source)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TRIVIA_SOURCE", "local")
	t.Setenv("BOARD_CATEGORIES", "4")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || cfg.Trivia.Source != SourceLocal || cfg.Board.Categories != 4 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Session.JWTSecret != "s3cret" {
		t.Fatal("JWT secret not loaded from env")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Trivia:  Trivia{Source: SourceRemote},
		Board:   Board{Categories: 6, CluesPerCategory: 5},
		Session: Session{TTL: time.Hour},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := []func(c *Config){
		func(c *Config) { c.Board.Categories = 0 },
		func(c *Config) { c.Trivia.Source = "ftp" },
		func(c *Config) { c.Session.TTL = 0 },
		func(c *Config) { c.Env = "production" },
	}
	for i, mutate := range bad {
		c := base
		mutate(&c)
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("case %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
}
