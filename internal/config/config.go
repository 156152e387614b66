package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	SourceRemote = "remote" // HTTP trivia API
	SourceLocal  = "local"  // embedded or file-based clue library
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env          string  `mapstructure:"env"`           // local, dev, production
	Port         string  `mapstructure:"port"`          // HTTP listen port
	LogLevel     string  `mapstructure:"log_level"`     // zerolog level name
	ClientOrigin string  `mapstructure:"client_origin"` // allowed CORS origin
	Trivia       Trivia  `mapstructure:"trivia"`
	Board        Board   `mapstructure:"board"`
	DB           DB      `mapstructure:"db"`
	Daily        Daily   `mapstructure:"daily"`
	Session      Session `mapstructure:"session"`
	Admin        Admin   `mapstructure:"admin"`
}

// Trivia configures where categories and clues come from.
type Trivia struct {
	Source       string        `mapstructure:"source"`        // remote | local
	BaseURL      string        `mapstructure:"base_url"`      // remote API root
	CatalogCount int           `mapstructure:"catalog_count"` // categories requested per listing
	Timeout      time.Duration `mapstructure:"timeout"`       // per remote request
	DataFile     string        `mapstructure:"data_file"`     // local library path; empty uses the embedded one
	FetchLimit   int           `mapstructure:"fetch_limit"`   // max concurrent category fetches; 0 = one per category
}

// Board sets the dimensions of every board.
type Board struct {
	Categories       int `mapstructure:"categories"`
	CluesPerCategory int `mapstructure:"clues_per_category"`
}

// DB configures the SQLite setup history. An empty path disables it.
type DB struct {
	Path string `mapstructure:"path"`
}

// Daily configures the board of the day.
type Daily struct {
	Salt string `mapstructure:"salt"`
}

// Session configures board session lifetime and tokens.
type Session struct {
	TTL       time.Duration `mapstructure:"ttl"`
	JWTSecret string        `mapstructure:"-"` // loaded from environment only
}

// Admin protects the /debug endpoints.
type Admin struct {
	KeyHash string `mapstructure:"-"` // bcrypt hash, loaded from environment only
}

// Load reads .env, config/config.yaml (optional) and the environment.
func Load() (*Config, error) {
	// .env is a development convenience; a missing file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("port", "5175")
	v.SetDefault("log_level", "info")
	v.SetDefault("client_origin", "http://localhost:5173")
	v.SetDefault("trivia.source", SourceRemote)
	v.SetDefault("trivia.base_url", "https://rithm-jeopardy.herokuapp.com/api")
	v.SetDefault("trivia.catalog_count", 100)
	v.SetDefault("trivia.timeout", "8s")
	v.SetDefault("trivia.data_file", "")
	v.SetDefault("trivia.fetch_limit", 0)
	v.SetDefault("board.categories", 6)
	v.SetDefault("board.clues_per_category", 5)
	v.SetDefault("db.path", "./data/trivia.db")
	v.SetDefault("daily.salt", "local_dev_salt")
	v.SetDefault("session.ttl", "6h")

	// TRIVIA_BASE_URL → trivia.base_url, etc.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("client_origin", "CLIENT_ORIGIN")
	_ = v.BindEnv("daily.salt", "DAILY_SALT")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("admin_key_hash", "ADMIN_KEY_HASH")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.Session.JWTSecret = v.GetString("jwt_secret")
	cfg.Admin.KeyHash = v.GetString("admin_key_hash")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Load cannot default its way out of.
func (c *Config) Validate() error {
	if c.Board.Categories <= 0 || c.Board.CluesPerCategory <= 0 {
		return fmt.Errorf("%w: board dimensions %dx%d", ErrInvalidConfig, c.Board.Categories, c.Board.CluesPerCategory)
	}
	switch c.Trivia.Source {
	case SourceRemote, SourceLocal:
	default:
		return fmt.Errorf("%w: trivia.source %q", ErrInvalidConfig, c.Trivia.Source)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("%w: session.ttl must be positive", ErrInvalidConfig)
	}
	if c.Env == "production" && c.Session.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is required in production", ErrInvalidConfig)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool { return c.Env == "production" }
