// Package config reads the server process configuration from the
// environment. A .env file in the working directory is folded in first
// when present, so local development does not need exported variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server binary needs to start
type Config struct {
	Host string `env:"WOLFGAME_HOST" envDefault:""`
	Port int    `env:"WOLFGAME_PORT" envDefault:"8080"`

	// PublicBaseURL is the externally reachable base URL baked into invite
	// QR codes. Empty derives it from the incoming request.
	PublicBaseURL string `env:"WOLFGAME_PUBLIC_BASE_URL"`

	Storage    string `env:"WOLFGAME_STORAGE" envDefault:"memory"`
	RedisURL   string `env:"WOLFGAME_REDIS_URL"`
	SQLitePath string `env:"WOLFGAME_SQLITE_PATH" envDefault:"wolfgame.db"`

	SessionDuration time.Duration `env:"WOLFGAME_SESSION_DURATION" envDefault:"24h"`

	// Phase timers for autonomous rooms
	NightDuration   time.Duration `env:"WOLFGAME_NIGHT_DURATION" envDefault:"90s"`
	DayDuration     time.Duration `env:"WOLFGAME_DAY_DURATION" envDefault:"3m"`
	VoteDuration    time.Duration `env:"WOLFGAME_VOTE_DURATION" envDefault:"60s"`
	DefenseDuration time.Duration `env:"WOLFGAME_DEFENSE_DURATION" envDefault:"30s"`
	VerdictDuration time.Duration `env:"WOLFGAME_VERDICT_DURATION" envDefault:"45s"`
	RevealDuration  time.Duration `env:"WOLFGAME_REVEAL_DURATION" envDefault:"10s"`
	GraceDuration   time.Duration `env:"WOLFGAME_GRACE_DURATION" envDefault:"3s"`

	LogLevel  string `env:"WOLFGAME_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"WOLFGAME_LOG_FORMAT" envDefault:"json"`
}

// Load reads and validates the configuration. A missing .env file is not
// an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage {
	case "memory", "sqlite":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("WOLFGAME_REDIS_URL is required when WOLFGAME_STORAGE=redis")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	return nil
}

// SlogLevel maps the configured level name onto slog's scale. Unknown
// names fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
