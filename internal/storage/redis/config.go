package redis

import "time"

// Config holds Redis connection and retention settings
type Config struct {
	URL          string
	PoolSize     int
	MinIdleConns int

	// ArchiveTTL bounds how long finished games are retained; zero keeps
	// them forever.
	ArchiveTTL time.Duration
}

// DefaultConfig returns sensible defaults for local development
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379/0",
		PoolSize:     10,
		MinIdleConns: 2,
		ArchiveTTL:   0,
	}
}
