package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/quailholm/wolfgame-go/internal/api/ws"
	"github.com/quailholm/wolfgame-go/internal/dependencies/clock"
	"github.com/quailholm/wolfgame-go/internal/dependencies/random"
	"github.com/quailholm/wolfgame-go/internal/dispatch"
	"github.com/quailholm/wolfgame-go/internal/services/auth"
	"github.com/quailholm/wolfgame-go/internal/services/bot"
	"github.com/quailholm/wolfgame-go/internal/services/game"
	"github.com/quailholm/wolfgame-go/internal/services/room"
	"github.com/quailholm/wolfgame-go/internal/services/scheduler"
	"github.com/quailholm/wolfgame-go/internal/storage"
	"github.com/quailholm/wolfgame-go/internal/storage/memory"
	redisstorage "github.com/quailholm/wolfgame-go/internal/storage/redis"
	"github.com/quailholm/wolfgame-go/internal/storage/sqlite"
	"github.com/quailholm/wolfgame-go/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Event plumbing. Every transport sink hangs off the fanout.
	Fanout *dispatch.Fanout

	// Services
	Registry       *room.Registry
	GameController *game.Controller
	AuthService    *auth.Service
	Scheduler      *scheduler.Scheduler
	BotService     *bot.Service

	// Transports
	Hub        *ws.Hub
	HubManager *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// SchedulerConfig holds per-phase timer durations (optional)
	// If nil, defaults to scheduler.DefaultConfig()
	SchedulerConfig *scheduler.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file path (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	schedCfg := scheduler.DefaultConfig()
	if cfg.SchedulerConfig != nil {
		schedCfg = *cfg.SchedulerConfig
	}

	return newWithDependencies(store, clk, rnd, authCfg, schedCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	schedCfg scheduler.Config,
	logger *slog.Logger,
) *App {
	fanout := dispatch.NewFanout()

	registry := room.New(clk, rnd, fanout, logger)
	gameController := game.NewController(registry, store, fanout, clk, rnd, logger)
	authService := auth.New(clk, authCfg)

	hub := ws.NewHub(logger)
	hubManager := sse.NewHubManager(logger)
	sched := scheduler.New(gameController, registry, schedCfg, clk, logger)
	botService := bot.NewService(registry, gameController, bot.NewRandomStrategy(rnd), logger)

	// Delivery sinks first so clients see an event before any reaction
	// to it lands.
	fanout.Register(hub)
	fanout.Register(sse.NewBroadcaster(hubManager, logger))
	fanout.Register(sched)
	fanout.Register(botService)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Fanout:         fanout,
		Registry:       registry,
		GameController: gameController,
		AuthService:    authService,
		Scheduler:      sched,
		BotService:     botService,
		Hub:            hub,
		HubManager:     hubManager,
	}
}

// Close releases everything the app holds: pending timers, open
// connections, and the storage backend when it has a Close.
func (a *App) Close() error {
	a.Scheduler.Stop()
	a.Hub.Shutdown()
	a.HubManager.CloseAll()

	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
