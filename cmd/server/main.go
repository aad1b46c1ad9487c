package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quailholm/wolfgame-go/internal/api"
	"github.com/quailholm/wolfgame-go/internal/config"
	"github.com/quailholm/wolfgame-go/internal/factory"
	"github.com/quailholm/wolfgame-go/internal/services/auth"
	"github.com/quailholm/wolfgame-go/internal/services/scheduler"
	redisstorage "github.com/quailholm/wolfgame-go/internal/storage/redis"
	"github.com/quailholm/wolfgame-go/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:      logger,
		StorageType: cfg.Storage,
		SQLitePath:  cfg.SQLitePath,
		AuthConfig:  auth.Config{SessionDuration: cfg.SessionDuration},
		SchedulerConfig: &scheduler.Config{
			Night:        cfg.NightDuration,
			Day:          cfg.DayDuration,
			Vote:         cfg.VoteDuration,
			Defense:      cfg.DefenseDuration,
			FinalVerdict: cfg.VerdictDuration,
			Reveal:       cfg.RevealDuration,
			Grace:        cfg.GraceDuration,
		},
	}
	if cfg.Storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// JSON API and web console share one listener
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		Registry:       app.Registry,
		GameController: app.GameController,
		Storage:        app.Storage,
		Hub:            app.Hub,
	})
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		Registry:       app.Registry,
		GameController: app.GameController,
		HubManager:     app.HubManager,
		PublicBaseURL:  cfg.PublicBaseURL,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(mux, serverConfig, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go janitor(ctx, app, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("close error", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// janitor sweeps expired sessions and empty event hubs while the server
// runs
func janitor(ctx context.Context, app *factory.App, logger *slog.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.AuthService.CleanExpiredSessions()
			app.HubManager.CleanupEmptyHubs()
			logger.Debug("janitor pass complete")
		}
	}
}
