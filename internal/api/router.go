package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quailholm/wolfgame-go/internal/api/handler"
	"github.com/quailholm/wolfgame-go/internal/api/middleware"
	"github.com/quailholm/wolfgame-go/internal/api/ws"
	"github.com/quailholm/wolfgame-go/internal/services/auth"
	"github.com/quailholm/wolfgame-go/internal/services/game"
	"github.com/quailholm/wolfgame-go/internal/services/room"
	"github.com/quailholm/wolfgame-go/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	Registry       *room.Registry
	GameController *game.Controller
	Storage        storage.Storage
	Hub            *ws.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.GameController, cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.GameController)
	archiveHandler := handler.NewArchiveHandler(cfg.Storage)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Entry routes mint their own session, so no auth
	api.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{code}/join", roomHandler.Join).Methods(http.MethodPost)

	// Room routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("/{code}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{code}", roomHandler.Close).Methods(http.MethodDelete)
	rooms.HandleFunc("/{code}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/bots", roomHandler.AddBot).Methods(http.MethodPost)

	// Game routes
	rooms.HandleFunc("/{code}/game", gameHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game", gameHandler.End).Methods(http.MethodDelete)
	rooms.HandleFunc("/{code}/game/advance", gameHandler.Advance).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/reset", gameHandler.Reset).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/action", gameHandler.Action).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/vote", gameHandler.Vote).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/verdict", gameHandler.Verdict).Methods(http.MethodPost)
	rooms.HandleFunc("/{code}/game/ready", gameHandler.Ready).Methods(http.MethodPost)

	// Event feed over WebSocket
	if cfg.Hub != nil {
		rooms.HandleFunc("/{code}/events", cfg.Hub.Handler).Methods(http.MethodGet)
	}

	// Archives of finished games (public history)
	api.HandleFunc("/archives", archiveHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/archives/{id}", archiveHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
