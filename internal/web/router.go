package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quailholm/wolfgame-go/internal/services/auth"
	"github.com/quailholm/wolfgame-go/internal/services/game"
	"github.com/quailholm/wolfgame-go/internal/services/room"
	"github.com/quailholm/wolfgame-go/internal/web/handler"
	"github.com/quailholm/wolfgame-go/internal/web/middleware"
	"github.com/quailholm/wolfgame-go/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	Registry       *room.Registry
	GameController *game.Controller
	HubManager     *sse.HubManager
	PublicBaseURL  string // Address printed into QR codes
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	roomScopeMiddleware := middleware.RoomScope()

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler()
	roomHandler := handler.NewRoomHandler(cfg.Registry, cfg.GameController, cfg.AuthService, hubManager, cfg.PublicBaseURL)
	gameHandler := handler.NewGameHandler(cfg.GameController)

	// Public routes: the home page and the forms that mint a seat
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/rooms", roomHandler.Create).Methods(http.MethodPost)
	public.HandleFunc("/rooms/join", roomHandler.JoinByForm).Methods(http.MethodPost)

	// Room routes require a session for the room in the path
	rooms := r.PathPrefix("/rooms/{code}").Subrouter()
	rooms.Use(flashMiddleware)
	rooms.Use(authMiddleware)
	rooms.Use(roomScopeMiddleware)

	rooms.HandleFunc("", roomHandler.View).Methods(http.MethodGet)
	rooms.HandleFunc("/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/close", roomHandler.Close).Methods(http.MethodPost)
	rooms.HandleFunc("/bots", roomHandler.AddBot).Methods(http.MethodPost)
	rooms.HandleFunc("/events", roomHandler.Events).Methods(http.MethodGet)
	rooms.HandleFunc("/qr.png", roomHandler.QR).Methods(http.MethodGet)

	rooms.HandleFunc("/start", gameHandler.Start).Methods(http.MethodPost)
	rooms.HandleFunc("/advance", gameHandler.Advance).Methods(http.MethodPost)
	rooms.HandleFunc("/end", gameHandler.End).Methods(http.MethodPost)
	rooms.HandleFunc("/reset", gameHandler.Reset).Methods(http.MethodPost)
	rooms.HandleFunc("/action", gameHandler.Action).Methods(http.MethodPost)
	rooms.HandleFunc("/vote", gameHandler.Vote).Methods(http.MethodPost)
	rooms.HandleFunc("/verdict", gameHandler.Verdict).Methods(http.MethodPost)
	rooms.HandleFunc("/ready", gameHandler.Ready).Methods(http.MethodPost)

	return r
}
