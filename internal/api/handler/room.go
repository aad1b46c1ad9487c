package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quailholm/wolfgame-go/internal/api/middleware"
	"github.com/quailholm/wolfgame-go/internal/api/request"
	"github.com/quailholm/wolfgame-go/internal/api/response"
	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/services/auth"
	"github.com/quailholm/wolfgame-go/internal/services/game"
	"github.com/quailholm/wolfgame-go/internal/services/room"
)

// RoomHandler handles room lifecycle endpoints
type RoomHandler struct {
	registry       *room.Registry
	gameController *game.Controller
	authService    *auth.Service
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(registry *room.Registry, gameController *game.Controller, authService *auth.Service) *RoomHandler {
	return &RoomHandler{
		registry:       registry,
		gameController: gameController,
		authService:    authService,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ModeratorName == "" {
		WriteError(w, NewInvalidRequestError("moderator_name is required"))
		return
	}

	seat, err := h.registry.CreateRoom(req.ModeratorName, req.Passcode, req.Autonomous)
	if err != nil {
		WriteError(w, err)
		return
	}

	session := h.authService.CreateSession(seat.RoomCode, seat.PlayerID, seat.SecretToken)
	view, err := h.gameController.GetPlayerView(seat.RoomCode, seat.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SeatResponseFromSession(session, false, view))
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.DisplayName == "" && req.SecretToken == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	seat, err := h.registry.JoinRoom(code, req.DisplayName, req.Passcode, req.SecretToken)
	if err != nil {
		WriteError(w, err)
		return
	}

	session := h.authService.CreateSession(seat.RoomCode, seat.PlayerID, seat.SecretToken)
	view, err := h.gameController.GetPlayerView(seat.RoomCode, seat.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if seat.Reconnected {
		status = http.StatusOK
	}
	response.JSON(w, status, response.SeatResponseFromSession(session, seat.Reconnected, view))
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.gameController.GetPlayerView(code, sess.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromView(view))
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.registry.Disconnect(code, sess.PlayerID); err != nil {
		WriteError(w, err)
		return
	}
	h.authService.InvalidateSession(sess.Token)

	response.NoContent(w)
}

// Close handles DELETE /api/v1/rooms/{code}
func (h *RoomHandler) Close(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.registry.CloseRoom(code, sess.PlayerID); err != nil {
		WriteError(w, err)
		return
	}
	h.authService.InvalidateRoom(code)

	response.NoContent(w)
}

// AddBot handles POST /api/v1/rooms/{code}/bots
func (h *RoomHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.AddBotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = request.AddBotRequest{}
	}

	displayName := req.DisplayName
	if displayName == "" {
		botCount := 0
		_ = h.registry.Read(code, func(room *model.Room) error {
			for i := range room.Players {
				if room.Players[i].IsBot {
					botCount++
				}
			}
			return nil
		})
		displayName = fmt.Sprintf("Bot %d", botCount+1)
	}

	if _, err := h.registry.AddBot(code, sess.PlayerID, displayName); err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.gameController.GetPlayerView(code, sess.PlayerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromView(view))
}

// roomSession pulls the authenticated session and checks it belongs to the
// room named in the path. A valid token for some other room is a
// permission problem, not an auth problem.
func roomSession(r *http.Request) (*auth.Session, model.RoomCode, error) {
	sess := middleware.MustGetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])
	if sess.RoomCode != code {
		return nil, "", model.ErrPermissionDenied
	}
	return sess, code, nil
}
