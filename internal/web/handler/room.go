package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/services/auth"
	"github.com/quailholm/wolfgame-go/internal/services/game"
	"github.com/quailholm/wolfgame-go/internal/services/room"
	"github.com/quailholm/wolfgame-go/internal/web/middleware"
	"github.com/quailholm/wolfgame-go/internal/web/sse"
	"github.com/quailholm/wolfgame-go/internal/web/views"
)

// RoomHandler handles room pages and seat actions
type RoomHandler struct {
	registry       *room.Registry
	gameController *game.Controller
	authService    *auth.Service
	hubManager     *sse.HubManager
	publicBaseURL  string
}

// NewRoomHandler creates a new RoomHandler. publicBaseURL is the address
// printed into QR codes; empty means derive it from each request.
func NewRoomHandler(registry *room.Registry, gameController *game.Controller, authService *auth.Service, hubManager *sse.HubManager, publicBaseURL string) *RoomHandler {
	return &RoomHandler{
		registry:       registry,
		gameController: gameController,
		authService:    authService,
		hubManager:     hubManager,
		publicBaseURL:  strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Create handles room creation from the home page form
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	moderatorName := strings.TrimSpace(r.FormValue("moderator_name"))
	if moderatorName == "" {
		middleware.SetFlash(w, "error", "A moderator name is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	passcode := r.FormValue("passcode")
	autonomous := r.FormValue("autonomous") == "1"

	seat, err := h.registry.CreateRoom(moderatorName, passcode, autonomous)
	if err != nil {
		middleware.SetFlash(w, "error", "Could not open a room: "+err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess := h.authService.CreateSession(seat.RoomCode, seat.PlayerID, seat.SecretToken)
	middleware.SetSessionCookie(w, sess.Token)

	middleware.SetFlash(w, "success", "Room opened. Share the code or the QR to fill the village.")
	http.Redirect(w, r, "/rooms/"+string(seat.RoomCode), http.StatusSeeOther)
}

// JoinByForm handles joining a room via the home page form
func (h *RoomHandler) JoinByForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	code := strings.ToUpper(strings.TrimSpace(r.FormValue("code")))
	if code == "" {
		middleware.SetFlash(w, "error", "Room code is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	if displayName == "" {
		middleware.SetFlash(w, "error", "A display name is required")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	passcode := r.FormValue("passcode")

	// A browser holding a seat in this room rejoins it instead of
	// taking a second one
	secretToken := ""
	if sess := middleware.GetSession(r.Context()); sess != nil && sess.RoomCode == model.RoomCode(code) {
		secretToken = sess.PlayerToken
	}

	seat, err := h.registry.JoinRoom(model.RoomCode(code), displayName, passcode, secretToken)
	if err != nil {
		middleware.SetFlash(w, "error", "Could not join: "+err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess := h.authService.CreateSession(seat.RoomCode, seat.PlayerID, seat.SecretToken)
	middleware.SetSessionCookie(w, sess.Token)

	if seat.Reconnected {
		middleware.SetFlash(w, "success", "Welcome back.")
	} else {
		middleware.SetFlash(w, "success", "You took a seat.")
	}
	http.Redirect(w, r, "/rooms/"+string(seat.RoomCode), http.StatusSeeOther)
}

// View renders the room page for the seated player
func (h *RoomHandler) View(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	view, err := h.gameController.GetPlayerView(code, sess.PlayerID)
	if err != nil {
		middleware.ClearSessionCookie(w)
		middleware.SetFlash(w, "error", "That room is gone")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	flash := middleware.GetFlash(r.Context())
	page := views.Layout("Room "+string(code), flash, views.RoomPage(view))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Leave handles giving up a seat
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.registry.Disconnect(code, sess.PlayerID); err != nil {
		middleware.SetFlash(w, "error", "Could not leave: "+err.Error())
		http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
		return
	}

	h.authService.InvalidateSession(sess.Token)
	middleware.ClearSessionCookie(w)
	middleware.SetFlash(w, "info", "You left the room")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Close handles the moderator tearing the room down
func (h *RoomHandler) Close(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.registry.CloseRoom(code, sess.PlayerID); err != nil {
		middleware.SetFlash(w, "error", "Could not close the room: "+err.Error())
		http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
		return
	}

	h.authService.InvalidateRoom(code)
	middleware.ClearSessionCookie(w)
	middleware.SetFlash(w, "info", "Room closed")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// AddBot seats a scripted player
func (h *RoomHandler) AddBot(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.FormValue("display_name"))
	if name == "" {
		name = nextBotName(h.registry, code)
	}

	if _, err := h.registry.AddBot(code, sess.PlayerID, name); err != nil {
		middleware.SetFlash(w, "error", "Could not add a bot: "+err.Error())
	}
	http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
}

// Events handles the SSE event stream for a room
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	hub := h.hubManager.GetOrCreateHub(code)
	sse.ServeSSE(w, r, hub, sess.PlayerID)
}

// QR serves a PNG linking to the join form with this room's code filled in
func (h *RoomHandler) QR(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	base := h.publicBaseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	joinURL := fmt.Sprintf("%s/?code=%s", base, code)

	png, err := qrcode.Encode(joinURL, qrcode.Medium, 164)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=3600")
	_, _ = w.Write(png)
}

// nextBotName numbers bots by how many are already seated
func nextBotName(registry *room.Registry, code model.RoomCode) string {
	botCount := 0
	_ = registry.Read(code, func(rm *model.Room) error {
		for _, p := range rm.Players {
			if p.IsBot {
				botCount++
			}
		}
		return nil
	})
	return fmt.Sprintf("Bot %d", botCount+1)
}
