package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/services/game"
	"github.com/quailholm/wolfgame-go/internal/web/middleware"
)

// GameHandler handles in-game actions posted from the room page
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// Start deals roles and opens the first night
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
		return
	}

	config := model.RoleConfig{}
	for field, values := range r.Form {
		role, ok := strings.CutPrefix(field, "role_")
		if !ok || len(values) == 0 {
			continue
		}
		n, err := strconv.Atoi(values[0])
		if err != nil || n < 0 {
			middleware.SetFlash(w, "error", "Role counts must be whole numbers")
			http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
			return
		}
		if n > 0 {
			config[model.Role(role)] = n
		}
	}

	if err := h.gameController.StartGame(r.Context(), code, sess.PlayerID, config); err != nil {
		middleware.SetFlash(w, "error", "Could not start: "+err.Error())
	}
	http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
}

// Advance moves the game to the next phase on the moderator's order
func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.gameController.AdvancePhase(r.Context(), code, sess.PlayerID); err != nil {
		middleware.SetFlash(w, "error", "Could not advance: "+err.Error())
	}
	http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
}

// End aborts the game without a winner
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.gameController.EndGame(r.Context(), code, sess.PlayerID); err != nil {
		middleware.SetFlash(w, "error", "Could not end the game: "+err.Error())
	}
	http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
}

// Reset returns a finished or abandoned game to the lobby
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.gameController.ResetGame(r.Context(), code, sess.PlayerID); err != nil {
		middleware.SetFlash(w, "error", "Could not reset: "+err.Error())
	}
	http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
}

// Action submits a role ability order
func (h *GameHandler) Action(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
		return
	}

	ability := model.Ability(r.FormValue("ability"))
	target := model.PlayerID(r.FormValue("target_id"))

	if err := h.gameController.SubmitAction(r.Context(), code, sess.PlayerID, ability, target); err != nil {
		middleware.SetFlash(w, "error", "The order was refused: "+err.Error())
	} else {
		middleware.SetFlash(w, "success", "Your order is in.")
	}
	http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
}

// Vote casts or changes a day-vote ballot. An empty target is a skip.
func (h *GameHandler) Vote(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
		return
	}

	target := model.PlayerID(r.FormValue("target_id"))

	if _, err := h.gameController.SubmitVote(r.Context(), code, sess.PlayerID, target); err != nil {
		middleware.SetFlash(w, "error", "The ballot was refused: "+err.Error())
	}
	http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
}

// Verdict casts an execute or spare ballot on the accused
func (h *GameHandler) Verdict(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
		return
	}

	verdict := model.Verdict(r.FormValue("verdict"))

	if err := h.gameController.SubmitVerdict(r.Context(), code, sess.PlayerID, verdict); err != nil {
		middleware.SetFlash(w, "error", "The ballot was refused: "+err.Error())
	}
	http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
}

// Ready marks the player done with the day's discussion
func (h *GameHandler) Ready(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if err := h.gameController.SignalReady(r.Context(), code, sess.PlayerID); err != nil {
		middleware.SetFlash(w, "error", "Could not mark you ready: "+err.Error())
	}
	http.Redirect(w, r, "/rooms/"+string(code), http.StatusSeeOther)
}
