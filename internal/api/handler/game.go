package handler

import (
	"encoding/json"
	"net/http"

	"github.com/quailholm/wolfgame-go/internal/api/request"
	"github.com/quailholm/wolfgame-go/internal/api/response"
	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/services/game"
)

// GameHandler handles in-game endpoints
type GameHandler struct {
	gameController *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// Start handles POST /api/v1/rooms/{code}/game
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	config := make(model.RoleConfig, len(req.Roles))
	for role, count := range req.Roles {
		config[model.Role(role)] = count
	}

	if err := h.gameController.StartGame(r.Context(), code, sess.PlayerID, config); err != nil {
		WriteError(w, err)
		return
	}

	h.writeView(w, r, http.StatusCreated)
}

// Advance handles POST /api/v1/rooms/{code}/game/advance
func (h *GameHandler) Advance(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.gameController.AdvancePhase(r.Context(), code, sess.PlayerID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeView(w, r, http.StatusOK)
}

// End handles DELETE /api/v1/rooms/{code}/game
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.gameController.EndGame(r.Context(), code, sess.PlayerID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeView(w, r, http.StatusOK)
}

// Reset handles POST /api/v1/rooms/{code}/game/reset
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.gameController.ResetGame(r.Context(), code, sess.PlayerID); err != nil {
		WriteError(w, err)
		return
	}

	h.writeView(w, r, http.StatusOK)
}

// Action handles POST /api/v1/rooms/{code}/game/action
func (h *GameHandler) Action(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Ability == "" {
		WriteError(w, NewInvalidRequestError("ability is required"))
		return
	}

	ability := model.Ability(req.Ability)
	target := model.PlayerID(req.TargetID)
	if err := h.gameController.SubmitAction(r.Context(), code, sess.PlayerID, ability, target); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ActionReceipt{
		Ability:  req.Ability,
		TargetID: req.TargetID,
		Accepted: true,
	})
}

// Vote handles POST /api/v1/rooms/{code}/game/vote
func (h *GameHandler) Vote(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	tally, err := h.gameController.SubmitVote(r.Context(), code, sess.PlayerID, model.PlayerID(req.TargetID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VoteTallyFromModel(tally))
}

// Verdict handles POST /api/v1/rooms/{code}/game/verdict
func (h *GameHandler) Verdict(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.VerdictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.gameController.SubmitVerdict(r.Context(), code, sess.PlayerID, model.Verdict(req.Verdict)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Ready handles POST /api/v1/rooms/{code}/game/ready
func (h *GameHandler) Ready(w http.ResponseWriter, r *http.Request) {
	sess, code, err := roomSession(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.gameController.SignalReady(r.Context(), code, sess.PlayerID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// writeView responds with the caller's current view of the room. Mutating
// endpoints use it so clients see the state their call produced.
func (h *GameHandler) writeView(w http.ResponseWriter, r *http.Request, status int) {
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

	response.JSON(w, status, response.RoomFromView(view))
}
