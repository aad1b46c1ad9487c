package handler

import (
	"net/http"

	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/web/middleware"
	"github.com/quailholm/wolfgame-go/internal/web/views"
)

// HomeHandler handles the home page
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	flash := middleware.GetFlash(r.Context())

	var activeRoom model.RoomCode
	if sess := middleware.GetSession(r.Context()); sess != nil {
		activeRoom = sess.RoomCode
	}
	prefillCode := r.URL.Query().Get("code")

	page := views.Layout("Wolfgame", flash, views.HomePage(activeRoom, prefillCode))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
