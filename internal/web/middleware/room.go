package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// RoomScope returns middleware that pins a request to the room its session
// belongs to. Sessions are minted per seat, so a token for one room proves
// nothing about another. Requires auth middleware to be applied first.
func RoomScope() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			code := model.RoomCode(mux.Vars(r)["code"])

			if sess == nil || sess.RoomCode != code {
				SetFlash(w, "error", "You are not seated in that room")
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
