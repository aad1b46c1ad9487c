package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// HomePage is the landing page with the create and join forms. activeRoom
// links back to a room the browser already holds a seat in; prefillCode
// seeds the join form, for links minted from a room's QR code.
func HomePage(activeRoom model.RoomCode, prefillCode string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Wolfgame</h1>`+
			`<p>Run a village. The server keeps the secrets.</p>`); err != nil {
			return err
		}

		if activeRoom != "" {
			if _, err := fmt.Fprintf(w,
				`<p><a href="/rooms/%s">Return to room %s</a></p>`,
				templ.EscapeString(string(activeRoom)), templ.EscapeString(string(activeRoom))); err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w,
			`<section><h2>Open a room</h2>`+
				`<form method="post" action="/rooms">`+
				`<input name="moderator_name" placeholder="Your name" required> `+
				`<input name="passcode" placeholder="Passcode (optional)"> `+
				`<label><input type="checkbox" name="autonomous" value="1"> timed phases</label> `+
				`<button type="submit">Create</button>`+
				`</form></section>`+
				`<section><h2>Join a room</h2>`+
				`<form method="post" action="/rooms/join">`+
				`<input name="code" placeholder="Room code" value="%s" required> `+
				`<input name="display_name" placeholder="Your name" required> `+
				`<input name="passcode" placeholder="Passcode"> `+
				`<button type="submit">Join</button>`+
				`</form></section>`, templ.EscapeString(prefillCode))
		return err
	})
}
