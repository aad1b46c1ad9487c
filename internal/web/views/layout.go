// Package views renders the web console's pages and fragments. Components
// are hand-built templ components: each writes escaped HTML and composes
// the way generated code does, so handlers and the SSE renderer share one
// rendering path.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // "success" or "error"
	Message string
}

const pageStyle = `
body { font-family: system-ui, sans-serif; margin: 0; background: #191622; color: #e8e3d8; }
main { max-width: 860px; margin: 0 auto; padding: 1.5rem; }
h1, h2 { font-weight: 600; }
a { color: #d9a545; }
section { background: #221e30; border-radius: 8px; padding: 1rem 1.25rem; margin-bottom: 1rem; }
form.inline { display: inline-block; margin-right: .5rem; }
input, select, button { font: inherit; padding: .35rem .6rem; border-radius: 4px; border: 1px solid #3c3654; background: #2c2740; color: inherit; }
button { cursor: pointer; background: #d9a545; color: #191622; border: none; font-weight: 600; }
button.quiet { background: #3c3654; color: #e8e3d8; }
ul.players { list-style: none; padding: 0; }
ul.players li { padding: .3rem 0; border-bottom: 1px solid #2c2740; }
.dead { opacity: .45; text-decoration: line-through; }
.offline { font-style: italic; }
.badge { font-size: .75rem; border: 1px solid #3c3654; border-radius: 3px; padding: 0 .3rem; margin-left: .4rem; }
.role { color: #d9a545; margin-left: .4rem; }
ol.narrative { padding-left: 1.25rem; }
ol.narrative li { margin: .25rem 0; }
.flash-error { background: #5c2330; padding: .5rem 1rem; border-radius: 6px; }
.flash-success { background: #23503a; padding: .5rem 1rem; border-radius: 6px; }
.phase { text-transform: capitalize; }
table.tally { border-collapse: collapse; }
table.tally td, table.tally th { padding: .2rem .8rem .2rem 0; text-align: left; }
img.qr { background: #fff; padding: .5rem; border-radius: 6px; }
`

// Layout wraps body in the chrome shared by every console page
func Layout(title string, flash *FlashMessage, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%s</title>`+
				`<script src="https://unpkg.com/htmx.org@1.9.12"></script>`+
				`<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>`+
				`<style>%s</style></head><body><main>`,
			templ.EscapeString(title), pageStyle); err != nil {
			return err
		}
		if flash != nil {
			if _, err := fmt.Fprintf(w, `<p class="flash-%s">%s</p>`,
				templ.EscapeString(flash.Type), templ.EscapeString(flash.Message)); err != nil {
				return err
			}
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
