package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// RoomPage is the full room view for one player. The outer container
// re-fetches itself whenever the event feed says the room changed;
// narrative entries and private notices stream in without a refresh.
func RoomPage(view *model.RoomView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		code := templ.EscapeString(string(view.Code))
		if _, err := fmt.Fprintf(w,
			`<div id="room" hx-ext="sse" sse-connect="/rooms/%s/events" `+
				`hx-get="/rooms/%s" hx-trigger="sse:refresh" hx-select="#room" hx-swap="outerHTML">`,
			code, code); err != nil {
			return err
		}

		parts := []templ.Component{
			PhaseBanner(view),
			verdictTallyTable(view),
			PlayerList(view),
			actionPanel(view),
			NarrativeFeed(view.Narrative),
			privateFeed(),
		}
		if viewer := viewerOf(view); viewer != nil && viewer.IsModerator {
			// Controls sit above the narrative for the moderator
			parts = []templ.Component{
				PhaseBanner(view),
				verdictTallyTable(view),
				ModeratorControls(view),
				PlayerList(view),
				actionPanel(view),
				NarrativeFeed(view.Narrative),
				privateFeed(),
			}
		}
		for _, part := range parts {
			if err := part.Render(ctx, w); err != nil {
				return err
			}
		}

		// Sink for feed events whose content swaps out-of-band or runs
		// as a script rather than landing in a visible region
		_, err := io.WriteString(w,
			`<div id="sse-sink" sse-swap="ready-update,room-closed"></div></div>`)
		return err
	})
}

// PhaseBanner shows the room code, the current phase and where the game
// stands
func PhaseBanner(view *model.RoomView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<section id="phase-banner"><h1>Room %s</h1>`,
			templ.EscapeString(string(view.Code))); err != nil {
			return err
		}

		switch {
		case view.Phase == model.PhaseEnded && view.Winner != model.FactionNone:
			_, err := fmt.Fprintf(w, `<p class="phase">Game over. The %s side wins.</p></section>`,
				templ.EscapeString(string(view.Winner)))
			return err
		case view.Phase == model.PhaseLobby:
			_, err := fmt.Fprintf(w, `<p class="phase">Waiting in the lobby. %d seated.</p></section>`,
				len(view.Players))
			return err
		default:
			_, err := fmt.Fprintf(w, `<p class="phase">%s, day %d</p></section>`,
				templ.EscapeString(phaseLabel(view.Phase)), view.DayCount)
			return err
		}
	})
}

// PlayerList renders the seat list as the viewer is allowed to see it
func PlayerList(view *model.RoomView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section id="player-list"><h2>Players</h2><ul class="players">`); err != nil {
			return err
		}
		for _, p := range view.Players {
			classes := []string{}
			if !p.Alive {
				classes = append(classes, "dead")
			}
			if !p.Connected {
				classes = append(classes, "offline")
			}
			if _, err := fmt.Fprintf(w, `<li class="%s">%s`,
				templ.EscapeString(strings.Join(classes, " ")),
				templ.EscapeString(p.DisplayName)); err != nil {
				return err
			}
			if p.ID == view.You {
				if _, err := io.WriteString(w, `<span class="badge">you</span>`); err != nil {
					return err
				}
			}
			if p.IsModerator {
				if _, err := io.WriteString(w, `<span class="badge">moderator</span>`); err != nil {
					return err
				}
			}
			if p.IsBot {
				if _, err := io.WriteString(w, `<span class="badge">bot</span>`); err != nil {
					return err
				}
			}
			if p.Role != model.RoleNone && !p.IsModerator {
				if _, err := fmt.Fprintf(w, `<span class="role">%s</span>`,
					templ.EscapeString(RoleLabel(p.Role))); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</li>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></section>`)
		return err
	})
}

// NarrativeFeed is the story log. New entries stream onto the list over
// SSE without refreshing the page.
func NarrativeFeed(entries []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			`<section id="narrative"><h2>Narrative</h2>`+
				`<ol class="narrative" id="narrative-list" sse-swap="narrative" hx-swap="beforeend">`); err != nil {
			return err
		}
		if err := NarrativeEntries(entries).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</ol></section>`)
		return err
	})
}

// NarrativeEntries renders bare list items, the unit the SSE feed appends
func NarrativeEntries(entries []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, entry := range entries {
			if _, err := fmt.Fprintf(w, `<li>%s</li>`, templ.EscapeString(entry)); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrivateNotice is one line of the viewer's private feed: their role deal,
// a seer or tracker result, or a moderator-only receipt
func PrivateNotice(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p class="role">%s</p>`, templ.EscapeString(text))
		return err
	})
}

// ModeratorControls renders the moderator's room controls for the current
// phase
func ModeratorControls(view *model.RoomView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		code := templ.EscapeString(string(view.Code))
		if _, err := io.WriteString(w, `<section id="controls"><h2>Moderator</h2>`); err != nil {
			return err
		}

		if view.Phase == model.PhaseLobby {
			if err := startForm(view).Render(ctx, w); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w,
				`<form class="inline" method="post" action="/rooms/%s/bots">`+
					`<button type="submit" class="quiet">Add bot</button></form>`, code); err != nil {
				return err
			}
		} else {
			if view.Phase != model.PhaseEnded {
				if _, err := fmt.Fprintf(w,
					`<form class="inline" method="post" action="/rooms/%s/advance">`+
						`<button type="submit">Advance phase</button></form>`+
						`<form class="inline" method="post" action="/rooms/%s/end">`+
						`<button type="submit" class="quiet">End game</button></form>`, code, code); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w,
				`<form class="inline" method="post" action="/rooms/%s/reset">`+
					`<button type="submit" class="quiet">Back to lobby</button></form>`, code); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(w,
			`<form class="inline" method="post" action="/rooms/%s/close">`+
				`<button type="submit" class="quiet">Close room</button></form>`, code); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// startForm is the moderator's role configuration form
func startForm(view *model.RoomView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		code := templ.EscapeString(string(view.Code))
		if _, err := fmt.Fprintf(w, `<form method="post" action="/rooms/%s/start">`, code); err != nil {
			return err
		}
		for _, role := range model.DealOrder {
			if role == model.RoleVillager {
				continue // pool pads with villagers on its own
			}
			if _, err := fmt.Fprintf(w,
				`<label>%s <input type="number" name="role_%s" value="0" min="0" size="2"></label> `,
				templ.EscapeString(RoleLabel(role)), templ.EscapeString(string(role))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<button type="submit">Start game</button></form>`)
		return err
	})
}

// actionPanel renders whatever the viewer can do right now
func actionPanel(view *model.RoomView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		viewer := viewerOf(view)
		if viewer == nil {
			return nil
		}
		code := templ.EscapeString(string(view.Code))

		if view.Phase == model.PhaseLobby {
			if _, err := fmt.Fprintf(w,
				`<section id="join-hint"><h2>Invite</h2>`+
					`<img class="qr" src="/rooms/%s/qr.png" alt="join QR" width="164" height="164">`+
					`<p>Scan to join room %s.</p></section>`, code, code); err != nil {
				return err
			}
			return nil
		}
		if viewer.IsModerator || view.Phase == model.PhaseEnded {
			return nil
		}
		if !viewer.Alive {
			_, err := io.WriteString(w,
				`<section id="action-panel"><p>You are out of the game, watching with the roles face up.</p></section>`)
			return err
		}

		if _, err := io.WriteString(w, `<section id="action-panel">`); err != nil {
			return err
		}

		switch view.Phase {
		case model.PhaseNight:
			if err := abilityForms(view, viewer, model.PhaseNight).Render(ctx, w); err != nil {
				return err
			}
		case model.PhaseDay:
			if err := abilityForms(view, viewer, model.PhaseDay).Render(ctx, w); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w,
				`<form class="inline" method="post" action="/rooms/%s/ready">`+
					`<button type="submit">Ready for nightfall</button></form>`+
					`<div id="ready-count" class="phase"></div>`, code); err != nil {
				return err
			}
		case model.PhaseVote:
			if err := votePanel(view).Render(ctx, w); err != nil {
				return err
			}
		case model.PhaseDefense:
			if _, err := fmt.Fprintf(w, `<p>%s stands accused and may speak.</p>`,
				templ.EscapeString(displayName(view, view.PendingExecution))); err != nil {
				return err
			}
		case model.PhaseFinalVerdict:
			if _, err := fmt.Fprintf(w,
				`<p>Decide the fate of %s.</p>`+
					`<form class="inline" method="post" action="/rooms/%s/verdict">`+
					`<input type="hidden" name="verdict" value="execute"><button type="submit">Execute</button></form>`+
					`<form class="inline" method="post" action="/rooms/%s/verdict">`+
					`<input type="hidden" name="verdict" value="spare"><button type="submit" class="quiet">Spare</button></form>`,
				templ.EscapeString(displayName(view, view.PendingExecution)), code, code); err != nil {
				return err
			}
		case model.PhaseExecutionReveal:
			if _, err := io.WriteString(w, `<p>The village holds its breath.</p>`); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// abilityForms renders one form per ability the viewer's role may use in
// the phase
func abilityForms(view *model.RoomView, viewer *model.PlayerView, phase model.Phase) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		abilities := model.AbilitiesFor(viewer.Role, phase)
		if len(abilities) == 0 && phase == model.PhaseNight {
			_, err := io.WriteString(w, `<p>You sleep. The night belongs to others.</p>`)
			return err
		}
		code := templ.EscapeString(string(view.Code))
		for _, ability := range abilities {
			if _, err := fmt.Fprintf(w,
				`<form class="inline" method="post" action="/rooms/%s/action">`+
					`<input type="hidden" name="ability" value="%s">`,
				code, templ.EscapeString(string(ability))); err != nil {
				return err
			}
			if err := targetSelect(view).Render(ctx, w); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, `<button type="submit">%s</button></form>`,
				templ.EscapeString(AbilityLabel(ability))); err != nil {
				return err
			}
		}
		return nil
	})
}

// votePanel is the day-vote ballot plus the running tally
func votePanel(view *model.RoomView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		code := templ.EscapeString(string(view.Code))
		if _, err := fmt.Fprintf(w,
			`<form class="inline" method="post" action="/rooms/%s/vote">`, code); err != nil {
			return err
		}
		if err := targetSelect(view).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w,
			`<button type="submit">Vote</button></form>`+
				`<form class="inline" method="post" action="/rooms/%s/vote">`+
				`<button type="submit" class="quiet">Skip</button></form>`, code); err != nil {
			return err
		}

		if view.VoteTally != nil && view.VoteTally.Total > 0 {
			if _, err := io.WriteString(w,
				`<table class="tally" id="vote-tally"><tr><th>Accused</th><th>Votes</th></tr>`); err != nil {
				return err
			}
			for _, p := range view.Players {
				if n := view.VoteTally.Counts[p.ID]; n > 0 {
					if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%d</td></tr>`,
						templ.EscapeString(p.DisplayName), n); err != nil {
						return err
					}
				}
			}
			if _, err := fmt.Fprintf(w, `<tr><td>Skipped</td><td>%d</td></tr></table>`,
				view.VoteTally.Skips); err != nil {
				return err
			}
		}
		return nil
	})
}

// verdictTallyTable shows the execute/spare count wherever the view carries it.
// The engine only fills it in for moderators mid-phase, so players get it at the reveal.
func verdictTallyTable(view *model.RoomView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if view.VerdictTally == nil {
			return nil
		}
		_, err := fmt.Fprintf(w,
			`<table class="tally" id="verdict-tally">`+
				`<tr><th>Execute</th><td>%d</td></tr>`+
				`<tr><th>Spare</th><td>%d</td></tr>`+
				`</table>`,
			view.VerdictTally.Execute, view.VerdictTally.Spare)
		return err
	})
}

// privateFeed is where targeted SSE notices land
func privateFeed() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<section id="private"><h2>Only you know</h2>`+
				`<div id="private-feed" sse-swap="private" hx-swap="beforeend"></div></section>`)
		return err
	})
}

// targetSelect lists living non-moderator players as ability targets
func targetSelect(view *model.RoomView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<select name="target_id">`); err != nil {
			return err
		}
		for _, p := range view.Players {
			if !p.Alive || p.IsModerator {
				continue
			}
			if _, err := fmt.Fprintf(w, `<option value="%s">%s</option>`,
				templ.EscapeString(string(p.ID)), templ.EscapeString(p.DisplayName)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</select> `)
		return err
	})
}

func viewerOf(view *model.RoomView) *model.PlayerView {
	for i := range view.Players {
		if view.Players[i].ID == view.You {
			return &view.Players[i]
		}
	}
	return nil
}

func displayName(view *model.RoomView, id model.PlayerID) string {
	for _, p := range view.Players {
		if p.ID == id {
			return p.DisplayName
		}
	}
	return string(id)
}

func phaseLabel(phase model.Phase) string {
	switch phase {
	case model.PhaseExecutionReveal:
		return "judgment"
	case model.PhaseFinalVerdict:
		return "final verdict"
	default:
		return string(phase)
	}
}

// RoleLabel renders a role name for prose
func RoleLabel(role model.Role) string {
	return strings.ReplaceAll(string(role), "_", " ")
}

// AbilityLabel renders an ability as a button caption
func AbilityLabel(ability model.Ability) string {
	switch ability {
	case model.AbilityWolfKill:
		return "Hunt"
	case model.AbilityCurse:
		return "Curse"
	case model.AbilityProtect:
		return "Protect"
	case model.AbilitySave:
		return "Save"
	case model.AbilityPoison:
		return "Poison"
	case model.AbilityPeek:
		return "Peek"
	case model.AbilityWatch:
		return "Watch"
	case model.AbilityMark:
		return "Mark"
	case model.AbilityDefend:
		return "Defend"
	default:
		return string(ability)
	}
}
