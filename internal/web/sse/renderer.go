package sse

import (
	"bytes"
	"context"
	"fmt"

	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/web/views"
)

// Renderer converts room events to HTML fragments for SSE
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}

// EventData represents SSE event data
type EventData struct {
	EventName string
	HTML      string
}

// RenderRoomEvent converts a broadcast event to SSE data. Most events map
// to a bare refresh signal: the page re-fetches itself so every viewer gets
// their own redacted rendering rather than a shared fragment. Only content
// that reads the same for everyone streams as HTML.
func (r *Renderer) RenderRoomEvent(ctx context.Context, event model.Event) ([]EventData, error) {
	switch event.Type {
	case model.EventNarrative:
		payload, ok := event.Payload.(model.NarrativePayload)
		if !ok {
			return nil, fmt.Errorf("narrative event carries %T", event.Payload)
		}
		var buf bytes.Buffer
		if err := views.NarrativeEntries(payload.Entries).Render(ctx, &buf); err != nil {
			return nil, err
		}
		return []EventData{{EventName: "narrative", HTML: buf.String()}}, nil

	case model.EventPlayerReady:
		payload, ok := event.Payload.(model.PlayerReadyPayload)
		if !ok {
			return nil, fmt.Errorf("ready event carries %T", event.Payload)
		}
		html := WrapForOOBSwap("ready-count",
			fmt.Sprintf("%d of %d ready", payload.Ready, payload.Eligible))
		return []EventData{{EventName: "ready-update", HTML: html}}, nil

	case model.EventRoomClosed:
		// Script swaps in through the sink and sends the client home
		return []EventData{{
			EventName: "room-closed",
			HTML:      `<script>window.location.href = "/";</script>`,
		}}, nil

	default:
		// Roster, phase, tally and end-of-game changes all re-render
		// per viewer
		return []EventData{{EventName: "refresh", HTML: "refresh"}}, nil
	}
}

// RenderPlayerEvent converts a private event to SSE data for one player's
// connections
func (r *Renderer) RenderPlayerEvent(ctx context.Context, event model.Event) ([]EventData, error) {
	text := privateNoticeText(event)
	if text == "" {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := views.PrivateNotice(text).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return []EventData{{EventName: "private", HTML: buf.String()}}, nil
}

// privateNoticeText phrases a private event without naming its target.
// The recipient chose the target themselves, so prose about "your target"
// is unambiguous and the fragment leaks nothing if it goes astray.
func privateNoticeText(event model.Event) string {
	switch payload := event.Payload.(type) {
	case model.RoleAssignedPayload:
		switch payload.Faction {
		case model.FactionWolves:
			return fmt.Sprintf("You are the %s. You run with the wolves.", views.RoleLabel(payload.Role))
		case model.FactionJester:
			return fmt.Sprintf("You are the %s. You win alone, and only at the gallows.", views.RoleLabel(payload.Role))
		default:
			return fmt.Sprintf("You are the %s. You stand with the village.", views.RoleLabel(payload.Role))
		}
	case model.PeekResultPayload:
		if payload.Faction == model.FactionWolves {
			return "Your sight is clear: your target runs with the wolves."
		}
		return "Your sight is clear: your target is no wolf."
	case model.WatchResultPayload:
		if payload.Active {
			return "Your target left their bed tonight."
		}
		return "Your target never stirred."
	case model.ActionReceivedPayload:
		return fmt.Sprintf("A %s order came in.", views.AbilityLabel(payload.Ability))
	case model.VerdictReceivedPayload:
		return fmt.Sprintf("Verdicts so far: %d to execute, %d to spare, %d cast.",
			payload.Tally.Execute, payload.Tally.Spare, payload.Tally.Total)
	default:
		return ""
	}
}
