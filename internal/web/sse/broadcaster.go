package sse

import (
	"context"
	"log/slog"

	"github.com/quailholm/wolfgame-go/internal/dispatch"
	"github.com/quailholm/wolfgame-go/internal/model"
)

// Broadcaster turns engine events into SSE messages for the web console.
// It hangs off the event fanout like any other sink, so the browser feed
// and the WebSocket feed see the same stream.
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

var _ dispatch.Dispatcher = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Broadcast fans a room-wide event out to every connected browser
func (b *Broadcaster) Broadcast(event model.Event) {
	hub := b.hubManager.GetHub(event.RoomCode)
	if hub == nil {
		return
	}

	events, err := b.renderer.RenderRoomEvent(context.Background(), event)
	if err != nil {
		b.logger.Error("sse failed to render event",
			slog.String("room", string(event.RoomCode)),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	for _, ed := range events {
		hub.BroadcastEvent(ed.EventName, ed.HTML)
	}
}

// SendToPlayer delivers a private event to one player's connections only
func (b *Broadcaster) SendToPlayer(playerID model.PlayerID, event model.Event) {
	hub := b.hubManager.GetHub(event.RoomCode)
	if hub == nil {
		return
	}

	events, err := b.renderer.RenderPlayerEvent(context.Background(), event)
	if err != nil {
		b.logger.Error("sse failed to render private event",
			slog.String("room", string(event.RoomCode)),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	for _, ed := range events {
		hub.SendEventToPlayer(playerID, ed.EventName, ed.HTML)
	}
}

// RoomClosed tells every browser in the room to leave, then drops the hub
func (b *Broadcaster) RoomClosed(code model.RoomCode) {
	if hub := b.hubManager.GetHub(code); hub != nil {
		hub.BroadcastEvent("room-closed", `<script>window.location.href = "/";</script>`)
	}
	b.hubManager.RemoveHub(code)
}
