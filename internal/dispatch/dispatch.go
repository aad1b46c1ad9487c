// Package dispatch carries engine events from the services that produce
// them to the transports that deliver them. Services hold a Dispatcher and
// stay ignorant of websockets, SSE, or whatever else is listening.
package dispatch

import (
	"sync"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// Dispatcher receives events emitted by the game engine
type Dispatcher interface {
	// Broadcast delivers an event to everyone subscribed to the event's room
	Broadcast(event model.Event)
	// SendToPlayer delivers a private event to a single player in the event's room
	SendToPlayer(playerID model.PlayerID, event model.Event)
	// RoomClosed tells subscribers the room is gone and connections should drop
	RoomClosed(code model.RoomCode)
}

// Fanout replicates events to every registered sink
type Fanout struct {
	mu    sync.RWMutex
	sinks []Dispatcher
}

// NewFanout creates a fanout with no sinks
func NewFanout() *Fanout {
	return &Fanout{}
}

// Register adds a sink. Sinks are registered at startup and live for the
// life of the process.
func (f *Fanout) Register(sink Dispatcher) {
	f.mu.Lock()
	f.sinks = append(f.sinks, sink)
	f.mu.Unlock()
}

func (f *Fanout) Broadcast(event model.Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, sink := range f.sinks {
		sink.Broadcast(event)
	}
}

func (f *Fanout) SendToPlayer(playerID model.PlayerID, event model.Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, sink := range f.sinks {
		sink.SendToPlayer(playerID, event)
	}
}

func (f *Fanout) RoomClosed(code model.RoomCode) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, sink := range f.sinks {
		sink.RoomClosed(code)
	}
}

// Ensure Fanout implements the interface
var _ Dispatcher = (*Fanout)(nil)

// Nop is a dispatcher that drops everything, for callers that do not
// need delivery
type Nop struct{}

func (Nop) Broadcast(model.Event)                    {}
func (Nop) SendToPlayer(model.PlayerID, model.Event) {}
func (Nop) RoomClosed(model.RoomCode)                {}

// Ensure Nop implements the interface
var _ Dispatcher = Nop{}
