package testutil

import (
	"sync"

	"github.com/quailholm/wolfgame-go/internal/dispatch"
	"github.com/quailholm/wolfgame-go/internal/model"
)

// RecordingDispatcher captures everything the engine emits so tests can
// assert on event flow without a transport
type RecordingDispatcher struct {
	mu         sync.Mutex
	broadcasts []model.Event
	private    map[model.PlayerID][]model.Event
	closed     []model.RoomCode
}

// Ensure RecordingDispatcher implements the dispatcher interface
var _ dispatch.Dispatcher = (*RecordingDispatcher)(nil)

// NewRecordingDispatcher creates an empty recorder
func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{private: make(map[model.PlayerID][]model.Event)}
}

func (d *RecordingDispatcher) Broadcast(event model.Event) {
	d.mu.Lock()
	d.broadcasts = append(d.broadcasts, event)
	d.mu.Unlock()
}

func (d *RecordingDispatcher) SendToPlayer(playerID model.PlayerID, event model.Event) {
	d.mu.Lock()
	d.private[playerID] = append(d.private[playerID], event)
	d.mu.Unlock()
}

func (d *RecordingDispatcher) RoomClosed(code model.RoomCode) {
	d.mu.Lock()
	d.closed = append(d.closed, code)
	d.mu.Unlock()
}

// Broadcasts returns a copy of every broadcast event so far
func (d *RecordingDispatcher) Broadcasts() []model.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Event(nil), d.broadcasts...)
}

// BroadcastsOfType returns the broadcast events of one type, in order
func (d *RecordingDispatcher) BroadcastsOfType(t model.EventType) []model.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []model.Event
	for _, ev := range d.broadcasts {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// PrivateFor returns the private events sent to one player, in order
func (d *RecordingDispatcher) PrivateFor(playerID model.PlayerID) []model.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Event(nil), d.private[playerID]...)
}

// ClosedRooms returns the rooms whose closure was announced
func (d *RecordingDispatcher) ClosedRooms() []model.RoomCode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.RoomCode(nil), d.closed...)
}

// Reset discards everything recorded so far
func (d *RecordingDispatcher) Reset() {
	d.mu.Lock()
	d.broadcasts = nil
	d.private = make(map[model.PlayerID][]model.Event)
	d.closed = nil
	d.mu.Unlock()
}
