package room

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/quailholm/wolfgame-go/internal/dependencies/clock"
	"github.com/quailholm/wolfgame-go/internal/dependencies/random"
	"github.com/quailholm/wolfgame-go/internal/dispatch"
	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/services/auth"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// TokenLength is the length of per-seat reconnect tokens
	TokenLength = 24
	// TokenAlphabet is the characters used in reconnect tokens
	TokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Seat is the credential bundle handed back when a caller takes a place in
// a room. The secret token re-authenticates the same seat across reconnects;
// it is never used for game logic.
type Seat struct {
	RoomCode    model.RoomCode
	PlayerID    model.PlayerID
	SecretToken string
	Reconnected bool
}

// Registry owns every live room. Rooms exist only in this map and are
// reached through it; each room carries its own lock, so mutations to one
// room are serialized while distinct rooms proceed in parallel.
type Registry struct {
	clock      clock.Clock
	random     random.Random
	dispatcher dispatch.Dispatcher
	logger     *slog.Logger

	mu    sync.RWMutex
	rooms map[model.RoomCode]*handle
}

type handle struct {
	mu   sync.RWMutex
	room *model.Room
}

// New creates an empty registry
func New(clock clock.Clock, random random.Random, dispatcher dispatch.Dispatcher, logger *slog.Logger) *Registry {
	return &Registry{
		clock:      clock,
		random:     random,
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "room-registry")),
		rooms:      make(map[model.RoomCode]*handle),
	}
}

// CreateRoom creates a room with the requesting player seated as moderator.
// A non-empty passcode locks the room to players who present it; autonomous
// rooms advance phases on a schedule instead of waiting for the moderator.
func (r *Registry) CreateRoom(moderatorName, passcode string, autonomous bool) (*Seat, error) {
	var passcodeHash string
	if passcode != "" {
		hash, err := auth.HashPasscode(passcode)
		if err != nil {
			return nil, err
		}
		passcodeHash = hash
	}

	now := r.clock.Now()

	r.mu.Lock()
	var code model.RoomCode
	for {
		code = model.RoomCode(r.random.String(RoomCodeLength, RoomCodeAlphabet))
		if _, exists := r.rooms[code]; !exists {
			break
		}
	}
	moderator := model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: moderatorName,
		SecretToken: r.newToken(),
		IsModerator: true,
		Connected:   true,
		Alive:       true,
		JoinedAt:    now,
	}
	r.rooms[code] = &handle{room: &model.Room{
		Code:         code,
		Phase:        model.PhaseLobby,
		Players:      []model.Player{moderator},
		Verdicts:     make(map[model.PlayerID]model.Verdict),
		Ready:        make(map[model.PlayerID]bool),
		PasscodeHash: passcodeHash,
		Autonomous:   autonomous,
		CreatedAt:    now,
		UpdatedAt:    now,
	}}
	r.mu.Unlock()

	r.logger.Info("room created",
		slog.String("room", string(code)),
		slog.Bool("autonomous", autonomous))

	return &Seat{RoomCode: code, PlayerID: moderator.ID, SecretToken: moderator.SecretToken}, nil
}

// JoinRoom seats a player in a room. A valid secret token reconnects the
// seat it was issued for, in any phase; otherwise this is a fresh join,
// which only the lobby accepts.
func (r *Registry) JoinRoom(code model.RoomCode, displayName, passcode, secretToken string) (*Seat, error) {
	h, err := r.getHandle(code)
	if err != nil {
		return nil, err
	}

	seat, events, err := r.join(h, displayName, passcode, secretToken)
	if err != nil {
		return nil, err
	}

	r.emit(events)
	return seat, nil
}

func (r *Registry) join(h *handle, displayName, passcode, secretToken string) (*Seat, []model.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.room
	now := r.clock.Now()

	// Reconnection re-binds an existing seat and works mid-game
	if p := room.FindPlayerByToken(secretToken); p != nil {
		p.Connected = true
		room.UpdatedAt = now
		r.repairAllDead(room)

		events := []model.Event{{
			Type:      model.EventPlayerReconnected,
			Timestamp: now,
			RoomCode:  room.Code,
			PlayerID:  p.ID,
			Payload:   model.PlayerJoinedPayload{Player: lobbyView(p)},
		}}
		return &Seat{RoomCode: room.Code, PlayerID: p.ID, SecretToken: p.SecretToken, Reconnected: true}, events, nil
	}

	if room.Phase != model.PhaseLobby {
		return nil, nil, model.ErrGameAlreadyStarted
	}
	if len(room.Players) >= model.MaxRoomPlayers {
		return nil, nil, model.ErrRoomFull
	}
	if room.PasscodeHash != "" && !auth.CheckPasscode(room.PasscodeHash, passcode) {
		return nil, nil, model.ErrPermissionDenied
	}

	player := model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: displayName,
		SecretToken: r.newToken(),
		Connected:   true,
		Alive:       true,
		JoinedAt:    now,
	}
	room.Players = append(room.Players, player)
	room.UpdatedAt = now

	events := []model.Event{{
		Type:      model.EventPlayerJoined,
		Timestamp: now,
		RoomCode:  room.Code,
		PlayerID:  player.ID,
		Payload:   model.PlayerJoinedPayload{Player: lobbyView(&player)},
	}}
	return &Seat{RoomCode: room.Code, PlayerID: player.ID, SecretToken: player.SecretToken}, events, nil
}

// AddBot seats a bot player in the lobby. Moderator only.
func (r *Registry) AddBot(code model.RoomCode, requestingPlayer model.PlayerID, displayName string) (*Seat, error) {
	h, err := r.getHandle(code)
	if err != nil {
		return nil, err
	}

	seat, events, err := r.addBot(h, requestingPlayer, displayName)
	if err != nil {
		return nil, err
	}

	r.emit(events)
	return seat, nil
}

func (r *Registry) addBot(h *handle, requestingPlayer model.PlayerID, displayName string) (*Seat, []model.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.room
	requester := room.FindPlayer(requestingPlayer)
	if requester == nil || !requester.IsModerator {
		return nil, nil, model.ErrPermissionDenied
	}
	if room.Phase != model.PhaseLobby {
		return nil, nil, model.ErrGameAlreadyStarted
	}
	if len(room.Players) >= model.MaxRoomPlayers {
		return nil, nil, model.ErrRoomFull
	}

	now := r.clock.Now()
	bot := model.Player{
		ID:          model.PlayerID(uuid.NewString()),
		DisplayName: displayName,
		SecretToken: r.newToken(),
		IsBot:       true,
		Connected:   true,
		Alive:       true,
		JoinedAt:    now,
	}
	room.Players = append(room.Players, bot)
	room.UpdatedAt = now

	events := []model.Event{{
		Type:      model.EventPlayerJoined,
		Timestamp: now,
		RoomCode:  room.Code,
		PlayerID:  bot.ID,
		Payload:   model.PlayerJoinedPayload{Player: lobbyView(&bot)},
	}}
	return &Seat{RoomCode: room.Code, PlayerID: bot.ID, SecretToken: bot.SecretToken}, events, nil
}

// Disconnect records that a player's transport dropped. In the lobby the
// seat is removed outright (the moderator leaving closes the room); once a
// game is in progress the seat stays, flagged disconnected, so the player
// can reconnect with their token.
func (r *Registry) Disconnect(code model.RoomCode, playerID model.PlayerID) error {
	h, err := r.getHandle(code)
	if err != nil {
		return err
	}

	events, closed, err := r.disconnect(h, playerID)
	if err != nil {
		return err
	}

	r.emit(events)
	if closed {
		r.dispatcher.RoomClosed(code)
	}
	return nil
}

func (r *Registry) disconnect(h *handle, playerID model.PlayerID) ([]model.Event, bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.room
	p := room.FindPlayer(playerID)
	if p == nil {
		return nil, false, model.ErrInvalidPlayer
	}

	now := r.clock.Now()

	// A moderator abandoning a room with no game running tears it down
	if p.IsModerator && !room.Phase.InGame() {
		r.removeRoom(room.Code)
		r.logger.Info("room abandoned by moderator", slog.String("room", string(room.Code)))
		return []model.Event{{
			Type:      model.EventRoomClosed,
			Timestamp: now,
			RoomCode:  room.Code,
		}}, true, nil
	}

	if room.Phase == model.PhaseLobby {
		for i := range room.Players {
			if room.Players[i].ID == playerID {
				room.Players = append(room.Players[:i], room.Players[i+1:]...)
				break
			}
		}
		room.UpdatedAt = now
		return []model.Event{{
			Type:      model.EventPlayerLeft,
			Timestamp: now,
			RoomCode:  room.Code,
			PlayerID:  playerID,
			Payload:   model.PlayerLeftPayload{PlayerID: playerID, DisplayName: p.DisplayName},
		}}, false, nil
	}

	p.Connected = false
	room.UpdatedAt = now
	return []model.Event{{
		Type:      model.EventPlayerDisconnected,
		Timestamp: now,
		RoomCode:  room.Code,
		PlayerID:  playerID,
		Payload:   model.PlayerLeftPayload{PlayerID: playerID, DisplayName: p.DisplayName},
	}}, false, nil
}

// CloseRoom tears a room down explicitly. Moderator only.
func (r *Registry) CloseRoom(code model.RoomCode, requestingPlayer model.PlayerID) error {
	h, err := r.getHandle(code)
	if err != nil {
		return err
	}

	events, err := r.close(h, requestingPlayer)
	if err != nil {
		return err
	}

	r.emit(events)
	r.dispatcher.RoomClosed(code)
	return nil
}

func (r *Registry) close(h *handle, requestingPlayer model.PlayerID) ([]model.Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.room
	requester := room.FindPlayer(requestingPlayer)
	if requester == nil || !requester.IsModerator {
		return nil, model.ErrPermissionDenied
	}

	r.removeRoom(room.Code)
	r.logger.Info("room closed", slog.String("room", string(room.Code)))

	return []model.Event{{
		Type:      model.EventRoomClosed,
		Timestamp: r.clock.Now(),
		RoomCode:  room.Code,
	}}, nil
}

// Update runs fn with exclusive ownership of the room. Every game-state
// mutation goes through here, which is what serializes writers per room.
func (r *Registry) Update(code model.RoomCode, fn func(*model.Room) error) error {
	h, err := r.getHandle(code)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.room)
}

// Read runs fn with shared access to the room
func (r *Registry) Read(code model.RoomCode, fn func(*model.Room) error) error {
	h, err := r.getHandle(code)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return fn(h.room)
}

// Len returns the number of live rooms
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) getHandle(code model.RoomCode) (*handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return h, nil
}

func (r *Registry) removeRoom(code model.RoomCode) {
	r.mu.Lock()
	delete(r.rooms, code)
	r.mu.Unlock()
}

func (r *Registry) newToken() string {
	return r.random.String(TokenLength, TokenAlphabet)
}

func (r *Registry) emit(events []model.Event) {
	for _, ev := range events {
		r.dispatcher.Broadcast(ev)
	}
}

// repairAllDead restores a room caught in the inconsistent "every
// participant dead on the first turn" state, which a reconnect racing role
// assignment has been seen to produce.
func (r *Registry) repairAllDead(room *model.Room) {
	if !room.Phase.InGame() || room.DayCount != 1 {
		return
	}
	participants := room.Participants()
	if len(participants) == 0 {
		return
	}
	for _, p := range participants {
		if p.Alive {
			return
		}
	}
	for _, p := range participants {
		p.Alive = true
	}
	r.logger.Warn("repaired all-dead room state", slog.String("room", string(room.Code)))
}

// lobbyView is the role-free player projection used in membership events
func lobbyView(p *model.Player) model.PlayerView {
	return model.PlayerView{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		IsModerator: p.IsModerator,
		IsBot:       p.IsBot,
		Connected:   p.Connected,
		Alive:       p.Alive,
	}
}

// Interface for dependency injection
type RegistryInterface interface {
	CreateRoom(moderatorName, passcode string, autonomous bool) (*Seat, error)
	JoinRoom(code model.RoomCode, displayName, passcode, secretToken string) (*Seat, error)
	AddBot(code model.RoomCode, requestingPlayer model.PlayerID, displayName string) (*Seat, error)
	Disconnect(code model.RoomCode, playerID model.PlayerID) error
	CloseRoom(code model.RoomCode, requestingPlayer model.PlayerID) error
	Update(code model.RoomCode, fn func(*model.Room) error) error
	Read(code model.RoomCode, fn func(*model.Room) error) error
	Len() int
}

var _ RegistryInterface = (*Registry)(nil)
