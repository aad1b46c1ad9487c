package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Room events
	EventPlayerJoined       EventType = "player_joined"
	EventPlayerLeft         EventType = "player_left"
	EventPlayerReconnected  EventType = "player_reconnected"
	EventPlayerDisconnected EventType = "player_disconnected"
	EventRoomClosed         EventType = "room_closed"

	// Game events
	EventGameStarted      EventType = "game_started"
	EventRoleAssigned     EventType = "role_assigned" // private to the dealt player
	EventPhaseChanged     EventType = "phase_changed"
	EventNarrative        EventType = "narrative"
	EventActionReceived   EventType = "action_received" // moderator only
	EventAllActionsIn     EventType = "all_actions_in"
	EventPeekResult       EventType = "peek_result"     // private to the seer
	EventWatchResult      EventType = "watch_result"    // private to the tracker
	EventPlayerReady      EventType = "player_ready"
	EventVoteTally        EventType = "vote_tally"
	EventExecutionPending EventType = "execution_pending"
	EventVerdictReceived  EventType = "verdict_received" // moderator only
	EventGameEnded        EventType = "game_ended"
	EventGameReset        EventType = "game_reset"
)

// Event is the base structure for everything emitted through the outbound
// dispatcher port. Private delivery is the dispatcher's concern; an Event
// itself does not know its audience.
type Event struct {
	Type      EventType
	Timestamp time.Time
	RoomCode  RoomCode
	PlayerID  PlayerID // the player who triggered or is affected, if any
	Payload   any
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	Player PlayerView
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	PlayerID    PlayerID
	DisplayName string
}

// GameStartedPayload announces the deal to the room
type GameStartedPayload struct {
	PlayerCount int
	Config      RoleConfig
}

// RoleAssignedPayload tells one player their dealt role
type RoleAssignedPayload struct {
	Role    Role
	Faction Faction
}

// PhaseChangedPayload contains data for phase change events
type PhaseChangedPayload struct {
	Phase    Phase
	DayCount int
}

// NarrativePayload carries newly appended story entries
type NarrativePayload struct {
	Entries []string
}

// ActionReceivedPayload tells the moderator who has acted
type ActionReceivedPayload struct {
	PlayerID PlayerID
	Ability  Ability
}

// AllActionsInPayload signals that the current phase's submission window
// is complete
type AllActionsInPayload struct {
	Phase Phase
}

// PeekResultPayload is the seer's private answer
type PeekResultPayload struct {
	Target  PlayerID
	Faction Faction
}

// WatchResultPayload is the tracker's private answer
type WatchResultPayload struct {
	Target PlayerID
	Active bool
}

// PlayerReadyPayload announces a ready signal and the running count
type PlayerReadyPayload struct {
	PlayerID PlayerID
	Ready    int
	Eligible int
}

// VoteTallyPayload broadcasts the running day-vote tally
type VoteTallyPayload struct {
	Tally VoteTally
}

// VerdictReceivedPayload tells the moderator the running verdict count
type VerdictReceivedPayload struct {
	PlayerID PlayerID
	Tally    VerdictTally
}

// ExecutionPendingPayload names the player condemned by the day vote
type ExecutionPendingPayload struct {
	PlayerID    PlayerID
	DisplayName string
}

// GameEndedPayload contains data for game ended events
type GameEndedPayload struct {
	Winner Faction
}
