package model

import "time"

// RoomCode is a human-shareable identifier for joining rooms
type RoomCode string

// MaxRoomPlayers caps the number of seats in a room, moderator included
const MaxRoomPlayers = 16

// Room is one independent play session: the aggregate root owning every
// piece of game state. All mutation goes through the game controller, which
// serializes access per room.
type Room struct {
	Code             RoomCode
	Phase            Phase
	Generation       int // bumped on every phase change; stale timers check it
	DayCount         int
	Players          []Player // join order
	Actions          ActionLedger
	Votes            VoteLedger
	Verdicts         map[PlayerID]Verdict
	Ready            map[PlayerID]bool
	PendingExecution PlayerID
	Winner           Faction
	Narrative        []string
	Config           RoleConfig
	PasscodeHash     string
	Autonomous       bool // scheduler advances phases instead of a moderator
	GameStartedAt    time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FindPlayer returns the player with the given ID, or nil if not present
func (r *Room) FindPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// FindPlayerByToken returns the player holding the secret token, or nil
func (r *Room) FindPlayerByToken(token string) *Player {
	if token == "" {
		return nil
	}
	for i := range r.Players {
		if r.Players[i].SecretToken == token {
			return &r.Players[i]
		}
	}
	return nil
}

// Moderator returns the room's moderator, or nil in autonomous rooms
func (r *Room) Moderator() *Player {
	for i := range r.Players {
		if r.Players[i].IsModerator {
			return &r.Players[i]
		}
	}
	return nil
}

// Participants returns the non-moderator players in join order
func (r *Room) Participants() []*Player {
	var out []*Player
	for i := range r.Players {
		if !r.Players[i].IsModerator {
			out = append(out, &r.Players[i])
		}
	}
	return out
}

// EligibleActors returns the connected, alive, non-moderator players: the
// set whose submissions are accepted and whose completeness allows an early
// phase advance.
func (r *Room) EligibleActors() []*Player {
	var out []*Player
	for i := range r.Players {
		p := &r.Players[i]
		if p.IsModerator || !p.Alive || !p.Connected {
			continue
		}
		out = append(out, p)
	}
	return out
}

// NightActors returns the eligible actors whose role acts at night
func (r *Room) NightActors() []*Player {
	var out []*Player
	for _, p := range r.EligibleActors() {
		if HasNightAbility(p.Role) {
			out = append(out, p)
		}
	}
	return out
}

// AliveFactionCounts counts alive wolves and alive non-wolves, excluding the
// moderator entirely. These are the only numbers win evaluation looks at.
func (r *Room) AliveFactionCounts() (wolves, others int) {
	for i := range r.Players {
		p := &r.Players[i]
		if p.IsModerator || !p.Alive {
			continue
		}
		if p.Faction == FactionWolves {
			wolves++
		} else {
			others++
		}
	}
	return wolves, others
}

// AppendNarrative appends a human-readable entry to the room's story log
func (r *Room) AppendNarrative(entry string) {
	r.Narrative = append(r.Narrative, entry)
}
