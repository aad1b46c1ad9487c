package model

// PlayerView is one player as seen by a particular viewer. Role and Faction
// are zero unless the viewer is allowed to see them (moderator, eliminated
// spectator, the player themselves, or the game has ended).
type PlayerView struct {
	ID          PlayerID
	DisplayName string
	IsModerator bool
	IsBot       bool
	Connected   bool
	Alive       bool
	Role        Role
	Faction     Faction
}

// RoomView is the redacted projection of a room handed to one viewer
type RoomView struct {
	Code             RoomCode
	Phase            Phase
	DayCount         int
	You              PlayerID
	Players          []PlayerView
	Narrative        []string
	PendingExecution PlayerID
	Winner           Faction
	Config           RoleConfig
	VoteTally        *VoteTally
	VerdictTally     *VerdictTally
}
