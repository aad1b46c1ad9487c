package model

import "time"

// ArchiveID uniquely identifies a stored game record
type ArchiveID string

// GameArchive is the summary written to storage when a game ends. The live
// state machine never reads archives back; they exist for history endpoints
// and post-game review.
type GameArchive struct {
	ID        ArchiveID
	RoomCode  RoomCode
	Winner    Faction
	DayCount  int
	Players   []ArchivedPlayer
	Narrative []string
	StartedAt time.Time
	EndedAt   time.Time
}

// ArchivedPlayer is one player's final standing in an archived game
type ArchivedPlayer struct {
	DisplayName string
	Role        Role
	Faction     Faction
	Alive       bool
	IsModerator bool
}
