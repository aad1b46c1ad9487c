package model

import "time"

// PlayerID uniquely identifies a player within a room
type PlayerID string

// Player represents a participant in a room
type Player struct {
	ID          PlayerID
	DisplayName string
	SecretToken string // opaque reconnect credential, never used for game logic
	IsModerator bool
	IsBot       bool
	Connected   bool
	Alive       bool
	Role        Role    // RoleNone until assignment
	Faction     Faction // derived from role, but mutable (curse conversion)
	Ability     AbilityState
	JoinedAt    time.Time
}

// AbilityState carries per-role usage state. Exactly one variant is non-nil,
// selected by the player's role; roles without tracked state leave all nil.
type AbilityState struct {
	Guard  *GuardState
	Witch  *WitchState
	Alpha  *AlphaState
	Hunter *HunterState
	Lawyer *LawyerState
}

// GuardState tracks the guard's previous protection for the no-repeat rule
type GuardState struct {
	LastProtected PlayerID
}

// WitchState tracks the witch's one-time potions
type WitchState struct {
	UsedSave bool
	UsedKill bool
}

// AlphaState tracks the alpha wolf's one-time curse charge
type AlphaState struct {
	UsedCurse bool
}

// HunterState holds the hunter's currently marked target, empty when unset
type HunterState struct {
	Marked PlayerID
}

// LawyerState holds the lawyer's pre-committed client and whether the
// defense has been spent
type LawyerState struct {
	Client PlayerID
	Used   bool
}

// NewAbilityState returns the ability state appropriate for the given role
func NewAbilityState(role Role) AbilityState {
	switch role {
	case RoleGuard:
		return AbilityState{Guard: &GuardState{}}
	case RoleWitch:
		return AbilityState{Witch: &WitchState{}}
	case RoleAlphaWolf:
		return AbilityState{Alpha: &AlphaState{}}
	case RoleHunter:
		return AbilityState{Hunter: &HunterState{}}
	case RoleLawyer:
		return AbilityState{Lawyer: &LawyerState{}}
	default:
		return AbilityState{}
	}
}
