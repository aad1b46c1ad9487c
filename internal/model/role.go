package model

// Role is a player's hidden role, dealt at game start
type Role string

const (
	RoleNone      Role = ""
	RoleVillager  Role = "villager"
	RoleWerewolf  Role = "werewolf"
	RoleAlphaWolf Role = "alpha_wolf"
	RoleSeer      Role = "seer"
	RoleGuard     Role = "guard"
	RoleWitch     Role = "witch"
	RoleHunter    Role = "hunter"
	RoleTracker   Role = "tracker"
	RoleLawyer    Role = "lawyer"
	RoleJester    Role = "jester"
)

// Faction is the win-condition grouping of a player. It is derived from the
// role at assignment but can change mid-game (curse conversion), so win
// counting always reads the faction, never the role.
type Faction string

const (
	FactionNone    Faction = ""
	FactionVillage Faction = "village"
	FactionWolves  Faction = "wolves"
	FactionJester  Faction = "jester"
)

var roleFactions = map[Role]Faction{
	RoleVillager:  FactionVillage,
	RoleWerewolf:  FactionWolves,
	RoleAlphaWolf: FactionWolves,
	RoleSeer:      FactionVillage,
	RoleGuard:     FactionVillage,
	RoleWitch:     FactionVillage,
	RoleHunter:    FactionVillage,
	RoleTracker:   FactionVillage,
	RoleLawyer:    FactionVillage,
	RoleJester:    FactionJester,
}

// FactionOf returns the starting faction for a role
func FactionOf(role Role) Faction {
	return roleFactions[role]
}

// ValidRole reports whether the role is a known dealable role
func ValidRole(role Role) bool {
	_, ok := roleFactions[role]
	return ok
}

// DealOrder is the stable order role counts expand into the pool before the
// shuffle, so a deal is reproducible under a pinned shuffle
var DealOrder = []Role{
	RoleWerewolf,
	RoleAlphaWolf,
	RoleSeer,
	RoleGuard,
	RoleWitch,
	RoleHunter,
	RoleTracker,
	RoleLawyer,
	RoleJester,
	RoleVillager,
}

var nightRoles = map[Role]bool{
	RoleWerewolf:  true,
	RoleAlphaWolf: true,
	RoleSeer:      true,
	RoleGuard:     true,
	RoleWitch:     true,
	RoleHunter:    true,
	RoleTracker:   true,
}

// HasNightAbility reports whether the role acts during the night phase.
// This is also the tracker's observable property: the tracker learns role
// membership here, not whether a given night's ability had any effect.
func HasNightAbility(role Role) bool {
	return nightRoles[role]
}

// RoleConfig maps each configured role to how many copies are dealt.
// Roles absent from the map are dealt zero times; the pool is padded with
// villagers up to the player count.
type RoleConfig map[Role]int

// Total returns the number of role tokens the config produces before padding
func (c RoleConfig) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Validate checks the config against the number of players to be dealt
func (c RoleConfig) Validate(playerCount int) error {
	for role, n := range c {
		if !ValidRole(role) {
			return ErrInvalidConfiguration
		}
		if n < 0 {
			return ErrInvalidConfiguration
		}
	}
	if c.Total() > playerCount {
		return ErrInvalidConfiguration
	}
	return nil
}

// Clone returns an independent copy of the config
func (c RoleConfig) Clone() RoleConfig {
	out := make(RoleConfig, len(c))
	for role, n := range c {
		out[role] = n
	}
	return out
}
