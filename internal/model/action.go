package model

// Ability identifies a role-specific intent a player can submit
type Ability string

const (
	AbilityWolfKill Ability = "wolf_kill" // werewolves' shared kill ballot
	AbilityCurse    Ability = "curse"     // alpha wolf's one-time conversion
	AbilityProtect  Ability = "protect"   // guard's nightly protection
	AbilitySave     Ability = "save"      // witch's one-time salvation potion
	AbilityPoison   Ability = "poison"    // witch's one-time lethal potion
	AbilityPeek     Ability = "peek"      // seer's faction check
	AbilityWatch    Ability = "watch"     // tracker's activity check
	AbilityMark     Ability = "mark"      // hunter's death-link target
	AbilityDefend   Ability = "defend"    // lawyer's pre-committed client
)

type abilityRule struct {
	phase Phase
	roles map[Role]bool
}

var abilityRules = map[Ability]abilityRule{
	AbilityWolfKill: {PhaseNight, map[Role]bool{RoleWerewolf: true, RoleAlphaWolf: true}},
	AbilityCurse:    {PhaseNight, map[Role]bool{RoleAlphaWolf: true}},
	AbilityProtect:  {PhaseNight, map[Role]bool{RoleGuard: true}},
	AbilitySave:     {PhaseNight, map[Role]bool{RoleWitch: true}},
	AbilityPoison:   {PhaseNight, map[Role]bool{RoleWitch: true}},
	AbilityPeek:     {PhaseNight, map[Role]bool{RoleSeer: true}},
	AbilityWatch:    {PhaseNight, map[Role]bool{RoleTracker: true}},
	AbilityMark:     {PhaseNight, map[Role]bool{RoleHunter: true}},
	AbilityDefend:   {PhaseDay, map[Role]bool{RoleLawyer: true}},
}

// ValidAbility reports whether the ability name is known
func ValidAbility(a Ability) bool {
	_, ok := abilityRules[a]
	return ok
}

// AbilityOrder is the stable listing order for ability pickers
var AbilityOrder = []Ability{
	AbilityWolfKill,
	AbilityCurse,
	AbilityProtect,
	AbilitySave,
	AbilityPoison,
	AbilityPeek,
	AbilityWatch,
	AbilityMark,
	AbilityDefend,
}

// AbilitiesFor lists the abilities a role may submit in the phase, in
// AbilityOrder
func AbilitiesFor(role Role, phase Phase) []Ability {
	var out []Ability
	for _, a := range AbilityOrder {
		rule := abilityRules[a]
		if rule.phase == phase && rule.roles[role] {
			out = append(out, a)
		}
	}
	return out
}

// AbilityAllowed reports whether the role may submit the ability in the phase
func AbilityAllowed(a Ability, role Role, phase Phase) bool {
	rule, ok := abilityRules[a]
	if !ok {
		return false
	}
	return rule.phase == phase && rule.roles[role]
}

// Action is one submitted ability intent
type Action struct {
	Actor   PlayerID
	Ability Ability
	Target  PlayerID
}

// ActionLedger holds the submissions of the current collection window in
// submission order. Order is load-bearing: plurality ties are broken by the
// earliest final ballot.
type ActionLedger struct {
	Entries []Action
}

// Submit records an action. A later submission of the same ability by the
// same actor replaces the earlier one and takes its place at the end of the
// ledger, so re-submitting also forfeits tie-break priority.
func (l *ActionLedger) Submit(a Action) {
	for i, e := range l.Entries {
		if e.Actor == a.Actor && e.Ability == a.Ability {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			break
		}
	}
	l.Entries = append(l.Entries, a)
}

// ByAbility returns the entries for one ability, preserving ledger order
func (l *ActionLedger) ByAbility(a Ability) []Action {
	var out []Action
	for _, e := range l.Entries {
		if e.Ability == a {
			out = append(out, e)
		}
	}
	return out
}

// First returns the first entry for the ability, or nil if none exists
func (l *ActionLedger) First(a Ability) *Action {
	for i := range l.Entries {
		if l.Entries[i].Ability == a {
			return &l.Entries[i]
		}
	}
	return nil
}

// HasActor reports whether the player submitted anything this window
func (l *ActionLedger) HasActor(id PlayerID) bool {
	for _, e := range l.Entries {
		if e.Actor == id {
			return true
		}
	}
	return false
}

// HasEntry reports whether the player already submitted this ability
func (l *ActionLedger) HasEntry(id PlayerID, a Ability) bool {
	for _, e := range l.Entries {
		if e.Actor == id && e.Ability == a {
			return true
		}
	}
	return false
}

// Clear empties the ledger
func (l *ActionLedger) Clear() {
	l.Entries = nil
}

// Ballot is one day-vote submission; an empty Target records a skip
type Ballot struct {
	Voter  PlayerID
	Target PlayerID
}

// Skip reports whether the ballot abstains from naming a target
func (b Ballot) Skip() bool {
	return b.Target == ""
}

// VoteLedger holds day-vote ballots in submission order, one per voter
type VoteLedger struct {
	Ballots []Ballot
}

// Cast records a ballot, replacing the voter's earlier ballot if present
func (l *VoteLedger) Cast(b Ballot) {
	for i, e := range l.Ballots {
		if e.Voter == b.Voter {
			l.Ballots = append(l.Ballots[:i], l.Ballots[i+1:]...)
			break
		}
	}
	l.Ballots = append(l.Ballots, b)
}

// HasVoter reports whether the player has a ballot in this window
func (l *VoteLedger) HasVoter(id PlayerID) bool {
	for _, b := range l.Ballots {
		if b.Voter == id {
			return true
		}
	}
	return false
}

// Clear empties the ledger
func (l *VoteLedger) Clear() {
	l.Ballots = nil
}

// Tally summarizes the current vote ledger
func (l *VoteLedger) Tally() VoteTally {
	tally := VoteTally{Counts: map[PlayerID]int{}}
	for _, b := range l.Ballots {
		if b.Skip() {
			tally.Skips++
			continue
		}
		tally.Counts[b.Target]++
	}
	tally.Total = len(l.Ballots)
	return tally
}

// VoteTally is a snapshot of ballot counts per target
type VoteTally struct {
	Counts map[PlayerID]int
	Skips  int
	Total  int
}

// Verdict is a final-verdict ballot value
type Verdict string

const (
	VerdictExecute Verdict = "execute"
	VerdictSpare   Verdict = "spare"
)

// ValidVerdict reports whether the verdict value is known
func ValidVerdict(v Verdict) bool {
	return v == VerdictExecute || v == VerdictSpare
}

// VerdictTally counts execute and spare ballots
type VerdictTally struct {
	Execute int
	Spare   int
	Total   int
}
