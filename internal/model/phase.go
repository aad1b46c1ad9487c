package model

// Phase is the room's current position in the game cycle
type Phase string

const (
	PhaseLobby           Phase = "lobby"            // waiting for players, no game running
	PhaseNight           Phase = "night"            // secret ability submissions
	PhaseDay             Phase = "day"              // open discussion
	PhaseVote            Phase = "vote"             // accusation ballots
	PhaseDefense         Phase = "defense"          // the accused speaks, no mutation
	PhaseFinalVerdict    Phase = "final_verdict"    // execute/spare ballots on the accused
	PhaseExecutionReveal Phase = "execution_reveal" // narration of the day's outcome
	PhaseEnded           Phase = "ended"
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

var phaseTransitions = map[Phase][]Phase{
	PhaseLobby:           {PhaseNight},
	PhaseNight:           {PhaseDay, PhaseEnded, PhaseLobby},
	PhaseDay:             {PhaseVote, PhaseEnded, PhaseLobby},
	PhaseVote:            {PhaseDefense, PhaseExecutionReveal, PhaseEnded, PhaseLobby},
	PhaseDefense:         {PhaseFinalVerdict, PhaseEnded, PhaseLobby},
	PhaseFinalVerdict:    {PhaseExecutionReveal, PhaseEnded, PhaseLobby},
	PhaseExecutionReveal: {PhaseNight, PhaseEnded, PhaseLobby},
	PhaseEnded:           {PhaseLobby},
}

// CanTransitionTo checks whether moving from this phase to target is a legal
// edge of the phase graph. The PhaseEnded edges cover moderator end commands
// and win short-circuits; the PhaseLobby edges cover moderator resets.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range phaseTransitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

// InGame reports whether a game is running in this phase
func (p Phase) InGame() bool {
	return p != PhaseLobby && p != PhaseEnded
}
