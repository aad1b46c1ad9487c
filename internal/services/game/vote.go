package game

import (
	"fmt"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// closeVote tallies the day's ballots and routes the room onward: no
// plurality target means nobody is executed, a committed lawyer cancels the
// accusation outright, and otherwise the accused gets a defense before the
// final verdict. Lawyer commitments last one vote either way.
func (c *Controller) closeVote(r *model.Room) ([]outbound, error) {
	tally := r.Votes.Tally()
	outs := []outbound{broadcast(c.event(r, model.EventVoteTally, "", model.VoteTallyPayload{
		Tally: tally,
	}))}

	var targets []model.PlayerID
	for _, b := range r.Votes.Ballots {
		if !b.Skip() {
			targets = append(targets, b.Target)
		}
	}
	accused, _ := pluralityWinner(targets)
	lawyer := committedLawyer(r, accused)
	clearLawyerClients(r)

	switch {
	case accused == "":
		transOuts, err := c.transitionTo(r, model.PhaseExecutionReveal,
			"The village cannot agree. Nobody is executed.")
		if err != nil {
			return nil, err
		}
		return append(outs, transOuts...), nil

	case lawyer != nil:
		lawyer.Ability.Lawyer.Used = true
		transOuts, err := c.transitionTo(r, model.PhaseExecutionReveal,
			fmt.Sprintf("%s is accused, but the case collapses. Nobody is executed.", displayName(r, accused)))
		if err != nil {
			return nil, err
		}
		return append(outs, transOuts...), nil

	default:
		r.PendingExecution = accused
		outs = append(outs, broadcast(c.event(r, model.EventExecutionPending, accused, model.ExecutionPendingPayload{
			PlayerID:    accused,
			DisplayName: displayName(r, accused),
		})))
		transOuts, err := c.transitionTo(r, model.PhaseDefense,
			fmt.Sprintf("%s stands accused and may speak in their defense.", displayName(r, accused)))
		if err != nil {
			return nil, err
		}
		return append(outs, transOuts...), nil
	}
}

// resolveVerdict settles the final verdict on the accused. Execution needs
// strictly more execute than spare ballots; a tie spares. An execution can
// hand the jester an instant win on the first day, and otherwise pulls any
// pinned death-link down with the accused before win evaluation.
func (c *Controller) resolveVerdict(r *model.Room) ([]outbound, error) {
	accused := r.FindPlayer(r.PendingExecution)
	if accused == nil {
		return c.transitionTo(r, model.PhaseExecutionReveal, "Nobody is executed.")
	}

	tally := verdictTally(r)
	if tally.Execute <= tally.Spare {
		return c.transitionTo(r, model.PhaseExecutionReveal,
			fmt.Sprintf("The village spares %s.", accused.DisplayName))
	}

	accused.Alive = false
	entries := []string{fmt.Sprintf("The village has spoken. %s is executed.", accused.DisplayName)}

	if accused.Faction == model.FactionJester && r.DayCount == 1 {
		return c.finishGame(r, model.FactionJester, entries...)
	}

	entries = append(entries, applyDeathLinks(r)...)

	if winner := evaluateWin(r); winner != model.FactionNone {
		return c.finishGame(r, winner, entries...)
	}
	return c.transitionTo(r, model.PhaseExecutionReveal, entries...)
}

// committedLawyer returns the first living lawyer whose unspent defense is
// committed to the accused, or nil
func committedLawyer(r *model.Room, accused model.PlayerID) *model.Player {
	if accused == "" {
		return nil
	}
	for i := range r.Players {
		p := &r.Players[i]
		l := p.Ability.Lawyer
		if l == nil || l.Used || !p.Alive {
			continue
		}
		if l.Client == accused {
			return p
		}
	}
	return nil
}

func clearLawyerClients(r *model.Room) {
	for i := range r.Players {
		if l := r.Players[i].Ability.Lawyer; l != nil {
			l.Client = ""
		}
	}
}

func verdictTally(r *model.Room) model.VerdictTally {
	var tally model.VerdictTally
	for _, v := range r.Verdicts {
		switch v {
		case model.VerdictExecute:
			tally.Execute++
		case model.VerdictSpare:
			tally.Spare++
		}
		tally.Total++
	}
	return tally
}
