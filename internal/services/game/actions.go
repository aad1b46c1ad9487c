package game

import (
	"context"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// SubmitAction records an ability intent for the current phase. Most
// abilities land in the action ledger, where a re-submission replaces the
// earlier one; the lawyer's defense commits directly to ability state
// instead. The moderator is notified of every accepted submission, and the
// room is told when the night's last actor is in.
func (c *Controller) SubmitAction(ctx context.Context, code model.RoomCode, playerID model.PlayerID, ability model.Ability, target model.PlayerID) error {
	var outs []outbound
	err := c.registry.Update(code, func(r *model.Room) error {
		var err error
		outs, err = c.submitAction(r, playerID, ability, target)
		return err
	})
	if err != nil {
		return err
	}
	c.emit(outs)
	return nil
}

func (c *Controller) submitAction(r *model.Room, playerID model.PlayerID, ability model.Ability, target model.PlayerID) ([]outbound, error) {
	if r.Phase == model.PhaseEnded {
		return nil, model.ErrGameFinished
	}
	actor := r.FindPlayer(playerID)
	if actor == nil || actor.IsModerator || !actor.Alive || !actor.Connected {
		return nil, model.ErrInvalidPlayer
	}
	if !model.ValidAbility(ability) {
		return nil, model.ErrInvalidAction
	}
	if !model.AbilityAllowed(ability, actor.Role, r.Phase) {
		return nil, model.ErrInvalidAction
	}
	if t := r.FindPlayer(target); t == nil || t.IsModerator || !t.Alive {
		return nil, model.ErrInvalidAction
	}

	switch ability {
	case model.AbilityProtect:
		if g := actor.Ability.Guard; g != nil && g.LastProtected == target {
			return nil, model.ErrRepeatedProtection
		}
		r.Actions.Submit(model.Action{Actor: playerID, Ability: ability, Target: target})
	case model.AbilityDefend:
		l := actor.Ability.Lawyer
		if l == nil || l.Used {
			return nil, model.ErrInvalidAction
		}
		l.Client = target
	default:
		r.Actions.Submit(model.Action{Actor: playerID, Ability: ability, Target: target})
	}
	r.UpdatedAt = c.clock.Now()

	var outs []outbound
	if mod := r.Moderator(); mod != nil {
		outs = append(outs, private(mod.ID, c.event(r, model.EventActionReceived, playerID, model.ActionReceivedPayload{
			PlayerID: playerID,
			Ability:  ability,
		})))
	}
	if r.Phase == model.PhaseNight && c.allSubmitted(r) {
		outs = append(outs, broadcast(c.event(r, model.EventAllActionsIn, "", model.AllActionsInPayload{
			Phase: r.Phase,
		})))
	}
	return outs, nil
}

// SubmitVote casts a day-vote ballot for a target, or a skip when target is
// empty. The latest ballot per voter counts. Returns the running tally.
func (c *Controller) SubmitVote(ctx context.Context, code model.RoomCode, playerID model.PlayerID, target model.PlayerID) (*model.VoteTally, error) {
	var outs []outbound
	var tally *model.VoteTally
	err := c.registry.Update(code, func(r *model.Room) error {
		var err error
		tally, outs, err = c.submitVote(r, playerID, target)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.emit(outs)
	return tally, nil
}

func (c *Controller) submitVote(r *model.Room, playerID, target model.PlayerID) (*model.VoteTally, []outbound, error) {
	if r.Phase == model.PhaseEnded {
		return nil, nil, model.ErrGameFinished
	}
	if r.Phase != model.PhaseVote {
		return nil, nil, model.ErrInvalidAction
	}
	actor := r.FindPlayer(playerID)
	if actor == nil || actor.IsModerator || !actor.Alive || !actor.Connected {
		return nil, nil, model.ErrInvalidPlayer
	}
	if target != "" {
		if t := r.FindPlayer(target); t == nil || t.IsModerator || !t.Alive {
			return nil, nil, model.ErrInvalidAction
		}
	}

	r.Votes.Cast(model.Ballot{Voter: playerID, Target: target})
	r.UpdatedAt = c.clock.Now()

	tally := r.Votes.Tally()
	outs := []outbound{broadcast(c.event(r, model.EventVoteTally, "", model.VoteTallyPayload{
		Tally: tally,
	}))}
	if c.allSubmitted(r) {
		outs = append(outs, broadcast(c.event(r, model.EventAllActionsIn, "", model.AllActionsInPayload{
			Phase: r.Phase,
		})))
	}
	return &tally, outs, nil
}

// SubmitVerdict casts an execute or spare ballot against the accused during
// the final verdict. The accused may vote on their own fate.
func (c *Controller) SubmitVerdict(ctx context.Context, code model.RoomCode, playerID model.PlayerID, verdict model.Verdict) error {
	var outs []outbound
	err := c.registry.Update(code, func(r *model.Room) error {
		var err error
		outs, err = c.submitVerdict(r, playerID, verdict)
		return err
	})
	if err != nil {
		return err
	}
	c.emit(outs)
	return nil
}

func (c *Controller) submitVerdict(r *model.Room, playerID model.PlayerID, verdict model.Verdict) ([]outbound, error) {
	if r.Phase == model.PhaseEnded {
		return nil, model.ErrGameFinished
	}
	if r.Phase != model.PhaseFinalVerdict {
		return nil, model.ErrInvalidAction
	}
	if !model.ValidVerdict(verdict) {
		return nil, model.ErrInvalidAction
	}
	actor := r.FindPlayer(playerID)
	if actor == nil || actor.IsModerator || !actor.Alive || !actor.Connected {
		return nil, model.ErrInvalidPlayer
	}

	r.Verdicts[playerID] = verdict
	r.UpdatedAt = c.clock.Now()

	var outs []outbound
	if mod := r.Moderator(); mod != nil {
		outs = append(outs, private(mod.ID, c.event(r, model.EventVerdictReceived, playerID, model.VerdictReceivedPayload{
			PlayerID: playerID,
			Tally:    verdictTally(r),
		})))
	}
	if c.allSubmitted(r) {
		outs = append(outs, broadcast(c.event(r, model.EventAllActionsIn, "", model.AllActionsInPayload{
			Phase: r.Phase,
		})))
	}
	return outs, nil
}

// SignalReady marks a player ready for the day to end. The day advances
// early once every eligible player is ready.
func (c *Controller) SignalReady(ctx context.Context, code model.RoomCode, playerID model.PlayerID) error {
	var outs []outbound
	err := c.registry.Update(code, func(r *model.Room) error {
		var err error
		outs, err = c.signalReady(r, playerID)
		return err
	})
	if err != nil {
		return err
	}
	c.emit(outs)
	return nil
}

func (c *Controller) signalReady(r *model.Room, playerID model.PlayerID) ([]outbound, error) {
	if r.Phase == model.PhaseEnded {
		return nil, model.ErrGameFinished
	}
	if r.Phase != model.PhaseDay {
		return nil, model.ErrInvalidAction
	}
	actor := r.FindPlayer(playerID)
	if actor == nil || actor.IsModerator || !actor.Alive || !actor.Connected {
		return nil, model.ErrInvalidPlayer
	}

	r.Ready[playerID] = true
	r.UpdatedAt = c.clock.Now()

	ready := 0
	eligible := r.EligibleActors()
	for _, p := range eligible {
		if r.Ready[p.ID] {
			ready++
		}
	}

	outs := []outbound{broadcast(c.event(r, model.EventPlayerReady, playerID, model.PlayerReadyPayload{
		PlayerID: playerID,
		Ready:    ready,
		Eligible: len(eligible),
	}))}
	if c.allSubmitted(r) {
		outs = append(outs, broadcast(c.event(r, model.EventAllActionsIn, "", model.AllActionsInPayload{
			Phase: r.Phase,
		})))
	}
	return outs, nil
}
