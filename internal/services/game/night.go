package game

import (
	"fmt"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// finishNight resolves the night's submissions, evaluates the win
// condition, and moves the room into day (or ends the game)
func (c *Controller) finishNight(r *model.Room) ([]outbound, error) {
	outs, entries := c.resolveNight(r)

	r.Actions.Clear()
	r.Ready = make(map[model.PlayerID]bool)

	if winner := evaluateWin(r); winner != model.FactionNone {
		finishOuts, err := c.finishGame(r, winner, entries...)
		if err != nil {
			return nil, err
		}
		return append(outs, finishOuts...), nil
	}

	transOuts, err := c.transitionTo(r, model.PhaseDay, append([]string{"The sun rises."}, entries...)...)
	if err != nil {
		return nil, err
	}
	return append(outs, transOuts...), nil
}

// resolveNight applies the night's action ledger in precedence order and
// returns the private reveal events plus the narrative entries describing
// the visible outcome. The ledger is read up front and never re-read;
// effects touch player state only.
func (c *Controller) resolveNight(r *model.Room) ([]outbound, []string) {
	marks := r.Actions.ByAbility(model.AbilityMark)
	kills := r.Actions.ByAbility(model.AbilityWolfKill)
	protects := r.Actions.ByAbility(model.AbilityProtect)
	curses := r.Actions.ByAbility(model.AbilityCurse)
	saves := r.Actions.ByAbility(model.AbilitySave)
	poisons := r.Actions.ByAbility(model.AbilityPoison)
	peeks := r.Actions.ByAbility(model.AbilityPeek)
	watches := r.Actions.ByAbility(model.AbilityWatch)

	// Pin death-link marks before any death lands, so a hunter who dies
	// tonight still drags their marked target down.
	for _, a := range marks {
		if holder := r.FindPlayer(a.Actor); holder != nil && holder.Ability.Hunter != nil {
			holder.Ability.Hunter.Marked = a.Target
		}
	}

	// Wolf consensus target: plurality of kill ballots.
	var killTargets []model.PlayerID
	for _, a := range kills {
		killTargets = append(killTargets, a.Target)
	}
	consensus, _ := pluralityWinner(killTargets)

	// Tonight's protection set. A guard who sat the night out sheds the
	// no-repeat constraint for the next one.
	for i := range r.Players {
		if g := r.Players[i].Ability.Guard; g != nil {
			g.LastProtected = ""
		}
	}
	protected := make(map[model.PlayerID]bool)
	for _, a := range protects {
		protected[a.Target] = true
		if guard := r.FindPlayer(a.Actor); guard != nil && guard.Ability.Guard != nil {
			guard.Ability.Guard.LastProtected = a.Target
		}
	}

	var deaths []*model.Player
	kill := func(id model.PlayerID) {
		p := r.FindPlayer(id)
		if p == nil || !p.Alive {
			return
		}
		p.Alive = false
		deaths = append(deaths, p)
	}

	// Consensus kill. Protection or a valid salvation skips it outright,
	// leaving any curse charge unspent; an unspent curse on the unprotected
	// target converts instead of killing.
	if consensus != "" {
		saved := false
		for _, a := range saves {
			witch := r.FindPlayer(a.Actor)
			if witch == nil || witch.Ability.Witch == nil || witch.Ability.Witch.UsedSave {
				continue
			}
			if a.Target != consensus {
				continue
			}
			witch.Ability.Witch.UsedSave = true
			saved = true
		}

		if !protected[consensus] && !saved {
			converted := false
			for _, a := range curses {
				if a.Target != consensus {
					continue
				}
				alpha := r.FindPlayer(a.Actor)
				if alpha == nil || alpha.Ability.Alpha == nil || alpha.Ability.Alpha.UsedCurse {
					continue
				}
				alpha.Ability.Alpha.UsedCurse = true
				converted = true
				break
			}
			if converted {
				if t := r.FindPlayer(consensus); t != nil {
					t.Faction = model.FactionWolves
				}
			} else {
				kill(consensus)
			}
		}
	}

	// Lethal potions are independent kills. A potion thrown at a guarded
	// target is wasted silently; the charge is spent either way.
	for _, a := range poisons {
		witch := r.FindPlayer(a.Actor)
		if witch == nil || witch.Ability.Witch == nil || witch.Ability.Witch.UsedKill {
			continue
		}
		witch.Ability.Witch.UsedKill = true
		if !protected[a.Target] {
			kill(a.Target)
		}
	}

	// Private reveals go to the asking player only. The seer reads the
	// target's current faction, so a conversion tonight already shows.
	var outs []outbound
	for _, a := range peeks {
		t := r.FindPlayer(a.Target)
		if t == nil {
			continue
		}
		outs = append(outs, private(a.Actor, c.event(r, model.EventPeekResult, a.Actor, model.PeekResultPayload{
			Target:  a.Target,
			Faction: t.Faction,
		})))
	}
	for _, a := range watches {
		t := r.FindPlayer(a.Target)
		if t == nil {
			continue
		}
		outs = append(outs, private(a.Actor, c.event(r, model.EventWatchResult, a.Actor, model.WatchResultPayload{
			Target: a.Target,
			Active: model.HasNightAbility(t.Role),
		})))
	}

	var entries []string
	for _, p := range deaths {
		entries = append(entries, fmt.Sprintf("%s was found dead.", p.DisplayName))
	}
	entries = append(entries, applyDeathLinks(r)...)
	if len(entries) == 0 {
		entries = append(entries, "Everyone is unharmed.")
	}
	return outs, entries
}

// applyDeathLinks fires every pinned death-link whose holder has died,
// repeating until no new death fires. A fired or orphaned link is cleared
// either way. Link deaths bypass guard protection; they are the only kill
// that does.
func applyDeathLinks(r *model.Room) []string {
	var entries []string
	for {
		fired := false
		for i := range r.Players {
			holder := &r.Players[i]
			h := holder.Ability.Hunter
			if h == nil || h.Marked == "" || holder.Alive {
				continue
			}
			marked := h.Marked
			h.Marked = ""
			if t := r.FindPlayer(marked); t != nil && t.Alive {
				t.Alive = false
				entries = append(entries, fmt.Sprintf("%s is dragged down with %s.", t.DisplayName, holder.DisplayName))
				fired = true
			}
		}
		if !fired {
			break
		}
	}
	return entries
}

// pluralityWinner picks the target named most often. Ties break in favor of
// whichever target reached the final maximum first, so submission order
// decides and the result is deterministic.
func pluralityWinner(targets []model.PlayerID) (model.PlayerID, int) {
	counts := make(map[model.PlayerID]int)
	var winner model.PlayerID
	best := 0
	for _, t := range targets {
		counts[t]++
		if counts[t] > best {
			best = counts[t]
			winner = t
		}
	}
	return winner, best
}
