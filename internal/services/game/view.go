package game

import (
	"github.com/quailholm/wolfgame-go/internal/model"
)

// GetPlayerView returns the room as the given viewer is allowed to see it
func (c *Controller) GetPlayerView(code model.RoomCode, viewerID model.PlayerID) (*model.RoomView, error) {
	var view *model.RoomView
	err := c.registry.Read(code, func(r *model.Room) error {
		viewer := r.FindPlayer(viewerID)
		if viewer == nil {
			return model.ErrInvalidPlayer
		}
		view = buildView(r, viewer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func buildView(r *model.Room, viewer *model.Player) *model.RoomView {
	view := &model.RoomView{
		Code:             r.Code,
		Phase:            r.Phase,
		DayCount:         r.DayCount,
		You:              viewer.ID,
		Narrative:        append([]string(nil), r.Narrative...),
		PendingExecution: r.PendingExecution,
		Winner:           r.Winner,
		Config:           r.Config.Clone(),
	}

	for i := range r.Players {
		p := &r.Players[i]
		pv := model.PlayerView{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			IsModerator: p.IsModerator,
			IsBot:       p.IsBot,
			Connected:   p.Connected,
			Alive:       p.Alive,
		}
		if roleVisible(r, viewer, p) {
			pv.Role = p.Role
			pv.Faction = p.Faction
		}
		view.Players = append(view.Players, pv)
	}

	if len(r.Votes.Ballots) > 0 {
		tally := r.Votes.Tally()
		view.VoteTally = &tally
	}
	if len(r.Verdicts) > 0 && verdictsVisible(r, viewer) {
		tally := verdictTally(r)
		view.VerdictTally = &tally
	}
	return view
}

// roleVisible reports whether the viewer may see this player's hidden role.
// The moderator and eliminated spectators see everything, everyone sees
// their own card, and all cards turn face up once the game ends.
func roleVisible(r *model.Room, viewer, p *model.Player) bool {
	if r.Phase == model.PhaseEnded {
		return true
	}
	if viewer.IsModerator || viewer.ID == p.ID {
		return true
	}
	return !viewer.Alive
}

// verdictsVisible reports whether the viewer may see the verdict tally.
// Players see it only once the outcome is being revealed; the moderator
// watches it fill in live.
func verdictsVisible(r *model.Room, viewer *model.Player) bool {
	if viewer.IsModerator {
		return true
	}
	return r.Phase == model.PhaseExecutionReveal || r.Phase == model.PhaseEnded
}
