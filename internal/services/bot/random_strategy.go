package bot

import (
	"github.com/quailholm/wolfgame-go/internal/dependencies/random"
	"github.com/quailholm/wolfgame-go/internal/model"
)

// RandomStrategy plays every role on uniform random choices. Wolves never
// target packmates, the guard respects the no-repeat rule, and one-shot
// abilities fire the first night they can.
type RandomStrategy struct {
	random random.Random
}

// Ensure RandomStrategy implements Strategy
var _ Strategy = (*RandomStrategy)(nil)

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

func (s *RandomStrategy) ChooseNightAction(r *model.Room, bot *model.Player) (model.Ability, model.PlayerID, bool) {
	switch bot.Role {
	case model.RoleWerewolf, model.RoleAlphaWolf:
		if target, ok := s.pick(r, bot, func(p *model.Player) bool {
			return p.Faction != model.FactionWolves
		}); ok {
			return model.AbilityWolfKill, target, true
		}
	case model.RoleSeer:
		if target, ok := s.pickOther(r, bot); ok {
			return model.AbilityPeek, target, true
		}
	case model.RoleGuard:
		if target, ok := s.pick(r, bot, func(p *model.Player) bool {
			return bot.Ability.Guard == nil || p.ID != bot.Ability.Guard.LastProtected
		}); ok {
			return model.AbilityProtect, target, true
		}
	case model.RoleWitch:
		if w := bot.Ability.Witch; w != nil && !w.UsedKill {
			if target, ok := s.pickOther(r, bot); ok {
				return model.AbilityPoison, target, true
			}
		}
	case model.RoleHunter:
		if target, ok := s.pickOther(r, bot); ok {
			return model.AbilityMark, target, true
		}
	case model.RoleTracker:
		if target, ok := s.pickOther(r, bot); ok {
			return model.AbilityWatch, target, true
		}
	}
	return "", "", false
}

func (s *RandomStrategy) ChooseClient(r *model.Room, bot *model.Player) (model.PlayerID, bool) {
	if bot.Role != model.RoleLawyer {
		return "", false
	}
	if l := bot.Ability.Lawyer; l == nil || l.Used {
		return "", false
	}
	return s.pickOther(r, bot)
}

func (s *RandomStrategy) ChooseVote(r *model.Room, bot *model.Player) model.PlayerID {
	target, ok := s.pickOther(r, bot)
	if !ok {
		return ""
	}
	return target
}

func (s *RandomStrategy) ChooseVerdict(r *model.Room, bot *model.Player) model.Verdict {
	if s.random.Intn(2) == 0 {
		return model.VerdictExecute
	}
	return model.VerdictSpare
}

// pickOther picks a random living player other than the bot itself
func (s *RandomStrategy) pickOther(r *model.Room, bot *model.Player) (model.PlayerID, bool) {
	return s.pick(r, bot, func(p *model.Player) bool { return true })
}

// pick picks a random living non-moderator player, excluding the bot,
// among those the filter accepts
func (s *RandomStrategy) pick(r *model.Room, bot *model.Player, filter func(*model.Player) bool) (model.PlayerID, bool) {
	var candidates []model.PlayerID
	for i := range r.Players {
		p := &r.Players[i]
		if p.IsModerator || !p.Alive || p.ID == bot.ID {
			continue
		}
		if filter(p) {
			candidates = append(candidates, p.ID)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[s.random.Intn(len(candidates))], true
}
