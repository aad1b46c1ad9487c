package game

import (
	"github.com/quailholm/wolfgame-go/internal/model"
)

// dealRoles expands the config into a pool of role tokens, pads the pool
// with villagers up to the participant count, shuffles, and deals one token
// per participant in join order. Fresh ability state is attached with each
// card, so a re-deal never inherits spent charges.
func (c *Controller) dealRoles(participants []*model.Player, config model.RoleConfig) {
	var pool []model.Role
	for _, role := range model.DealOrder {
		for i := 0; i < config[role]; i++ {
			pool = append(pool, role)
		}
	}
	for len(pool) < len(participants) {
		pool = append(pool, model.RoleVillager)
	}

	c.random.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	for i, p := range participants {
		p.Role = pool[i]
		p.Faction = model.FactionOf(pool[i])
		p.Ability = model.NewAbilityState(pool[i])
		p.Alive = true
	}
}
