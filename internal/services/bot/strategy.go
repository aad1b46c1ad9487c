package bot

import "github.com/quailholm/wolfgame-go/internal/model"

// Strategy decides what a bot seat does in each phase. Implementations see
// the full room, mirroring what the engine knows; how much of it they use
// is up to them.
type Strategy interface {
	// ChooseNightAction picks the bot's night submission, or reports none
	ChooseNightAction(r *model.Room, bot *model.Player) (model.Ability, model.PlayerID, bool)
	// ChooseClient picks who a lawyer bot pre-commits to defending today,
	// or reports none
	ChooseClient(r *model.Room, bot *model.Player) (model.PlayerID, bool)
	// ChooseVote picks the bot's accusation ballot; an empty target skips
	ChooseVote(r *model.Room, bot *model.Player) model.PlayerID
	// ChooseVerdict picks execute or spare for the accused
	ChooseVerdict(r *model.Room, bot *model.Player) model.Verdict
}
