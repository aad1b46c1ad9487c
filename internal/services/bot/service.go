// Package bot plays the unfilled seats of a room. The service listens on
// the dispatch fanout and, whenever a room enters a phase its bots can act
// in, submits a choice for each bot seat through the same controller
// surface human players use.
package bot

import (
	"context"
	"log/slog"

	"github.com/quailholm/wolfgame-go/internal/dispatch"
	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/services/game"
	"github.com/quailholm/wolfgame-go/internal/services/room"
)

// Service drives bot seats from phase-change events
type Service struct {
	registry   *room.Registry
	controller *game.Controller
	strategy   Strategy
	logger     *slog.Logger
}

// Ensure the service can sit on the dispatch fanout
var _ dispatch.Dispatcher = (*Service)(nil)

// NewService creates a bot service. Register it on the fanout so it sees
// phase changes.
func NewService(registry *room.Registry, controller *game.Controller, strategy Strategy, logger *slog.Logger) *Service {
	return &Service{
		registry:   registry,
		controller: controller,
		strategy:   strategy,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// Broadcast watches for phase changes and plays every bot seat in the room
func (s *Service) Broadcast(event model.Event) {
	if event.Type != model.EventPhaseChanged {
		return
	}
	s.act(event.RoomCode)
}

func (s *Service) SendToPlayer(model.PlayerID, model.Event) {}

func (s *Service) RoomClosed(model.RoomCode) {}

type intentKind int

const (
	kindAction intentKind = iota
	kindVote
	kindVerdict
	kindReady
)

type intent struct {
	kind    intentKind
	player  model.PlayerID
	ability model.Ability
	target  model.PlayerID
	verdict model.Verdict
}

// act snapshots a decision for every living bot under the room's read lock,
// then submits them through the controller. A submission can lose a race
// with the phase moving on; that is a debug-level shrug, not a fault.
func (s *Service) act(code model.RoomCode) {
	var intents []intent
	err := s.registry.Read(code, func(r *model.Room) error {
		for i := range r.Players {
			p := &r.Players[i]
			if !p.IsBot || !p.Alive || !p.Connected {
				continue
			}
			switch r.Phase {
			case model.PhaseNight:
				if ability, target, ok := s.strategy.ChooseNightAction(r, p); ok {
					intents = append(intents, intent{kind: kindAction, player: p.ID, ability: ability, target: target})
				}
			case model.PhaseDay:
				if client, ok := s.strategy.ChooseClient(r, p); ok {
					intents = append(intents, intent{kind: kindAction, player: p.ID, ability: model.AbilityDefend, target: client})
				}
				intents = append(intents, intent{kind: kindReady, player: p.ID})
			case model.PhaseVote:
				intents = append(intents, intent{kind: kindVote, player: p.ID, target: s.strategy.ChooseVote(r, p)})
			case model.PhaseFinalVerdict:
				intents = append(intents, intent{kind: kindVerdict, player: p.ID, verdict: s.strategy.ChooseVerdict(r, p)})
			}
		}
		return nil
	})
	if err != nil {
		return
	}

	ctx := context.Background()
	for _, in := range intents {
		if err := s.submit(ctx, code, in); err != nil {
			s.logger.Debug("bot submission not accepted",
				slog.String("room", string(code)),
				slog.String("player", string(in.player)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (s *Service) submit(ctx context.Context, code model.RoomCode, in intent) error {
	switch in.kind {
	case kindAction:
		return s.controller.SubmitAction(ctx, code, in.player, in.ability, in.target)
	case kindVote:
		_, err := s.controller.SubmitVote(ctx, code, in.player, in.target)
		return err
	case kindVerdict:
		return s.controller.SubmitVerdict(ctx, code, in.player, in.verdict)
	case kindReady:
		return s.controller.SignalReady(ctx, code, in.player)
	}
	return nil
}
