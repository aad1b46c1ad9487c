package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/quailholm/wolfgame-go/internal/dependencies/clock"
	"github.com/quailholm/wolfgame-go/internal/dependencies/random"
	"github.com/quailholm/wolfgame-go/internal/dispatch"
	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/services/room"
	"github.com/quailholm/wolfgame-go/internal/storage"
)

// Controller drives the game state machine: dealing, night resolution, the
// vote pipeline, and win evaluation. Every mutation runs inside the room
// registry's per-room lock; events collected during a mutation are emitted
// through the dispatcher only after the lock is released.
type Controller struct {
	registry   *room.Registry
	storage    storage.Storage
	dispatcher dispatch.Dispatcher
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
}

// NewController creates a game controller
func NewController(
	registry *room.Registry,
	storage storage.Storage,
	dispatcher dispatch.Dispatcher,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry:   registry,
		storage:    storage,
		dispatcher: dispatcher,
		clock:      clock,
		random:     random,
		logger:     logger.With(slog.String("component", "game-controller")),
	}
}

// StartGame deals roles and moves the room from lobby into the first night.
// Only the moderator may start; the config is validated against the seated
// participants before anything is dealt.
func (c *Controller) StartGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID, config model.RoleConfig) error {
	var outs []outbound
	err := c.registry.Update(code, func(r *model.Room) error {
		var err error
		outs, err = c.startGame(r, requestingPlayer, config)
		return err
	})
	if err != nil {
		return err
	}
	c.emit(outs)
	return nil
}

func (c *Controller) startGame(r *model.Room, requestingPlayer model.PlayerID, config model.RoleConfig) ([]outbound, error) {
	actor := r.FindPlayer(requestingPlayer)
	if actor == nil || !actor.IsModerator {
		return nil, model.ErrPermissionDenied
	}
	if r.Phase == model.PhaseEnded {
		return nil, model.ErrGameFinished
	}
	if r.Phase.InGame() {
		return nil, model.ErrGameAlreadyStarted
	}

	participants := r.Participants()
	if err := config.Validate(len(participants)); err != nil {
		return nil, err
	}

	c.dealRoles(participants, config)

	r.Config = config.Clone()
	r.DayCount = 1
	r.Winner = model.FactionNone
	r.PendingExecution = ""
	r.Narrative = nil
	r.GameStartedAt = c.clock.Now()

	outs := []outbound{broadcast(c.event(r, model.EventGameStarted, "", model.GameStartedPayload{
		PlayerCount: len(participants),
		Config:      r.Config,
	}))}
	for _, p := range participants {
		outs = append(outs, private(p.ID, c.event(r, model.EventRoleAssigned, p.ID, model.RoleAssignedPayload{
			Role:    p.Role,
			Faction: p.Faction,
		})))
	}

	transOuts, err := c.transitionTo(r, model.PhaseNight, "Night falls. The village sleeps.")
	if err != nil {
		return nil, err
	}
	outs = append(outs, transOuts...)

	c.logger.Info("game started",
		slog.String("room", string(r.Code)),
		slog.Int("player_count", len(participants)),
	)
	return outs, nil
}

// AdvancePhase moves the room to the next phase of the cycle on the
// moderator's command, running whatever resolution the current phase ends
// with: night resolution, vote closure, or the final verdict.
func (c *Controller) AdvancePhase(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) error {
	var outs []outbound
	var archive *model.GameArchive
	err := c.registry.Update(code, func(r *model.Room) error {
		actor := r.FindPlayer(requestingPlayer)
		if actor == nil || !actor.IsModerator {
			return model.ErrPermissionDenied
		}
		var err error
		outs, err = c.advance(r)
		if err != nil {
			return err
		}
		if r.Phase == model.PhaseEnded {
			archive = c.buildArchive(r)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.emit(outs)
	if archive != nil {
		c.saveArchive(ctx, archive)
	}
	return nil
}

// ScheduledAdvance applies a timer-driven phase advance. The phase and
// generation captured when the timer was armed must still match, otherwise
// the request is stale and discarded without effect. Early advances
// additionally require that every eligible actor has submitted.
func (c *Controller) ScheduledAdvance(ctx context.Context, code model.RoomCode, expectedPhase model.Phase, expectedGeneration int, early bool) error {
	var outs []outbound
	var archive *model.GameArchive
	err := c.registry.Update(code, func(r *model.Room) error {
		if r.Phase != expectedPhase || r.Generation != expectedGeneration {
			c.logger.Debug("discarding stale scheduled advance",
				slog.String("room", string(code)),
				slog.String("expected_phase", expectedPhase.String()),
				slog.String("phase", r.Phase.String()),
			)
			return nil
		}
		if early && !c.allSubmitted(r) {
			return nil
		}
		var err error
		outs, err = c.advance(r)
		if err != nil {
			return err
		}
		if r.Phase == model.PhaseEnded {
			archive = c.buildArchive(r)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.emit(outs)
	if archive != nil {
		c.saveArchive(ctx, archive)
	}
	return nil
}

// EndGame ends the game immediately without a winner
func (c *Controller) EndGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) error {
	var outs []outbound
	var archive *model.GameArchive
	err := c.registry.Update(code, func(r *model.Room) error {
		actor := r.FindPlayer(requestingPlayer)
		if actor == nil || !actor.IsModerator {
			return model.ErrPermissionDenied
		}
		if r.Phase == model.PhaseEnded {
			return model.ErrGameFinished
		}
		if !r.Phase.InGame() {
			return model.ErrNoGameInProgress
		}
		var err error
		outs, err = c.finishGame(r, model.FactionNone, "The moderator has ended the game.")
		if err != nil {
			return err
		}
		archive = c.buildArchive(r)
		return nil
	})
	if err != nil {
		return err
	}
	c.emit(outs)
	if archive != nil {
		c.saveArchive(ctx, archive)
	}
	return nil
}

// ResetGame returns the room to the lobby with every player alive and
// undealt, ready for a fresh start. Works mid-game and after a game has
// ended; only the lobby itself has nothing to reset.
func (c *Controller) ResetGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) error {
	var outs []outbound
	err := c.registry.Update(code, func(r *model.Room) error {
		var err error
		outs, err = c.resetGame(r, requestingPlayer)
		return err
	})
	if err != nil {
		return err
	}
	c.emit(outs)
	return nil
}

func (c *Controller) resetGame(r *model.Room, requestingPlayer model.PlayerID) ([]outbound, error) {
	actor := r.FindPlayer(requestingPlayer)
	if actor == nil || !actor.IsModerator {
		return nil, model.ErrPermissionDenied
	}
	if r.Phase == model.PhaseLobby {
		return nil, model.ErrNoGameInProgress
	}

	for i := range r.Players {
		p := &r.Players[i]
		p.Alive = true
		p.Role = model.RoleNone
		p.Faction = model.FactionNone
		p.Ability = model.AbilityState{}
	}
	r.Actions.Clear()
	r.Votes.Clear()
	r.Verdicts = make(map[model.PlayerID]model.Verdict)
	r.Ready = make(map[model.PlayerID]bool)
	r.PendingExecution = ""
	r.Winner = model.FactionNone
	r.DayCount = 0
	r.Config = nil
	r.GameStartedAt = time.Time{}
	r.Narrative = nil

	outs, err := c.transitionTo(r, model.PhaseLobby, "The game has been reset.")
	if err != nil {
		return nil, err
	}
	outs = append(outs, broadcast(c.event(r, model.EventGameReset, requestingPlayer, nil)))

	c.logger.Info("game reset", slog.String("room", string(r.Code)))
	return outs, nil
}

// advance runs the resolution the current phase ends with and moves to the
// next phase of the cycle
func (c *Controller) advance(r *model.Room) ([]outbound, error) {
	switch r.Phase {
	case model.PhaseNight:
		return c.finishNight(r)
	case model.PhaseDay:
		return c.transitionTo(r, model.PhaseVote, "The village gathers to vote.")
	case model.PhaseVote:
		return c.closeVote(r)
	case model.PhaseDefense:
		return c.transitionTo(r, model.PhaseFinalVerdict,
			displayName(r, r.PendingExecution)+" awaits the village's final verdict.")
	case model.PhaseFinalVerdict:
		return c.resolveVerdict(r)
	case model.PhaseExecutionReveal:
		return c.transitionTo(r, model.PhaseNight, "Night falls. The village sleeps.")
	case model.PhaseLobby:
		return nil, model.ErrNoGameInProgress
	default:
		return nil, model.ErrGameFinished
	}
}

// transitionTo moves the room to the next phase, bumping the generation
// counter and resetting whatever submission window the new phase opens.
// Day count ticks on entry to execution_reveal, the last stop before the
// cycle returns to night.
func (c *Controller) transitionTo(r *model.Room, next model.Phase, entries ...string) ([]outbound, error) {
	if !r.Phase.CanTransitionTo(next) {
		return nil, model.ErrInvalidAction
	}
	r.Phase = next
	r.Generation++
	r.UpdatedAt = c.clock.Now()

	switch next {
	case model.PhaseNight:
		r.Actions.Clear()
		r.Ready = make(map[model.PlayerID]bool)
	case model.PhaseDay:
		r.Ready = make(map[model.PlayerID]bool)
	case model.PhaseVote:
		r.Votes.Clear()
	case model.PhaseFinalVerdict:
		r.Verdicts = make(map[model.PlayerID]model.Verdict)
	case model.PhaseExecutionReveal:
		r.DayCount++
		r.PendingExecution = ""
	case model.PhaseEnded:
		r.PendingExecution = ""
	}

	for _, entry := range entries {
		r.AppendNarrative(entry)
	}

	outs := []outbound{broadcast(c.event(r, model.EventPhaseChanged, "", model.PhaseChangedPayload{
		Phase:    next,
		DayCount: r.DayCount,
	}))}
	if len(entries) > 0 {
		outs = append(outs, broadcast(c.event(r, model.EventNarrative, "", model.NarrativePayload{
			Entries: entries,
		})))
	}
	return outs, nil
}

// allSubmitted reports whether every eligible actor for the current phase
// has submitted, which is what qualifies the phase for an early advance.
// Phases without a submission window never qualify.
func (c *Controller) allSubmitted(r *model.Room) bool {
	switch r.Phase {
	case model.PhaseNight:
		actors := r.NightActors()
		if len(actors) == 0 {
			return false
		}
		for _, p := range actors {
			if !r.Actions.HasActor(p.ID) {
				return false
			}
		}
		return true
	case model.PhaseDay:
		actors := r.EligibleActors()
		if len(actors) == 0 {
			return false
		}
		for _, p := range actors {
			if !r.Ready[p.ID] {
				return false
			}
		}
		return true
	case model.PhaseVote:
		actors := r.EligibleActors()
		if len(actors) == 0 {
			return false
		}
		for _, p := range actors {
			if !r.Votes.HasVoter(p.ID) {
				return false
			}
		}
		return true
	case model.PhaseFinalVerdict:
		actors := r.EligibleActors()
		if len(actors) == 0 {
			return false
		}
		for _, p := range actors {
			if _, ok := r.Verdicts[p.ID]; !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// outbound is one event with its audience: a specific player, or everyone
// in the room when to is empty
type outbound struct {
	to    model.PlayerID
	event model.Event
}

func broadcast(event model.Event) outbound {
	return outbound{event: event}
}

func private(to model.PlayerID, event model.Event) outbound {
	return outbound{to: to, event: event}
}

// emit delivers collected events through the dispatcher. Callers emit only
// after releasing the room lock.
func (c *Controller) emit(outs []outbound) {
	for _, o := range outs {
		if o.to == "" {
			c.dispatcher.Broadcast(o.event)
		} else {
			c.dispatcher.SendToPlayer(o.to, o.event)
		}
	}
}

func (c *Controller) event(r *model.Room, eventType model.EventType, playerID model.PlayerID, payload any) model.Event {
	return model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		RoomCode:  r.Code,
		PlayerID:  playerID,
		Payload:   payload,
	}
}

func displayName(r *model.Room, id model.PlayerID) string {
	if p := r.FindPlayer(id); p != nil {
		return p.DisplayName
	}
	return string(id)
}

// Interface for dependency injection
type ControllerInterface interface {
	StartGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID, config model.RoleConfig) error
	SubmitAction(ctx context.Context, code model.RoomCode, playerID model.PlayerID, ability model.Ability, target model.PlayerID) error
	SubmitVote(ctx context.Context, code model.RoomCode, playerID model.PlayerID, target model.PlayerID) (*model.VoteTally, error)
	SubmitVerdict(ctx context.Context, code model.RoomCode, playerID model.PlayerID, verdict model.Verdict) error
	SignalReady(ctx context.Context, code model.RoomCode, playerID model.PlayerID) error
	AdvancePhase(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) error
	ScheduledAdvance(ctx context.Context, code model.RoomCode, expectedPhase model.Phase, expectedGeneration int, early bool) error
	EndGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) error
	ResetGame(ctx context.Context, code model.RoomCode, requestingPlayer model.PlayerID) error
	GetPlayerView(code model.RoomCode, viewerID model.PlayerID) (*model.RoomView, error)
}

var _ ControllerInterface = (*Controller)(nil)
