// Package scheduler drives phase deadlines from engine events. It listens
// on the dispatch fanout, arms a timer whenever a room enters a timed
// phase, and asks the game controller to advance when the timer fires. The
// controller re-checks phase and generation under the room lock, so a
// timer that outlived its phase is discarded there.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/quailholm/wolfgame-go/internal/dependencies/clock"
	"github.com/quailholm/wolfgame-go/internal/dispatch"
	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/services/room"
)

// Advancer applies a timer-driven phase advance
type Advancer interface {
	ScheduledAdvance(ctx context.Context, code model.RoomCode, expectedPhase model.Phase, expectedGeneration int, early bool) error
}

// Config holds the per-phase timer durations. A zero duration disables
// that timer.
type Config struct {
	Night        time.Duration
	Day          time.Duration
	Vote         time.Duration
	Defense      time.Duration
	FinalVerdict time.Duration
	Reveal       time.Duration
	// Grace is the pause between the last actor's submission and the early
	// advance it earns. Zero advances immediately.
	Grace time.Duration
}

// DefaultConfig returns the stock timings
func DefaultConfig() Config {
	return Config{
		Night:        90 * time.Second,
		Day:          3 * time.Minute,
		Vote:         60 * time.Second,
		Defense:      30 * time.Second,
		FinalVerdict: 45 * time.Second,
		Reveal:       10 * time.Second,
		Grace:        3 * time.Second,
	}
}

// Scheduler owns the phase timers of every live room. Autonomous rooms get
// a deadline for each timed phase and an early advance once every eligible
// actor has submitted; moderated rooms are driven by their moderator except
// for the two fixed-duration phases, defense and the execution reveal.
type Scheduler struct {
	advancer Advancer
	registry *room.Registry
	config   Config
	clock    clock.Clock
	logger   *slog.Logger

	mu    sync.Mutex
	rooms map[model.RoomCode]*roomTimers
}

// A room keeps the phase deadline and the early-advance grace timer apart:
// a grace timer that fires stale must not have eaten the deadline.
type roomTimers struct {
	deadline clock.Timer
	grace    clock.Timer
}

// Ensure the scheduler can sit on the dispatch fanout
var _ dispatch.Dispatcher = (*Scheduler)(nil)

// New creates a scheduler. Register it on the fanout so it sees phase
// changes.
func New(advancer Advancer, registry *room.Registry, config Config, clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		advancer: advancer,
		registry: registry,
		config:   config,
		clock:    clk,
		logger:   logger.With(slog.String("component", "scheduler")),
		rooms:    make(map[model.RoomCode]*roomTimers),
	}
}

// Broadcast watches the event stream for moments that arm or cancel timers
func (s *Scheduler) Broadcast(event model.Event) {
	switch event.Type {
	case model.EventPhaseChanged:
		s.rearm(event.RoomCode)
	case model.EventAllActionsIn:
		s.armGrace(event.RoomCode)
	case model.EventGameEnded:
		s.cancel(event.RoomCode)
	}
}

func (s *Scheduler) SendToPlayer(model.PlayerID, model.Event) {}

// RoomClosed drops every timer the room still holds
func (s *Scheduler) RoomClosed(code model.RoomCode) {
	s.cancel(code)
}

// Stop cancels all timers across all rooms, for shutdown
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, rt := range s.rooms {
		rt.stop()
		delete(s.rooms, code)
	}
}

// rearm replaces the room's timers with a fresh deadline for its current
// phase. The phase and generation are snapshotted here; the controller
// discards the advance if either has moved on by the time the timer fires.
func (s *Scheduler) rearm(code model.RoomCode) {
	phase, generation, autonomous, err := s.snapshot(code)
	if err != nil {
		s.cancel(code)
		return
	}
	d := s.phaseDuration(phase, autonomous)

	s.mu.Lock()
	defer s.mu.Unlock()
	rt := s.timersLocked(code)
	rt.stop()
	if d <= 0 {
		delete(s.rooms, code)
		return
	}
	rt.deadline = s.clock.AfterFunc(d, func() {
		s.fire(code, phase, generation, false)
	})
	s.logger.Debug("phase deadline armed",
		slog.String("room", string(code)),
		slog.String("phase", string(phase)),
		slog.Duration("after", d),
	)
}

// armGrace schedules the early advance an autonomous room earns when its
// last eligible actor submits. The deadline stays armed; if the early
// advance turns out stale the room still has its full timeout.
func (s *Scheduler) armGrace(code model.RoomCode) {
	phase, generation, autonomous, err := s.snapshot(code)
	if err != nil || !autonomous {
		return
	}
	if s.config.Grace <= 0 {
		s.fire(code, phase, generation, true)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rt := s.timersLocked(code)
	if rt.grace != nil {
		rt.grace.Stop()
	}
	rt.grace = s.clock.AfterFunc(s.config.Grace, func() {
		s.fire(code, phase, generation, true)
	})
	s.logger.Debug("early advance armed",
		slog.String("room", string(code)),
		slog.String("phase", string(phase)),
		slog.Duration("after", s.config.Grace),
	)
}

func (s *Scheduler) cancel(code model.RoomCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rt := s.rooms[code]; rt != nil {
		rt.stop()
		delete(s.rooms, code)
	}
}

// fire hands a ripened timer to the controller. Stale timers come back as
// a clean no-op, so only real faults are worth logging.
func (s *Scheduler) fire(code model.RoomCode, phase model.Phase, generation int, early bool) {
	err := s.advancer.ScheduledAdvance(context.Background(), code, phase, generation, early)
	if err == nil {
		return
	}
	if errors.Is(err, model.ErrRoomNotFound) {
		s.logger.Debug("scheduled advance hit a closed room", slog.String("room", string(code)))
		return
	}
	s.logger.Error("scheduled advance failed",
		slog.String("room", string(code)),
		slog.String("phase", string(phase)),
		slog.String("error", err.Error()),
	)
}

func (s *Scheduler) snapshot(code model.RoomCode) (phase model.Phase, generation int, autonomous bool, err error) {
	err = s.registry.Read(code, func(r *model.Room) error {
		phase = r.Phase
		generation = r.Generation
		autonomous = r.Autonomous
		return nil
	})
	return phase, generation, autonomous, err
}

func (s *Scheduler) timersLocked(code model.RoomCode) *roomTimers {
	rt := s.rooms[code]
	if rt == nil {
		rt = &roomTimers{}
		s.rooms[code] = rt
	}
	return rt
}

// phaseDuration picks the timeout for a phase, or zero when the phase is
// not timed for this room. Defense and the reveal run on a timer in every
// room; the rest only when no moderator is driving.
func (s *Scheduler) phaseDuration(phase model.Phase, autonomous bool) time.Duration {
	switch phase {
	case model.PhaseDefense:
		return s.config.Defense
	case model.PhaseExecutionReveal:
		return s.config.Reveal
	}
	if !autonomous {
		return 0
	}
	switch phase {
	case model.PhaseNight:
		return s.config.Night
	case model.PhaseDay:
		return s.config.Day
	case model.PhaseVote:
		return s.config.Vote
	case model.PhaseFinalVerdict:
		return s.config.FinalVerdict
	}
	return 0
}

func (rt *roomTimers) stop() {
	if rt.deadline != nil {
		rt.deadline.Stop()
		rt.deadline = nil
	}
	if rt.grace != nil {
		rt.grace.Stop()
		rt.grace = nil
	}
}
