package game

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// evaluateWin checks the standing win conditions. The moderator is never
// counted; wolves win at parity or better, the village once no wolf is
// left alive.
func evaluateWin(r *model.Room) model.Faction {
	wolves, others := r.AliveFactionCounts()
	switch {
	case wolves == 0:
		return model.FactionVillage
	case wolves >= others:
		return model.FactionWolves
	default:
		return model.FactionNone
	}
}

// finishGame records the winner and moves the room to ended. The passed
// entries land in the narrative ahead of the faction's closing line.
func (c *Controller) finishGame(r *model.Room, winner model.Faction, entries ...string) ([]outbound, error) {
	r.Winner = winner
	switch winner {
	case model.FactionVillage:
		entries = append(entries, "The village is victorious.")
	case model.FactionWolves:
		entries = append(entries, "The wolves overrun the village.")
	case model.FactionJester:
		entries = append(entries, "The jester wins.")
	}

	outs, err := c.transitionTo(r, model.PhaseEnded, entries...)
	if err != nil {
		return nil, err
	}
	outs = append(outs, broadcast(c.event(r, model.EventGameEnded, "", model.GameEndedPayload{
		Winner: winner,
	})))

	c.logger.Info("game ended",
		slog.String("room", string(r.Code)),
		slog.String("winner", string(winner)),
		slog.Int("day_count", r.DayCount),
	)
	return outs, nil
}

// buildArchive snapshots a finished room for storage. Callers build the
// archive under the room lock and save it after release.
func (c *Controller) buildArchive(r *model.Room) *model.GameArchive {
	archive := &model.GameArchive{
		ID:        model.ArchiveID(uuid.NewString()),
		RoomCode:  r.Code,
		Winner:    r.Winner,
		DayCount:  r.DayCount,
		Narrative: append([]string(nil), r.Narrative...),
		StartedAt: r.GameStartedAt,
		EndedAt:   c.clock.Now(),
	}
	if archive.StartedAt.IsZero() {
		archive.StartedAt = r.CreatedAt
	}
	for _, p := range r.Players {
		archive.Players = append(archive.Players, model.ArchivedPlayer{
			DisplayName: p.DisplayName,
			Role:        p.Role,
			Faction:     p.Faction,
			Alive:       p.Alive,
			IsModerator: p.IsModerator,
		})
	}
	return archive
}

// saveArchive persists a finished game. Failures are logged, not returned;
// archiving never blocks or fails the end of a game.
func (c *Controller) saveArchive(ctx context.Context, archive *model.GameArchive) {
	if err := c.storage.SaveArchive(ctx, archive); err != nil {
		c.logger.Error("failed to archive finished game",
			slog.String("room", string(archive.RoomCode)),
			slog.String("error", err.Error()),
		)
		return
	}
	c.logger.Info("game archived",
		slog.String("room", string(archive.RoomCode)),
		slog.String("archive_id", string(archive.ID)),
	)
}
