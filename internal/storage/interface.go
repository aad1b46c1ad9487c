package storage

import (
	"context"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// Storage defines the interface for finished-game persistence. Live rooms
// never touch it; the game controller writes an archive once per game end.
type Storage interface {
	// Archive operations
	SaveArchive(ctx context.Context, archive *model.GameArchive) error
	GetArchive(ctx context.Context, id model.ArchiveID) (*model.GameArchive, error)
	// ListArchives returns up to limit archives, most recently ended first.
	ListArchives(ctx context.Context, limit int) ([]*model.GameArchive, error)
	DeleteArchive(ctx context.Context, id model.ArchiveID) error
}
