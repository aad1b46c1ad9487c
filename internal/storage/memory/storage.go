package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	archives map[model.ArchiveID]*model.GameArchive
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		archives: make(map[model.ArchiveID]*model.GameArchive),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveArchive(ctx context.Context, archive *model.GameArchive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archives[archive.ID] = archive
	return nil
}

func (s *Storage) GetArchive(ctx context.Context, id model.ArchiveID) (*model.GameArchive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	archive, ok := s.archives[id]
	if !ok {
		return nil, model.ErrArchiveNotFound
	}
	return archive, nil
}

func (s *Storage) ListArchives(ctx context.Context, limit int) ([]*model.GameArchive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*model.GameArchive, 0, len(s.archives))
	for _, a := range s.archives {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].EndedAt.Equal(all[j].EndedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].EndedAt.After(all[j].EndedAt)
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Storage) DeleteArchive(ctx context.Context, id model.ArchiveID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.archives, id)
	return nil
}
