package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quailholm/wolfgame-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newArchive(id string, endedAt time.Time) *model.GameArchive {
	return &model.GameArchive{
		ID:       model.ArchiveID(id),
		RoomCode: "ABC123",
		Winner:   model.FactionVillage,
		DayCount: 3,
		Players: []model.ArchivedPlayer{
			{DisplayName: "Mira", IsModerator: true, Alive: true},
			{DisplayName: "Anna", Role: model.RoleWerewolf, Faction: model.FactionWolves, Alive: false},
			{DisplayName: "Ben", Role: model.RoleSeer, Faction: model.FactionVillage, Alive: true},
		},
		Narrative: []string{"The session has begun.", "Anna was executed."},
		StartedAt: endedAt.Add(-30 * time.Minute),
		EndedAt:   endedAt,
	}
}

func (s *StorageSuite) TestSaveAndGetArchive() {
	archive := s.newArchive("arch-1", time.Now())

	err := s.storage.SaveArchive(s.ctx, archive)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetArchive(s.ctx, "arch-1")
	s.Require().NoError(err)
	s.Equal(archive.RoomCode, retrieved.RoomCode)
	s.Equal(archive.Winner, retrieved.Winner)
	s.Len(retrieved.Players, 3)
	s.Equal("Anna", retrieved.Players[1].DisplayName)
}

func (s *StorageSuite) TestGetArchiveNotFound() {
	_, err := s.storage.GetArchive(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrArchiveNotFound)
}

func (s *StorageSuite) TestListArchivesNewestFirst() {
	base := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveArchive(s.ctx, s.newArchive("arch-old", base)))
	s.Require().NoError(s.storage.SaveArchive(s.ctx, s.newArchive("arch-new", base.Add(time.Hour))))
	s.Require().NoError(s.storage.SaveArchive(s.ctx, s.newArchive("arch-mid", base.Add(30*time.Minute))))

	archives, err := s.storage.ListArchives(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(archives, 3)
	s.Equal(model.ArchiveID("arch-new"), archives[0].ID)
	s.Equal(model.ArchiveID("arch-mid"), archives[1].ID)
	s.Equal(model.ArchiveID("arch-old"), archives[2].ID)
}

func (s *StorageSuite) TestListArchivesLimit() {
	base := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		archive := s.newArchive(id, base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(s.storage.SaveArchive(s.ctx, archive))
	}

	archives, err := s.storage.ListArchives(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(archives, 2)
	s.Equal(model.ArchiveID("d"), archives[0].ID)
	s.Equal(model.ArchiveID("c"), archives[1].ID)
}

func (s *StorageSuite) TestDeleteArchive() {
	archive := s.newArchive("arch-1", time.Now())
	s.Require().NoError(s.storage.SaveArchive(s.ctx, archive))

	err := s.storage.DeleteArchive(s.ctx, "arch-1")
	s.Require().NoError(err)

	_, err = s.storage.GetArchive(s.ctx, "arch-1")
	s.ErrorIs(err, model.ErrArchiveNotFound)
}
