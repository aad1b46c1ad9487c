package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quailholm/wolfgame-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	ctx     context.Context
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.ctx = context.Background()
	storage, err := New(filepath.Join(s.T().TempDir(), "wolfgame.db"))
	s.Require().NoError(err)
	s.storage = storage
}

func (s *StorageSuite) TearDownTest() {
	s.Require().NoError(s.storage.Close())
}

func (s *StorageSuite) newArchive(id string, endedAt time.Time) *model.GameArchive {
	return &model.GameArchive{
		ID:       model.ArchiveID(id),
		RoomCode: "KWRTZ3",
		Winner:   model.FactionVillage,
		DayCount: 3,
		Players: []model.ArchivedPlayer{
			{DisplayName: "maeve", IsModerator: true},
			{DisplayName: "otto", Role: model.RoleWerewolf, Faction: model.FactionWolves, Alive: false},
			{DisplayName: "pia", Role: model.RoleSeer, Faction: model.FactionVillage, Alive: true},
			{DisplayName: "quinn", Role: model.RoleVillager, Faction: model.FactionVillage, Alive: true},
		},
		Narrative: []string{"Night falls.", "otto was executed."},
		StartedAt: endedAt.Add(-45 * time.Minute),
		EndedAt:   endedAt,
	}
}

func (s *StorageSuite) TestSaveAndGetArchive() {
	archive := s.newArchive("arch-1", time.Date(2025, 6, 1, 21, 30, 0, 0, time.UTC))
	s.Require().NoError(s.storage.SaveArchive(s.ctx, archive))

	got, err := s.storage.GetArchive(s.ctx, archive.ID)
	s.Require().NoError(err)
	s.Equal(archive, got)
}

func (s *StorageSuite) TestSaveArchiveOverwrites() {
	endedAt := time.Date(2025, 6, 1, 21, 30, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveArchive(s.ctx, s.newArchive("arch-1", endedAt)))

	updated := s.newArchive("arch-1", endedAt)
	updated.Winner = model.FactionWolves
	updated.Players = updated.Players[:2]
	s.Require().NoError(s.storage.SaveArchive(s.ctx, updated))

	got, err := s.storage.GetArchive(s.ctx, updated.ID)
	s.Require().NoError(err)
	s.Equal(model.FactionWolves, got.Winner)
	s.Len(got.Players, 2)
}

func (s *StorageSuite) TestGetArchiveNotFound() {
	_, err := s.storage.GetArchive(s.ctx, "no-such-archive")
	s.Require().ErrorIs(err, model.ErrArchiveNotFound)
}

func (s *StorageSuite) TestListArchivesNewestFirst() {
	base := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveArchive(s.ctx, s.newArchive("arch-old", base)))
	s.Require().NoError(s.storage.SaveArchive(s.ctx, s.newArchive("arch-new", base.Add(2*time.Hour))))
	s.Require().NoError(s.storage.SaveArchive(s.ctx, s.newArchive("arch-mid", base.Add(time.Hour))))

	archives, err := s.storage.ListArchives(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(archives, 3)
	s.Equal(model.ArchiveID("arch-new"), archives[0].ID)
	s.Equal(model.ArchiveID("arch-mid"), archives[1].ID)
	s.Equal(model.ArchiveID("arch-old"), archives[2].ID)
}

func (s *StorageSuite) TestListArchivesLimit() {
	base := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveArchive(s.ctx, s.newArchive("arch-old", base)))
	s.Require().NoError(s.storage.SaveArchive(s.ctx, s.newArchive("arch-new", base.Add(time.Hour))))

	archives, err := s.storage.ListArchives(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(archives, 1)
	s.Equal(model.ArchiveID("arch-new"), archives[0].ID)
}

func (s *StorageSuite) TestDeleteArchive() {
	archive := s.newArchive("arch-1", time.Date(2025, 6, 1, 21, 30, 0, 0, time.UTC))
	s.Require().NoError(s.storage.SaveArchive(s.ctx, archive))

	s.Require().NoError(s.storage.DeleteArchive(s.ctx, archive.ID))

	_, err := s.storage.GetArchive(s.ctx, archive.ID)
	s.Require().ErrorIs(err, model.ErrArchiveNotFound)
}
