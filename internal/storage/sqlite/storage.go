package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS archives (
	id TEXT PRIMARY KEY,
	room_code TEXT NOT NULL,
	winner TEXT NOT NULL,
	day_count INTEGER NOT NULL,
	narrative TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	ended_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS archive_players (
	archive_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	display_name TEXT NOT NULL,
	role TEXT NOT NULL,
	faction TEXT NOT NULL,
	alive INTEGER NOT NULL,
	is_moderator INTEGER NOT NULL,
	PRIMARY KEY (archive_id, position)
);

CREATE INDEX IF NOT EXISTS idx_archives_ended_at ON archives (ended_at);
`

// Storage is a SQLite-backed implementation of the storage interface,
// intended for single-node deployments that want history to survive
// restarts without running Redis.
type Storage struct {
	db *sqlx.DB
}

// New opens (and if needed bootstraps) the database at the given path
func New(path string) (*Storage, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

type archiveRow struct {
	ID        string    `db:"id"`
	RoomCode  string    `db:"room_code"`
	Winner    string    `db:"winner"`
	DayCount  int       `db:"day_count"`
	Narrative string    `db:"narrative"`
	StartedAt time.Time `db:"started_at"`
	EndedAt   time.Time `db:"ended_at"`
}

type playerRow struct {
	ArchiveID   string `db:"archive_id"`
	Position    int    `db:"position"`
	DisplayName string `db:"display_name"`
	Role        string `db:"role"`
	Faction     string `db:"faction"`
	Alive       bool   `db:"alive"`
	IsModerator bool   `db:"is_moderator"`
}

func (s *Storage) SaveArchive(ctx context.Context, archive *model.GameArchive) error {
	narrative, err := json.Marshal(archive.Narrative)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO archives
			(id, room_code, winner, day_count, narrative, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(archive.ID), string(archive.RoomCode), string(archive.Winner),
		archive.DayCount, string(narrative), archive.StartedAt, archive.EndedAt)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM archive_players WHERE archive_id = ?`, string(archive.ID))
	if err != nil {
		return err
	}

	for i, p := range archive.Players {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO archive_players
				(archive_id, position, display_name, role, faction, alive, is_moderator)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(archive.ID), i, p.DisplayName, string(p.Role),
			string(p.Faction), p.Alive, p.IsModerator)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Storage) GetArchive(ctx context.Context, id model.ArchiveID) (*model.GameArchive, error) {
	var row archiveRow
	err := s.db.GetContext(ctx, &row,
		`SELECT * FROM archives WHERE id = ?`, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrArchiveNotFound
		}
		return nil, err
	}
	return s.hydrate(ctx, row)
}

func (s *Storage) ListArchives(ctx context.Context, limit int) ([]*model.GameArchive, error) {
	query := `SELECT * FROM archives ORDER BY ended_at DESC, id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []archiveRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	archives := make([]*model.GameArchive, 0, len(rows))
	for _, row := range rows {
		archive, err := s.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		archives = append(archives, archive)
	}
	return archives, nil
}

func (s *Storage) DeleteArchive(ctx context.Context, id model.ArchiveID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM archive_players WHERE archive_id = ?`, string(id)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM archives WHERE id = ?`, string(id)); err != nil {
		return err
	}
	return tx.Commit()
}

// hydrate joins an archive row with its player rows
func (s *Storage) hydrate(ctx context.Context, row archiveRow) (*model.GameArchive, error) {
	var narrative []string
	if err := json.Unmarshal([]byte(row.Narrative), &narrative); err != nil {
		return nil, err
	}

	var players []playerRow
	err := s.db.SelectContext(ctx, &players, `
		SELECT * FROM archive_players
		WHERE archive_id = ?
		ORDER BY position ASC`, row.ID)
	if err != nil {
		return nil, err
	}

	archive := &model.GameArchive{
		ID:        model.ArchiveID(row.ID),
		RoomCode:  model.RoomCode(row.RoomCode),
		Winner:    model.Faction(row.Winner),
		DayCount:  row.DayCount,
		Narrative: narrative,
		StartedAt: row.StartedAt,
		EndedAt:   row.EndedAt,
	}
	for _, p := range players {
		archive.Players = append(archive.Players, model.ArchivedPlayer{
			DisplayName: p.DisplayName,
			Role:        model.Role(p.Role),
			Faction:     model.Faction(p.Faction),
			Alive:       p.Alive,
			IsModerator: p.IsModerator,
		})
	}
	return archive, nil
}
