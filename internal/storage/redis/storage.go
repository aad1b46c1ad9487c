package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quailholm/wolfgame-go/internal/model"
	"github.com/quailholm/wolfgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveArchive(ctx context.Context, archive *model.GameArchive) error {
	data, err := json.Marshal(archive)
	if err != nil {
		return err
	}

	// Pipeline the record write and the recency index update together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, archiveKey(archive.ID), data, s.cfg.ArchiveTTL)
	pipe.ZAdd(ctx, archivesByEndIndexKey(), redis.Z{
		Score:  float64(archive.EndedAt.UnixMilli()),
		Member: string(archive.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetArchive(ctx context.Context, id model.ArchiveID) (*model.GameArchive, error) {
	data, err := s.client.Get(ctx, archiveKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrArchiveNotFound
		}
		return nil, err
	}

	var archive model.GameArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, err
	}
	return &archive, nil
}

func (s *Storage) ListArchives(ctx context.Context, limit int) ([]*model.GameArchive, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	ids, err := s.client.ZRevRange(ctx, archivesByEndIndexKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	archives := make([]*model.GameArchive, 0, len(ids))
	for _, id := range ids {
		archive, err := s.GetArchive(ctx, model.ArchiveID(id))
		if err != nil {
			// Index entries can outlive expired records
			if errors.Is(err, model.ErrArchiveNotFound) {
				continue
			}
			return nil, err
		}
		archives = append(archives, archive)
	}
	return archives, nil
}

func (s *Storage) DeleteArchive(ctx context.Context, id model.ArchiveID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, archiveKey(id))
	pipe.ZRem(ctx, archivesByEndIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}
