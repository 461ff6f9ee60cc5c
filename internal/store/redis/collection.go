package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/marker-app/marker/internal/domain"
)

// Store persists the bookmark collection in Redis. The whole collection
// lives as one JSON array under a single key; every write replaces the
// value and publishes a change event so other views can reload.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis-backed collection store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Load reads the full collection. An absent key is an empty collection,
// not an error.
func (s *Store) Load(ctx context.Context) ([]domain.BookmarkRecord, error) {
	data, err := s.client.Get(ctx, CollectionKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.BookmarkRecord{}, nil
		}
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	var records []domain.BookmarkRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmarks: %w", err)
	}
	return records, nil
}

// Save replaces the full collection in one write, then notifies
// subscribers. The publish is best effort: a missed notification only
// delays a view until its next reload, while a failed write must surface.
func (s *Store) Save(ctx context.Context, records []domain.BookmarkRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}

	if err := s.client.Set(ctx, CollectionKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}

	_ = s.client.Publish(ctx, ChangeChannel(), changedPayload(len(records))).Err()
	return nil
}

func changedPayload(count int) string {
	return fmt.Sprintf(`{"key":%q,"count":%d}`, CollectionKey(), count)
}
