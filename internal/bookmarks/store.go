// Package bookmarks owns the bookmark collection and every operation that
// mutates it. Each operation is one atomic read-modify-write against the
// persistent store: load the full collection, compute the new one, write
// it back. No partial writes are observable; concurrent writers resolve
// last-write-wins at whole-collection granularity.
package bookmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/marker-app/marker/internal/domain"
)

// CollectionStore is the persistent store contract: a single named slot
// holding the whole collection. Load returns an empty collection when the
// slot is absent.
type CollectionStore interface {
	Load(ctx context.Context) ([]domain.BookmarkRecord, error)
	Save(ctx context.Context, records []domain.BookmarkRecord) error
}

// Store exposes the bookmark mutation operations.
type Store struct {
	blob CollectionStore
	now  func() time.Time
}

// New creates a bookmark store over a persistent collection store.
func New(blob CollectionStore) *Store {
	return &Store{
		blob: blob,
		now:  time.Now,
	}
}

// WithClock overrides the creation-time source. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// InsertResult reports whether an insert created a record or was
// suppressed as a duplicate of an existing (video, timestamp) pair.
type InsertResult struct {
	Created bool
	Record  domain.BookmarkRecord
}

// Insert normalizes raw metadata and appends the record, unless a record
// with the same dedup key already exists. Duplicates perform no write.
func (s *Store) Insert(ctx context.Context, meta domain.VideoMetadata) (InsertResult, error) {
	record, err := domain.NewBookmark(meta, s.now())
	if err != nil {
		return InsertResult{}, err
	}

	records, err := s.blob.Load(ctx)
	if err != nil {
		return InsertResult{}, err
	}

	for _, existing := range records {
		if existing.DedupKey() == record.DedupKey() {
			return InsertResult{Created: false, Record: existing}, nil
		}
	}

	records = append(records, record)
	if err := s.blob.Save(ctx, records); err != nil {
		return InsertResult{}, err
	}
	return InsertResult{Created: true, Record: record}, nil
}

// RemoveByVideo deletes every record for a video in one write. A video
// with no records is not an error; the count is just 0.
func (s *Store) RemoveByVideo(ctx context.Context, videoID string) (int, error) {
	records, err := s.blob.Load(ctx)
	if err != nil {
		return 0, err
	}

	kept := records[:0:0]
	for _, r := range records {
		if r.VideoID != videoID {
			kept = append(kept, r)
		}
	}
	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err := s.blob.Save(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// SyncLatestTimestamp moves the most recent bookmark of a video to a new
// playback position, overwriting only its timestamp fields. ID, creation
// time and watched status are preserved. It never creates a record:
// a video with no bookmarks fails with domain.ErrNotFound so the caller
// can tell "nothing to sync" from "synced".
func (s *Store) SyncLatestTimestamp(ctx context.Context, videoID string, seconds int) (domain.BookmarkRecord, error) {
	records, err := s.blob.Load(ctx)
	if err != nil {
		return domain.BookmarkRecord{}, err
	}

	idx := latestForVideo(records, videoID)
	if idx < 0 {
		return domain.BookmarkRecord{}, fmt.Errorf("%w: %s", domain.ErrNotFound, videoID)
	}

	records[idx].SetTimestamp(seconds)
	if err := s.blob.Save(ctx, records); err != nil {
		return domain.BookmarkRecord{}, err
	}
	return records[idx], nil
}

// latestForVideo returns the index of the record with the maximum
// created_at among those matching videoID, or -1. When several records
// share the maximum, the earliest in collection order wins; the tie-break
// is deterministic and documented rather than a sort artifact.
func latestForVideo(records []domain.BookmarkRecord, videoID string) int {
	best := -1
	var bestTime time.Time
	for i, r := range records {
		if r.VideoID != videoID {
			continue
		}
		t := r.CreatedTime()
		if best == -1 || t.After(bestTime) {
			best = i
			bestTime = t
		}
	}
	return best
}

// SetWatchedByVideo sets the watched flag on every record of a video and
// returns how many actually changed. Zero changes means no write.
func (s *Store) SetWatchedByVideo(ctx context.Context, videoID string, watched bool) (int, error) {
	records, err := s.blob.Load(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range records {
		if records[i].VideoID == videoID && records[i].Watched != watched {
			records[i].Watched = watched
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	if err := s.blob.Save(ctx, records); err != nil {
		return 0, err
	}
	return changed, nil
}

// ToggleWatched flips the watched flag of one record. A missing id is a
// no-op, not an error.
func (s *Store) ToggleWatched(ctx context.Context, id string) error {
	records, err := s.blob.Load(ctx)
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == id {
			records[i].Watched = !records[i].Watched
			return s.blob.Save(ctx, records)
		}
	}
	return nil
}

// DeleteByID removes one record by primary key. Missing ids are ignored.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	return s.BulkDelete(ctx, []string{id})
}

// BulkDelete removes every record whose id is in ids, committed as a
// single write so other views never observe a partial deletion. Ids not
// present are silently ignored.
func (s *Store) BulkDelete(ctx context.Context, ids []string) error {
	records, err := s.blob.Load(ctx)
	if err != nil {
		return err
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := records[:0:0]
	for _, r := range records {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.blob.Save(ctx, kept)
}

// BulkSetWatched sets the watched flag uniformly on all matching ids in a
// single write. Ids not present are ignored.
func (s *Store) BulkSetWatched(ctx context.Context, ids []string, watched bool) error {
	records, err := s.blob.Load(ctx)
	if err != nil {
		return err
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	changed := false
	for i := range records {
		if want[records[i].ID] && records[i].Watched != watched {
			records[i].Watched = watched
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.blob.Save(ctx, records)
}

// Import merges externally supplied records into the collection, keeping
// only those whose dedup key is new, and returns the count appended.
// Zero imports ("all duplicates") writes nothing.
func (s *Store) Import(ctx context.Context, incoming []domain.BookmarkRecord) (int, error) {
	records, err := s.blob.Load(ctx)
	if err != nil {
		return 0, err
	}

	result := domain.MergeImport(records, incoming)
	if result.Imported == 0 {
		return 0, nil
	}

	if err := s.blob.Save(ctx, result.Merged); err != nil {
		return 0, err
	}
	return result.Imported, nil
}

// ClearAll replaces the collection with the empty sequence.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.blob.Save(ctx, []domain.BookmarkRecord{})
}

// List returns the current snapshot of the collection.
func (s *Store) List(ctx context.Context) ([]domain.BookmarkRecord, error) {
	return s.blob.Load(ctx)
}
