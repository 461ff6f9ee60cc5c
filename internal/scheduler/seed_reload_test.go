package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marker-app/marker/internal/bookmarks"
	"github.com/marker-app/marker/internal/domain"
	"github.com/marker-app/marker/internal/logger"
)

type memoryCollection struct {
	records []domain.BookmarkRecord
	saves   int
}

func (m *memoryCollection) Load(ctx context.Context) ([]domain.BookmarkRecord, error) {
	return append([]domain.BookmarkRecord(nil), m.records...), nil
}

func (m *memoryCollection) Save(ctx context.Context, records []domain.BookmarkRecord) error {
	m.saves++
	m.records = append([]domain.BookmarkRecord(nil), records...)
	return nil
}

func TestSeedReloader_Reload(t *testing.T) {
	log := logger.New("error", false)

	seedPath := filepath.Join(t.TempDir(), "bookmarks.yaml")
	seed := `
bookmarks:
  - video_id: vid1
    video_title: "Seeded Video"
    timestamp_seconds: 90
  - video_id: vid2
    timestamp_seconds: 10
`
	if err := os.WriteFile(seedPath, []byte(seed), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	mem := &memoryCollection{}
	store := bookmarks.New(mem)

	sr := NewSeedReloader(seedPath, store, log, 24*time.Hour, nil)

	if err := sr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(mem.records) != 2 {
		t.Fatalf("Expected 2 records after reload, got %d", len(mem.records))
	}

	// Reloading the same file is a merge: all duplicates, no write.
	saves := mem.saves
	if err := sr.Reload(context.Background()); err != nil {
		t.Fatalf("second Reload failed: %v", err)
	}
	if len(mem.records) != 2 {
		t.Errorf("Expected 2 records after second reload, got %d", len(mem.records))
	}
	if mem.saves != saves {
		t.Errorf("Expected no write on an all-duplicate reload, got %d extra", mem.saves-saves)
	}
}

func TestSeedReloader_ReloadMissingFile(t *testing.T) {
	log := logger.New("error", false)
	store := bookmarks.New(&memoryCollection{})

	sr := NewSeedReloader(filepath.Join(t.TempDir(), "nope.yaml"), store, log, time.Hour, nil)

	if err := sr.Reload(context.Background()); err == nil {
		t.Error("Reload should fail when the seed file is missing")
	}
}

func TestSeedReloader_ReloadEmptyFile(t *testing.T) {
	log := logger.New("error", false)

	seedPath := filepath.Join(t.TempDir(), "bookmarks.yaml")
	if err := os.WriteFile(seedPath, []byte("bookmarks: []\n"), 0o600); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	mem := &memoryCollection{}
	sr := NewSeedReloader(seedPath, bookmarks.New(mem), log, time.Hour, nil)

	if err := sr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if mem.saves != 0 {
		t.Errorf("Expected no write for an empty seed file, got %d", mem.saves)
	}
}
