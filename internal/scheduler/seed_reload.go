package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/marker-app/marker/internal/bookmarks"
	"github.com/marker-app/marker/internal/logger"
	"github.com/marker-app/marker/internal/sources/seedfile"
)

// SeedReloader periodically merge-imports the seed bookmarks file into
// the store. Records already present (same video + timestamp) are left
// alone, so repeated reloads are idempotent.
type SeedReloader struct {
	loader        *seedfile.Loader
	mapper        *seedfile.Mapper
	store         *bookmarks.Store
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSeedReloader creates a new seed file reloader.
func NewSeedReloader(
	seedFile string,
	store *bookmarks.Store,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedReloader {
	return &SeedReloader{
		loader:        seedfile.NewLoader(seedFile),
		mapper:        seedfile.NewMapper(),
		store:         store,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process.
func (sr *SeedReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial seed reload failed: %w", err)
	}

	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload seed bookmarks",
						logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual seed reload triggered")
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload seed bookmarks",
						logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (sr *SeedReloader) Stop() {
	close(sr.stopCh)
}

// Reload loads the seed file and merge-imports it into the store.
func (sr *SeedReloader) Reload(ctx context.Context) error {
	sr.logger.Info("reloading bookmarks from seed file")

	config, err := sr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load seed file: %w", err)
	}

	records := sr.mapper.Map(config, time.Now())
	if len(records) == 0 {
		sr.logger.Info("seed file contains no valid bookmarks")
		return nil
	}

	imported, err := sr.store.Import(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to import seed bookmarks: %w", err)
	}

	sr.logger.Info("seed bookmarks merged",
		logger.Int("in_file", len(records)),
		logger.Int("imported", imported))

	return nil
}
