package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marker-app/marker/internal/bookmarks"
	"github.com/marker-app/marker/internal/logger"
	"github.com/marker-app/marker/internal/notifier"
)

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Version           string
	Commit            string
	BuildDate         string
	GoVersion         string
	TimeNow           func() time.Time   // for testing, defaults to time.Now
	RedisClient       *redis.Client      // Redis client connection
	Bookmarks         *bookmarks.Store   // bookmark collection operations
	Notifier          *notifier.Notifier // change feed fanout (nil in some tests)
	SeedFile          string             // path to the seed bookmarks file ("" = disabled)
	SeedReloadTrigger chan struct{}      // channel to trigger a manual seed reload (nil if disabled)
}
