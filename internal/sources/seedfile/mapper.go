package seedfile

import (
	"time"

	"github.com/marker-app/marker/internal/domain"
)

// Mapper converts seed file entries to domain records.
type Mapper struct{}

// NewMapper creates a seed entry mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map converts a Config to bookmark records. Entries missing a video id
// or playback position are skipped; the result may be empty. An entry's
// created_at is honored when it parses as RFC 3339, so a seed file can
// carry its own history; otherwise the record dates from the load.
func (m *Mapper) Map(config Config, now time.Time) []domain.BookmarkRecord {
	records := make([]domain.BookmarkRecord, 0, len(config.Bookmarks))

	for _, entry := range config.Bookmarks {
		record, err := domain.NewBookmark(domain.VideoMetadata{
			VideoID:              entry.VideoID,
			VideoTitle:           entry.VideoTitle,
			ChannelName:          entry.ChannelName,
			ChannelURL:           entry.ChannelURL,
			TimestampSeconds:     entry.TimestampSeconds,
			VideoDurationSeconds: entry.VideoDurationSeconds,
		}, now)
		if err != nil {
			continue
		}

		if entry.CreatedAt != "" {
			if _, perr := time.Parse(time.RFC3339, entry.CreatedAt); perr == nil {
				record.CreatedAt = entry.CreatedAt
			}
		}

		records = append(records, record)
	}

	return records
}
