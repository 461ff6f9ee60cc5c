package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// UnknownTitle is the sentinel used when the page layer could not
	// extract a video title.
	UnknownTitle = "Unknown Title"
	// UnknownChannel is the sentinel used when the page layer could not
	// extract a channel name.
	UnknownChannel = "Unknown Channel"
)

// BookmarkRecord is one saved moment in a video.
//
// Records live as a single ordered collection in the persistent store.
// Insertion order is preserved on creation but carries no meaning;
// display order is always a derived sort.
type BookmarkRecord struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, generated at creation.
	ID string `json:"id"`

	// VideoID is the external video's identifier.
	// (VideoID, TimestampSeconds) is the dedup key: no two records in
	// a collection may share it.
	VideoID string `json:"video_id"`

	// ─────────────────────────────
	// Display metadata
	// ─────────────────────────────

	VideoTitle  string `json:"video_title"`
	ChannelName string `json:"channel_name"`

	// Optional extended metadata. Empty/zero when the page layer could
	// not supply them.
	ChannelURL           string `json:"channel_url,omitempty"`
	ChannelAvatar        string `json:"channel_avatar,omitempty"`
	VideoDurationSeconds int    `json:"video_duration_seconds,omitempty"`

	// ─────────────────────────────
	// The moment
	// ─────────────────────────────

	// TimestampSeconds is the playback offset, non-negative.
	TimestampSeconds int `json:"timestamp_seconds"`

	// TimestampHHMMSS is always the canonical zero-padded HH:MM:SS
	// rendering of TimestampSeconds. It is recomputed whenever
	// TimestampSeconds changes, never edited independently.
	TimestampHHMMSS string `json:"timestamp_hh_mm_ss"`

	// VideoURL encodes VideoID and TimestampSeconds as query parameters.
	VideoURL string `json:"video_url"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	// CreatedAt is an RFC 3339 timestamp set once at creation. It is the
	// sole ordering key for "latest" resolution and the default sort.
	CreatedAt string `json:"created_at"`

	// Watched is independently toggleable, defaults to false.
	Watched bool `json:"watched"`
}

// VideoMetadata is the payload supplied by the page-scraping layer when a
// bookmark is created. VideoID and TimestampSeconds are hard preconditions;
// everything else is best effort.
type VideoMetadata struct {
	VideoID              string `json:"video_id"`
	VideoTitle           string `json:"video_title"`
	ChannelName          string `json:"channel_name"`
	ChannelURL           string `json:"channel_url"`
	ChannelAvatar        string `json:"channel_avatar"`
	TimestampSeconds     *int   `json:"timestamp_seconds"`
	VideoDurationSeconds int    `json:"video_duration_seconds"`
}

// NewBookmark normalizes raw metadata into a canonical record: fresh ID,
// watched=false, derived timestamp string and URL.
// Returns ErrInvalidMetadata when the video id or playback position is
// missing, or the position is negative.
func NewBookmark(meta VideoMetadata, now time.Time) (BookmarkRecord, error) {
	if strings.TrimSpace(meta.VideoID) == "" {
		return BookmarkRecord{}, fmt.Errorf("%w: missing video id", ErrInvalidMetadata)
	}
	if meta.TimestampSeconds == nil {
		return BookmarkRecord{}, fmt.Errorf("%w: missing playback position", ErrInvalidMetadata)
	}
	seconds := *meta.TimestampSeconds
	if seconds < 0 {
		return BookmarkRecord{}, fmt.Errorf("%w: negative playback position %d", ErrInvalidMetadata, seconds)
	}

	title := stripCR(meta.VideoTitle)
	if strings.TrimSpace(title) == "" {
		title = UnknownTitle
	}
	channel := stripCR(meta.ChannelName)
	if strings.TrimSpace(channel) == "" {
		channel = UnknownChannel
	}

	return BookmarkRecord{
		ID:                   uuid.NewString(),
		VideoID:              meta.VideoID,
		VideoTitle:           title,
		ChannelName:          channel,
		ChannelURL:           meta.ChannelURL,
		ChannelAvatar:        meta.ChannelAvatar,
		VideoDurationSeconds: meta.VideoDurationSeconds,
		TimestampSeconds:     seconds,
		TimestampHHMMSS:      FormatTimestamp(seconds),
		VideoURL:             WatchURL(meta.VideoID, seconds),
		CreatedAt:            now.UTC().Format(time.RFC3339),
		Watched:              false,
	}, nil
}

// DedupKey identifies a record for duplicate suppression.
func (b BookmarkRecord) DedupKey() string {
	return fmt.Sprintf("%s:%d", b.VideoID, b.TimestampSeconds)
}

// CreatedTime parses CreatedAt. Malformed values sort as the zero time.
func (b BookmarkRecord) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, b.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SetTimestamp overwrites the playback position and rederives the
// formatted string and URL, keeping the canonical-formatting invariant.
func (b *BookmarkRecord) SetTimestamp(seconds int) {
	b.TimestampSeconds = seconds
	b.TimestampHHMMSS = FormatTimestamp(seconds)
	b.VideoURL = WatchURL(b.VideoID, seconds)
}

// FormatTimestamp renders seconds as zero-padded HH:MM:SS.
func FormatTimestamp(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// WatchURL builds the playback URL for a video at a given offset.
func WatchURL(videoID string, seconds int) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", videoID, seconds)
}

// stripCR removes carriage returns from scraped text. CSV reading
// normalizes \r\n inside quoted fields to \n, so stored values must be
// CR-free for an export to read back byte-identical.
func stripCR(s string) string {
	return strings.ReplaceAll(s, "\r", "")
}
