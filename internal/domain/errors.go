package domain

import "errors"

var (
	// ErrInvalidMetadata means the page layer could not supply a required
	// field (video id or playback position). Creation aborts, nothing is
	// written.
	ErrInvalidMetadata = errors.New("invalid video metadata")

	// ErrNotFound means a sync targeted a video with no existing bookmark.
	// It is the only not-found condition store callers need to distinguish.
	ErrNotFound = errors.New("no bookmark found for video")

	// ErrCSVParse means a CSV row failed to decode. Imports are
	// all-or-nothing: a parse failure discards the whole batch.
	ErrCSVParse = errors.New("csv parse error")
)
