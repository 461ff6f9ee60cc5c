package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marker-app/marker/internal/domain"
	"github.com/marker-app/marker/internal/httpserver/deps"
	"github.com/marker-app/marker/internal/logger"
)

type removeVideoResponse struct {
	Removed int `json:"removed"`
}

// RemoveVideoBookmarks deletes every bookmark of one video. A video with
// no bookmarks answers removed=0, not an error.
func RemoveVideoBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := chi.URLParam(r, "videoID")

		removed, err := d.Bookmarks.RemoveByVideo(r.Context(), videoID)
		if err != nil {
			writeError(w, err)
			return
		}

		d.Logger.Info("removed bookmarks for video",
			logger.String("video_id", videoID),
			logger.Int("removed", removed))
		writeJSON(w, http.StatusOK, removeVideoResponse{Removed: removed})
	}
}

type syncRequest struct {
	TimestampSeconds int `json:"timestamp_seconds"`
}

type syncResponse struct {
	Bookmark domain.BookmarkRecord `json:"bookmark"`
}

// SyncVideoTimestamp moves the latest bookmark of a video to the current
// playback position. 404 means there is nothing to sync, which the
// origin page surfaces as a non-blocking message.
func SyncVideoTimestamp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := chi.URLParam(r, "videoID")

		var req syncRequest
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		if req.TimestampSeconds < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "timestamp_seconds must be non-negative"})
			return
		}

		record, err := d.Bookmarks.SyncLatestTimestamp(r.Context(), videoID, req.TimestampSeconds)
		if err != nil {
			writeError(w, err)
			return
		}

		d.Logger.Info("synced bookmark timestamp",
			logger.String("video_id", videoID),
			logger.String("timestamp", record.TimestampHHMMSS))
		writeJSON(w, http.StatusOK, syncResponse{Bookmark: record})
	}
}

type videoWatchedRequest struct {
	Watched bool `json:"watched"`
}

type videoWatchedResponse struct {
	Updated int `json:"updated"`
}

// SetVideoWatched sets the watched flag on every bookmark of a video and
// reports how many actually changed.
func SetVideoWatched(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := chi.URLParam(r, "videoID")

		var req videoWatchedRequest
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		updated, err := d.Bookmarks.SetWatchedByVideo(r.Context(), videoID, req.Watched)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, videoWatchedResponse{Updated: updated})
	}
}
