package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marker-app/marker/internal/domain"
	"github.com/marker-app/marker/internal/httpserver/deps"
	"github.com/marker-app/marker/internal/logger"
)

type listResponse struct {
	Total     int                     `json:"total"`
	Showing   int                     `json:"showing"`
	Counts    map[string]int          `json:"counts"`
	Bookmarks []domain.BookmarkRecord `json:"bookmarks"`
	Groups    []domain.DateGroup      `json:"groups,omitempty"`
}

// ListBookmarks serves the derived views: search filter, watched-tab
// partition, sort and optional date grouping, all computed from one
// snapshot so the response is internally consistent.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := d.Bookmarks.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		q := r.URL.Query()
		filtered := domain.Search(snapshot, q.Get("q"))
		partition := domain.PartitionByWatched(filtered)
		view := domain.SortRecords(partition.Tab(q.Get("tab")), q.Get("sort"))

		resp := listResponse{
			Total:     len(snapshot),
			Showing:   len(view),
			Counts:    partition.Counts(),
			Bookmarks: view,
		}
		if grouped, _ := strconv.ParseBool(q.Get("group")); grouped {
			resp.Groups = domain.GroupByDate(view, d.TimeNow())
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type createResponse struct {
	Created   bool                  `json:"created"`
	Duplicate bool                  `json:"duplicate"`
	Bookmark  domain.BookmarkRecord `json:"bookmark"`
}

// CreateBookmark inserts a bookmark from scraped page metadata.
// Duplicates of an existing (video, timestamp) pair answer 200 with
// duplicate=true instead of creating anything.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var meta domain.VideoMetadata
		if err := decodeBody(r, &meta); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		result, err := d.Bookmarks.Insert(r.Context(), meta)
		if err != nil {
			writeError(w, err)
			return
		}

		if !result.Created {
			d.Logger.Debug("duplicate bookmark ignored",
				logger.String("video_id", result.Record.VideoID))
			writeJSON(w, http.StatusOK, createResponse{Duplicate: true, Bookmark: result.Record})
			return
		}

		d.Logger.Info("bookmark saved",
			logger.String("video_id", result.Record.VideoID),
			logger.String("timestamp", result.Record.TimestampHHMMSS))
		writeJSON(w, http.StatusCreated, createResponse{Created: true, Bookmark: result.Record})
	}
}

// ClearBookmarks replaces the collection with the empty sequence.
func ClearBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Bookmarks.ClearAll(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		d.Logger.Info("all bookmarks cleared")
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteBookmark removes one record by id. Unknown ids still answer 204;
// deletion is idempotent.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Bookmarks.DeleteByID(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToggleWatched flips the watched flag of one record.
func ToggleWatched(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Bookmarks.ToggleWatched(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDelete removes the selected records in a single write.
func BulkDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkDeleteRequest
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		if err := d.Bookmarks.BulkDelete(r.Context(), req.IDs); err != nil {
			writeError(w, err)
			return
		}
		d.Logger.Info("bulk delete", logger.Int("ids", len(req.IDs)))
		w.WriteHeader(http.StatusNoContent)
	}
}

type bulkWatchedRequest struct {
	IDs     []string `json:"ids"`
	Watched bool     `json:"watched"`
}

// BulkSetWatched sets the watched flag uniformly on the selected records.
func BulkSetWatched(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkWatchedRequest
		if err := decodeBody(r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		if err := d.Bookmarks.BulkSetWatched(r.Context(), req.IDs, req.Watched); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
