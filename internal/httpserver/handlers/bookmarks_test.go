package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marker-app/marker/internal/bookmarks"
	"github.com/marker-app/marker/internal/domain"
	"github.com/marker-app/marker/internal/httpserver/deps"
	"github.com/marker-app/marker/internal/logger"
)

// memoryCollection is an in-memory stand-in for the Redis-backed store.
type memoryCollection struct {
	records []domain.BookmarkRecord
}

func (m *memoryCollection) Load(ctx context.Context) ([]domain.BookmarkRecord, error) {
	return append([]domain.BookmarkRecord(nil), m.records...), nil
}

func (m *memoryCollection) Save(ctx context.Context, records []domain.BookmarkRecord) error {
	m.records = append([]domain.BookmarkRecord(nil), records...)
	return nil
}

func testDeps(t *testing.T, mem *memoryCollection) deps.Deps {
	t.Helper()
	store := bookmarks.New(mem).WithClock(func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	})
	return deps.Deps{
		Logger:    logger.New("error", false),
		TimeNow:   func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) },
		Bookmarks: store,
	}
}

func testRouter(d deps.Deps) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", ListBookmarks(d))
		r.Post("/", CreateBookmark(d))
		r.Delete("/", ClearBookmarks(d))
		r.Get("/export", ExportCSV(d))
		r.Post("/import", ImportCSV(d))
		r.Post("/bulk/delete", BulkDelete(d))
		r.Post("/bulk/watched", BulkSetWatched(d))
		r.Delete("/{id}", DeleteBookmark(d))
		r.Post("/{id}/watched", ToggleWatched(d))
	})
	r.Route("/api/videos/{videoID}", func(r chi.Router) {
		r.Delete("/bookmarks", RemoveVideoBookmarks(d))
		r.Post("/sync", SyncVideoTimestamp(d))
		r.Post("/watched", SetVideoWatched(d))
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateBookmark(t *testing.T) {
	mem := &memoryCollection{}
	router := testRouter(testDeps(t, mem))

	body := `{"video_id":"vid1","video_title":"First","channel_name":"Chan","timestamp_seconds":754}`

	rec := doJSON(t, router, http.MethodPost, "/api/bookmarks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	var resp createResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Created || resp.Duplicate {
		t.Errorf("response = %+v, want created", resp)
	}
	if resp.Bookmark.TimestampHHMMSS != "00:12:34" {
		t.Errorf("TimestampHHMMSS = %v, want 00:12:34", resp.Bookmark.TimestampHHMMSS)
	}

	// Second identical save answers 200 with duplicate=true.
	rec = doJSON(t, router, http.MethodPost, "/api/bookmarks", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate status = %d, want 200", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Duplicate {
		t.Errorf("response = %+v, want duplicate", resp)
	}
	if len(mem.records) != 1 {
		t.Errorf("collection has %d records, want 1", len(mem.records))
	}
}

func TestCreateBookmarkBadRequests(t *testing.T) {
	router := testRouter(testDeps(t, &memoryCollection{}))

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "not json"},
		{name: "unknown field", body: `{"video_id":"v","timestamp_seconds":1,"bogus":true}`},
		{name: "missing timestamp", body: `{"video_id":"vid1"}`},
		{name: "negative timestamp", body: `{"video_id":"vid1","timestamp_seconds":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/bookmarks", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListBookmarksViews(t *testing.T) {
	mem := &memoryCollection{records: []domain.BookmarkRecord{
		{ID: "a", VideoID: "vid1", VideoTitle: "Go talk", ChannelName: "Conf", CreatedAt: "2026-08-28T10:00:00Z"},
		{ID: "b", VideoID: "vid2", VideoTitle: "Rust talk", ChannelName: "Conf", CreatedAt: "2026-08-30T10:00:00Z", Watched: true},
		{ID: "c", VideoID: "vid3", VideoTitle: "Go deep dive", ChannelName: "Other", CreatedAt: "2026-08-29T10:00:00Z"},
	}}
	router := testRouter(testDeps(t, mem))

	rec := doJSON(t, router, http.MethodGet, "/api/bookmarks?q=go&tab=unwatched&sort=date-asc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	if resp.Total != 3 {
		t.Errorf("Total = %d, want 3", resp.Total)
	}
	if resp.Showing != 2 {
		t.Errorf("Showing = %d, want 2", resp.Showing)
	}
	// Counts reflect the search filter, before the tab cut.
	if resp.Counts[domain.TabAll] != 2 || resp.Counts[domain.TabUnwatched] != 2 {
		t.Errorf("Counts = %v", resp.Counts)
	}
	if len(resp.Bookmarks) != 2 || resp.Bookmarks[0].ID != "a" || resp.Bookmarks[1].ID != "c" {
		t.Errorf("Bookmarks = %v, want [a c] date ascending", resp.Bookmarks)
	}
	if resp.Groups != nil {
		t.Error("Groups should be absent without group=true")
	}
}

func TestListBookmarksGrouped(t *testing.T) {
	mem := &memoryCollection{records: []domain.BookmarkRecord{
		{ID: "a", VideoID: "vid1", CreatedAt: "2026-08-30T10:00:00Z"},
		{ID: "b", VideoID: "vid2", CreatedAt: "2026-08-29T10:00:00Z"},
	}}
	router := testRouter(testDeps(t, mem))

	rec := doJSON(t, router, http.MethodGet, "/api/bookmarks?group=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(resp.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(resp.Groups))
	}
	if resp.Groups[0].Label != "Today" || resp.Groups[1].Label != "Yesterday" {
		t.Errorf("group labels = %v, %v", resp.Groups[0].Label, resp.Groups[1].Label)
	}
}

func TestDeleteAndToggle(t *testing.T) {
	mem := &memoryCollection{records: []domain.BookmarkRecord{
		{ID: "a", VideoID: "vid1"},
		{ID: "b", VideoID: "vid1"},
	}}
	router := testRouter(testDeps(t, mem))

	rec := doJSON(t, router, http.MethodDelete, "/api/bookmarks/a", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	if len(mem.records) != 1 {
		t.Fatalf("collection has %d records, want 1", len(mem.records))
	}

	// Deleting again is idempotent.
	rec = doJSON(t, router, http.MethodDelete, "/api/bookmarks/a", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("repeat delete status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/bookmarks/b/watched", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("toggle status = %d, want 204", rec.Code)
	}
	if !mem.records[0].Watched {
		t.Error("toggle did not set watched")
	}
}

func TestBulkOperations(t *testing.T) {
	mem := &memoryCollection{records: []domain.BookmarkRecord{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}}
	router := testRouter(testDeps(t, mem))

	rec := doJSON(t, router, http.MethodPost, "/api/bookmarks/bulk/watched", `{"ids":["a","b"],"watched":true}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("bulk watched status = %d, want 204", rec.Code)
	}
	if !mem.records[0].Watched || !mem.records[1].Watched || mem.records[2].Watched {
		t.Error("bulk watched applied to the wrong records")
	}

	rec = doJSON(t, router, http.MethodPost, "/api/bookmarks/bulk/delete", `{"ids":["a","c"]}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("bulk delete status = %d, want 204", rec.Code)
	}
	if len(mem.records) != 1 || mem.records[0].ID != "b" {
		t.Errorf("collection = %v, want just b", mem.records)
	}
}

func TestClearBookmarks(t *testing.T) {
	mem := &memoryCollection{records: []domain.BookmarkRecord{{ID: "a"}}}
	router := testRouter(testDeps(t, mem))

	rec := doJSON(t, router, http.MethodDelete, "/api/bookmarks", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(mem.records) != 0 {
		t.Errorf("collection has %d records, want 0", len(mem.records))
	}
}

func TestVideoEndpoints(t *testing.T) {
	mem := &memoryCollection{records: []domain.BookmarkRecord{
		{ID: "a", VideoID: "vid1", TimestampSeconds: 10, CreatedAt: "2026-08-28T10:00:00Z"},
		{ID: "b", VideoID: "vid1", TimestampSeconds: 20, CreatedAt: "2026-08-29T10:00:00Z"},
		{ID: "c", VideoID: "vid2", TimestampSeconds: 30, CreatedAt: "2026-08-29T11:00:00Z"},
	}}
	router := testRouter(testDeps(t, mem))

	// Sync moves only the latest bookmark of vid1.
	rec := doJSON(t, router, http.MethodPost, "/api/videos/vid1/sync", `{"timestamp_seconds":90}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	var sync syncResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sync); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if sync.Bookmark.ID != "b" || sync.Bookmark.TimestampHHMMSS != "00:01:30" {
		t.Errorf("sync bookmark = %+v", sync.Bookmark)
	}

	// Negative position is rejected before touching the store.
	rec = doJSON(t, router, http.MethodPost, "/api/videos/vid1/sync", `{"timestamp_seconds":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative sync status = %d, want 400", rec.Code)
	}

	// Unknown video: nothing to sync.
	rec = doJSON(t, router, http.MethodPost, "/api/videos/missing/sync", `{"timestamp_seconds":5}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing video sync status = %d, want 404", rec.Code)
	}

	// Watched flag across a video.
	rec = doJSON(t, router, http.MethodPost, "/api/videos/vid1/watched", `{"watched":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("watched status = %d, want 200", rec.Code)
	}
	var watched videoWatchedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &watched); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if watched.Updated != 2 {
		t.Errorf("Updated = %d, want 2", watched.Updated)
	}

	// Remove everything for vid1.
	rec = doJSON(t, router, http.MethodDelete, "/api/videos/vid1/bookmarks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d, want 200", rec.Code)
	}
	var removed removeVideoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &removed); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if removed.Removed != 2 {
		t.Errorf("Removed = %d, want 2", removed.Removed)
	}
	if len(mem.records) != 1 || mem.records[0].VideoID != "vid2" {
		t.Errorf("collection = %v, want just vid2", mem.records)
	}
}

func TestCSVExportImport(t *testing.T) {
	mem := &memoryCollection{records: []domain.BookmarkRecord{
		{ID: "a", VideoID: "vid1", VideoTitle: "Title, with comma", ChannelName: "Chan",
			TimestampSeconds: 10, TimestampHHMMSS: "00:00:10",
			VideoURL: domain.WatchURL("vid1", 10), CreatedAt: "2026-08-29T10:00:00Z"},
	}}
	router := testRouter(testDeps(t, mem))

	rec := doJSON(t, router, http.MethodGet, "/api/bookmarks/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "marker-bookmarks-2026-08-30.csv") {
		t.Errorf("Content-Disposition = %q", got)
	}

	// Import the export back into an empty collection.
	fresh := &memoryCollection{}
	freshRouter := testRouter(testDeps(t, fresh))
	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks/import", strings.NewReader(rec.Body.String()))
	req.Header.Set("Content-Type", "text/csv")
	importRec := httptest.NewRecorder()
	freshRouter.ServeHTTP(importRec, req)

	if importRec.Code != http.StatusOK {
		t.Fatalf("import status = %d, want 200, body: %s", importRec.Code, importRec.Body.String())
	}
	var resp importResponse
	if err := json.Unmarshal(importRec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Imported != 1 {
		t.Errorf("Imported = %d, want 1", resp.Imported)
	}
	if len(fresh.records) != 1 || fresh.records[0].VideoTitle != "Title, with comma" {
		t.Errorf("imported collection = %v", fresh.records)
	}
}

func TestImportMalformedCSV(t *testing.T) {
	mem := &memoryCollection{records: []domain.BookmarkRecord{{ID: "keep"}}}
	router := testRouter(testDeps(t, mem))

	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks/import", strings.NewReader("garbage"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(mem.records) != 1 {
		t.Error("a rejected import must not touch the collection")
	}
}
