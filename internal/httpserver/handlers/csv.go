package handlers

import (
	"fmt"
	"net/http"

	"github.com/marker-app/marker/internal/domain"
	"github.com/marker-app/marker/internal/httpserver/deps"
	"github.com/marker-app/marker/internal/logger"
	"github.com/marker-app/marker/internal/utils"
)

// ExportCSV streams the whole collection as a CSV download.
func ExportCSV(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := d.Bookmarks.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		filename := domain.ExportFilename(d.TimeNow())
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := domain.WriteCSV(w, records); err != nil {
			// Headers are gone; all we can do is log.
			d.Logger.Error("failed to stream csv export", logger.Error(err))
			return
		}
		d.Logger.Info("exported bookmarks to csv",
			logger.Int("count", len(records)),
			logger.String("filename", filename))
	}
}

type importResponse struct {
	Imported int `json:"imported"`
}

// ImportCSV merge-imports an uploaded CSV file. The parse is
// all-or-nothing: a malformed row rejects the whole file and nothing is
// written. Rows duplicating an existing (video, timestamp) pair are
// skipped, so importing the same file twice is a no-op.
func ImportCSV(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer utils.Close(r.Body)

		incoming, err := domain.ReadCSV(r.Body)
		if err != nil {
			writeError(w, err)
			return
		}

		imported, err := d.Bookmarks.Import(r.Context(), incoming)
		if err != nil {
			writeError(w, err)
			return
		}

		d.Logger.Info("imported bookmarks from csv",
			logger.Int("rows", len(incoming)),
			logger.Int("imported", imported))
		writeJSON(w, http.StatusOK, importResponse{Imported: imported})
	}
}
