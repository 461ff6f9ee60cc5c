package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marker-app/marker/internal/httpserver/deps"
	"github.com/marker-app/marker/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks, middleware.Timeout(10*time.Second)) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))
		r.Delete("/", handlers.ClearBookmarks(d))

		r.Get("/export", handlers.ExportCSV(d))
		r.Post("/import", handlers.ImportCSV(d))

		r.Post("/bulk/delete", handlers.BulkDelete(d))
		r.Post("/bulk/watched", handlers.BulkSetWatched(d))

		r.Delete("/{id}", handlers.DeleteBookmark(d))
		r.Post("/{id}/watched", handlers.ToggleWatched(d))
	})
}
