package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marker-app/marker/internal/httpserver/deps"
	"github.com/marker-app/marker/internal/httpserver/handlers"
)

func init() { Register(registerVideos, middleware.Timeout(10*time.Second)) }

func registerVideos(r chi.Router, d deps.Deps) {
	r.Route("/api/videos/{videoID}", func(r chi.Router) {
		r.Delete("/bookmarks", handlers.RemoveVideoBookmarks(d))
		r.Post("/sync", handlers.SyncVideoTimestamp(d))
		r.Post("/watched", handlers.SetVideoWatched(d))
	})
}
