package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/marker-app/marker/internal/httpserver/deps"
	"github.com/marker-app/marker/internal/httpserver/handlers"
)

// No per-route timeout here: the event stream is long-lived.
func init() { Register(registerEvents) }

func registerEvents(r chi.Router, d deps.Deps) {
	r.Get("/api/events", handlers.Events(d))
}
