package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marker-app/marker/internal/httpserver/deps"
	"github.com/marker-app/marker/internal/httpserver/handlers"
)

func init() { Register(registerInfra, middleware.Timeout(5*time.Second)) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.Get("/infra", handlers.Infra(d))
	r.Post("/reload", handlers.Reload(d))
}
