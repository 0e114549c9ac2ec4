package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jobboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/mw"
)

func init() { Register(registerJobs) }

func registerJobs(r chi.Router, d deps.Deps) {
	writes := mw.Passthrough
	if d.WriteLimiter != nil {
		writes = d.WriteLimiter.Middleware
	}

	r.Route("/api/jobs", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/", handlers.ListJobs(d))
		r.With(writes).Post("/", handlers.CreateJob(d))
		r.With(writes).Patch("/{id}", handlers.UpdateJob(d))
		r.With(writes).Delete("/{id}", handlers.DeleteJob(d))
	})
}
