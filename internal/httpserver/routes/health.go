package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jobboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/mw"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	private := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	private.Get("/healthz", handlers.Healthz(d))
	private.Get("/readyz", handlers.Readyz(d))
	private.Get("/infra", handlers.Infra(d))
}
