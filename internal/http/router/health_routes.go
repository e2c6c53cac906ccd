package router

import (
	"github.com/go-chi/chi/v5"

	healthctrl "github.com/dropDatabas3/socialgate/internal/http/controllers/health"
)

// HealthRouterDeps contains the dependencies for the health routes.
type HealthRouterDeps struct {
	Controller *healthctrl.HealthController
}

// RegisterHealthRoutes mounts the health check routes. Both are public.
func RegisterHealthRoutes(r chi.Router, deps HealthRouterDeps) {
	r.Get("/healthz", deps.Controller.Healthz)
	r.Get("/readyz", deps.Controller.Readyz)
}
