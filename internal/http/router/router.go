// Package router assembles the route tree.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	healthctrl "github.com/dropDatabas3/socialgate/internal/http/controllers/health"
	socialctrl "github.com/dropDatabas3/socialgate/internal/http/controllers/social"
	httperrors "github.com/dropDatabas3/socialgate/internal/http/errors"
	mws "github.com/dropDatabas3/socialgate/internal/http/middlewares"
)

// Deps contains everything the router mounts. Middlewares arrive as values
// so this package stays independent of where they are built.
type Deps struct {
	Social *socialctrl.Controllers
	Health *healthctrl.HealthController

	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler

	// MetricsMW instruments application requests when set.
	MetricsMW mws.Middleware
}

// New builds the full route tree with its middleware groups.
func New(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	r.Use(mws.WithRecover())
	r.Use(mws.WithRequestID())
	r.Use(mws.WithSecurityHeaders())

	// Application routes: logged and instrumented.
	r.Group(func(g chi.Router) {
		if deps.MetricsMW != nil {
			g.Use(deps.MetricsMW)
		}
		g.Use(mws.WithLogging())
		if deps.Social != nil {
			RegisterSocialRoutes(g, SocialRouterDeps{Controllers: deps.Social})
		}
	})

	// Infra routes: high frequency, kept out of the request log.
	r.Group(func(g chi.Router) {
		if deps.Health != nil {
			RegisterHealthRoutes(g, HealthRouterDeps{Controller: deps.Health})
		}
		if deps.MetricsHandler != nil {
			g.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
		}
	})

	return r
}
