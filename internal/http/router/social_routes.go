package router

import (
	"github.com/go-chi/chi/v5"

	socialctrl "github.com/dropDatabas3/socialgate/internal/http/controllers/social"
	mws "github.com/dropDatabas3/socialgate/internal/http/middlewares"
)

// SocialRouterDeps contains the dependencies for the social routes.
type SocialRouterDeps struct {
	Controllers *socialctrl.Controllers
}

// RegisterSocialRoutes mounts the social login flow:
//
//	GET  /v1/auth/social/providers            list providers
//	GET  /v1/auth/social/{provider}/start     redirect to consent screen
//	GET  /v1/auth/social/{provider}/callback  provider redirect target
//	GET  /v1/auth/social/result               claim a login code
//	HEAD /v1/auth/social/result               probe a login code
//
// Everything here carries user credentials in flight, so the whole group
// is marked uncacheable.
func RegisterSocialRoutes(r chi.Router, deps SocialRouterDeps) {
	c := deps.Controllers

	r.Route("/v1/auth/social", func(r chi.Router) {
		r.Use(mws.WithNoStore())

		r.Get("/providers", c.Providers.List)
		r.Get("/{provider}/start", c.Start.Start)
		r.Get("/{provider}/callback", c.Callback.Callback)
		r.Get("/result", c.Result.GetResult)
		r.Head("/result", c.Result.ResultMetadata)
	})
}
