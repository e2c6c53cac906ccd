// Package provider defines the social login provider contract.
//
// Each provider wraps one upstream identity service (Facebook today) behind
// the same small surface:
//   - Provider interface: authorize URL construction plus callback handling
//   - Registry: factory-based construction with instance caching
//   - AuthenticatedClient: the one result type every flow produces
//
// Authentication outcomes are values, not panics or thrown errors. A failed
// exchange comes back as an AuthenticatedClient carrying ErrorInformation,
// and a callback that has nothing to do with the provider comes back as nil.
package provider

import (
	"context"
	"net/http"
)

// Provider is implemented once per upstream identity service.
type Provider interface {
	// Name returns the lowercase provider identifier, e.g. "facebook".
	Name() string

	// AuthorizeURL builds the upstream consent URL carrying state for CSRF
	// protection. The caller redirects the browser there.
	AuthorizeURL(state string) string

	// AuthenticateClient inspects callback parameters and completes the
	// code-for-token exchange plus the profile fetch.
	//
	// It returns nil when params carry nothing addressed to this provider
	// (no code and no provider error fields). Otherwise it always returns a
	// result: either token plus user information, or ErrorInformation
	// describing the first step that failed. It never panics on upstream
	// failures.
	AuthenticateClient(ctx context.Context, params Params, expectedState string) *AuthenticatedClient

	// Validate reports whether the provider has the configuration it needs
	// to run a flow (client id, secret, redirect URL).
	Validate() error
}

// Config parameterizes a provider instance.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// Endpoint overrides. Empty values select the provider's production
	// endpoints; tests point them at local fakes.
	AuthorizeEndpoint string
	TokenEndpoint     string
	ProfileEndpoint   string

	// HTTPClient performs the upstream calls. Nil selects the provider's
	// default client with a sane timeout.
	HTTPClient *http.Client
}

// Factory builds a configured Provider. One is registered per provider name
// at startup.
type Factory func(cfg Config) (Provider, error)
