// Package social implements the social login flow behind the HTTP layer:
// start builds the provider authorize redirect, callback completes the
// code-for-token exchange and parks the outcome under a one-time login
// code, result hands that outcome back exactly once.
package social

import (
	"time"

	"github.com/dropDatabas3/socialgate/internal/audit"
	"github.com/dropDatabas3/socialgate/internal/cache"
	"github.com/dropDatabas3/socialgate/internal/provider"
	"github.com/dropDatabas3/socialgate/internal/security/seal"
)

// ProviderEntry couples a provider's wiring config with its on/off switch
// and the finish redirect targets callers may request.
type ProviderEntry struct {
	Enabled bool
	Config  provider.Config

	// AllowedRedirectURIs restricts start's redirect_uri parameter.
	// Empty accepts any target.
	AllowedRedirectURIs []string
}

// AllowsRedirect reports whether a requested finish target passes the
// entry's allow list.
func (e ProviderEntry) AllowsRedirect(uri string) bool {
	if len(e.AllowedRedirectURIs) == 0 {
		return true
	}
	for _, allowed := range e.AllowedRedirectURIs {
		if uri == allowed {
			return true
		}
	}
	return false
}

// Deps gathers everything the social services need.
type Deps struct {
	Registry  *provider.Registry
	Providers map[string]ProviderEntry
	Signer    StateSigner
	Cache     cache.Client

	// Sealer, when set, encrypts stored payloads. Optional.
	Sealer *seal.Sealer

	// Audit, when set, receives authentication and code events. Optional.
	Audit audit.Recorder

	// FinishURL is where callbacks redirect with the login code appended.
	// Empty means callbacks answer with JSON.
	FinishURL string

	// LoginCodeTTL bounds how long a parked outcome stays claimable.
	LoginCodeTTL time.Duration
}

// Services bundles the social flow services for the HTTP wiring.
type Services struct {
	Providers ProvidersService
	Start     StartService
	Callback  CallbackService
	Result    ResultService

	// Store is exposed for health checks and tooling.
	Store *CodeStore
}

// NewServices builds the full social service set from shared dependencies.
func NewServices(d Deps) *Services {
	store := NewCodeStore(d.Cache, d.Sealer, d.LoginCodeTTL)

	enabled := make(map[string]bool, len(d.Providers))
	for name, entry := range d.Providers {
		enabled[name] = entry.Enabled
	}

	return &Services{
		Providers: NewProvidersService(ProvidersDeps{
			Registry: d.Registry,
			Enabled:  enabled,
		}),
		Start: NewStartService(StartDeps{
			Registry:  d.Registry,
			Providers: d.Providers,
			Signer:    d.Signer,
		}),
		Callback: NewCallbackService(CallbackDeps{
			Registry:  d.Registry,
			Providers: d.Providers,
			Signer:    d.Signer,
			Store:     store,
			Audit:     d.Audit,
			FinishURL: d.FinishURL,
		}),
		Result: NewResultService(ResultDeps{
			Store: store,
			Audit: d.Audit,
		}),
		Store: store,
	}
}
