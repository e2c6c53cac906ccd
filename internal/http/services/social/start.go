package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/provider"
)

// Start errors.
var (
	ErrStartProviderMissing     = errors.New("social start: provider is required")
	ErrStartProviderUnknown     = errors.New("social start: unknown provider")
	ErrStartProviderDisabled    = errors.New("social start: provider is disabled")
	ErrStartProviderUnavailable = errors.New("social start: provider is not usable")
	ErrStartRedirectNotAllowed  = errors.New("social start: redirect_uri is not allowed")
	ErrStartState               = errors.New("social start: cannot sign state")
)

// StartRequest begins an authentication flow against one provider.
// RedirectURI, when set, asks the callback to finish there instead of the
// configured finish URL; it must pass the provider's allow list.
type StartRequest struct {
	Provider    string
	RedirectURI string
}

// StartResult carries the URL the browser must be sent to.
type StartResult struct {
	Provider     string
	AuthorizeURL string
}

// StartService builds the provider authorize redirect.
type StartService interface {
	Start(ctx context.Context, req StartRequest) (StartResult, error)
}

// StartDeps wires the start service.
type StartDeps struct {
	Registry  *provider.Registry
	Providers map[string]ProviderEntry
	Signer    StateSigner
}

type startService struct {
	deps StartDeps
}

// NewStartService builds the start service.
func NewStartService(deps StartDeps) StartService {
	return &startService{deps: deps}
}

func (s *startService) Start(ctx context.Context, req StartRequest) (StartResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("social.Start"))

	if req.Provider == "" {
		return StartResult{}, ErrStartProviderMissing
	}

	entry, ok := s.deps.Providers[req.Provider]
	if !ok {
		return StartResult{}, ErrStartProviderUnknown
	}
	if !entry.Enabled {
		return StartResult{}, ErrStartProviderDisabled
	}
	if req.RedirectURI != "" && !entry.AllowsRedirect(req.RedirectURI) {
		log.Warn("redirect_uri rejected", logger.Provider(req.Provider), logger.String("redirect_uri", req.RedirectURI))
		return StartResult{}, ErrStartRedirectNotAllowed
	}

	p, err := s.deps.Registry.Get(req.Provider, entry.Config)
	if err != nil {
		if errors.Is(err, provider.ErrUnknownProvider) {
			return StartResult{}, ErrStartProviderUnknown
		}
		log.Error("provider build failed", logger.Provider(req.Provider), logger.Err(err))
		return StartResult{}, fmt.Errorf("%w: %v", ErrStartProviderUnavailable, err)
	}
	if err := p.Validate(); err != nil {
		log.Error("provider misconfigured", logger.Provider(req.Provider), logger.Err(err))
		return StartResult{}, fmt.Errorf("%w: %v", ErrStartProviderUnavailable, err)
	}

	state, err := s.deps.Signer.SignState(req.Provider, req.RedirectURI)
	if err != nil {
		log.Error("state signing failed", logger.Provider(req.Provider), logger.Err(err))
		return StartResult{}, fmt.Errorf("%w: %v", ErrStartState, err)
	}

	log.Debug("authorize redirect built", logger.Provider(req.Provider))
	return StartResult{
		Provider:     req.Provider,
		AuthorizeURL: p.AuthorizeURL(state),
	}, nil
}
