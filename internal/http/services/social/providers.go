package social

import (
	"context"

	dto "github.com/dropDatabas3/socialgate/internal/http/dto/social"
	"github.com/dropDatabas3/socialgate/internal/provider"
)

// ProvidersService lists the providers the service knows about.
type ProvidersService interface {
	List(ctx context.Context) dto.ProvidersResponse
}

// ProvidersDeps wires the providers service.
type ProvidersDeps struct {
	Registry *provider.Registry
	Enabled  map[string]bool
}

type providersService struct {
	deps ProvidersDeps
}

// NewProvidersService builds the providers listing service.
func NewProvidersService(deps ProvidersDeps) ProvidersService {
	return &providersService{deps: deps}
}

func (s *providersService) List(_ context.Context) dto.ProvidersResponse {
	names := s.deps.Registry.Available()
	resp := dto.ProvidersResponse{Providers: make([]dto.ProviderInfo, 0, len(names))}
	for _, name := range names {
		resp.Providers = append(resp.Providers, dto.ProviderInfo{
			Name:    name,
			Enabled: s.deps.Enabled[name],
		})
	}
	return resp
}
