// Package health implements the readiness check behind /readyz.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dropDatabas3/socialgate/internal/cache"
	dto "github.com/dropDatabas3/socialgate/internal/http/dto/health"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
)

// HealthService runs the component checks.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contains the injectable checks. Nil members report "disabled".
type Deps struct {
	// CacheCheck pings the login code store. Critical: without it no
	// callback outcome can be parked or claimed.
	CacheCheck func(ctx context.Context) error

	// CacheStats feeds an informational component entry.
	CacheStats func(ctx context.Context) (cache.Stats, error)

	// StateCheck does a sign-and-parse round trip over the state signer.
	// Critical: a broken signer strands every new flow.
	StateCheck func() error

	// AuditCheck pings the audit sink. Non-critical, auditing degrades.
	AuditCheck func(ctx context.Context) error

	// Providers lists enabled provider names for the report.
	Providers func() []string
}

type healthService struct {
	deps Deps
}

// NewHealthService creates a new readiness check service.
func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  time.Now().UTC(),
	}
	if v := os.Getenv("SERVICE_VERSION"); v != "" {
		response.Version = v
	}
	if git := os.Getenv("SERVICE_COMMIT"); git != "" {
		response.Commit = git
	}

	hasErrors := false
	hasCriticalErrors := false

	// 1) Login code store (critical)
	if s.deps.CacheCheck != nil {
		if err := s.deps.CacheCheck(ctx); err != nil {
			response.Components["cache"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("unavailable: %v", err),
			}
			hasCriticalErrors = true
			log.Error("cache unavailable", logger.Err(err))
		} else {
			st := dto.HealthStatus{Status: "ok"}
			if s.deps.CacheStats != nil {
				if stats, err := s.deps.CacheStats(ctx); err == nil {
					st.Message = fmt.Sprintf("keys=%d hits=%d misses=%d", stats.Keys, stats.Hits, stats.Misses)
				}
			}
			response.Components["cache"] = st
		}
	} else {
		response.Components["cache"] = dto.HealthStatus{
			Status:  "error",
			Message: "store not initialized",
		}
		hasCriticalErrors = true
	}

	// 2) State signer (critical)
	if s.deps.StateCheck != nil {
		if err := s.deps.StateCheck(); err != nil {
			response.Components["state_signer"] = dto.HealthStatus{
				Status:  "error",
				Message: err.Error(),
			}
			hasCriticalErrors = true
			log.Error("state signer check failed", logger.Err(err))
		} else {
			response.Components["state_signer"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["state_signer"] = dto.HealthStatus{
			Status:  "error",
			Message: "signer not initialized",
		}
		hasCriticalErrors = true
	}

	// 3) Audit sink (non-critical)
	if s.deps.AuditCheck != nil {
		if err := s.deps.AuditCheck(ctx); err != nil {
			response.Components["audit"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("unavailable: %v", err),
			}
			hasErrors = true
			log.Error("audit sink unavailable", logger.Err(err))
		} else {
			response.Components["audit"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["audit"] = dto.HealthStatus{
			Status:  "disabled",
			Message: "log sink only",
		}
	}

	// 4) Providers (informational)
	if s.deps.Providers != nil {
		names := s.deps.Providers()
		status := dto.HealthStatus{Status: "ok", Message: fmt.Sprintf("enabled: %d", len(names))}
		if len(names) == 0 {
			status = dto.HealthStatus{Status: "error", Message: "no providers enabled"}
			hasErrors = true
		}
		response.Components["providers"] = status
	}

	switch {
	case hasCriticalErrors:
		response.Status = "unavailable"
	case hasErrors:
		response.Status = "degraded"
	default:
		response.Status = "ready"
	}

	return response
}
