package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/socialgate/internal/audit"
	"github.com/dropDatabas3/socialgate/internal/cache"
	"github.com/dropDatabas3/socialgate/internal/config"
	healthctrl "github.com/dropDatabas3/socialgate/internal/http/controllers/health"
	socialctrl "github.com/dropDatabas3/socialgate/internal/http/controllers/social"
	"github.com/dropDatabas3/socialgate/internal/http/router"
	healthsvc "github.com/dropDatabas3/socialgate/internal/http/services/health"
	socialsvc "github.com/dropDatabas3/socialgate/internal/http/services/social"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/provider"
	fbprovider "github.com/dropDatabas3/socialgate/internal/provider/facebook"
	"github.com/dropDatabas3/socialgate/internal/security/seal"
)

// BuildHandler wires the whole application from cfg and returns the root
// handler plus a cleanup that releases everything it opened.
func BuildHandler(ctx context.Context, cfg *config.Config) (http.Handler, func() error, error) {
	// 1. Login code store
	cacheClient, err := cache.New(cache.Config{
		Driver:     cfg.Cache.Driver,
		Host:       cfg.Cache.Redis.Host,
		Port:       cfg.Cache.Redis.Port,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: cfg.MemoryTTL(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cache init: %w", err)
	}
	cleanup := func() error { return cacheClient.Close() }

	// 2. Payload sealer (optional)
	sealKey, err := cfg.DecodeSealKey()
	if err != nil {
		_ = cleanup()
		return nil, nil, err
	}
	var sealer *seal.Sealer
	if len(sealKey) > 0 {
		sealer, err = seal.New(sealKey)
		if err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("seal init: %w", err)
		}
	}

	// 3. State signer
	signer, err := socialsvc.NewHS256Signer([]byte(cfg.State.Secret), cfg.State.Issuer, cfg.StateTTL())
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("state signer: %w", err)
	}

	// 4. Audit sink
	var (
		recorder  audit.Recorder
		auditPool func() *pgxpool.Pool
		auditPing func(ctx context.Context) error
	)
	switch cfg.Audit.Driver {
	case "postgres":
		pg, err := audit.NewPGRecorder(ctx, cfg.Audit.DSN)
		if err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("audit init: %w", err)
		}
		recorder = pg
		auditPool = pg.Pool
		auditPing = func(ctx context.Context) error {
			pool := pg.Pool()
			if pool == nil {
				return errors.New("pool not initialized")
			}
			return pool.Ping(ctx)
		}
		closeCache := cleanup
		cleanup = func() error {
			pg.Close()
			return closeCache()
		}
	case "off":
		recorder = audit.NopRecorder{}
	default:
		recorder = audit.NewLogRecorder()
	}

	// 5. Providers
	registry := provider.NewRegistry()
	registry.RegisterFactory("facebook", fbprovider.Factory)

	providers := map[string]socialsvc.ProviderEntry{
		"facebook": {
			Enabled: cfg.Providers.Facebook.Enabled,
			Config: provider.Config{
				ClientID:          cfg.Providers.Facebook.ClientID,
				ClientSecret:      cfg.Providers.Facebook.ClientSecret,
				RedirectURL:       cfg.Providers.Facebook.RedirectURL,
				Scopes:            cfg.Providers.Facebook.Scopes,
				AuthorizeEndpoint: cfg.Providers.Facebook.AuthorizeEndpoint,
				TokenEndpoint:     cfg.Providers.Facebook.TokenEndpoint,
				ProfileEndpoint:   cfg.Providers.Facebook.ProfileEndpoint,
			},
			AllowedRedirectURIs: cfg.Providers.Facebook.AllowedRedirectURIs,
		},
	}
	enabledNames := func() []string {
		var names []string
		for name, entry := range providers {
			if entry.Enabled {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		return names
	}

	// 6. Services
	services := socialsvc.NewServices(socialsvc.Deps{
		Registry:     registry,
		Providers:    providers,
		Signer:       signer,
		Cache:        cacheClient,
		Sealer:       sealer,
		Audit:        recorder,
		FinishURL:    cfg.Social.FinishURL,
		LoginCodeTTL: cfg.LoginCodeTTL(),
	})

	// 7. Readiness checks
	health := healthsvc.NewHealthService(healthsvc.Deps{
		CacheCheck: cacheClient.Ping,
		CacheStats: cacheClient.Stats,
		StateCheck: func() error {
			raw, err := signer.SignState("healthcheck", "")
			if err != nil {
				return err
			}
			_, err = signer.ParseState(raw)
			return err
		},
		AuditCheck: auditPing,
		Providers:  enabledNames,
	})

	// 8. Metrics
	metricsHandler, err := RegisterMetrics(MetricsConfig{AuditPool: auditPool})
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("metrics init: %w", err)
	}

	// 9. Route tree
	handler := router.New(router.Deps{
		Social:         socialctrl.NewControllers(services, cfg.Social.DebugPeek),
		Health:         healthctrl.NewHealthController(health),
		MetricsHandler: metricsHandler,
		MetricsMW:      WithMetrics,
	})

	logger.L().Info("http handler wired",
		logger.Component("server"),
		logger.String("cache_driver", cfg.Cache.Driver),
		logger.String("audit_driver", cfg.Audit.Driver),
		logger.Bool("sealed_codes", sealer != nil),
		logger.Count(len(enabledNames())),
	)

	return handler, cleanup, nil
}

// BuildServer wraps the wired handler in an http.Server with the service's
// standard timeouts.
func BuildServer(ctx context.Context, cfg *config.Config) (*http.Server, func() error, error) {
	handler, cleanup, err := BuildHandler(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, cleanup, nil
}
