// Package logger provides a singleton Zap logger with context-based scoping.
//
// Design:
//   - Singleton: one global instance initialized with Init(). Packages that
//     log outside of a request use L() directly.
//   - Context scoping: each request carries its own scoped logger with extra
//     fields (request_id, provider, ...) attached by middleware. Handlers and
//     services recover it with From(ctx) so every line of a request shares
//     the same correlation fields.
//
// Environments: "dev" uses a colored console encoder for humans, "prod" uses
// JSON for log shippers. Anything else falls back to prod.
//
// Typical wiring:
//
//	logger.Init(logger.Config{
//		Env:   os.Getenv("APP_ENV"),
//		Level: os.Getenv("LOG_LEVEL"),
//	})
//	defer logger.Sync()
//
// Inside a handler:
//
//	log := logger.From(r.Context())
//	log.Info("callback received", logger.Provider(name))
package logger
