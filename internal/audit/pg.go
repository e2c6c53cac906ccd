package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/socialgate/internal/observability/logger"
)

const insertTimeout = 3 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS social_audit (
	id          BIGSERIAL PRIMARY KEY,
	occurred_at TIMESTAMPTZ NOT NULL,
	kind        TEXT NOT NULL,
	provider    TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	subject     TEXT NOT NULL DEFAULT '',
	code_hash   TEXT NOT NULL DEFAULT '',
	detail      TEXT NOT NULL DEFAULT '',
	request_id  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS social_audit_occurred_at_idx ON social_audit (occurred_at);
`

// PGRecorder persists events in Postgres.
type PGRecorder struct {
	pool *pgxpool.Pool
}

// NewPGRecorder opens a pool against dsn and makes sure the audit table
// exists. Startup is non-blocking: an unreachable database logs a warning
// and the recorder degrades to logging insert failures per event.
func NewPGRecorder(ctx context.Context, dsn string) (*PGRecorder, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if pcfg.MaxConns == 0 || pcfg.MaxConns > 8 {
		pcfg.MaxConns = 8
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	r := &PGRecorder{pool: pool}
	if err := pool.Ping(ctx); err != nil {
		logger.L().Warn("audit database unreachable at startup", logger.Err(err))
		return r, nil
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.L().Warn("audit schema setup failed", logger.Err(err))
	}
	return r, nil
}

// Pool exposes the underlying pool for diagnostics collectors.
func (r *PGRecorder) Pool() *pgxpool.Pool {
	if r == nil {
		return nil
	}
	return r.pool
}

func (r *PGRecorder) Record(ctx context.Context, e Event) {
	// Detach from the request context so a finished request does not
	// cancel the insert.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), insertTimeout)
	defer cancel()

	const q = `INSERT INTO social_audit (occurred_at, kind, provider, outcome, subject, code_hash, detail, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.pool.Exec(ctx, q, e.Time, e.Kind, e.Provider, e.Outcome, e.Subject, e.CodeHash, e.Detail, e.RequestID); err != nil {
		logger.From(ctx).Warn("audit insert failed",
			logger.String("kind", e.Kind),
			logger.Provider(e.Provider),
			logger.Err(err),
		)
	}
}

// Close releases the pool (idempotent).
func (r *PGRecorder) Close() {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
}
