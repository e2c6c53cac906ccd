// Package audit records authentication outcomes for later inspection.
// Recording is fire-and-forget: a sink that cannot persist an event logs
// the failure and moves on, it never fails the request that produced it.
package audit

import (
	"context"
	"time"

	"github.com/dropDatabas3/socialgate/internal/observability/logger"
)

// Event kinds.
const (
	KindAuthentication = "authentication"
	KindCodeIssued     = "code_issued"
	KindCodeClaimed    = "code_claimed"
)

// Event is one audit entry. CodeHash carries a digest of the login code,
// never the code itself.
type Event struct {
	Time      time.Time
	Kind      string
	Provider  string
	Outcome   string
	Subject   string
	CodeHash  string
	Detail    string
	RequestID string
}

// Recorder persists audit events.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) {}

// LogRecorder writes events to the service log.
type LogRecorder struct{}

// NewLogRecorder creates a Recorder backed by the process logger.
func NewLogRecorder() *LogRecorder { return &LogRecorder{} }

func (*LogRecorder) Record(ctx context.Context, e Event) {
	logger.From(ctx).Named("audit").Info("audit event",
		logger.String("kind", e.Kind),
		logger.Provider(e.Provider),
		logger.Outcome(e.Outcome),
		logger.String("subject", e.Subject),
		logger.String("code_hash", e.CodeHash),
		logger.String("detail", e.Detail),
		logger.RequestID(e.RequestID),
	)
}
