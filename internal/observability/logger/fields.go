package logger

import (
	"time"

	"go.uber.org/zap"
)

// Typed field helpers so call sites agree on key names. Keys are stable:
// dashboards and alerts key on them.

// RequestID tags an entry with the correlation id minted by the middleware.
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Method is the HTTP method of the current request.
func Method(v string) zap.Field { return zap.String("method", v) }

// Path is the request path (unnormalized).
func Path(v string) zap.Field { return zap.String("path", v) }

// Status is the HTTP status code written to the client.
func Status(v int) zap.Field { return zap.Int("status", v) }

// Duration records an elapsed time as a zap duration field.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// DurationMs records an elapsed time in whole milliseconds.
func DurationMs(v time.Duration) zap.Field { return zap.Int64("duration_ms", v.Milliseconds()) }

// Bytes is the size of the response body written.
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

// ClientIP is the remote address of the caller.
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// UserAgent is the caller's User-Agent header.
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }

// UserID identifies the authenticated end user, when known.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// ClientID identifies the OAuth application in use.
func ClientID(v string) zap.Field { return zap.String("client_id", v) }

// Provider names the social provider handling the flow (facebook, ...).
func Provider(v string) zap.Field { return zap.String("provider", v) }

// Outcome classifies how an authentication attempt ended:
// success, error or not_applicable.
func Outcome(v string) zap.Field { return zap.String("outcome", v) }

// Component names the subsystem emitting the entry (service, store, ...).
func Component(v string) zap.Field { return zap.String("component", v) }

// Op names the operation in progress inside a component.
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer distinguishes architectural layers (controller, service, client).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Err attaches an error under the conventional "error" key. Nil-safe.
func Err(err error) zap.Field { return zap.Error(err) }

// Count is a generic cardinality field.
func Count(v int) zap.Field { return zap.Int("count", v) }

// ID is a generic identifier field.
func ID(v string) zap.Field { return zap.String("id", v) }

// Key is a generic cache/store key field.
func Key(v string) zap.Field { return zap.String("key", v) }

// Value is a generic string value field.
func Value(v string) zap.Field { return zap.String("value", v) }

// Any defers to zap's reflection-based field for ad hoc values.
func Any(key string, v any) zap.Field { return zap.Any(key, v) }

// String mirrors zap.String for call sites that only import this package.
func String(key, v string) zap.Field { return zap.String(key, v) }

// Int mirrors zap.Int.
func Int(key string, v int) zap.Field { return zap.Int(key, v) }

// Bool mirrors zap.Bool.
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
