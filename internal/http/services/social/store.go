package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/socialgate/internal/cache"
	dto "github.com/dropDatabas3/socialgate/internal/http/dto/social"
	"github.com/dropDatabas3/socialgate/internal/security/seal"
	"github.com/dropDatabas3/socialgate/internal/security/token"
)

const (
	// loginCodePrefix namespaces login codes in the shared cache.
	loginCodePrefix = "social:code:"

	// loginCodeBytes sizes the random code; 24 bytes is 32 base64url chars.
	loginCodeBytes = 24

	defaultLoginCodeTTL = 5 * time.Minute
)

// Store errors.
var (
	ErrCodeNotFound = errors.New("login code not found, expired or already claimed")
	ErrCodePayload  = errors.New("stored payload cannot be decoded")
)

// CodeStore parks authentication outcomes in the cache under one-time login
// codes. Entries are keyed by the code's digest, never the code itself, so
// cache contents alone cannot claim an outcome. When a sealer is configured,
// payloads are additionally encrypted at rest.
type CodeStore struct {
	cache  cache.Client
	sealer *seal.Sealer
	ttl    time.Duration
	nowFn  func() time.Time
}

// NewCodeStore builds a store. sealer may be nil to store plaintext JSON.
func NewCodeStore(c cache.Client, sealer *seal.Sealer, ttl time.Duration) *CodeStore {
	if ttl <= 0 {
		ttl = defaultLoginCodeTTL
	}
	return &CodeStore{cache: c, sealer: sealer, ttl: ttl, nowFn: time.Now}
}

func (s *CodeStore) now() time.Time { return s.nowFn() }

// Put stores payload under a fresh login code and returns the code.
func (s *CodeStore) Put(ctx context.Context, payload dto.ResultPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	if s.sealer != nil {
		raw, err = s.sealer.Seal(raw)
		if err != nil {
			return "", fmt.Errorf("seal payload: %w", err)
		}
	}

	code, err := token.GenerateOpaqueToken(loginCodeBytes)
	if err != nil {
		return "", fmt.Errorf("generate login code: %w", err)
	}
	if err := s.cache.Set(ctx, codeKey(code), raw, s.ttl); err != nil {
		return "", fmt.Errorf("store payload: %w", err)
	}
	return code, nil
}

// Claim consumes code and returns its payload. At most one caller ever gets
// a payload for a given code.
func (s *CodeStore) Claim(ctx context.Context, code string) (dto.ResultPayload, error) {
	raw, err := s.cache.GetDel(ctx, codeKey(code))
	return s.decode(raw, err)
}

// Peek returns the payload without consuming the code.
func (s *CodeStore) Peek(ctx context.Context, code string) (dto.ResultPayload, error) {
	raw, err := s.cache.Get(ctx, codeKey(code))
	return s.decode(raw, err)
}

// codeKey derives the cache key for a login code.
func codeKey(code string) string {
	return loginCodePrefix + token.SHA256Base64URL(code)
}

func (s *CodeStore) decode(raw []byte, err error) (dto.ResultPayload, error) {
	if err != nil {
		if cache.IsNotFound(err) {
			return dto.ResultPayload{}, ErrCodeNotFound
		}
		return dto.ResultPayload{}, err
	}
	if s.sealer != nil {
		raw, err = s.sealer.Open(raw)
		if err != nil {
			return dto.ResultPayload{}, fmt.Errorf("%w: %v", ErrCodePayload, err)
		}
	}
	var payload dto.ResultPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return dto.ResultPayload{}, fmt.Errorf("%w: %v", ErrCodePayload, err)
	}
	return payload, nil
}
