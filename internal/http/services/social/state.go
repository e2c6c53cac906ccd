package social

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/socialgate/internal/security/token"
)

// StateAudience marks tokens minted for the social flow so they cannot be
// replayed against other JWT consumers.
const StateAudience = "social-state"

// stateLeeway absorbs small clock drift between this service and callers.
const stateLeeway = 30 * time.Second

// State validation errors.
var (
	ErrStateInvalid  = errors.New("social state: token invalid")
	ErrStateExpired  = errors.New("social state: token expired")
	ErrStateAudience = errors.New("social state: wrong audience")
	ErrStateIssuer   = errors.New("social state: wrong issuer")
)

// StateClaims is the payload carried through the provider redirect.
// RedirectURI, when set, is where the callback sends the browser with the
// login code; it was validated against the allow list when minted, so the
// callback may trust it.
type StateClaims struct {
	Provider    string `json:"provider"`
	RedirectURI string `json:"redirect_uri,omitempty"`
	Nonce       string `json:"nonce,omitempty"`
	jwtv5.RegisteredClaims
}

// StateSigner mints and validates the opaque state relayed through the
// provider's authorize redirect.
type StateSigner interface {
	SignState(provider, redirectURI string) (string, error)
	ParseState(token string) (*StateClaims, error)
}

// HS256Signer signs state tokens with a shared secret.
type HS256Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewHS256Signer builds a signer. The ttl bounds how long a user may sit
// on the provider's consent screen before the flow has to restart.
func NewHS256Signer(secret []byte, issuer string, ttl time.Duration) (*HS256Signer, error) {
	if len(secret) < 32 {
		return nil, errors.New("social state: secret must be at least 32 bytes")
	}
	if issuer == "" {
		issuer = "socialgate"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &HS256Signer{secret: secret, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

func (s *HS256Signer) SignState(provider, redirectURI string) (string, error) {
	now := s.now()
	nonce, err := token.GenerateOpaqueToken(16)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	claims := StateClaims{
		Provider:    provider,
		RedirectURI: redirectURI,
		Nonce:       nonce,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwtv5.ClaimStrings{StateAudience},
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

func (s *HS256Signer) ParseState(raw string) (*StateClaims, error) {
	claims := &StateClaims{}
	_, err := jwtv5.ParseWithClaims(raw, claims,
		func(*jwtv5.Token) (any, error) { return s.secret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithAudience(StateAudience),
		jwtv5.WithIssuer(s.issuer),
		jwtv5.WithLeeway(stateLeeway),
		jwtv5.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwtv5.ErrTokenExpired):
			return nil, ErrStateExpired
		case errors.Is(err, jwtv5.ErrTokenInvalidAudience):
			return nil, ErrStateAudience
		case errors.Is(err, jwtv5.ErrTokenInvalidIssuer):
			return nil, ErrStateIssuer
		default:
			return nil, fmt.Errorf("%w: %v", ErrStateInvalid, err)
		}
	}
	if claims.Provider == "" {
		return nil, fmt.Errorf("%w: missing provider claim", ErrStateInvalid)
	}
	return claims, nil
}
