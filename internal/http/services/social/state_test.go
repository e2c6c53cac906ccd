package social

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var stateSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestSigner(t *testing.T) *HS256Signer {
	t.Helper()
	s, err := NewHS256Signer(stateSecret, "socialgate-test", 10*time.Minute)
	require.NoError(t, err)
	return s
}

func TestHS256Signer_RoundTrip(t *testing.T) {
	s := newTestSigner(t)

	tok, err := s.SignState("facebook", "")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := s.ParseState(tok)
	require.NoError(t, err)
	require.Equal(t, "facebook", claims.Provider)
	require.Empty(t, claims.RedirectURI)
	require.NotEmpty(t, claims.Nonce)
	require.NotEmpty(t, claims.ID)
	require.Contains(t, claims.Audience, StateAudience)
}

func TestHS256Signer_CarriesRedirectURI(t *testing.T) {
	s := newTestSigner(t)

	tok, err := s.SignState("facebook", "https://app.example/social/finish")
	require.NoError(t, err)

	claims, err := s.ParseState(tok)
	require.NoError(t, err)
	require.Equal(t, "https://app.example/social/finish", claims.RedirectURI)
}

func TestHS256Signer_DistinctTokensPerSign(t *testing.T) {
	s := newTestSigner(t)

	a, err := s.SignState("facebook", "")
	require.NoError(t, err)
	b, err := s.SignState("facebook", "")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestHS256Signer_RejectsTampered(t *testing.T) {
	s := newTestSigner(t)

	tok, err := s.SignState("facebook", "")
	require.NoError(t, err)

	_, err = s.ParseState(tok + "x")
	require.ErrorIs(t, err, ErrStateInvalid)
}

func TestHS256Signer_RejectsWrongSecret(t *testing.T) {
	s := newTestSigner(t)
	other, err := NewHS256Signer([]byte("ffffffffffffffffffffffffffffffff"), "socialgate-test", time.Minute)
	require.NoError(t, err)

	tok, err := other.SignState("facebook", "")
	require.NoError(t, err)

	_, err = s.ParseState(tok)
	require.ErrorIs(t, err, ErrStateInvalid)
}

func TestHS256Signer_RejectsExpired(t *testing.T) {
	s := newTestSigner(t)

	// Sign in the past, far beyond ttl plus leeway.
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := s.SignState("facebook", "")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ParseState(tok)
	require.ErrorIs(t, err, ErrStateExpired)
}

func TestHS256Signer_LeewayAbsorbsSmallSkew(t *testing.T) {
	s := newTestSigner(t)

	// Expired 10 seconds ago stays inside the 30 second leeway.
	s.now = func() time.Time { return time.Now().Add(-10*time.Minute - 10*time.Second) }
	tok, err := s.SignState("facebook", "")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ParseState(tok)
	require.NoError(t, err)
}

func TestHS256Signer_RejectsWrongAudience(t *testing.T) {
	s := newTestSigner(t)

	claims := StateClaims{
		Provider: "facebook",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "socialgate-test",
			Audience:  jwtv5.ClaimStrings{"some-other-audience"},
			IssuedAt:  jwtv5.NewNumericDate(time.Now()),
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(stateSecret)
	require.NoError(t, err)

	_, err = s.ParseState(tok)
	require.ErrorIs(t, err, ErrStateAudience)
}

func TestHS256Signer_RejectsWrongIssuer(t *testing.T) {
	s := newTestSigner(t)

	claims := StateClaims{
		Provider: "facebook",
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    "someone-else",
			Audience:  jwtv5.ClaimStrings{StateAudience},
			IssuedAt:  jwtv5.NewNumericDate(time.Now()),
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(stateSecret)
	require.NoError(t, err)

	_, err = s.ParseState(tok)
	require.ErrorIs(t, err, ErrStateIssuer)
}

func TestHS256Signer_RejectsMissingProviderClaim(t *testing.T) {
	s := newTestSigner(t)

	claims := jwtv5.RegisteredClaims{
		Issuer:    "socialgate-test",
		Audience:  jwtv5.ClaimStrings{StateAudience},
		IssuedAt:  jwtv5.NewNumericDate(time.Now()),
		ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Minute)),
	}
	tok, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(stateSecret)
	require.NoError(t, err)

	_, err = s.ParseState(tok)
	require.ErrorIs(t, err, ErrStateInvalid)
}

func TestNewHS256Signer_RejectsShortSecret(t *testing.T) {
	_, err := NewHS256Signer([]byte("short"), "socialgate-test", time.Minute)
	require.Error(t, err)
}
