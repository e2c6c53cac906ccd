package social

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/socialgate/internal/audit"
	dto "github.com/dropDatabas3/socialgate/internal/http/dto/social"
	"github.com/dropDatabas3/socialgate/internal/http/middlewares"
	"github.com/dropDatabas3/socialgate/internal/provider"
	fbprovider "github.com/dropDatabas3/socialgate/internal/provider/facebook"
)

// fakeFacebook stands in for the Graph API endpoints.
type fakeFacebook struct {
	srv         *httptest.Server
	tokenStatus int
	tokenHits   int
	meHits      int
}

func newFakeFacebook(t *testing.T) *fakeFacebook {
	t.Helper()
	f := &fakeFacebook{tokenStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenHits++
		if f.tokenStatus != http.StatusOK {
			http.Error(w, http.StatusText(f.tokenStatus), f.tokenStatus)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
		fmt.Fprint(w, "access_token=tok-abc123&expires_on=5183999")
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		f.meHits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"100000123","name":"Ada Lovelace","first_name":"Ada","last_name":"Lovelace",`+
			`"username":"ada","locale":"en_US","link":"https://www.facebook.com/ada","timezone":2,"verified":true}`)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeFacebook) config() provider.Config {
	return provider.Config{
		ClientID:          "app-id",
		ClientSecret:      "app-secret",
		RedirectURL:       "https://svc.example/v1/auth/social/facebook/callback",
		Scopes:            []string{"email"},
		AuthorizeEndpoint: f.srv.URL + "/dialog/oauth",
		TokenEndpoint:     f.srv.URL + "/oauth/access_token",
		ProfileEndpoint:   f.srv.URL + "/me",
		HTTPClient:        f.srv.Client(),
	}
}

// recordingAudit captures events for assertions.
type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAudit) Record(_ context.Context, e audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingAudit) byKind(kind string) []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []audit.Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	fb     *fakeFacebook
	signer *HS256Signer
	audit  *recordingAudit
	svcs   *Services
}

func newTestEnv(t *testing.T, fb *fakeFacebook, mutate func(d *Deps)) *testEnv {
	t.Helper()

	registry := provider.NewRegistry()
	registry.RegisterFactory(fbprovider.ProviderName, fbprovider.Factory)

	signer := newTestSigner(t)
	rec := &recordingAudit{}

	deps := Deps{
		Registry: registry,
		Providers: map[string]ProviderEntry{
			fbprovider.ProviderName: {Enabled: true, Config: fb.config()},
		},
		Signer:       signer,
		Cache:        newMemoryCache(t),
		Audit:        rec,
		FinishURL:    "https://app.example/social/finish",
		LoginCodeTTL: time.Minute,
	}
	if mutate != nil {
		mutate(&deps)
	}

	return &testEnv{fb: fb, signer: signer, audit: rec, svcs: NewServices(deps)}
}

func (e *testEnv) signedState(t *testing.T, providerName string) string {
	t.Helper()
	s, err := e.signer.SignState(providerName, "")
	require.NoError(t, err)
	return s
}

func TestStart_BuildsAuthorizeRedirect(t *testing.T) {
	env := newTestEnv(t, newFakeFacebook(t), nil)

	res, err := env.svcs.Start.Start(context.Background(), StartRequest{Provider: "facebook"})
	require.NoError(t, err)
	require.Equal(t, "facebook", res.Provider)

	u, err := url.Parse(res.AuthorizeURL)
	require.NoError(t, err)
	require.Equal(t, "/dialog/oauth", u.Path)

	q := u.Query()
	require.Equal(t, "app-id", q.Get("client_id"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "https://svc.example/v1/auth/social/facebook/callback", q.Get("redirect_uri"))

	claims, err := env.signer.ParseState(q.Get("state"))
	require.NoError(t, err)
	require.Equal(t, "facebook", claims.Provider)
}

func TestStart_RejectsBadProviders(t *testing.T) {
	env := newTestEnv(t, newFakeFacebook(t), nil)
	ctx := context.Background()

	_, err := env.svcs.Start.Start(ctx, StartRequest{})
	require.ErrorIs(t, err, ErrStartProviderMissing)

	_, err = env.svcs.Start.Start(ctx, StartRequest{Provider: "twitter"})
	require.ErrorIs(t, err, ErrStartProviderUnknown)
}

func TestStart_DisabledProvider(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, func(d *Deps) {
		d.Providers["facebook"] = ProviderEntry{Enabled: false, Config: fb.config()}
	})

	_, err := env.svcs.Start.Start(context.Background(), StartRequest{Provider: "facebook"})
	require.ErrorIs(t, err, ErrStartProviderDisabled)
}

func TestStart_MisconfiguredProvider(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, func(d *Deps) {
		cfg := fb.config()
		cfg.ClientID = ""
		d.Providers["facebook"] = ProviderEntry{Enabled: true, Config: cfg}
	})

	_, err := env.svcs.Start.Start(context.Background(), StartRequest{Provider: "facebook"})
	require.ErrorIs(t, err, ErrStartProviderUnavailable)
}

func TestStart_RedirectURIRidesInState(t *testing.T) {
	env := newTestEnv(t, newFakeFacebook(t), nil)

	// No allow list configured: any requested redirect is accepted.
	res, err := env.svcs.Start.Start(context.Background(), StartRequest{
		Provider:    "facebook",
		RedirectURI: "https://tenant.example/return",
	})
	require.NoError(t, err)

	u, err := url.Parse(res.AuthorizeURL)
	require.NoError(t, err)
	claims, err := env.signer.ParseState(u.Query().Get("state"))
	require.NoError(t, err)
	require.Equal(t, "https://tenant.example/return", claims.RedirectURI)
}

func TestStart_RedirectURIAllowList(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, func(d *Deps) {
		d.Providers["facebook"] = ProviderEntry{
			Enabled:             true,
			Config:              fb.config(),
			AllowedRedirectURIs: []string{"https://app.example/social/finish"},
		}
	})
	ctx := context.Background()

	_, err := env.svcs.Start.Start(ctx, StartRequest{
		Provider:    "facebook",
		RedirectURI: "https://app.example/social/finish",
	})
	require.NoError(t, err)

	_, err = env.svcs.Start.Start(ctx, StartRequest{
		Provider:    "facebook",
		RedirectURI: "https://evil.example/grab",
	})
	require.ErrorIs(t, err, ErrStartRedirectNotAllowed)

	// Not asking for a redirect is always fine.
	_, err = env.svcs.Start.Start(ctx, StartRequest{Provider: "facebook"})
	require.NoError(t, err)
}

func TestCallback_SuccessIssuesLoginCode(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, nil)
	ctx := context.Background()

	state := env.signedState(t, "facebook")
	res, err := env.svcs.Callback.Callback(ctx, CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": state}),
	})
	require.NoError(t, err)
	require.True(t, res.OK)
	require.NotEmpty(t, res.Code)
	require.True(t, strings.HasPrefix(res.RedirectURL, "https://app.example/social/finish?"))
	require.Contains(t, res.RedirectURL, "code="+url.QueryEscape(res.Code))
	require.Contains(t, res.RedirectURL, "provider=facebook")

	authEvents := env.audit.byKind(audit.KindAuthentication)
	require.Len(t, authEvents, 1)
	require.Equal(t, "success", authEvents[0].Outcome)
	require.Equal(t, "100000123", authEvents[0].Subject)

	issued := env.audit.byKind(audit.KindCodeIssued)
	require.Len(t, issued, 1)
	require.NotEmpty(t, issued[0].CodeHash)
	require.NotEqual(t, res.Code, issued[0].CodeHash)

	// Claim the parked result.
	out, err := env.svcs.Result.GetResult(ctx, dto.ResultRequest{Code: res.Code})
	require.NoError(t, err)
	require.True(t, out.Payload.OK)
	require.Equal(t, "facebook", out.Payload.Provider)
	require.NotNil(t, out.Payload.Token)
	require.Equal(t, "tok-abc123", out.Payload.Token.AccessToken)
	require.WithinDuration(t, time.Now().Add(5183999*time.Second), out.Payload.Token.ExpiresOn, 2*time.Minute)
	require.NotNil(t, out.Payload.User)
	require.EqualValues(t, 100000123, out.Payload.User.ID)
	require.Equal(t, "Ada Lovelace", out.Payload.User.Name)
	require.Nil(t, out.Payload.Error)

	// One-time: the code is spent.
	_, err = env.svcs.Result.GetResult(ctx, dto.ResultRequest{Code: res.Code})
	require.ErrorIs(t, err, ErrResultCodeNotFound)

	claimed := env.audit.byKind(audit.KindCodeClaimed)
	require.Len(t, claimed, 1)
}

func TestCallback_UpstreamFailureParksErrorResult(t *testing.T) {
	fb := newFakeFacebook(t)
	fb.tokenStatus = http.StatusBadGateway
	env := newTestEnv(t, fb, nil)
	ctx := context.Background()

	state := env.signedState(t, "facebook")
	res, err := env.svcs.Callback.Callback(ctx, CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": state}),
	})
	require.NoError(t, err)
	require.False(t, res.OK)
	require.NotEmpty(t, res.Code)

	out, err := env.svcs.Result.GetResult(ctx, dto.ResultRequest{Code: res.Code})
	require.NoError(t, err)
	require.False(t, out.Payload.OK)
	require.Nil(t, out.Payload.Token)
	require.Nil(t, out.Payload.User)
	require.NotNil(t, out.Payload.Error)
	require.Equal(t,
		"Failed to obtain an Access Token from Facebook OR the the response was not an HTTP Status 200 OK. "+
			"Response Status: Bad Gateway. Response Description: Bad Gateway",
		out.Payload.Error.Message)
	require.NotEmpty(t, out.Payload.Error.Cause)

	authEvents := env.audit.byKind(audit.KindAuthentication)
	require.Len(t, authEvents, 1)
	require.Equal(t, "error", authEvents[0].Outcome)
}

func TestCallback_UserDeniedBecomesErrorResult(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, nil)
	ctx := context.Background()

	state := env.signedState(t, "facebook")
	res, err := env.svcs.Callback.Callback(ctx, CallbackRequest{
		Provider: "facebook",
		Params: provider.NewParams(map[string]string{
			"error":             "access_denied",
			"error_reason":      "user_denied",
			"error_description": "Permissions error",
			"state":             state,
		}),
	})
	require.NoError(t, err)
	require.False(t, res.OK)

	out, err := env.svcs.Result.GetResult(ctx, dto.ResultRequest{Code: res.Code})
	require.NoError(t, err)
	require.NotNil(t, out.Payload.Error)
	require.Equal(t, "Reason: user_denied. Error: access_denied. Description: Permissions error.",
		out.Payload.Error.Message)
	require.Empty(t, out.Payload.Error.Cause)

	// Provider errors short-circuit before any upstream call.
	require.Zero(t, fb.tokenHits)
	require.Zero(t, fb.meHits)
}

func TestCallback_IrrelevantParams(t *testing.T) {
	env := newTestEnv(t, newFakeFacebook(t), nil)

	state := env.signedState(t, "facebook")
	_, err := env.svcs.Callback.Callback(context.Background(), CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"state": state}),
	})
	require.ErrorIs(t, err, ErrCallbackNotApplicable)
}

func TestCallback_StateChecks(t *testing.T) {
	env := newTestEnv(t, newFakeFacebook(t), nil)
	ctx := context.Background()

	_, err := env.svcs.Callback.Callback(ctx, CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1"}),
	})
	require.ErrorIs(t, err, ErrCallbackStateMissing)

	_, err = env.svcs.Callback.Callback(ctx, CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": "garbage"}),
	})
	require.ErrorIs(t, err, ErrCallbackStateInvalid)

	otherState := env.signedState(t, "github")
	_, err = env.svcs.Callback.Callback(ctx, CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": otherState}),
	})
	require.ErrorIs(t, err, ErrCallbackStateMismatch)
}

func TestCallback_ExpiredState(t *testing.T) {
	env := newTestEnv(t, newFakeFacebook(t), nil)

	env.signer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	state := env.signedState(t, "facebook")
	env.signer.now = time.Now

	_, err := env.svcs.Callback.Callback(context.Background(), CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": state}),
	})
	require.ErrorIs(t, err, ErrCallbackStateExpired)
}

func TestCallback_RejectsBadProviders(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, func(d *Deps) {
		d.Providers["disabled"] = ProviderEntry{Enabled: false, Config: fb.config()}
	})
	ctx := context.Background()

	_, err := env.svcs.Callback.Callback(ctx, CallbackRequest{})
	require.ErrorIs(t, err, ErrCallbackProviderMissing)

	_, err = env.svcs.Callback.Callback(ctx, CallbackRequest{Provider: "twitter"})
	require.ErrorIs(t, err, ErrCallbackProviderUnknown)

	_, err = env.svcs.Callback.Callback(ctx, CallbackRequest{Provider: "disabled"})
	require.ErrorIs(t, err, ErrCallbackProviderDisabled)
}

func TestCallback_WithoutFinishURLSkipsRedirect(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, func(d *Deps) { d.FinishURL = "" })

	state := env.signedState(t, "facebook")
	res, err := env.svcs.Callback.Callback(context.Background(), CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": state}),
	})
	require.NoError(t, err)
	require.Empty(t, res.RedirectURL)
	require.NotEmpty(t, res.Code)
}

func TestCallback_FinishURLWithQueryAppends(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, func(d *Deps) { d.FinishURL = "https://app.example/finish?app=1" })

	state := env.signedState(t, "facebook")
	res, err := env.svcs.Callback.Callback(context.Background(), CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": state}),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.RedirectURL, "https://app.example/finish?app=1&code="))
}

func TestCallback_StateRedirectOverridesFinishURL(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, nil)

	state, err := env.signer.SignState("facebook", "https://tenant.example/return")
	require.NoError(t, err)

	res, err := env.svcs.Callback.Callback(context.Background(), CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": state}),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.RedirectURL, "https://tenant.example/return?"))
	require.Contains(t, res.RedirectURL, "code="+url.QueryEscape(res.Code))
}

func TestCallback_AuditCarriesRequestID(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, nil)

	// Mint the context the same way the request id middleware does.
	var ctx context.Context
	h := middlewares.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	}), middlewares.WithRequestID())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	state := env.signedState(t, "facebook")
	res, err := env.svcs.Callback.Callback(ctx, CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": state}),
	})
	require.NoError(t, err)

	authEvents := env.audit.byKind(audit.KindAuthentication)
	require.Len(t, authEvents, 1)
	require.Equal(t, "req-42", authEvents[0].RequestID)

	_, err = env.svcs.Result.GetResult(ctx, dto.ResultRequest{Code: res.Code})
	require.NoError(t, err)
	claimed := env.audit.byKind(audit.KindCodeClaimed)
	require.Len(t, claimed, 1)
	require.Equal(t, "req-42", claimed[0].RequestID)
}

func TestResult_Validation(t *testing.T) {
	env := newTestEnv(t, newFakeFacebook(t), nil)
	ctx := context.Background()

	_, err := env.svcs.Result.GetResult(ctx, dto.ResultRequest{})
	require.ErrorIs(t, err, ErrResultCodeMissing)

	_, err = env.svcs.Result.GetResult(ctx, dto.ResultRequest{Code: "never-issued"})
	require.ErrorIs(t, err, ErrResultCodeNotFound)
}

func TestResult_PeekLeavesCodeClaimable(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, nil)
	ctx := context.Background()

	state := env.signedState(t, "facebook")
	res, err := env.svcs.Callback.Callback(ctx, CallbackRequest{
		Provider: "facebook",
		Params:   provider.NewParams(map[string]string{"code": "fb-code-1", "state": state}),
	})
	require.NoError(t, err)

	peeked, err := env.svcs.Result.GetResult(ctx, dto.ResultRequest{Code: res.Code, Peek: true})
	require.NoError(t, err)
	require.True(t, peeked.Peek)
	require.True(t, peeked.Payload.OK)

	// Peek must not audit a claim.
	require.Empty(t, env.audit.byKind(audit.KindCodeClaimed))

	claimed, err := env.svcs.Result.GetResult(ctx, dto.ResultRequest{Code: res.Code})
	require.NoError(t, err)
	require.True(t, claimed.Payload.OK)
}

func TestProviders_List(t *testing.T) {
	env := newTestEnv(t, newFakeFacebook(t), nil)

	resp := env.svcs.Providers.List(context.Background())
	require.Len(t, resp.Providers, 1)
	require.Equal(t, "facebook", resp.Providers[0].Name)
	require.True(t, resp.Providers[0].Enabled)
}

func TestProviders_ListDisabled(t *testing.T) {
	fb := newFakeFacebook(t)
	env := newTestEnv(t, fb, func(d *Deps) {
		d.Providers["facebook"] = ProviderEntry{Enabled: false, Config: fb.config()}
	})

	resp := env.svcs.Providers.List(context.Background())
	require.Len(t, resp.Providers, 1)
	require.False(t, resp.Providers[0].Enabled)
}
