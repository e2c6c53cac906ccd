// Package facebook implements the Facebook OAuth2 provider.
//
// The flow is a fixed sequence of checks around two upstream calls (token
// exchange, then profile fetch). Every failure short-circuits into an error
// result; nothing past this package ever sees a raised error from the flow.
package facebook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	fbgraph "github.com/dropDatabas3/socialgate/internal/oauth/facebook"
	"github.com/dropDatabas3/socialgate/internal/provider"
)

const ProviderName = "facebook"

// Result messages are a public contract: downstreams and their tests match
// on them verbatim, so they must not be reworded.
const (
	msgProviderError   = "Reason: %s. Error: %s. Description: %s."
	msgStateMismatch   = "The states do not match. It's possible that you may be a victim of a CSRF."
	msgTokenTransport  = "Failed to retrieve an oauth access token from Facebook."
	msgTokenStatus     = "Failed to obtain an Access Token from Facebook OR the the response was not an HTTP Status 200 OK. Response Status: %s. Response Description: %s"
	msgTokenIncomplete = "Retrieved a Facebook Access Token but it doesn't contain both the access_token and expires_on parameters."
	msgMeTransport     = "Failed to retrieve any Me data from the Facebook Api."
	msgMeStatus        = "Failed to obtain some Me data from the Facebook api OR the the response was not an HTTP Status 200 OK. Response Status: %s. Response Description: %s"
)

// errTokenIncomplete is the fault attached when the token endpoint answered
// 200 but the body lacks a usable access_token/expiry pair.
var errTokenIncomplete = errors.New("facebook: token response missing access_token or expiry parameter")

// Provider implements Facebook OAuth2 authentication.
type Provider struct {
	clientID     string
	clientSecret string
	redirectURL  string

	client *fbgraph.Client
}

// Factory builds the Facebook provider from generic provider config.
func Factory(cfg provider.Config) (provider.Provider, error) {
	return &Provider{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  cfg.RedirectURL,
		client: fbgraph.New(fbgraph.Config{
			ClientID:        cfg.ClientID,
			ClientSecret:    cfg.ClientSecret,
			RedirectURL:     cfg.RedirectURL,
			Scopes:          cfg.Scopes,
			AuthEndpoint:    cfg.AuthorizeEndpoint,
			TokenEndpoint:   cfg.TokenEndpoint,
			ProfileEndpoint: cfg.ProfileEndpoint,
			HTTPClient:      cfg.HTTPClient,
		}),
	}, nil
}

func (p *Provider) Name() string { return ProviderName }

// Validate reports the configuration gaps that would make a flow fail.
func (p *Provider) Validate() error {
	var missing []string
	if p.clientID == "" {
		missing = append(missing, "client id")
	}
	if p.clientSecret == "" {
		missing = append(missing, "client secret")
	}
	if p.redirectURL == "" {
		missing = append(missing, "redirect url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("facebook: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// AuthorizeURL builds the consent dialog URL carrying state.
func (p *Provider) AuthorizeURL(state string) string {
	return p.client.AuthURL(state)
}

// AuthenticateClient runs the callback flow. Checks run in a fixed order and
// each failure exits immediately:
//
//  1. params carrying neither a code nor provider error fields are not for
//     this provider: return nil, no result at all.
//  2. provider-reported errors (user denied, app misconfigured) become an
//     error result without any network call.
//  3. a present state parameter must equal expectedState exactly.
//  4. exchange the code for an access token; transport faults, non-200
//     answers and incomplete token bodies each map to their own message.
//  5. fetch the Me profile with the token; same fault classes as step 4.
//  6. assemble the success result.
func (p *Provider) AuthenticateClient(ctx context.Context, params provider.Params, expectedState string) *provider.AuthenticatedClient {
	if !relevant(params) {
		return nil
	}

	if params.Has("error") || params.Has("error_reason") || params.Has("error_description") {
		msg := fmt.Sprintf(msgProviderError,
			params.Get("error_reason"), params.Get("error"), params.Get("error_description"))
		return provider.NewFailure(ProviderName, msg, nil)
	}

	if params.Has("state") && params.Get("state") != expectedState {
		return provider.NewFailure(ProviderName, msgStateMismatch, nil)
	}

	tok, err := p.client.ExchangeCode(ctx, params.Get("code"))
	if err != nil {
		var se *fbgraph.StatusError
		if errors.As(err, &se) {
			msg := fmt.Sprintf(msgTokenStatus, statusName(se), statusDescription(se))
			return provider.NewFailure(ProviderName, msg, se)
		}
		return provider.NewFailure(ProviderName, msgTokenTransport, err)
	}
	if tok.AccessToken == "" || tok.Expires == "" {
		return provider.NewFailure(ProviderName, msgTokenIncomplete, errTokenIncomplete)
	}
	expiresIn, err := strconv.ParseInt(tok.Expires, 10, 64)
	if err != nil {
		// Present but unusable expiry counts as an incomplete token body.
		return provider.NewFailure(ProviderName, msgTokenIncomplete, err)
	}

	me, err := p.client.GetMe(ctx, tok.AccessToken)
	if err != nil {
		var se *fbgraph.StatusError
		if errors.As(err, &se) {
			msg := fmt.Sprintf(msgMeStatus, statusName(se), statusDescription(se))
			return provider.NewFailure(ProviderName, msg, se)
		}
		return provider.NewFailure(ProviderName, msgMeTransport, err)
	}

	token := provider.AccessToken{
		Token:     tok.AccessToken,
		ExpiresOn: time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
	user := provider.UserInformation{
		ID:        me.ID,
		Name:      me.Name,
		FirstName: me.FirstName,
		LastName:  me.LastName,
		UserName:  me.UserName,
		Locale:    me.Locale,
		Link:      me.Link,
		Timezone:  me.Timezone,
		Verified:  me.Verified,
	}
	return provider.NewSuccess(ProviderName, token, user)
}

// relevant reports whether the callback carries anything addressed to this
// provider: an authorization code or any provider error field.
func relevant(params provider.Params) bool {
	return params.Has("code") ||
		params.Has("error") ||
		params.Has("error_reason") ||
		params.Has("error_description")
}

// statusName renders a status code as its reason phrase ("Unauthorized"),
// falling back to the bare number for codes Go has no text for.
func statusName(se *fbgraph.StatusError) string {
	if text := http.StatusText(se.StatusCode); text != "" {
		return text
	}
	return strconv.Itoa(se.StatusCode)
}

// statusDescription is the upstream status line with the numeric prefix
// stripped: "401 Unauthorized" becomes "Unauthorized".
func statusDescription(se *fbgraph.StatusError) string {
	prefix := strconv.Itoa(se.StatusCode) + " "
	if strings.HasPrefix(se.Status, prefix) {
		return strings.TrimPrefix(se.Status, prefix)
	}
	if se.Status != "" {
		return se.Status
	}
	return statusName(se)
}
