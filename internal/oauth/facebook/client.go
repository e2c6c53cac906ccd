// Package facebook implements the legacy Facebook Graph OAuth 2.0 endpoints.
// Two quirks set it apart from the other upstreams: the token endpoint
// answers with a query-string encoded body instead of JSON, and the Graph
// API authenticates with an access_token query parameter rather than an
// Authorization header.
package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAuthEndpoint    = "https://www.facebook.com/dialog/oauth"
	defaultTokenEndpoint   = "https://graph.facebook.com/oauth/access_token"
	defaultProfileEndpoint = "https://graph.facebook.com/me"
)

// Config parameterizes the client. Endpoint fields are for tests and stay
// empty in production.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	AuthEndpoint    string
	TokenEndpoint   string
	ProfileEndpoint string

	HTTPClient *http.Client
}

// Client is the raw Facebook Graph client. It reports upstream conditions as
// errors and leaves policy (messages, outcome shapes) to the caller.
type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string
	scopes       []string

	authEndpoint    string
	tokenEndpoint   string
	profileEndpoint string

	http *http.Client
}

// New builds a Client, filling in production endpoints and a default
// 10 second HTTP client where the config leaves gaps.
func New(cfg Config) *Client {
	c := &Client{
		clientID:        cfg.ClientID,
		clientSecret:    cfg.ClientSecret,
		redirectURL:     cfg.RedirectURL,
		scopes:          cfg.Scopes,
		authEndpoint:    cfg.AuthEndpoint,
		tokenEndpoint:   cfg.TokenEndpoint,
		profileEndpoint: cfg.ProfileEndpoint,
		http:            cfg.HTTPClient,
	}
	if c.authEndpoint == "" {
		c.authEndpoint = defaultAuthEndpoint
	}
	if c.tokenEndpoint == "" {
		c.tokenEndpoint = defaultTokenEndpoint
	}
	if c.profileEndpoint == "" {
		c.profileEndpoint = defaultProfileEndpoint
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
	}
	return c
}

// AuthURL builds the consent dialog URL. Facebook takes scopes
// comma-separated.
func (c *Client) AuthURL(state string) string {
	u, _ := url.Parse(c.authEndpoint)
	q := u.Query()
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", c.redirectURL)
	q.Set("response_type", "code")
	q.Set("state", state)
	if len(c.scopes) > 0 {
		q.Set("scope", strings.Join(c.scopes, ","))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// StatusError reports a non-200 upstream answer. Status keeps the full
// status line ("401 Unauthorized") for messages that quote it.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("facebook: unexpected response status %s", e.Status)
}

// TokenResponse is the parsed token endpoint body. Values stay raw strings:
// presence checking and expiry interpretation are the caller's call.
type TokenResponse struct {
	// AccessToken is the access_token parameter, "" when absent.
	AccessToken string
	// Expires is the expires_on parameter, falling back to expires_in.
	// "" when neither is present.
	Expires string
}

// ExchangeCode trades an authorization code for an access token. The legacy
// endpoint takes a GET and answers, on 200, with a query-string encoded body.
// Non-200 answers surface as *StatusError.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	u, err := url.Parse(c.tokenEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse token endpoint: %w", err)
	}
	q := u.Query()
	q.Set("client_id", c.clientID)
	q.Set("client_secret", c.clientSecret)
	q.Set("redirect_uri", c.redirectURL)
	q.Set("code", code)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}

	tr := &TokenResponse{
		AccessToken: values.Get("access_token"),
		Expires:     values.Get("expires_on"),
	}
	if tr.Expires == "" {
		tr.Expires = values.Get("expires_in")
	}
	return tr, nil
}

// Me is the Graph profile subset the flow consumes. Facebook encodes the
// numeric id as a JSON string and the timezone as a fractional UTC offset.
type Me struct {
	ID        int64   `json:"id,string"`
	Name      string  `json:"name"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Link      string  `json:"link"`
	UserName  string  `json:"username"`
	Locale    string  `json:"locale"`
	Timezone  float64 `json:"timezone"`
	Verified  bool    `json:"verified"`
}

// GetMe fetches the profile for accessToken. Non-200 answers surface as
// *StatusError.
func (c *Client) GetMe(ctx context.Context, accessToken string) (*Me, error) {
	u, err := url.Parse(c.profileEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse profile endpoint: %w", err)
	}
	q := u.Query()
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var me Me
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return nil, fmt.Errorf("decode me response: %w", err)
	}
	return &me, nil
}
