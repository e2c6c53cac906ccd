package social

import (
	"time"

	"github.com/dropDatabas3/socialgate/internal/provider"
)

// TokenDTO is the wire form of a provider access token.
type TokenDTO struct {
	AccessToken string    `json:"access_token"`
	ExpiresOn   time.Time `json:"expires_on"`
}

// UserDTO is the wire form of the profile returned by a provider.
type UserDTO struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name,omitempty"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	UserName  string  `json:"username,omitempty"`
	Locale    string  `json:"locale,omitempty"`
	Link      string  `json:"link,omitempty"`
	Timezone  float64 `json:"timezone,omitempty"`
	Verified  bool    `json:"verified,omitempty"`
}

// ErrorDTO carries a failed authentication outcome. Message is the
// human-readable description; Cause, when present, is the underlying
// fault rendered as text.
type ErrorDTO struct {
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ResultPayload is the document stored under a login code and returned
// by the result endpoint. Exactly one of Token/User (together) or Error
// is populated, mirroring the authentication outcome.
type ResultPayload struct {
	Provider string    `json:"provider"`
	OK       bool      `json:"ok"`
	Token    *TokenDTO `json:"token,omitempty"`
	User     *UserDTO  `json:"user,omitempty"`
	Error    *ErrorDTO `json:"error,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
}

// FromAuthenticatedClient maps an authentication outcome to its stored
// payload form.
func FromAuthenticatedClient(c *provider.AuthenticatedClient, issuedAt time.Time) ResultPayload {
	p := ResultPayload{
		Provider: c.Provider,
		OK:       c.Succeeded(),
		IssuedAt: issuedAt,
	}
	if c.Succeeded() {
		p.Token = &TokenDTO{
			AccessToken: c.Token.Token,
			ExpiresOn:   c.Token.ExpiresOn,
		}
		p.User = &UserDTO{
			ID:        c.User.ID,
			Name:      c.User.Name,
			FirstName: c.User.FirstName,
			LastName:  c.User.LastName,
			UserName:  c.User.UserName,
			Locale:    c.User.Locale,
			Link:      c.User.Link,
			Timezone:  c.User.Timezone,
			Verified:  c.User.Verified,
		}
		return p
	}
	e := &ErrorDTO{Message: c.Error.Message}
	if c.Error.Err != nil {
		e.Cause = c.Error.Err.Error()
	}
	p.Error = e
	return p
}

// ResultRequest asks for the payload stored under a login code.
// Peek returns the payload without consuming the code.
type ResultRequest struct {
	Code string
	Peek bool
}

// ResultResponse is the result endpoint response body.
type ResultResponse struct {
	Code    string        `json:"code"`
	Payload ResultPayload `json:"payload"`
	Peek    bool          `json:"peek,omitempty"`
}
