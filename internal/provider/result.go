package provider

import "time"

// AccessToken is the credential returned by the provider's token endpoint.
type AccessToken struct {
	Token     string
	ExpiresOn time.Time
}

// UserInformation is the profile subset every provider normalizes to.
type UserInformation struct {
	ID        int64
	Name      string
	FirstName string
	LastName  string
	UserName  string
	Locale    string
	Link      string
	Timezone  float64
	Verified  bool
}

// ErrorInformation describes a failed authentication step. Message is always
// set and human-readable. Err carries the underlying cause when one exists
// (transport fault, status error); it is nil for failures the provider
// reported as data, like a user denying consent.
type ErrorInformation struct {
	Message string
	Err     error
}

// AuthenticatedClient is the outcome of one callback. Exactly one of the two
// shapes holds:
//   - success: Token and User are set, Error is nil
//   - failure: Error is set, Token and User are nil
//
// Results are built by NewSuccess/NewFailure and must be treated as
// read-only. Constructors copy their inputs so callers cannot reach back
// into provider internals.
type AuthenticatedClient struct {
	Provider string
	Token    *AccessToken
	User     *UserInformation
	Error    *ErrorInformation
}

// NewSuccess builds a successful outcome.
func NewSuccess(providerName string, token AccessToken, user UserInformation) *AuthenticatedClient {
	return &AuthenticatedClient{
		Provider: providerName,
		Token:    &token,
		User:     &user,
	}
}

// NewFailure builds a failed outcome. cause may be nil when the failure was
// reported as data rather than raised by transport.
func NewFailure(providerName, message string, cause error) *AuthenticatedClient {
	return &AuthenticatedClient{
		Provider: providerName,
		Error:    &ErrorInformation{Message: message, Err: cause},
	}
}

// Succeeded reports whether the flow produced a token and profile.
func (c *AuthenticatedClient) Succeeded() bool {
	return c != nil && c.Error == nil && c.Token != nil && c.User != nil
}

// Failed reports whether the flow ended with an error outcome.
func (c *AuthenticatedClient) Failed() bool {
	return c != nil && c.Error != nil
}

// ErrorMessage returns the failure message, or "" for successes and nil
// results.
func (c *AuthenticatedClient) ErrorMessage() string {
	if c == nil || c.Error == nil {
		return ""
	}
	return c.Error.Message
}
