package social

// ProviderInfo describes one configured provider.
type ProviderInfo struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// ProvidersResponse lists the providers the service knows about.
type ProvidersResponse struct {
	Providers []ProviderInfo `json:"providers"`
}

// StartResponse is returned when a start request asks for JSON instead
// of a redirect.
type StartResponse struct {
	Provider     string `json:"provider"`
	AuthorizeURL string `json:"authorize_url"`
}

// CallbackResponse is the JSON body for callbacks that cannot redirect.
type CallbackResponse struct {
	Provider    string `json:"provider"`
	Code        string `json:"code"`
	RedirectURL string `json:"redirect_url,omitempty"`
}
