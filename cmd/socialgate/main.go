// Command socialgate is a small CLI against the service's HTTP API, for
// poking flows from a terminal: list providers, mint an authorize URL,
// claim a login code, check readiness. The authenticate subcommand runs
// the Facebook flow locally without a relay in between.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	dto "github.com/dropDatabas3/socialgate/internal/http/dto/social"
	"github.com/dropDatabas3/socialgate/internal/provider"
	fbprovider "github.com/dropDatabas3/socialgate/internal/provider/facebook"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) get(path string) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	resp, err := c.HTTP.Get(u)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		baseURL = envOr("SOCIALGATE_URL", "http://localhost:8080")
		out     = envOr("SOCIALGATE_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "socialgate",
		Short: "CLI for the socialgate social login service",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "service base URL (env SOCIALGATE_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "output format: json|text")

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cl.BaseURL = baseURL
		cl.OutFormat = out
	}

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "List configured providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.get("/v1/auth/social/providers")
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("providers failed: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	startCmd := &cobra.Command{
		Use:   "start <provider>",
		Short: "Mint an authorize URL for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.get("/v1/auth/social/" + url.PathEscape(args[0]) + "/start?json=1")
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("start failed: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				var r struct {
					AuthorizeURL string `json:"authorize_url"`
				}
				if json.Unmarshal(body, &r) == nil && r.AuthorizeURL != "" {
					fmt.Println(r.AuthorizeURL)
					return nil
				}
			}
			cl.print(status, body)
			return nil
		},
	}

	var peek bool
	resultCmd := &cobra.Command{
		Use:   "result <code>",
		Short: "Claim the outcome parked under a login code",
		Long:  "Claim the outcome parked under a login code. Claiming consumes the code; --peek reads without consuming.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/auth/social/result?code=" + url.QueryEscape(args[0])
			if peek {
				path += "&peek=1"
			}
			status, body, err := cl.get(path)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("result failed: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	resultCmd.Flags().BoolVar(&peek, "peek", false, "read the outcome without consuming the code")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.get("/readyz")
			if err != nil {
				return err
			}
			if cl.OutFormat == "text" && status == http.StatusOK {
				fmt.Println("ready")
				return nil
			}
			cl.print(status, body)
			if status != http.StatusOK {
				return fmt.Errorf("not ready: status=%d", status)
			}
			return nil
		},
	}

	var (
		expectedState string
		clientID      string
		clientSecret  string
		redirectURL   string
		scopes        string
	)
	authenticateCmd := &cobra.Command{
		Use:   "authenticate <callback-query>",
		Short: "Run the Facebook authentication flow locally",
		Long: "Run the Facebook authentication flow directly against the Graph API, without a " +
			"running relay. The argument is the provider callback query string, for example " +
			"'code=AQDx...&state=xyz'. The outcome prints as JSON; a failed authentication is " +
			"still an outcome, not a command error.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := url.ParseQuery(args[0])
			if err != nil {
				return fmt.Errorf("parse callback query: %w", err)
			}
			params := provider.FromValues(values)

			expected := expectedState
			if expected == "" {
				expected = params.Get("state")
			}

			p, err := fbprovider.Factory(provider.Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				RedirectURL:  redirectURL,
				Scopes:       splitCSV(scopes),
			})
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}

			auth := p.AuthenticateClient(cmd.Context(), params, expected)
			if auth == nil {
				return fmt.Errorf("nothing to authenticate: the query carries neither a code nor a provider error")
			}

			out, err := json.MarshalIndent(dto.FromAuthenticatedClient(auth, time.Now()), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	authenticateCmd.Flags().StringVar(&expectedState, "expected-state", "", "state value the callback must carry (defaults to the query's state)")
	authenticateCmd.Flags().StringVar(&clientID, "client-id", envOr("FACEBOOK_CLIENT_ID", ""), "Facebook app id (env FACEBOOK_CLIENT_ID)")
	authenticateCmd.Flags().StringVar(&clientSecret, "client-secret", envOr("FACEBOOK_CLIENT_SECRET", ""), "Facebook app secret (env FACEBOOK_CLIENT_SECRET)")
	authenticateCmd.Flags().StringVar(&redirectURL, "redirect-url", envOr("FACEBOOK_REDIRECT_URL", ""), "redirect URL registered with the app (env FACEBOOK_REDIRECT_URL)")
	authenticateCmd.Flags().StringVar(&scopes, "scopes", envOr("FACEBOOK_SCOPES", "email"), "comma-separated scopes")

	root.AddCommand(providersCmd, startCmd, resultCmd, healthCmd, authenticateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
