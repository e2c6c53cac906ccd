// Package config loads service configuration from YAML with environment
// overrides. Secrets may arrive encrypted (the *_enc variants) and are
// resolved through the secretbox master key at load time.
package config

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/socialgate/internal/security/secretbox"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
		// BaseURL is the externally visible origin, used to autogenerate
		// provider redirect URLs when they are not set explicitly.
		BaseURL string `yaml:"base_url"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Cache struct {
		Driver string `yaml:"driver"` // memory | redis
		Redis  struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	State struct {
		Secret    string `yaml:"secret"`
		SecretEnc string `yaml:"secret_enc"`
		Issuer    string `yaml:"issuer"`
		TTL       string `yaml:"ttl"`
	} `yaml:"state"`

	Social struct {
		// FinishURL receives the browser after a callback, with the login
		// code appended. A start request may override it per flow with
		// redirect_uri. Empty means callbacks answer with JSON.
		FinishURL    string `yaml:"finish_url"`
		LoginCodeTTL string `yaml:"login_code_ttl"`
		// DebugPeek allows result?peek=1 to read an outcome without
		// consuming the code. Off in production.
		DebugPeek bool `yaml:"debug_peek"`
		// SealKey encrypts parked outcomes at rest (base64 or hex, 32 bytes).
		SealKey    string `yaml:"seal_key"`
		SealKeyEnc string `yaml:"seal_key_enc"`
	} `yaml:"social"`

	Audit struct {
		Driver string `yaml:"driver"` // log | postgres | off
		DSN    string `yaml:"dsn"`
		DSNEnc string `yaml:"dsn_enc"`
	} `yaml:"audit"`

	Providers struct {
		Facebook struct {
			Enabled         bool     `yaml:"enabled"`
			ClientID        string   `yaml:"client_id"`
			ClientSecret    string   `yaml:"client_secret"`
			ClientSecretEnc string   `yaml:"client_secret_enc"`
			RedirectURL     string   `yaml:"redirect_url"` // empty => <server.base_url>/v1/auth/social/facebook/callback
			Scopes          []string `yaml:"scopes"`

			// AllowedRedirectURIs restricts the redirect_uri a start request
			// may ask for. Empty accepts any.
			AllowedRedirectURIs []string `yaml:"allowed_redirect_uris"`

			// Endpoint overrides, mainly for Graph API version pinning.
			// Empty selects the provider defaults.
			AuthorizeEndpoint string `yaml:"authorize_endpoint"`
			TokenEndpoint     string `yaml:"token_endpoint"`
			ProfileEndpoint   string `yaml:"profile_endpoint"`
		} `yaml:"facebook"`
	} `yaml:"providers"`
}

// Load reads path (optional), applies defaults, environment overrides and
// secret resolution, then validates. An empty path starts from defaults
// plus environment only.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "2m"
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
	if c.State.Issuer == "" {
		c.State.Issuer = "socialgate"
	}
	if c.State.TTL == "" {
		c.State.TTL = "10m"
	}
	if c.Social.LoginCodeTTL == "" {
		c.Social.LoginCodeTTL = "60s"
	}
	if c.Audit.Driver == "" {
		c.Audit.Driver = "log"
	}
	if len(c.Providers.Facebook.Scopes) == 0 {
		c.Providers.Facebook.Scopes = []string{"email"}
	}

	c.applyEnvOverrides()

	if err := c.resolveSecrets(); err != nil {
		return nil, err
	}

	// Autogenerate the Facebook redirect URL from the base URL.
	if c.Providers.Facebook.Enabled &&
		strings.TrimSpace(c.Providers.Facebook.RedirectURL) == "" &&
		strings.TrimSpace(c.Server.BaseURL) != "" {
		c.Providers.Facebook.RedirectURL = strings.TrimRight(c.Server.BaseURL, "/") + "/v1/auth/social/facebook/callback"
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// applyEnvOverrides lets the environment win over config.yaml.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("SERVER_BASE_URL"); ok {
		c.Server.BaseURL = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	if v, ok := getEnvStr("CACHE_DRIVER"); ok {
		c.Cache.Driver = v
	}
	if v, ok := getEnvStr("REDIS_HOST"); ok {
		c.Cache.Redis.Host = v
	}
	if v, ok := getEnvInt("REDIS_PORT"); ok {
		c.Cache.Redis.Port = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
	if v, ok := getEnvStr("CACHE_MEMORY_DEFAULT_TTL"); ok {
		c.Cache.Memory.DefaultTTL = v
	}

	if v, ok := getEnvStr("STATE_SECRET"); ok {
		c.State.Secret = v
	}
	if v, ok := getEnvStr("STATE_ISSUER"); ok {
		c.State.Issuer = v
	}
	if v, ok := getEnvStr("STATE_TTL"); ok {
		c.State.TTL = v
	}

	if v, ok := getEnvStr("SOCIAL_FINISH_URL"); ok {
		c.Social.FinishURL = v
	}
	if v, ok := getEnvStr("SOCIAL_LOGIN_CODE_TTL"); ok {
		c.Social.LoginCodeTTL = v
	}
	if v, ok := getEnvBool("SOCIAL_DEBUG_PEEK"); ok {
		c.Social.DebugPeek = v
	}
	if v, ok := getEnvStr("SOCIAL_SEAL_KEY"); ok {
		c.Social.SealKey = v
	}

	if v, ok := getEnvStr("AUDIT_DRIVER"); ok {
		c.Audit.Driver = v
	}
	if v, ok := getEnvStr("AUDIT_DSN"); ok {
		c.Audit.DSN = v
	}

	if v, ok := getEnvBool("FACEBOOK_ENABLED"); ok {
		c.Providers.Facebook.Enabled = v
	}
	if v, ok := getEnvStr("FACEBOOK_CLIENT_ID"); ok {
		c.Providers.Facebook.ClientID = v
	}
	if v, ok := getEnvStr("FACEBOOK_CLIENT_SECRET"); ok {
		c.Providers.Facebook.ClientSecret = v
	}
	if v, ok := getEnvStr("FACEBOOK_REDIRECT_URL"); ok {
		c.Providers.Facebook.RedirectURL = v
	}
	if v, ok := getEnvCSV("FACEBOOK_SCOPES"); ok {
		c.Providers.Facebook.Scopes = v
	}
	if v, ok := getEnvCSV("FACEBOOK_ALLOWED_REDIRECT_URIS"); ok {
		c.Providers.Facebook.AllowedRedirectURIs = v
	}
}

// resolveSecrets replaces *_enc values with their decrypted forms. Encrypted
// values require the secretbox master key to be present.
func (c *Config) resolveSecrets() error {
	resolve := func(enc string, dst *string, name string) error {
		if strings.TrimSpace(enc) == "" {
			return nil
		}
		plain, err := secretbox.Decrypt(enc)
		if err != nil {
			return fmt.Errorf("config: decrypt %s: %w", name, err)
		}
		*dst = plain
		return nil
	}

	if err := resolve(c.State.SecretEnc, &c.State.Secret, "state.secret_enc"); err != nil {
		return err
	}
	if err := resolve(c.Social.SealKeyEnc, &c.Social.SealKey, "social.seal_key_enc"); err != nil {
		return err
	}
	if err := resolve(c.Audit.DSNEnc, &c.Audit.DSN, "audit.dsn_enc"); err != nil {
		return err
	}
	if err := resolve(c.Providers.Facebook.ClientSecretEnc, &c.Providers.Facebook.ClientSecret, "providers.facebook.client_secret_enc"); err != nil {
		return err
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if len(c.State.Secret) < 32 {
		return fmt.Errorf("config: state.secret must be at least 32 bytes")
	}
	switch c.Cache.Driver {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown cache.driver %q", c.Cache.Driver)
	}
	switch c.Audit.Driver {
	case "log", "off":
	case "postgres":
		if strings.TrimSpace(c.Audit.DSN) == "" {
			return fmt.Errorf("config: audit.driver postgres requires audit.dsn")
		}
	default:
		return fmt.Errorf("config: unknown audit.driver %q", c.Audit.Driver)
	}
	if _, err := time.ParseDuration(c.State.TTL); err != nil {
		return fmt.Errorf("config: state.ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Social.LoginCodeTTL); err != nil {
		return fmt.Errorf("config: social.login_code_ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.Cache.Memory.DefaultTTL); err != nil {
		return fmt.Errorf("config: cache.memory.default_ttl: %w", err)
	}
	if _, err := c.DecodeSealKey(); err != nil {
		return err
	}
	for _, raw := range c.Providers.Facebook.AllowedRedirectURIs {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: providers.facebook.allowed_redirect_uris: %q is not an absolute URL", raw)
		}
	}
	return nil
}

// StateTTL returns the parsed state token lifetime.
func (c *Config) StateTTL() time.Duration { return mustDuration(c.State.TTL, 10*time.Minute) }

// LoginCodeTTL returns the parsed login code lifetime.
func (c *Config) LoginCodeTTL() time.Duration { return mustDuration(c.Social.LoginCodeTTL, time.Minute) }

// MemoryTTL returns the parsed memory cache default TTL.
func (c *Config) MemoryTTL() time.Duration { return mustDuration(c.Cache.Memory.DefaultTTL, 2*time.Minute) }

// DecodeSealKey decodes the configured seal key. Empty config yields nil
// with no error, which disables sealing.
func (c *Config) DecodeSealKey() ([]byte, error) {
	k := strings.TrimSpace(c.Social.SealKey)
	if k == "" {
		return nil, nil
	}
	if b, err := base64.StdEncoding.DecodeString(k); err == nil && len(b) == 32 {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(k); err == nil && len(b) == 32 {
		return b, nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(k); err == nil && len(b) == 32 {
		return b, nil
	}
	if b, err := hex.DecodeString(k); err == nil && len(b) == 32 {
		return b, nil
	}
	if len(k) == 32 {
		return []byte(k), nil
	}
	return nil, fmt.Errorf("config: social.seal_key must decode to 32 bytes")
}

func mustDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// ---- Env helpers ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		var out []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}
