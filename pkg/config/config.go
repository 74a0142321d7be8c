// Package config loads the server configuration from an optional YAML file
// and the process environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/oncemcp/pkg/logging"
	"github.com/germanamz/oncemcp/pkg/management"
	"github.com/germanamz/oncemcp/pkg/management/auth"
)

// Environment variables read on top of the file.
const (
	EnvClientID     = "ONCE_CLIENT_ID"
	EnvClientSecret = "ONCE_CLIENT_SECRET"
	EnvAPIURL       = "ONCE_API_URL"
)

// Defaults.
const (
	DefaultServerName  = "1NCE IoT Platform MCP"
	DefaultHTTPTimeout = 30 * time.Second
)

// Config is the top-level configuration.
type Config struct {
	BaseURL     string        `yaml:"base_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	Auth        AuthConfig    `yaml:"auth"`
	Server      ServerConfig  `yaml:"server"`
	Log         LogConfig     `yaml:"log"`
}

// AuthConfig holds the client-credentials settings.
type AuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"` //nolint:gosec // configuration field, not a hardcoded secret
	// CacheTokens reuses an access token until it is about to expire. Off by
	// default: every call performs a fresh exchange.
	CacheTokens   bool          `yaml:"cache_tokens"`
	RenewalBuffer time.Duration `yaml:"renewal_buffer"`
}

// ServerConfig controls the MCP surface.
type ServerConfig struct {
	Name     string `yaml:"name"`
	HTTPAddr string `yaml:"http_addr"` // Empty serves stdio.
	// Tools restricts the exposed tools by name. Empty exposes all of them.
	Tools []string `yaml:"tools"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console.
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		BaseURL:     management.DefaultBaseURL,
		HTTPTimeout: DefaultHTTPTimeout,
		Auth: AuthConfig{
			RenewalBuffer: auth.DefaultRenewalBuffer,
		},
		Server: ServerConfig{
			Name: DefaultServerName,
		},
		Log: LogConfig{
			Level:  logging.DefaultLevel,
			Format: logging.FormatJSON,
		},
	}
}

// LoadConfig reads the YAML file at path over Default and then applies the
// environment. ${VAR} and $VAR references in the file are expanded before
// parsing. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
		if err != nil {
			return Config{}, fmt.Errorf("config: load: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse: %w", err)
		}
	}

	cfg.ApplyEnv()

	return cfg, nil
}

// ApplyEnv overrides credentials and the base URL with any non-empty
// ONCE_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvClientID); v != "" {
		c.Auth.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		c.Auth.ClientSecret = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.BaseURL = v
	}
}

// Credentials returns the configured client credentials.
func (c Config) Credentials() auth.Credentials {
	return auth.Credentials{ClientID: c.Auth.ClientID, ClientSecret: c.Auth.ClientSecret}
}

// Validate checks that the configuration can start a server.
func (c Config) Validate() error {
	if err := c.Credentials().Validate(); err != nil {
		return fmt.Errorf("config: %s and %s must be set: %w", EnvClientID, EnvClientSecret, err)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: base_url %q must be an absolute http(s) URL", c.BaseURL)
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("config: http_timeout must be positive")
	}

	if c.Auth.RenewalBuffer < 0 {
		return fmt.Errorf("config: auth: renewal_buffer must not be negative")
	}

	if c.Server.Name == "" {
		return fmt.Errorf("config: server: name is required")
	}

	seen := make(map[string]struct{}, len(c.Server.Tools))
	for _, name := range c.Server.Tools {
		if name == "" {
			return fmt.Errorf("config: server: empty tool name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("config: server: duplicate tool %q", name)
		}
		seen[name] = struct{}{}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := logging.ValidateFormat(c.Log.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}
