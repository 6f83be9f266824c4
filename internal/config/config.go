// Package config loads identityd configuration from an optional YAML file
// and the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudapi/identity/jwks"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	LogLevel string         `yaml:"log_level"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string        `yaml:"port"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

// AuthConfig describes where the key set comes from and the claim policy.
type AuthConfig struct {
	ServerURL      string        `yaml:"server_url"`
	Realm          string        `yaml:"realm"`
	JWKSURL        string        `yaml:"jwks_url"`
	Issuer         string        `yaml:"issuer"`
	Audience       []string      `yaml:"audience"`
	KeySelection   string        `yaml:"key_selection"`
	ClockSkew      time.Duration `yaml:"clock_skew"`
	DiscoverIssuer bool          `yaml:"discover_issuer"`
}

// DatabaseConfig holds the optional Postgres connection.
type DatabaseConfig struct {
	URL          string        `yaml:"url"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	PingTimeout  time.Duration `yaml:"ping_timeout"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:               "8083",
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			ShutdownTimeout:    30 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Auth: AuthConfig{
			ServerURL:    "http://localhost:8081",
			Realm:        "demo",
			KeySelection: "kid",
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			PingTimeout:  2 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads path (if not empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.CORSAllowedOrigins = splitList(origins)
	}

	c.Auth.ServerURL = getEnv("AUTH_SERVER_URL", c.Auth.ServerURL)
	c.Auth.Realm = getEnv("AUTH_REALM", c.Auth.Realm)
	c.Auth.JWKSURL = getEnv("JWKS_URL", c.Auth.JWKSURL)
	c.Auth.Issuer = getEnv("AUTH_ISSUER", c.Auth.Issuer)
	if audience := getEnv("AUTH_AUDIENCE", ""); audience != "" {
		c.Auth.Audience = splitList(audience)
	}
	c.Auth.KeySelection = getEnv("AUTH_KEY_SELECTION", c.Auth.KeySelection)

	skew, err := getEnvDuration("AUTH_CLOCK_SKEW", c.Auth.ClockSkew)
	if err != nil {
		return err
	}
	c.Auth.ClockSkew = skew

	discover, err := getEnvBool("AUTH_DISCOVER_ISSUER", c.Auth.DiscoverIssuer)
	if err != nil {
		return err
	}
	c.Auth.DiscoverIssuer = discover

	c.Database.URL = getEnv("POSTGRES_URL", c.Database.URL)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	if _, err := strconv.ParseUint(c.Server.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid server port %q", c.Server.Port)
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		return errors.New("at least one CORS origin is required")
	}

	if c.Auth.JWKSURL == "" && (c.Auth.ServerURL == "" || c.Auth.Realm == "") {
		return errors.New("either jwks_url or server_url and realm are required")
	}
	for name, raw := range map[string]string{"jwks_url": c.Auth.JWKSURL, "server_url": c.Auth.ServerURL} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}
	switch c.Auth.KeySelection {
	case "kid", "first":
	default:
		return fmt.Errorf("invalid key selection %q, expected kid or first", c.Auth.KeySelection)
	}
	if c.Auth.ClockSkew < 0 {
		return errors.New("clock skew cannot be negative")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	return nil
}

// JWKSURL returns the configured key set URL, or the Keycloak certs URL of
// the configured realm.
func (c *Config) JWKSURL() string {
	if c.Auth.JWKSURL != "" {
		return c.Auth.JWKSURL
	}
	return jwks.KeycloakCertsURL(c.Auth.ServerURL, c.Auth.Realm)
}

// IssuerURL returns the Keycloak issuer of the configured realm.
func (c *Config) IssuerURL() string {
	return jwks.KeycloakIssuerURL(c.Auth.ServerURL, c.Auth.Realm)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
