package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultHTTPTimeoutSeconds     = 15
	defaultTokenCacheTTLSeconds   = 300
	defaultRateLimitAllowedPerMin = 120
	defaultSignInAllowedPerMin    = 10
)

type Config struct {
	Environment string `toml:"environment"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	HTTPTimeoutSeconds int `toml:"http_timeout_seconds"`

	App      AppConfig      `toml:"app"`
	Service  ServiceConfig  `toml:"service"`
	Identity IdentityConfig `toml:"identity"`
	Redis    RedisConfig    `toml:"redis"`
}

// AppConfig is the local web client.
type AppConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	MetricsHost         string `toml:"metrics_host"`
	MetricsPort         string `toml:"metrics_port"`
	EntriesServiceURL   string `toml:"entries_service_url"`
	CSRFSecure          bool   `toml:"csrf_secure"`
	SessionProfile      string `toml:"session_profile"`
	SignInAllowedPerMin int    `toml:"sign_in_allowed_per_min"`

	// DateLocation is the IANA zone used to stamp entry dates, empty means local time
	DateLocation string `toml:"date_location"`
}

// ServiceConfig is the entries REST service.
type ServiceConfig struct {
	Host                   string   `toml:"host"`
	Port                   int      `toml:"port"`
	MetricsHost            string   `toml:"metrics_host"`
	MetricsPort            string   `toml:"metrics_port"`
	PostgresHost           string   `toml:"postgres_host"`
	PostgresPort           string   `toml:"postgres_port"`
	PostgresDBName         string   `toml:"postgres_db_name"`
	PostgresUser           string   `toml:"postgres_user"`
	RateLimitAllowedPerMin int      `toml:"rate_limit_allowed_per_min"`
	TokenCacheTTLSeconds   int      `toml:"token_cache_ttl_seconds"`
	AllowedOrigins         []string `toml:"allowed_origins"`
}

type IdentityConfig struct {
	// Endpoint overrides the regional cognito endpoint, used for local fakes
	Endpoint string `toml:"endpoint"`
	Region   string `toml:"region"`
	ClientID string `toml:"client_id"`
}

// RedisConfig is optional; an empty host means no redis.
type RedisConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func (c *IdentityConfig) EndpointURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/", c.Region)
}

func (s *ServiceConfig) TokenCacheTTL() time.Duration {
	return time.Duration(s.TokenCacheTTLSeconds) * time.Second
}

// DateLoc resolves AppConfig.DateLocation.
func (a *AppConfig) DateLoc() (*time.Location, error) {
	if a.DateLocation == "" {
		return time.Local, nil
	}
	return time.LoadLocation(a.DateLocation)
}

type Toml struct {
	Development *Config
	Production  *Config
	DockerDev   *Config `toml:"dockerdev"`
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	case "ddev", "dockerdev":
		cfg = t.DockerDev
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = defaultHTTPTimeoutSeconds
	}
	if c.Service.TokenCacheTTLSeconds <= 0 {
		c.Service.TokenCacheTTLSeconds = defaultTokenCacheTTLSeconds
	}
	if c.Service.RateLimitAllowedPerMin <= 0 {
		c.Service.RateLimitAllowedPerMin = defaultRateLimitAllowedPerMin
	}
	if c.App.SignInAllowedPerMin <= 0 {
		c.App.SignInAllowedPerMin = defaultSignInAllowedPerMin
	}
	if c.App.SessionProfile == "" {
		c.App.SessionProfile = "default"
	}
	if c.Service.PostgresUser == "" {
		c.Service.PostgresUser = "postgres"
	}
	if c.Redis.Host != "" && c.Redis.Port == "" {
		c.Redis.Port = "6379"
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Identity.ClientID == "" {
		errs = append(errs, errors.New("identity client_id missing"))
	}
	if c.Identity.Endpoint == "" && c.Identity.Region == "" {
		errs = append(errs, errors.New("identity endpoint or region required"))
	}
	if c.App.EntriesServiceURL == "" {
		errs = append(errs, errors.New("app entries_service_url missing"))
	}
	if _, err := c.App.DateLoc(); err != nil {
		errs = append(errs, fmt.Errorf("app date_location: %w", err))
	}
	return errors.Join(errs...)
}
