package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults.
const (
	DefaultBaseURL  = "http://localhost:8080"
	DefaultPageSize = 12
	DefaultTimeout  = 15 * time.Second
	DefaultScope    = "page"
	DefaultOutput   = "text"
	DefaultLogLevel = "warn"

	envPrefix = "MAGASIN"
)

// Config is the client configuration.
type Config struct {
	BaseURL  string
	PageSize int
	Timeout  time.Duration
	Retries  int
	Scope    string
	Output   string
	LogLevel string
	LogFile  string
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("base-url", DefaultBaseURL, "inventory server base URL")
	fs.Int("page-size", DefaultPageSize, "tools per page")
	fs.Duration("timeout", DefaultTimeout, "per-request timeout")
	fs.Int("retries", 0, "retry count for failed requests")
	fs.String("scope", DefaultScope, "filter scope: page (loaded page only) or all (whole collection)")
	fs.StringP("output", "o", DefaultOutput, "output format: text, json or yaml")
	fs.String("log-level", DefaultLogLevel, "log level: debug, info, warn or error")
	fs.String("log-file", "", "also append logs to this file")
}

// Load reads an optional env file, then resolves every setting from flags,
// MAGASIN_* environment variables and defaults, in that order of precedence.
func Load(envFile string, flags *pflag.FlagSet) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	} else {
		// A missing .env is fine; configuration may come from the environment.
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base-url", DefaultBaseURL)
	v.SetDefault("page-size", DefaultPageSize)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("retries", 0)
	v.SetDefault("scope", DefaultScope)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("log-level", DefaultLogLevel)
	v.SetDefault("log-file", "")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	cfg := &Config{
		BaseURL:  strings.TrimSuffix(v.GetString("base-url"), "/"),
		PageSize: v.GetInt("page-size"),
		Timeout:  v.GetDuration("timeout"),
		Retries:  v.GetInt("retries"),
		Scope:    strings.ToLower(v.GetString("scope")),
		Output:   strings.ToLower(v.GetString("output")),
		LogLevel: v.GetString("log-level"),
		LogFile:  v.GetString("log-file"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures every setting holds a usable value.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http(s) URL", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url scheme %q not supported", u.Scheme)
	}

	switch {
	case c.PageSize <= 0:
		return errors.New("page size must be positive")
	case c.Timeout < 0:
		return errors.New("timeout must not be negative")
	case c.Retries < 0:
		return errors.New("retries must not be negative")
	}

	if c.Scope != "page" && c.Scope != "all" {
		return fmt.Errorf("scope %q must be page or all", c.Scope)
	}

	switch c.Output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("output %q must be text, json or yaml", c.Output)
	}

	return nil
}
