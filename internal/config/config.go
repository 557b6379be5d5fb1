package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIBaseURL is the hosted EventGo backend.
const DefaultAPIBaseURL = "https://data-jaon-eventgo.onrender.com"

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// RateLimitConfig bounds form submissions per client address.
type RateLimitConfig struct {
	// RPS is the sustained number of POST requests per second per client.
	// Zero disables limiting.
	RPS   float64 `yaml:"rps" json:"rps"`
	Burst int     `yaml:"burst" json:"burst"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI.
	Listen string `yaml:"listen" json:"listen"`

	// PublicURL is the address the headless browser uses to reach this
	// server when rendering PDFs. Derived from Listen when empty.
	PublicURL string `yaml:"public_url" json:"public_url"`

	// APIBaseURL is the root of the EventGo REST backend.
	APIBaseURL string `yaml:"api_base_url" json:"api_base_url"`

	// APIToken, if set, is sent as "Authorization: Bearer <token>" on every
	// backend call.
	APIToken string `yaml:"api_token" json:"-"`

	// RequestTimeoutSeconds bounds a single backend call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" json:"request_timeout_seconds"`

	// Locale is the default UI language ("es" or "en"). Browsers asking for
	// another supported language via Accept-Language get that one instead.
	Locale string `yaml:"locale" json:"locale"`

	// Timezone is the IANA timezone used on the dashboard (e.g. "America/Lima").
	Timezone string `yaml:"timezone" json:"timezone"`

	// HorizonDays is the number of future days shown on the dashboard.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// ProbeCron is a cron-style schedule for the backend reachability probe.
	ProbeCron string `yaml:"probe" json:"probe"`

	// ProbePath is the backend path requested by the probe.
	ProbePath string `yaml:"probe_path" json:"probe_path"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	FormRateLimit RateLimitConfig `yaml:"form_rate_limit" json:"form_rate_limit"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:                "127.0.0.1:8080",
		APIBaseURL:            DefaultAPIBaseURL,
		RequestTimeoutSeconds: 15,
		Locale:                "es",
		Timezone:              "America/Lima",
		HorizonDays:           7,
		ProbeCron:             "*/5 * * * *",
		ProbePath:             "/events",
		LogLevel:              "info",
		FormRateLimit:         RateLimitConfig{RPS: 5, Burst: 10},
		BasicAuth:             nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Listen == "" {
		c.Listen = def.Listen
	}
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = def.APIBaseURL
	}
	c.PublicURL = strings.TrimRight(strings.TrimSpace(c.PublicURL), "/")
	if c.PublicURL == "" {
		c.PublicURL = "http://" + c.Listen
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = def.RequestTimeoutSeconds
	}
	switch strings.ToLower(c.Locale) {
	case "es", "en":
		c.Locale = strings.ToLower(c.Locale)
	default:
		c.Locale = def.Locale
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = def.HorizonDays
	}
	if c.ProbeCron == "" {
		c.ProbeCron = def.ProbeCron
	}
	if c.ProbePath == "" {
		c.ProbePath = def.ProbePath
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.FormRateLimit.RPS < 0 {
		c.FormRateLimit.RPS = 0
	}
	if c.FormRateLimit.RPS > 0 && c.FormRateLimit.Burst <= 0 {
		c.FormRateLimit.Burst = 1
	}
}

// Load loads configuration from the given YAML path and applies the
// environment overlay.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - continue with the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - Then EVENTGO_* variables (optionally from a .env file) override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		// First run: create default config file.
		cfg := DefaultConfig()
		if err := Save(path, cfg); err != nil {
			// Even if save fails, return cfg with error so caller can decide.
			cfg.ApplyEnv()
			return cfg, err
		}
		cfg.ApplyEnv()
		return cfg, nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	return &cfg, nil
}

// ApplyEnv overrides fields from EVENTGO_* environment variables. A .env file
// in the working directory is loaded first if present; variables already set
// in the process environment win over it.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("EVENTGO_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("EVENTGO_PUBLIC_URL"); v != "" {
		c.PublicURL = v
	}
	if v := os.Getenv("EVENTGO_API_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("EVENTGO_API_TOKEN"); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv("EVENTGO_LOCALE"); v != "" {
		c.Locale = v
	}
	if v := os.Getenv("EVENTGO_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("EVENTGO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("EVENTGO_REQUEST_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RequestTimeoutSeconds = n
		}
	}
	c.Normalize()
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventgo-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
