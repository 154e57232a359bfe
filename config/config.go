// Package config loads the harness configuration file and propagates its required values to
// the process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultPath is where the configuration file is looked for, relative to the working
// directory.
const DefaultPath = "config.json"

const (
	DefaultLogFile        = "/tmp/e2e-log.txt"
	DefaultResultsDir     = "test-results"
	defaultSlowMoMS       = 50
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
	defaultActionTimeout  = 30000
	defaultExpectTimeout  = 5000
)

// Names of the keys in the configuration file. The required keys are also the names of the
// environment variables they are mirrored to.
const (
	KeyAppURL         = "E2E_APP_URL"
	KeyUser           = "E2E_USER"
	KeyPassword       = "E2E_PASSWORD"
	KeyUniqueContext  = "E2E_UNIQUE_CONTEXT"
	KeyLogFile        = "E2E_LOG_FILE"
	KeyResultsDir     = "E2E_RESULTS_DIR"
	KeyHeadless       = "E2E_HEADLESS"
	KeySlowMoMS       = "E2E_SLOW_MO_MS"
	KeyViewportWidth  = "E2E_VIEWPORT_WIDTH"
	KeyViewportHeight = "E2E_VIEWPORT_HEIGHT"
	KeyActionTimeout  = "E2E_ACTION_TIMEOUT_MS"
	KeyExpectTimeout  = "E2E_EXPECT_TIMEOUT_MS"
)

// RequiredKeys must all be present and non-empty.
var RequiredKeys = []string{KeyAppURL, KeyUser, KeyPassword, KeyUniqueContext}

// Config is the harness configuration. It is loaded once per run and then passed to the
// components that need it; nothing modifies it afterward.
type Config struct {
	AppURL        string `mapstructure:"e2e_app_url"`
	User          string `mapstructure:"e2e_user"`
	Password      string `mapstructure:"e2e_password"`
	UniqueContext string `mapstructure:"e2e_unique_context"`

	LogFile         string `mapstructure:"e2e_log_file"`
	ResultsDir      string `mapstructure:"e2e_results_dir"`
	Headless        bool   `mapstructure:"e2e_headless"`
	SlowMoMS        int    `mapstructure:"e2e_slow_mo_ms"`
	ViewportWidth   int    `mapstructure:"e2e_viewport_width"`
	ViewportHeight  int    `mapstructure:"e2e_viewport_height"`
	ActionTimeoutMS int    `mapstructure:"e2e_action_timeout_ms"`
	ExpectTimeoutMS int    `mapstructure:"e2e_expect_timeout_ms"`
}

// ConfigurationError means the configuration cannot be used. It is fatal: no tests can run.
type ConfigurationError struct {
	Path    string
	Missing []string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("configuration %s is missing required keys: %s", e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("cannot load configuration %s: %s", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogFile, DefaultLogFile)
	v.SetDefault(KeyResultsDir, DefaultResultsDir)
	v.SetDefault(KeyHeadless, false)
	v.SetDefault(KeySlowMoMS, defaultSlowMoMS)
	v.SetDefault(KeyViewportWidth, defaultViewportWidth)
	v.SetDefault(KeyViewportHeight, defaultViewportHeight)
	v.SetDefault(KeyActionTimeout, defaultActionTimeout)
	v.SetDefault(KeyExpectTimeout, defaultExpectTimeout)
}

// Load reads the JSON configuration file at path. It fails with a *ConfigurationError if
// the file is missing, unreadable or malformed, or if any required key is missing or empty.
// The values are not otherwise validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	return fromViper(v, path)
}

// FromEnvironment builds a Config from the required keys in the process environment, using
// defaults for everything else. This is how code in another process sees the values that
// Apply propagated.
func FromEnvironment() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for _, key := range RequiredKeys {
		if value, ok := os.LookupEnv(key); ok {
			v.Set(key, value)
		}
	}
	return fromViper(v, "environment")
}

func fromViper(v *viper.Viper, source string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Path: source, Err: err}
	}
	if missing := cfg.missingKeys(); len(missing) > 0 {
		return nil, &ConfigurationError{Path: source, Missing: missing}
	}
	return &cfg, nil
}

// LoadAndApply loads the configuration and mirrors its required values into the process
// environment. Nothing is written to the environment unless the whole file is valid.
func LoadAndApply(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply sets an environment variable for each required key. Calling it again with the same
// configuration has no further effect.
func (c *Config) Apply() error {
	if missing := c.missingKeys(); len(missing) > 0 {
		return &ConfigurationError{Path: "apply", Missing: missing}
	}
	for key, value := range c.Environment() {
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("cannot set %s: %w", key, err)
		}
	}
	return nil
}

// Environment returns the environment variables that Apply sets.
func (c *Config) Environment() map[string]string {
	return map[string]string{
		KeyAppURL:        c.AppURL,
		KeyUser:          c.User,
		KeyPassword:      c.Password,
		KeyUniqueContext: c.UniqueContext,
	}
}

func (c *Config) missingKeys() []string {
	env := c.Environment()
	var missing []string
	for _, key := range RequiredKeys {
		if strings.TrimSpace(env[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

func (c *Config) SlowMo() time.Duration {
	return time.Duration(c.SlowMoMS) * time.Millisecond
}

func (c *Config) ActionTimeout() time.Duration {
	return time.Duration(c.ActionTimeoutMS) * time.Millisecond
}

func (c *Config) ExpectTimeout() time.Duration {
	return time.Duration(c.ExpectTimeoutMS) * time.Millisecond
}

// ReportPath is where the JSON report is written.
func (c *Config) ReportPath() string {
	return filepath.Join(c.ResultsDir, "json", "report.json")
}

func (c *Config) VideoDir() string {
	return filepath.Join(c.ResultsDir, "videos")
}
