// Package config loads the ghostline demo configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/ghostline/predict"
)

// DefaultPath is where the demo looks for its config file.
const DefaultPath = "ghostline.yaml"

// Config holds all ghostline demo configuration.
type Config struct {
	Prediction PredictionConfig `yaml:"prediction"`
	Provider   ProviderConfig   `yaml:"provider"`
	Logging    LoggingConfig    `yaml:"logging"`
	Browser    BrowserConfig    `yaml:"browser"`
}

// PredictionConfig mirrors predict.Config for the fields a file can set.
type PredictionConfig struct {
	Debounce  string            `yaml:"debounce"`
	Color     string            `yaml:"color"`
	AcceptKey string            `yaml:"accept_key"`
	Style     map[string]string `yaml:"style"`
	// Unset lists style properties to remove from the mirror.
	Unset []string `yaml:"unset"`
}

// ProviderConfig selects the remote predictor.
type ProviderConfig struct {
	Name      string `yaml:"name"` // counter, openai, gemini
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   string `yaml:"timeout"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// BrowserConfig configures the rod demo.
type BrowserConfig struct {
	Headless bool   `yaml:"headless"`
	Bin      string `yaml:"bin"`
	Addr     string `yaml:"addr"`
}

// ValidProviders lists the supported predictor backends.
var ValidProviders = []string{"counter", "openai", "gemini"}

func Default() *Config {
	return &Config{
		Prediction: PredictionConfig{
			Debounce:  "1s",
			Color:     predict.DefaultColor,
			AcceptKey: predict.DefaultAcceptKey,
		},
		Provider: ProviderConfig{
			Name:      "counter",
			MaxTokens: 5,
			Timeout:   "10s",
		},
		Logging: LoggingConfig{Level: "info"},
		Browser: BrowserConfig{Addr: "127.0.0.1:0"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// Save writes the config to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyEnv applies GHOSTLINE_* overrides and the providers' usual API key
// variables. getenv is os.Getenv outside tests.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("GHOSTLINE_DEBOUNCE"); v != "" {
		c.Prediction.Debounce = v
	}
	if v := getenv("GHOSTLINE_COLOR"); v != "" {
		c.Prediction.Color = v
	}
	if v := getenv("GHOSTLINE_PROVIDER"); v != "" {
		c.Provider.Name = strings.ToLower(v)
	}
	if v := getenv("GHOSTLINE_MODEL"); v != "" {
		c.Provider.Model = v
	}
	if v := getenv("GHOSTLINE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	if c.Provider.APIKey == "" {
		switch c.Provider.Name {
		case "openai":
			c.Provider.APIKey = getenv("OPENAI_API_KEY")
		case "gemini":
			c.Provider.APIKey = getenv("GEMINI_API_KEY")
		}
	}
	if v := getenv("GHOSTLINE_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
}

// Validate reports every problem in the config at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := parseDuration(c.Prediction.Debounce); err != nil {
		result = multierror.Append(result, fmt.Errorf("prediction.debounce: %w", err))
	}
	if _, err := parseDuration(c.Provider.Timeout); err != nil {
		result = multierror.Append(result, fmt.Errorf("provider.timeout: %w", err))
	}
	if !slices.Contains(ValidProviders, c.Provider.Name) {
		result = multierror.Append(result,
			fmt.Errorf("provider.name: unknown provider %q (valid: %v)", c.Provider.Name, ValidProviders))
	} else if c.Provider.Name != "counter" && c.Provider.APIKey == "" {
		result = multierror.Append(result,
			fmt.Errorf("provider.api_key: required for %s", c.Provider.Name))
	}
	if c.Provider.MaxTokens < 0 {
		result = multierror.Append(result, errors.New("provider.max_tokens: must not be negative"))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}

	return result.ErrorOrNil()
}

// DebounceDuration returns the parsed debounce, or zero for the default.
func (c *Config) DebounceDuration() time.Duration {
	d, _ := parseDuration(c.Prediction.Debounce)
	return d
}

// TimeoutDuration returns the per-request timeout, 10s when unset.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := parseDuration(c.Provider.Timeout)
	if err != nil || d == 0 {
		return 10 * time.Second
	}
	return d
}

// PredictConfig builds the core configuration around get.
func (c *Config) PredictConfig(get predict.Func) predict.Config {
	var style map[string]any
	if len(c.Prediction.Style) > 0 || len(c.Prediction.Unset) > 0 {
		style = make(map[string]any, len(c.Prediction.Style)+len(c.Prediction.Unset))
		for k, v := range c.Prediction.Style {
			style[k] = v
		}
		for _, k := range c.Prediction.Unset {
			style[k] = nil
		}
	}
	return predict.Config{
		Get:       get,
		Debounce:  c.DebounceDuration(),
		Color:     c.Prediction.Color,
		Style:     style,
		AcceptKey: c.Prediction.AcceptKey,
	}
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}
