// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/NivBraz/textanalyzer/pkg/analyzer"
	"github.com/NivBraz/textanalyzer/pkg/screen"
)

// Environment variables that override the file
const (
	EnvBaseURL     = "TEXTANALYZER_BASE_URL"
	EnvLogLevel    = "TEXTANALYZER_LOG_LEVEL"
	EnvConcurrency = "TEXTANALYZER_CONCURRENCY"
)

type Config struct {
	API struct {
		BaseURL string `yaml:"baseURL"`
	} `yaml:"api"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requestsPerSecond"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rateLimit"`

	Concurrency int `yaml:"concurrency"`

	HTTPClient struct {
		// Seconds; zero means no client-side timeout
		Timeout   int    `yaml:"timeout"`
		UserAgent string `yaml:"userAgent"`
	} `yaml:"httpClient"`

	Output struct {
		SummarySeparator string `yaml:"summarySeparator"`
		PrettyPrint      bool   `yaml:"prettyPrint"`
	} `yaml:"output"`

	Screen struct {
		Policy string `yaml:"policy"`
	} `yaml:"screen"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	var cfg Config
	setDefaults(&cfg)
	return &cfg
}

// Load reads the YAML file at path, applies environment overrides and
// defaults, and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("error opening config file: %w", err)
	default:
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("error decoding config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		cfg.Concurrency = n
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = analyzer.DefaultBaseURL
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 4
	}
	if cfg.HTTPClient.UserAgent == "" {
		cfg.HTTPClient.UserAgent = "TextAnalyzer/1.0"
	}
	if cfg.Screen.Policy == "" {
		cfg.Screen.Policy = "last-write"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("baseURL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("baseURL must be an http or https URL")
	}
	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("requestsPerSecond must not be negative")
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("burst must not be negative")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.HTTPClient.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if _, err := screen.ParsePolicy(c.Screen.Policy); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}
