package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig holds settings shared by every vendor adapter.
type ProviderConfig struct {
	Enabled       bool    `yaml:"enabled"`
	BaseURL       string  `yaml:"base_url"`
	APIKey        string  `yaml:"api_key"`
	RatePerMinute float64 `yaml:"rate_per_minute"`
	Burst         float64 `yaml:"burst"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Cache struct {
		TTL     time.Duration `yaml:"ttl"`
		MaxSize int           `yaml:"max_size"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Providers struct {
		Order        []string       `yaml:"order"`
		FetchTimeout time.Duration  `yaml:"fetch_timeout"`
		Yahoo        ProviderConfig `yaml:"yahoo"`
		Finnhub      ProviderConfig `yaml:"finnhub"`
		AlphaVantage ProviderConfig `yaml:"alphavantage"`
		TwelveData   ProviderConfig `yaml:"twelvedata"`
	} `yaml:"providers"`
	Warm struct {
		Symbols []string `yaml:"symbols"`
	} `yaml:"warm"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Providers.Finnhub.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.Providers.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("TWELVEDATA_API_KEY"); v != "" {
		c.Providers.TwelveData.APIKey = v
	}
	if v := os.Getenv("PROVIDER_ORDER"); v != "" {
		c.Providers.Order = splitCSV(v)
	}
	if v := os.Getenv("WARM_SYMBOLS"); v != "" {
		c.Warm.Symbols = splitCSV(v)
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.MaxSize == 0 {
		c.Cache.MaxSize = 1000
	}
	if c.Providers.FetchTimeout == 0 {
		c.Providers.FetchTimeout = 10 * time.Second
	}
	if len(c.Providers.Order) == 0 {
		c.Providers.Order = []string{"yahoo", "finnhub", "alphavantage", "twelvedata"}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative")
	}
	known := map[string]bool{"yahoo": true, "finnhub": true, "alphavantage": true, "twelvedata": true}
	for _, name := range c.Providers.Order {
		if !known[name] {
			return fmt.Errorf("unknown provider %q in providers.order", name)
		}
	}
	return nil
}

// Provider returns the settings block for a named vendor.
func (c *Config) Provider(name string) ProviderConfig {
	switch name {
	case "yahoo":
		return c.Providers.Yahoo
	case "finnhub":
		return c.Providers.Finnhub
	case "alphavantage":
		return c.Providers.AlphaVantage
	case "twelvedata":
		return c.Providers.TwelveData
	default:
		return ProviderConfig{}
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
