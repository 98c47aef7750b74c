package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported markup layouts.
const (
	LayoutCurrent = "current"
	LayoutLegacy  = "legacy"
)

// Config holds scraper configuration.
type Config struct {
	BaseURL            string        `yaml:"base_url"`
	Delay              time.Duration `yaml:"delay"`
	Lang               string        `yaml:"lang"`
	Country            string        `yaml:"country"`
	Layout             string        `yaml:"layout"` // current or legacy
	Timeout            time.Duration `yaml:"timeout"`
	UserAgent          string        `yaml:"user_agent"`
	OutputFile         string        `yaml:"output_file"`
	OutputFormat       string        `yaml:"output_format"` // csv, json, or dual
	Verbose            bool          `yaml:"verbose"`
	MetricsAddr        string        `yaml:"metrics_addr"`
	Workers            int           `yaml:"workers"`
	PipelineBufferSize int           `yaml:"pipeline_buffer_size"`
	BatchSize          int           `yaml:"batch_size"`
	DedupeMaxSize      int           `yaml:"dedupe_max_size"`
}

// DefaultConfig returns conservative defaults for the storefront.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://play.google.com",
		Delay:              time.Second,
		Lang:               "en",
		Country:            "us",
		Layout:             LayoutCurrent,
		Timeout:            30 * time.Second,
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		OutputFile:         "-",
		OutputFormat:       "json",
		Verbose:            false,
		MetricsAddr:        "",
		Workers:            1,
		PipelineBufferSize: 256,
		BatchSize:          32,
		DedupeMaxSize:      100000,
	}
}

// LoadFile overlays the YAML file at path on top of DefaultConfig.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	return cfg, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.Lang == "" {
		return fmt.Errorf("lang cannot be empty")
	}
	if c.Country == "" {
		return fmt.Errorf("country cannot be empty")
	}
	if c.Layout != LayoutCurrent && c.Layout != LayoutLegacy {
		return fmt.Errorf("layout must be %s or %s", LayoutCurrent, LayoutLegacy)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.OutputFormat == "dual" && c.OutputFile == "-" {
		return fmt.Errorf("dual output needs a file name, not stdout")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	if c.PipelineBufferSize <= 0 {
		return fmt.Errorf("pipeline buffer size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}

	return nil
}

// EnvString returns the value of key when it is set and non-empty.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// EnvInt parses key as an integer when it is set.
func EnvInt(key string) (int, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}

// EnvDuration parses key as a duration ("1500ms", "2s") when it is set.
func EnvDuration(key string) (time.Duration, bool, error) {
	raw, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return value, true, nil
}
