// Package config loads cricstats settings from defaults, an optional .env file
// and CRICSTATS_* environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// StatsguruURL lists Test batting records between 2000 and 2024
	StatsguruURL = "https://stats.espncricinfo.com/ci/engine/stats/index.html?class=1;spanmax1=31+Dec+2024;spanmin1=01+Jan+2000;spanval1=span;template=results;type=batting"

	// BrowserUserAgent is sent with every request; Statsguru rejects obvious bots
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

	DefaultTableClass  = "engineTable"
	DefaultListenAddr  = ":8501"
	DefaultTimeout     = 30 * time.Second
	DefaultLogLevel    = "INFO"
	DefaultTitle       = "Batting Innings Stats (2000–2025, Test Matches)"
	DefaultDescription = "Data scraped live from ESPNcricinfo Statsguru"
	DefaultDataDir     = "~/.local/share/cricstats"

	envPrefix = "CRICSTATS_"
)

// Config holds runtime settings
type Config struct {
	URL         string
	UserAgent   string
	TableClass  string
	ListenAddr  string
	Timeout     time.Duration
	LogLevel    string
	Title       string
	Description string
	DataDir     string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		URL:         StatsguruURL,
		UserAgent:   BrowserUserAgent,
		TableClass:  DefaultTableClass,
		ListenAddr:  DefaultListenAddr,
		Timeout:     DefaultTimeout,
		LogLevel:    DefaultLogLevel,
		Title:       DefaultTitle,
		Description: DefaultDescription,
		DataDir:     DefaultDataDir,
	}
}

// Load returns the default configuration overlaid with values from the given
// .env files and the process environment. Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overrides fields from CRICSTATS_* variables
func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"URL":         &c.URL,
		"USER_AGENT":  &c.UserAgent,
		"TABLE_CLASS": &c.TableClass,
		"ADDR":        &c.ListenAddr,
		"LOG_LEVEL":   &c.LogLevel,
		"TITLE":       &c.Title,
		"DESCRIPTION": &c.Description,
		"DATA_DIR":    &c.DataDir,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = d
	}

	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url scheme: %q (must be http or https)", u.Scheme)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
		c.LogLevel = strings.ToUpper(c.LogLevel)
	default:
		return fmt.Errorf("invalid log level: %s (must be DEBUG, INFO, WARN or ERROR)", c.LogLevel)
	}

	return nil
}
