package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".webscraper.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML defaults file. Every field is optional; a set field
// replaces the built-in default but is still overridden by an explicit
// CLI flag.
type File struct {
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `yaml:"timeout"`

	// DelayMillis is the pause between requests in milliseconds.
	DelayMillis int `yaml:"delay"`

	// MaxDepth is the crawl depth limit.
	MaxDepth *int `yaml:"max_depth"`

	// MaxPages is the per-crawl page cap.
	MaxPages *int `yaml:"max_pages"`

	// Format is the report format.
	Format string `yaml:"format"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// Proxy routes requests through the given proxy URL.
	Proxy string `yaml:"proxy"`

	// Metadata enables metadata extraction by default.
	Metadata bool `yaml:"metadata"`

	// Selectors are CSS selectors evaluated on every page.
	Selectors []string `yaml:"selectors"`

	// AllowDomains is a comma-separated allow list for crawls.
	AllowDomains string `yaml:"allow_domains"`

	// BlockDomains is a comma-separated block list for crawls.
	BlockDomains string `yaml:"block_domains"`
}

// LoadConfigFile loads scraper defaults from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers
// should handle this error appropriately based on whether the config
// file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .webscraper.yaml in the current directory
// 3. Look for .webscraper.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string
// if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// ApplyTo copies the file's set fields onto the config. CLI flags are
// applied after this, so explicit flags always win over file defaults.
func (f *File) ApplyTo(c *Config) {
	if f.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(f.TimeoutSeconds) * time.Second
	}
	if f.DelayMillis > 0 {
		c.Delay = time.Duration(f.DelayMillis) * time.Millisecond
	}
	if f.MaxDepth != nil {
		c.MaxDepth = *f.MaxDepth
	}
	if f.MaxPages != nil {
		c.MaxPages = *f.MaxPages
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		c.Proxy = f.Proxy
	}
	if f.Metadata {
		c.Metadata = true
	}
	if len(f.Selectors) > 0 {
		c.Selectors = append(c.Selectors, f.Selectors...)
	}
	if f.AllowDomains != "" {
		c.AllowDomains = f.AllowDomains
	}
	if f.BlockDomains != "" {
		c.BlockDomains = f.BlockDomains
	}
}
