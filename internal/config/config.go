package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout is the per-request timeout. 30 seconds is generous
	// enough for slow origins without letting a dead host stall a whole
	// URL list.
	DefaultTimeout = 30 * time.Second

	// DefaultDelay is the politeness pause between consecutive requests.
	// 1 second is conservative and respectful of server resources.
	DefaultDelay = 1 * time.Second

	// DefaultMaxDepth is the crawl depth limit. Depth 0 is the starting
	// page, so the default reaches pages two links away.
	DefaultMaxDepth = 2

	// DefaultMaxPages caps how many pages a single crawl scrapes.
	// This prevents runaway crawling on large or infinitely-generating
	// sites. Can be raised via the --max-pages CLI flag.
	DefaultMaxPages = 10

	// DefaultFormat is the report format used when none is requested.
	DefaultFormat = "json"

	// AppName is the application name used for XDG directory paths.
	AppName = "webscraper"
)

// Report format names accepted by --format.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Config holds all options for a scrape run.
// It is populated from CLI flags (optionally pre-seeded from a YAML
// defaults file) and passed through the application via dependency
// injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// URLs is the list of pages to scrape. In crawl mode only the first
	// URL is used as the crawl seed.
	URLs []string

	// CrawlMode switches from scraping a fixed URL list to a
	// breadth-first crawl from the first URL.
	CrawlMode bool

	// MaxDepth is the maximum link distance from the crawl seed.
	MaxDepth int

	// MaxPages caps the number of pages scraped per crawl.
	MaxPages int

	// CrossDomain allows the crawl to follow links onto other domains.
	// Blocked domains stay blocked even in cross-domain mode.
	CrossDomain bool

	// AllowDomains is a comma-separated list of extra domains the crawl
	// may visit. The seed's own domain is always allowed.
	AllowDomains string

	// BlockDomains is a comma-separated list of domains the crawl must
	// never visit. Block wins over allow.
	BlockDomains string

	// Delay is the pause between consecutive requests.
	Delay time.Duration

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Proxy routes all requests through the given proxy URL when set.
	Proxy string

	// UserAgent overrides the default browser-like User-Agent when set.
	UserAgent string

	// Selectors are extra CSS selectors evaluated on every page, in the
	// order they were given on the command line.
	Selectors []string

	// Metadata enables meta-tag and link-element metadata extraction.
	Metadata bool

	// Format selects the report format: json, csv, text or markdown.
	Format string

	// OutputFile writes the report to this path instead of stdout.
	OutputFile string

	// OutputPerPage writes one report file per scraped page, using
	// OutputFile as the name prefix. Requires OutputFile.
	OutputPerPage bool

	// URLFile is a path to a file with one URL per line, merged after
	// the positional URLs. Blank lines and #-comments are skipped.
	URLFile string

	// ConfigFilePath is the path to the YAML defaults file. If empty,
	// the tool searches for .webscraper.yaml in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// DBDir is the directory for the SQLite results archive. When set,
	// scraped pages are saved for later inspection. When empty, results
	// are not persisted.
	DBDir string

	// SaveToDB indicates whether to archive results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// Quiet suppresses progress logging; only errors are printed.
	Quiet bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeout, delay, crawl
// limits). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxDepth: DefaultMaxDepth,
		MaxPages: DefaultMaxPages,
		Delay:    DefaultDelay,
		Timeout:  DefaultTimeout,
		Format:   DefaultFormat,
	}
}

// XDGDataDir returns the XDG data directory for the scraper.
// On Linux: ~/.local/share/webscraper
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for the scraper.
// On Linux: ~/.config/webscraper
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// validFormats is the set of accepted report formats.
var validFormats = map[string]bool{
	FormatJSON:     true,
	FormatCSV:      true,
	FormatText:     true,
	FormatMarkdown: true,
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scraping begins.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.URLs) == 0 {
		return ErrNoURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if !validFormats[c.Format] {
		return ErrInvalidFormat
	}

	if c.OutputPerPage && c.OutputFile == "" {
		return ErrOutputRequired
	}

	return nil
}
