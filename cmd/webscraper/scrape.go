package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/config"
	"github.com/abdulwahed-sweden/simple-web-scraper/internal/database"
	"github.com/abdulwahed-sweden/simple-web-scraper/internal/log"
	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
	"github.com/abdulwahed-sweden/simple-web-scraper/internal/report"
	"github.com/abdulwahed-sweden/simple-web-scraper/internal/scraper"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [urls...]",
		Short: "Scrape one or more pages, or crawl a site",
		Long: `Scrape fetches pages and extracts their structured content.

Without --crawl, every URL given on the command line (plus any from
--url-file) is scraped in order. With --crawl, the first URL becomes the
seed of a breadth-first crawl that follows same-domain links up to
--max-depth, scraping at most --max-pages pages.

Examples:
  # Scrape a single page as pretty-printed JSON
  webscraper scrape https://example.com

  # Crawl a site two links deep
  webscraper scrape --crawl --max-depth 2 --max-pages 20 https://example.com

  # Crawl across domains, but never into tracker.com
  webscraper scrape --crawl --cross-domain --block-domains tracker.com https://example.com

  # Extract prices with a custom selector, write CSV to a file
  webscraper scrape -s ".price" -f csv -o prices.csv https://shop.example.com

  # Scrape a URL list with one JSON file per page
  webscraper scrape --url-file urls.txt -o page --output-per-page

Configuration file (.webscraper.yaml) example:
  timeout: 60
  delay: 500
  format: markdown
  selectors:
    - ".article-title"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScrapeCmd,
	}

	// Crawl behavior flags
	cmd.Flags().Bool("crawl", false,
		"Crawl from the first URL instead of scraping a fixed list")
	cmd.Flags().IntP("max-depth", "d", config.DefaultMaxDepth,
		"Maximum link distance from the seed URL (0 scrapes only the seed)")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to scrape per crawl")
	cmd.Flags().Bool("cross-domain", false,
		"Follow links onto other domains")
	cmd.Flags().String("allow-domains", "",
		"Comma-separated list of extra domains the crawl may visit")
	cmd.Flags().String("block-domains", "",
		"Comma-separated list of domains the crawl must never visit")

	// Request flags
	cmd.Flags().IntP("timeout", "t", int(config.DefaultTimeout/time.Second),
		"Request timeout in seconds")
	cmd.Flags().Int("delay", int(config.DefaultDelay/time.Millisecond),
		"Delay between requests in milliseconds")
	cmd.Flags().String("proxy", "",
		"Proxy URL to route requests through (e.g., http://127.0.0.1:8080)")
	cmd.Flags().String("user-agent", "",
		"Custom User-Agent header (default: a mainstream browser string)")

	// Extraction flags
	cmd.Flags().StringArrayP("selector", "s", nil,
		"Extra CSS selector to evaluate on every page (repeatable)")
	cmd.Flags().BoolP("metadata", "m", false,
		"Extract meta tags, Open Graph fields, canonical URL and favicon")

	// Output flags
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: json, csv, text or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().Bool("output-per-page", false,
		"Write one report file per page, using --output as the name prefix")
	cmd.Flags().String("url-file", "",
		"File with one URL per line (blank lines and #-comments are skipped)")

	// Configuration and persistence flags
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webscraper.yaml in current or home directory)")
	cmd.Flags().Bool("db", false,
		"Archive results to the SQLite database")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: the XDG data directory; implies --db)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose, cfg.Quiet)
	slog.SetDefault(logger)

	// Merge the URL list file before validation so a file-only invocation
	// passes the "at least one URL" check.
	if cfg.URLFile != "" {
		fileURLs, err := config.LoadURLFile(cfg.URLFile, logger)
		if err != nil {
			return err
		}
		cfg.URLs = append(cfg.URLs, fileURLs...)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScrape(ctx, cfg, logger)
}

// getPersistentBool retrieves a persistent flag from the command or its root.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// buildConfig creates a Config from the defaults file and cobra flags.
// File values override built-in defaults; explicit flags override both.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	found := config.FindConfigFile(configPath)
	if found != "" {
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		file.ApplyTo(cfg)
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	cfg.CrawlMode, err = cmd.Flags().GetBool("crawl")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("max-depth") {
		if cfg.MaxDepth, err = cmd.Flags().GetInt("max-depth"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-pages") {
		if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
			return nil, err
		}
	}

	cfg.CrossDomain, err = cmd.Flags().GetBool("cross-domain")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("allow-domains") {
		if cfg.AllowDomains, err = cmd.Flags().GetString("allow-domains"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("block-domains") {
		if cfg.BlockDomains, err = cmd.Flags().GetString("block-domains"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("timeout") {
		seconds, err := cmd.Flags().GetInt("timeout")
		if err != nil {
			return nil, err
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}
	if cmd.Flags().Changed("delay") {
		millis, err := cmd.Flags().GetInt("delay")
		if err != nil {
			return nil, err
		}
		cfg.Delay = time.Duration(millis) * time.Millisecond
	}

	if cmd.Flags().Changed("proxy") {
		if cfg.Proxy, err = cmd.Flags().GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("selector") {
		if cfg.Selectors, err = cmd.Flags().GetStringArray("selector"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("metadata") {
		if cfg.Metadata, err = cmd.Flags().GetBool("metadata"); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("format") {
		if cfg.Format, err = cmd.Flags().GetString("format"); err != nil {
			return nil, err
		}
	}
	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	cfg.OutputPerPage, err = cmd.Flags().GetBool("output-per-page")
	if err != nil {
		return nil, err
	}
	cfg.URLFile, err = cmd.Flags().GetString("url-file")
	if err != nil {
		return nil, err
	}

	saveToDB, err := cmd.Flags().GetBool("db")
	if err != nil {
		return nil, err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if saveToDB || dbDir != "" {
		cfg.SaveToDB = true
		cfg.DBDir = dbDir
		if cfg.DBDir == "" {
			cfg.DBDir = config.XDGDataDir()
		}
	}

	cfg.Verbose = getPersistentBool(cmd, "verbose")
	cfg.Quiet = getPersistentBool(cmd, "quiet")

	cfg.URLs = args

	return cfg, nil
}

// runScrape executes the scrape and writes the report.
func runScrape(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	fetcherOpts := []scraper.FetcherOption{
		scraper.WithTimeout(cfg.Timeout),
	}
	if cfg.Proxy != "" {
		fetcherOpts = append(fetcherOpts, scraper.WithProxy(cfg.Proxy))
		logger.Info("using proxy", "proxy", cfg.Proxy)
	}
	if cfg.UserAgent != "" {
		fetcherOpts = append(fetcherOpts, scraper.WithUserAgent(cfg.UserAgent))
	}

	fetcher, err := scraper.NewFetcher(fetcherOpts...)
	if err != nil {
		return err
	}

	spider := scraper.NewSpider(fetcher,
		scraper.WithMaxDepth(cfg.MaxDepth),
		scraper.WithMaxPages(cfg.MaxPages),
		scraper.WithDelay(cfg.Delay),
		scraper.WithCrossDomain(cfg.CrossDomain),
		scraper.WithAllowDomains(scraper.ParseDomainList(cfg.AllowDomains)),
		scraper.WithBlockDomains(scraper.ParseDomainList(cfg.BlockDomains)),
		scraper.WithSelectors(cfg.Selectors),
		scraper.WithMetadata(cfg.Metadata),
		scraper.WithLogger(logger),
	)

	var results []*model.PageResult
	if cfg.CrawlMode {
		if len(cfg.URLs) > 1 {
			logger.Warn("crawl mode uses only the first URL as the seed",
				"seed", cfg.URLs[0], "ignored", len(cfg.URLs)-1)
		}
		results, err = spider.Crawl(ctx, cfg.URLs[0])
	} else {
		results, err = spider.ScrapeAll(ctx, cfg.URLs)
	}
	if err != nil {
		return err
	}

	logger.Info("scrape finished", "pages", len(results))

	if cfg.SaveToDB {
		if err := archiveResults(ctx, cfg, results, logger); err != nil {
			return err
		}
	}

	return outputResults(cfg, results, logger)
}

// archiveResults saves the run to the SQLite archive.
func archiveResults(ctx context.Context, cfg *config.Config, results []*model.PageResult, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.SaveResults(ctx, results); err != nil {
		return fmt.Errorf("failed to archive results: %w", err)
	}
	logger.Info("results archived", "db", db.Path(), "pages", len(results))
	return nil
}

// outputResults writes the report to stdout, a single file, or one file
// per page.
func outputResults(cfg *config.Config, results []*model.PageResult, logger *slog.Logger) error {
	if cfg.OutputPerPage {
		return outputPerPage(cfg, results, logger)
	}

	if cfg.OutputFile != "" {
		if err := writeReportFile(cfg.OutputFile, cfg.Format, results); err != nil {
			return err
		}
		logger.Info("output saved", "file", cfg.OutputFile)
		return nil
	}

	if cfg.Quiet {
		return nil
	}
	writer, err := report.NewWriter(cfg.Format, os.Stdout)
	if err != nil {
		return err
	}
	_, err = writer.Write(results)
	return err
}

// outputPerPage writes one report file per page, numbered from 001.
func outputPerPage(cfg *config.Config, results []*model.PageResult, logger *slog.Logger) error {
	extension := report.FileExtension(cfg.Format)
	logger.Info("writing pages to individual files",
		"pages", len(results), "prefix", cfg.OutputFile)

	for i, page := range results {
		filename := fmt.Sprintf("%s_%03d.%s", cfg.OutputFile, i+1, extension)
		if err := writeReportFile(filename, cfg.Format, []*model.PageResult{page}); err != nil {
			return err
		}
		logger.Info("page saved", "file", filename)
	}
	return nil
}

// writeReportFile renders the report into a freshly created file.
func writeReportFile(path, format string, results []*model.PageResult) error {
	file, err := os.Create(path) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	err = writeReport(file, format, results)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}

// writeReport renders the report in the requested format to w.
func writeReport(w io.Writer, format string, results []*model.PageResult) error {
	writer, err := report.NewWriter(format, w)
	if err != nil {
		return err
	}
	_, err = writer.Write(results)
	return err
}
