package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/config"
	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
)

// TestNewScrapeCmd tests the scrape command creation.
func TestNewScrapeCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScrapeCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scrape [urls...]" {
			t.Errorf("expected use 'scrape [urls...]', got %q", cmd.Use)
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has crawl flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("crawl") == nil {
			t.Fatal("expected crawl flag")
		}
	})

	t.Run("has max-depth flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-depth")
		if flag == nil {
			t.Fatal("expected max-depth flag")
		}
		if flag.Shorthand != "d" {
			t.Errorf("expected shorthand 'd', got %q", flag.Shorthand)
		}
	})

	t.Run("has max-pages flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("max-pages")
		if flag == nil {
			t.Fatal("expected max-pages flag")
		}
		if flag.Shorthand != "p" {
			t.Errorf("expected shorthand 'p', got %q", flag.Shorthand)
		}
	})

	t.Run("has selector flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("selector")
		if flag == nil {
			t.Fatal("expected selector flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has format flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("format")
		if flag == nil {
			t.Fatal("expected format flag")
		}
		if flag.DefValue != config.DefaultFormat {
			t.Errorf("expected default %q, got %q", config.DefaultFormat, flag.DefValue)
		}
	})

	t.Run("has output flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output")
		if flag == nil {
			t.Fatal("expected output flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has db flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("db") == nil {
			t.Fatal("expected db flag")
		}
		if cmd.Flags().Lookup("db-dir") == nil {
			t.Fatal("expected db-dir flag")
		}
	})
}

// TestBuildConfig tests configuration building from flags.
func TestBuildConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewScrapeCmd()
		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.URLs) != 1 || cfg.URLs[0] != "https://example.com" {
			t.Errorf("expected urls [https://example.com], got %v", cfg.URLs)
		}
		if cfg.CrawlMode {
			t.Error("expected CrawlMode to be false")
		}
		if cfg.MaxDepth != config.DefaultMaxDepth {
			t.Errorf("expected MaxDepth %d, got %d", config.DefaultMaxDepth, cfg.MaxDepth)
		}
		if cfg.Format != config.DefaultFormat {
			t.Errorf("expected format %q, got %q", config.DefaultFormat, cfg.Format)
		}
	})

	t.Run("builds config with crawl flags", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("crawl", "true")
		_ = cmd.Flags().Set("max-depth", "5")
		_ = cmd.Flags().Set("max-pages", "50")
		_ = cmd.Flags().Set("block-domains", "tracker.com,ads.example.com")

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.CrawlMode {
			t.Error("expected CrawlMode to be true")
		}
		if cfg.MaxDepth != 5 {
			t.Errorf("expected MaxDepth 5, got %d", cfg.MaxDepth)
		}
		if cfg.MaxPages != 50 {
			t.Errorf("expected MaxPages 50, got %d", cfg.MaxPages)
		}
		if cfg.BlockDomains != "tracker.com,ads.example.com" {
			t.Errorf("unexpected BlockDomains %q", cfg.BlockDomains)
		}
	})

	t.Run("builds config with timeout and delay in flag units", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("timeout", "60")
		_ = cmd.Flags().Set("delay", "250")

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Timeout != 60*time.Second {
			t.Errorf("expected timeout 60s, got %v", cfg.Timeout)
		}
		if cfg.Delay != 250*time.Millisecond {
			t.Errorf("expected delay 250ms, got %v", cfg.Delay)
		}
	})

	t.Run("builds config with repeated selectors", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("selector", ".price")
		_ = cmd.Flags().Set("selector", ".title")

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Selectors) != 2 || cfg.Selectors[0] != ".price" || cfg.Selectors[1] != ".title" {
			t.Errorf("expected selectors [.price .title], got %v", cfg.Selectors)
		}
	})

	t.Run("db-dir implies db", func(t *testing.T) {
		tmpDir := t.TempDir()
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("db-dir", tmpDir)

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != tmpDir {
			t.Errorf("expected DBDir %q, got %q", tmpDir, cfg.DBDir)
		}
	})

	t.Run("applies config file defaults under flags", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "webscraper.yaml")
		content := []byte(`
timeout: 90
format: markdown
max_pages: 3
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("config", configPath)
		_ = cmd.Flags().Set("format", "csv")

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// File value applies when no flag was set.
		if cfg.Timeout != 90*time.Second {
			t.Errorf("expected timeout 90s from file, got %v", cfg.Timeout)
		}
		if cfg.MaxPages != 3 {
			t.Errorf("expected MaxPages 3 from file, got %d", cfg.MaxPages)
		}
		// Explicit flag wins over the file.
		if cfg.Format != "csv" {
			t.Errorf("expected format csv from flag, got %q", cfg.Format)
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "nope.yaml"))

		if _, err := buildConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("returns error for malformed config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "bad.yaml")
		if err := os.WriteFile(configPath, []byte("{invalid yaml"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScrapeCmd()
		_ = cmd.Flags().Set("config", configPath)

		if _, err := buildConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Fatal("expected error for malformed config file")
		}
	})
}

// TestGetPersistentBool tests persistent flag retrieval from the root.
func TestGetPersistentBool(t *testing.T) {
	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		root := NewRootCmd()
		_ = root.PersistentFlags().Set("verbose", "true")

		scrape, _, err := root.Find([]string{"scrape"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !getPersistentBool(scrape, "verbose") {
			t.Error("expected true from parent verbose flag")
		}
	})

	t.Run("returns false for unknown flag", func(t *testing.T) {
		cmd := NewScrapeCmd()
		if getPersistentBool(cmd, "no-such-flag") {
			t.Error("expected false for unknown flag")
		}
	})
}

// TestScrapeCommandEndToEnd runs the scrape command against a local server.
func TestScrapeCommandEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Local Page</title></head>
<body><h1>Hello</h1><p>A paragraph.</p></body></html>`))
	}))
	defer server.Close()

	t.Run("writes json report to output file", func(t *testing.T) {
		outputPath := filepath.Join(t.TempDir(), "report.json")

		root := NewRootCmd()
		root.SetArgs([]string{"scrape", "--delay", "0", "-f", "json", "-o", outputPath, server.URL})
		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(outputPath) //nolint:gosec // Test-controlled path
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		var results []*model.PageResult
		if err := json.Unmarshal(data, &results); err != nil {
			t.Fatalf("failed to parse report: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected 1 page, got %d", len(results))
		}
		if results[0].Title != "Local Page" {
			t.Errorf("expected title 'Local Page', got %q", results[0].Title)
		}
		if results[0].StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", results[0].StatusCode)
		}
	})

	t.Run("writes per-page files with numbered names", func(t *testing.T) {
		tmpDir := t.TempDir()
		prefix := filepath.Join(tmpDir, "page")

		root := NewRootCmd()
		root.SetArgs([]string{
			"scrape", "--delay", "0", "-f", "text",
			"-o", prefix, "--output-per-page",
			server.URL, server.URL + "/second",
		})
		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, name := range []string{"page_001.txt", "page_002.txt"} {
			data, err := os.ReadFile(filepath.Join(tmpDir, name)) //nolint:gosec // Test-controlled path
			if err != nil {
				t.Fatalf("expected %s: %v", name, err)
			}
			if !strings.Contains(string(data), "Local Page") {
				t.Errorf("expected title in %s", name)
			}
		}
	})

	t.Run("archives results when db-dir is set", func(t *testing.T) {
		dbDir := t.TempDir()
		outputPath := filepath.Join(t.TempDir(), "report.json")

		root := NewRootCmd()
		root.SetArgs([]string{
			"scrape", "--delay", "0", "-o", outputPath,
			"--db-dir", dbDir, server.URL,
		})
		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := os.Stat(filepath.Join(dbDir, "webscraper.db")); err != nil {
			t.Errorf("expected database file: %v", err)
		}
	})

	t.Run("rejects invalid format before fetching", func(t *testing.T) {
		root := NewRootCmd()
		root.SetArgs([]string{"scrape", "-f", "xml", server.URL})
		if err := root.Execute(); err == nil {
			t.Fatal("expected error for invalid format")
		}
	})

	t.Run("rejects run without urls", func(t *testing.T) {
		root := NewRootCmd()
		root.SetArgs([]string{"scrape"})
		if err := root.Execute(); err == nil {
			t.Fatal("expected error when no URLs are given")
		}
	})

	t.Run("loads urls from a url file", func(t *testing.T) {
		tmpDir := t.TempDir()
		urlFile := filepath.Join(tmpDir, "urls.txt")
		content := "# local targets\n" + server.URL + "\n\n" + server.URL + "/other\n"
		if err := os.WriteFile(urlFile, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write url file: %v", err)
		}
		outputPath := filepath.Join(tmpDir, "report.json")

		root := NewRootCmd()
		root.SetArgs([]string{"scrape", "--delay", "0", "--url-file", urlFile, "-o", outputPath})
		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(outputPath) //nolint:gosec // Test-controlled path
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var results []*model.PageResult
		if err := json.Unmarshal(data, &results); err != nil {
			t.Fatalf("failed to parse report: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 pages, got %d", len(results))
		}
	})
}
