package config

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
)

// ErrNoValidURLs is returned when a URL list file contains no usable URLs.
var ErrNoValidURLs = errors.New("URL file contains no valid URLs")

// LoadURLFile reads one URL per line from path. Blank lines and lines
// starting with # are skipped. Lines that do not parse as absolute
// http(s) URLs are logged and dropped; the file only fails when nothing
// usable remains.
func LoadURLFile(path string, logger *slog.Logger) ([]string, error) {
	file, err := os.Open(path) //nolint:gosec // User-provided list path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	urls := make([]string, 0)
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !isScrapableURL(line) {
			logger.Warn("skipping invalid URL in list file",
				"file", path, "line", lineNo, "url", line)
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValidURLs, path)
	}
	return urls, nil
}

// isScrapableURL reports whether raw is an absolute http(s) URL with a host.
func isScrapableURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
