package scraper

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// Fetcher retrieves raw pages over HTTP.
// The underlying http.Client is built once at construction; per-request
// state is limited to the request itself.
type Fetcher struct {
	// client is the HTTP client, configured with the request timeout and
	// optional proxy.
	client *http.Client

	// userAgent is the User-Agent header sent with every request.
	userAgent string

	// maxBodySize caps how many bytes of a response body are read.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*fetcherConfig)

type fetcherConfig struct {
	timeout     time.Duration
	userAgent   string
	proxyURL    string
	maxBodySize int64
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(c *fetcherConfig) {
		c.userAgent = ua
	}
}

// WithProxy routes all requests through the given proxy URL.
func WithProxy(proxyURL string) FetcherOption {
	return func(c *fetcherConfig) {
		c.proxyURL = proxyURL
	}
}

// WithMaxBodySize caps the number of response body bytes read per page.
func WithMaxBodySize(size int64) FetcherOption {
	return func(c *fetcherConfig) {
		c.maxBodySize = size
	}
}

// DefaultUserAgent is sent when no custom user agent is configured.
// A mainstream browser string avoids trivial user-agent blocking.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// NewFetcher creates a Fetcher.
// It returns an error only when the configured proxy URL does not parse.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	cfg := fetcherConfig{
		timeout:     30 * time.Second,
		userAgent:   DefaultUserAgent,
		maxBodySize: 5 * 1024 * 1024, // 5MB
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	transport := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: cfg.timeout, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
	}

	if strings.TrimSpace(cfg.proxyURL) != "" {
		proxy, err := url.Parse(cfg.proxyURL)
		if err != nil {
			return nil, fmt.Errorf("%w: proxy %q: %v", ErrInvalidURL, cfg.proxyURL, err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   cfg.timeout,
			Transport: transport,
		},
		userAgent:   cfg.userAgent,
		maxBodySize: cfg.maxBodySize,
	}, nil
}

// Fetch retrieves a single page and returns the response status code and
// body. Transport failures are classified into ErrTimeout and ErrNetwork;
// the status code is returned as-is for the caller to classify.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %s: %v", ErrInvalidURL, pageURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", f.classifyTransportError(pageURL, err)
	}
	defer resp.Body.Close()

	body, err := f.readBody(resp)
	if err != nil {
		return 0, "", fmt.Errorf("%w: failed to read response body from %s: %v", ErrNetwork, pageURL, err)
	}

	return resp.StatusCode, string(body), nil
}

// classifyTransportError sorts a transport failure into the error taxonomy:
// timeouts, connection failures, and generic request errors.
func (f *Fetcher) classifyTransportError(pageURL string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: request to %s took longer than %s", ErrTimeout, pageURL, f.client.Timeout)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request to %s took longer than %s", ErrTimeout, pageURL, f.client.Timeout)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: connection failed to %s: %v", ErrNetwork, pageURL, err)
	}

	return fmt.Errorf("%w: request error for %s: %v", ErrNetwork, pageURL, err)
}

// readBody reads the response body up to the configured size cap, decoding
// gzip, deflate and brotli content encodings. Go's transport decodes gzip
// transparently only when it set the Accept-Encoding header itself, so we
// handle all three here.
func (f *Fetcher) readBody(resp *http.Response) ([]byte, error) {
	reader := io.Reader(resp.Body)

	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	return io.ReadAll(io.LimitReader(reader, f.maxBodySize))
}
