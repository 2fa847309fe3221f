package scraper

import (
	"net"
	"net/url"
	"strings"
)

// NormalizeURL resolves a possibly-relative candidate against the base URL
// into an absolute URL string. It returns false when the candidate cannot be
// resolved into a valid URL.
//
// Already-absolute http(s) candidates are returned unchanged, and
// protocol-relative candidates ("//host/path") are given the https scheme.
// Everything else goes through standard RFC 3986 reference resolution, so
// relative paths, "../" segments, query strings and fragments are preserved.
func NormalizeURL(base *url.URL, candidate string) (string, bool) {
	if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
		return candidate, true
	}
	if strings.HasPrefix(candidate, "//") {
		return "https:" + candidate, true
	}

	resolved, err := base.Parse(candidate)
	if err != nil {
		return "", false
	}
	return resolved.String(), true
}

// ParseDomainList splits a comma-separated domain list into a lowercased
// set, dropping empty entries and surrounding whitespace.
func ParseDomainList(domains string) map[string]bool {
	set := make(map[string]bool)
	for _, d := range strings.Split(domains, ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = true
		}
	}
	return set
}

// domainOf extracts the lowercased domain name of a URL.
// IP literals and empty hosts do not count as domains.
func domainOf(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}
	return host
}

// DomainFilter decides whether a discovered link may be enqueued.
// It is immutable for the duration of a crawl and is derived once from
// configuration by the Spider.
type DomainFilter struct {
	// baseURL is the crawl's starting URL, used to resolve relative links.
	baseURL *url.URL

	// baseDomain is the lowercased domain of the starting URL.
	// It is always implicitly allowed.
	baseDomain string

	// allow is the set of additionally allowed domains. When non-empty,
	// only the base domain and these domains are followed.
	allow map[string]bool

	// block is the set of blocked domains. Block always wins, even under
	// cross-domain mode.
	block map[string]bool

	// crossDomain permits following links to any non-blocked domain.
	crossDomain bool
}

// NewDomainFilter creates a filter scoped to the given base URL.
func NewDomainFilter(baseURL *url.URL, allow, block map[string]bool, crossDomain bool) *DomainFilter {
	if allow == nil {
		allow = make(map[string]bool)
	}
	if block == nil {
		block = make(map[string]bool)
	}
	return &DomainFilter{
		baseURL:     baseURL,
		baseDomain:  domainOf(baseURL),
		allow:       allow,
		block:       block,
		crossDomain: crossDomain,
	}
}

// ShouldEnqueue applies the domain policy to a discovered link and returns
// the canonical absolute URL when the link may be crawled.
//
// The decision order is the policy contract, first match wins:
//  1. unparseable link: reject
//  2. already visited: reject
//  3. no domain (empty host or IP literal): reject
//  4. domain in block list: reject, even under cross-domain mode
//  5. allow list set: accept iff base domain or listed domain
//  6. cross-domain mode: accept
//  7. otherwise accept only the base domain
func (f *DomainFilter) ShouldEnqueue(link string, visited map[string]bool) (string, bool) {
	parsed, err := url.Parse(link)
	if err != nil || !parsed.IsAbs() {
		parsed, err = f.baseURL.Parse(link)
		if err != nil {
			return "", false
		}
	}
	urlStr := parsed.String()

	if visited[urlStr] {
		return "", false
	}

	domain := domainOf(parsed)
	if domain == "" {
		return "", false
	}

	if len(f.block) > 0 && f.block[domain] {
		return "", false
	}

	if len(f.allow) > 0 {
		if domain == f.baseDomain || f.allow[domain] {
			return urlStr, true
		}
		return "", false
	}

	if f.crossDomain {
		return urlStr, true
	}

	if domain == f.baseDomain {
		return urlStr, true
	}
	return "", false
}
