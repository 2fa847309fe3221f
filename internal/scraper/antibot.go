package scraper

import (
	"fmt"
	"strings"
)

// antiBotRule is one bot-protection signature: a predicate over the raw
// markup and page title, and the reason reported when it matches.
type antiBotRule struct {
	match  func(html, title string) bool
	reason func(html, title string) string
}

// staticReason builds a reason function that ignores the page content.
func staticReason(msg string) func(string, string) string {
	return func(string, string) string { return msg }
}

// antiBotRules is the ordered list of known bot-challenge signatures.
// Rules are evaluated in order and the first match wins, so the more
// specific vendor markers come before the generic title heuristics.
//
// Design decision: We model the detector as a data table of (match, reason)
// rules rather than nested conditionals so that new signatures can be added
// without touching the evaluation loop.
var antiBotRules = []antiBotRule{
	{
		match: func(html, _ string) bool {
			return strings.Contains(html, "cf-browser-verification") ||
				(strings.Contains(html, "Cloudflare") && strings.Contains(html, "challenge-platform"))
		},
		reason: staticReason("Cloudflare protection detected. The site is checking if you're a bot."),
	},
	{
		match: func(html, _ string) bool {
			return strings.Contains(html, "Cloudflare Ray ID") || strings.Contains(html, "cf-ray")
		},
		reason: staticReason("Cloudflare error page detected. Access may be restricted."),
	},
	{
		match: func(html, _ string) bool {
			return strings.Contains(html, "recaptcha") || strings.Contains(html, "g-recaptcha")
		},
		reason: staticReason("reCAPTCHA detected. Human verification required."),
	},
	{
		match: func(html, _ string) bool {
			return strings.Contains(html, "hcaptcha") || strings.Contains(html, "h-captcha")
		},
		reason: staticReason("hCaptcha detected. Human verification required."),
	},
	{
		match: func(html, _ string) bool {
			return strings.Contains(html, "PerimeterX") || strings.Contains(html, "px-captcha")
		},
		reason: staticReason("PerimeterX bot detection detected."),
	},
	{
		match: func(html, _ string) bool {
			return strings.Contains(html, "datadome") || strings.Contains(html, "DataDome")
		},
		reason: staticReason("DataDome bot protection detected."),
	},
	{
		// Akamai Bot Manager needs both tokens; "akamai" alone shows up in
		// ordinary CDN asset URLs.
		match: func(html, _ string) bool {
			return strings.Contains(html, "akamai") &&
				(strings.Contains(html, "bot") || strings.Contains(html, "challenge"))
		},
		reason: staticReason("Akamai bot protection detected."),
	},
	{
		match: func(_, title string) bool {
			lower := strings.ToLower(title)
			return title != "" && (strings.Contains(lower, "access denied") ||
				strings.Contains(lower, "blocked") ||
				strings.Contains(lower, "forbidden") ||
				strings.Contains(lower, "captcha"))
		},
		reason: func(_, title string) string {
			return fmt.Sprintf("Access restriction detected: '%s'", title)
		},
	},
	{
		match: func(html, _ string) bool {
			return strings.Contains(html, "Just a moment") || strings.Contains(html, "Checking your browser")
		},
		reason: staticReason("Cloudflare JavaScript challenge detected."),
	},
}

// DetectAntiBot inspects raw markup and the page title for known
// bot-challenge signatures. It returns the reason for the first matching
// rule, or false when the page looks unprotected.
func DetectAntiBot(html, title string) (string, bool) {
	for _, rule := range antiBotRules {
		if rule.match(html, title) {
			return rule.reason(html, title), true
		}
	}
	return "", false
}
