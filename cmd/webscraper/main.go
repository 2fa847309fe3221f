// Package main provides the entry point for the webscraper CLI.
//
// webscraper fetches web pages and extracts structured content from them:
// titles, headings, paragraphs, links, images, tables, code blocks and
// page metadata. It can scrape a fixed list of URLs or crawl a site
// breadth-first within configurable domain boundaries.
//
// Usage:
//
//	webscraper scrape https://example.com
//	webscraper scrape --crawl --max-depth 2 https://example.com
//
// See --help for all available options.
package main

// main is the entry point for webscraper.
func main() {
	Execute()
}
