// Package scraper provides the web scraping and crawling core.
//
// # Architecture
//
// The package is designed around the Spider type, which coordinates the
// crawl. It owns a breadth-first frontier of (url, depth) pairs and a
// visited set, and drives the per-page pipeline:
//
//   - Fetcher: HTTP fetch with timeout, proxy and body decompression
//   - ClassifyStatus: maps response codes to semantic failures
//   - DetectAntiBot: inspects raw markup for bot-challenge signatures
//   - Extractor: pulls every structured facet out of the parsed document
//   - DomainFilter: decides which discovered links may be enqueued
//
// Design decision: We implement our own crawler rather than using a
// third-party crawling framework because:
//  1. The traversal is strictly sequential with a fixed politeness delay
//  2. The domain allow/block/cross-domain policy is specific to this tool
//  3. Extraction needs tight control over selector evaluation and errors
//
// # Politeness
//
// The crawler is deliberately polite:
//   - One outstanding request at a time, never parallel fetches
//   - A fixed delay between successive fetch attempts
//   - Depth and page-count caps bound every crawl
//
// # Usage
//
//	spider := scraper.NewSpider(fetcher, scraper.WithMaxDepth(2))
//	results, err := spider.Crawl(ctx, "https://example.com")
package scraper
