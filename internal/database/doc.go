// Package database provides SQLite-based storage for scraped pages.
//
// This package implements the ResultDB, an opt-in archive of scrape
// results. Each page is stored as a summary row plus the full result as
// JSON, so earlier runs can be inspected or exported later without
// re-fetching the pages. The crawl frontier and visited set are never
// persisted; every run starts fresh.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
