package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
)

// DBFileName is the SQLite database file name inside the data directory.
const DBFileName = "webscraper.db"

// ResultDB provides SQLite-based storage for scraped pages.
// It manages connection pooling and provides methods for saving and
// querying archived results.
type ResultDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ResultDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ResultDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*ResultDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple connections buy nothing here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *ResultDB) Close() error {
	return rdb.db.Close()
}

// Path returns the path of the underlying database file.
func (rdb *ResultDB) Path() string {
	return rdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ResultDB) createTables() error {
	schema := `
	-- Pages store one row per scraped URL, newest result wins
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		status_code INTEGER,
		title TEXT,
		depth INTEGER,
		result_json TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_timestamp ON pages(timestamp);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// StoredPage is an archived scrape result with its storage metadata.
type StoredPage struct {
	ID         int64
	URL        string
	StatusCode int
	Title      string
	Depth      *int
	Timestamp  time.Time
	Result     *model.PageResult
}

// SavePage inserts or updates the archived result for a URL.
// Uses UPSERT so re-scraping a page replaces its previous snapshot.
func (rdb *ResultDB) SavePage(ctx context.Context, page *model.PageResult) (int64, error) {
	resultJSON, err := json.Marshal(page)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize page result: %w", err)
	}

	query := `
	INSERT INTO pages (url, status_code, title, depth, result_json)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status_code = excluded.status_code,
		title = excluded.title,
		depth = excluded.depth,
		result_json = excluded.result_json,
		timestamp = CURRENT_TIMESTAMP
	`

	var depth any
	if page.Depth != nil {
		depth = *page.Depth
	}

	result, err := rdb.db.ExecContext(ctx, query,
		page.URL,
		page.StatusCode,
		page.Title,
		depth,
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save page: %w", err)
	}

	return result.LastInsertId()
}

// SaveResults archives a whole run inside one transaction.
func (rdb *ResultDB) SaveResults(ctx context.Context, results []*model.PageResult) error {
	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
	INSERT INTO pages (url, status_code, title, depth, result_json)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status_code = excluded.status_code,
		title = excluded.title,
		depth = excluded.depth,
		result_json = excluded.result_json,
		timestamp = CURRENT_TIMESTAMP
	`

	for _, page := range results {
		resultJSON, err := json.Marshal(page)
		if err != nil {
			return fmt.Errorf("failed to serialize page result: %w", err)
		}

		var depth any
		if page.Depth != nil {
			depth = *page.Depth
		}

		if _, err := tx.ExecContext(ctx, query,
			page.URL,
			page.StatusCode,
			page.Title,
			depth,
			string(resultJSON),
		); err != nil {
			return fmt.Errorf("failed to save page %s: %w", page.URL, err)
		}
	}

	return tx.Commit()
}

// GetPage retrieves the archived result for a URL.
// Returns nil without error when the URL was never archived.
func (rdb *ResultDB) GetPage(ctx context.Context, url string) (*StoredPage, error) {
	query := `
	SELECT id, url, status_code, title, depth, result_json, timestamp
	FROM pages
	WHERE url = ?
	`

	var stored StoredPage
	var depth sql.NullInt64
	var resultJSON string
	var timestamp string

	err := rdb.db.QueryRowContext(ctx, query, url).Scan(
		&stored.ID,
		&stored.URL,
		&stored.StatusCode,
		&stored.Title,
		&depth,
		&resultJSON,
		&timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	if depth.Valid {
		d := int(depth.Int64)
		stored.Depth = &d
	}
	stored.Timestamp = parseTimestamp(timestamp)

	var page model.PageResult
	if err := json.Unmarshal([]byte(resultJSON), &page); err != nil {
		return nil, fmt.Errorf("failed to parse stored result: %w", err)
	}
	stored.Result = &page

	return &stored, nil
}

// ListURLs returns every archived URL, newest first.
func (rdb *ResultDB) ListURLs(ctx context.Context) ([]string, error) {
	query := `SELECT url FROM pages ORDER BY timestamp DESC, id DESC`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("failed to scan page row: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, rows.Err()
}

// CountPages returns the number of archived pages.
func (rdb *ResultDB) CountPages(ctx context.Context) (int, error) {
	var count int
	if err := rdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Zero time keeps edge cases from breaking reads
	return time.Time{}
}
