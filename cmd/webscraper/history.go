package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/config"
	"github.com/abdulwahed-sweden/simple-web-scraper/internal/database"
	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
	"github.com/abdulwahed-sweden/simple-web-scraper/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Browse pages archived with --db",
		Long: `History lists the URLs archived by previous scrape runs, newest first.

Given a URL argument, it replays that page's archived result in any
report format instead.

Examples:
  # List every archived URL
  webscraper history

  # Show an archived page as a text report
  webscraper history -f text https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format for a single page: json, csv, text or markdown")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: the XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open database (no archive yet?): %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if len(args) == 0 {
		return listHistory(cmd, db)
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	return showHistoryPage(cmd, db, args[0], format)
}

// listHistory prints every archived URL, newest first.
func listHistory(cmd *cobra.Command, db *database.ResultDB) error {
	ctx := cmd.Context()

	count, err := db.CountPages(ctx)
	if err != nil {
		return err
	}
	urls, err := db.ListURLs(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d archived page(s) in %s\n", count, db.Path())
	for _, u := range urls {
		fmt.Fprintln(out, u)
	}
	return nil
}

// showHistoryPage replays one archived page in the requested format.
func showHistoryPage(cmd *cobra.Command, db *database.ResultDB, pageURL, format string) error {
	page, err := db.GetPage(cmd.Context(), pageURL)
	if err != nil {
		return err
	}
	if page == nil {
		return fmt.Errorf("no archived result for %s", pageURL)
	}

	writer, err := report.NewWriter(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	_, err = writer.Write([]*model.PageResult{page.Result})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "archived at %s\n", page.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}
