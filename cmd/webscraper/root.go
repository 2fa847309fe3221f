// Package main provides the entry point for the webscraper CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for webscraper.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webscraper",
		Short: "Extract structured content from web pages",
		Long: `webscraper fetches web pages and extracts structured content from them:
titles, headings, paragraphs, links, images, tables, code blocks and
page metadata.

It can scrape a fixed list of URLs or crawl a site breadth-first,
staying within configurable domain boundaries and pausing politely
between requests.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Only log errors and suppress stdout reports")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
