package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
)

// Preview limits for the text report. Long facet lists are cut off with
// an "and N more" line so a single page stays readable in a terminal.
const (
	paragraphPreview  = 5
	linkPreview       = 10
	imagePreview      = 5
	tablePreview      = 3
	codeBlockPreview  = 3
	selectorPreview   = 3
	paragraphMaxChars = 100
	codeMaxChars      = 60
)

// pageSeparator divides pages in multi-page text reports.
var pageSeparator = "\n\n" + strings.Repeat("=", 80) + "\n\n"

// TextWriter outputs a human-readable text report for terminal display.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the text report.
func (w *TextWriter) Write(results []*model.PageResult) (int, error) {
	var sb strings.Builder

	for i, page := range results {
		if i > 0 {
			sb.WriteString(pageSeparator)
		}
		w.writePage(&sb, page)
	}

	return io.WriteString(w.output, sb.String())
}

// writePage renders one scraped page.
func (w *TextWriter) writePage(sb *strings.Builder, page *model.PageResult) {
	fmt.Fprintf(sb, "URL: %s\n", page.URL)
	fmt.Fprintf(sb, "Status: %d\n", page.StatusCode)
	if page.Depth != nil {
		fmt.Fprintf(sb, "Depth: %d\n", *page.Depth)
	}
	if page.Title != "" {
		fmt.Fprintf(sb, "Title: %s\n", page.Title)
	}

	if len(page.Headings) > 0 {
		fmt.Fprintf(sb, "\nHeadings (%d):\n", len(page.Headings))
		for _, heading := range page.Headings {
			fmt.Fprintf(sb, "  - %s\n", heading)
		}
	}

	if len(page.Paragraphs) > 0 {
		fmt.Fprintf(sb, "\nParagraphs (%d):\n", len(page.Paragraphs))
		for i, para := range page.Paragraphs {
			if i >= paragraphPreview {
				break
			}
			fmt.Fprintf(sb, "  %d. %s\n", i+1, truncateText(para, paragraphMaxChars))
		}
		writeMoreLine(sb, "  ", len(page.Paragraphs), paragraphPreview)
	}

	if len(page.Links) > 0 {
		fmt.Fprintf(sb, "\nLinks (%d):\n", len(page.Links))
		for i, link := range page.Links {
			if i >= linkPreview {
				break
			}
			fmt.Fprintf(sb, "  - %s (%s)\n", link.Text, link.URL)
		}
		writeMoreLine(sb, "  ", len(page.Links), linkPreview)
	}

	if len(page.Images) > 0 {
		fmt.Fprintf(sb, "\nImages (%d):\n", len(page.Images))
		for i, img := range page.Images {
			if i >= imagePreview {
				break
			}
			alt := img.Alt
			if alt == "" {
				alt = "No alt text"
			}
			fmt.Fprintf(sb, "  - %s (%s)\n", alt, img.Src)
		}
		writeMoreLine(sb, "  ", len(page.Images), imagePreview)
	}

	if len(page.Tables) > 0 {
		fmt.Fprintf(sb, "\nTables (%d):\n", len(page.Tables))
		for i, table := range page.Tables {
			if i >= tablePreview {
				break
			}
			fmt.Fprintf(sb, "  Table %d:\n", i+1)
			if len(table.Headers) > 0 {
				fmt.Fprintf(sb, "    Headers: %s\n", strings.Join(table.Headers, ", "))
			}
			fmt.Fprintf(sb, "    Rows: %d\n", len(table.Rows))
		}
		writeMoreLine(sb, "  ", len(page.Tables), tablePreview)
	}

	if len(page.CodeBlocks) > 0 {
		fmt.Fprintf(sb, "\nCode Blocks (%d):\n", len(page.CodeBlocks))
		for i, code := range page.CodeBlocks {
			if i >= codeBlockPreview {
				break
			}
			lang := ""
			if code.Language != "" {
				lang = fmt.Sprintf(" (%s)", code.Language)
			}
			fmt.Fprintf(sb, "  %d. %s%s\n", i+1, truncateText(code.Content, codeMaxChars), lang)
		}
		writeMoreLine(sb, "  ", len(page.CodeBlocks), codeBlockPreview)
	}

	if page.Metadata != nil {
		w.writeMetadata(sb, page.Metadata)
	}

	if len(page.CustomSelectors) > 0 {
		w.writeCustomSelectors(sb, page.CustomSelectors)
	}
}

// writeMetadata renders the metadata section, skipping unset fields.
func (w *TextWriter) writeMetadata(sb *strings.Builder, md *model.Metadata) {
	sb.WriteString("\nMetadata:\n")
	if md.Description != "" {
		fmt.Fprintf(sb, "  Description: %s\n", md.Description)
	}
	if md.Keywords != "" {
		fmt.Fprintf(sb, "  Keywords: %s\n", md.Keywords)
	}
	if md.Author != "" {
		fmt.Fprintf(sb, "  Author: %s\n", md.Author)
	}
	if md.OGTitle != "" {
		fmt.Fprintf(sb, "  OG Title: %s\n", md.OGTitle)
	}
	if md.OGImage != "" {
		fmt.Fprintf(sb, "  OG Image: %s\n", md.OGImage)
	}
}

// writeCustomSelectors renders the custom selector section.
func (w *TextWriter) writeCustomSelectors(sb *strings.Builder, results []model.CustomSelectorResult) {
	sb.WriteString("\nCustom Selectors:\n")
	for _, result := range results {
		fmt.Fprintf(sb, "  '%s' (%d matches):\n", result.Selector, len(result.Matches))
		for i, match := range result.Matches {
			if i >= selectorPreview {
				break
			}
			fmt.Fprintf(sb, "    %d. %s\n", i+1, match)
		}
		writeMoreLine(sb, "    ", len(result.Matches), selectorPreview)
	}
}

// writeMoreLine appends an "and N more" line when the list was cut off.
func writeMoreLine(sb *strings.Builder, indent string, total, limit int) {
	if total > limit {
		fmt.Fprintf(sb, "%s... and %d more\n", indent, total-limit)
	}
}

// truncateText cuts text at maxLen bytes and appends an ellipsis.
func truncateText(text string, maxLen int) string {
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
