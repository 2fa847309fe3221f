package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown rendering
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the Markdown report: a summary table followed by one
// section per page.
func (w *MarkdownWriter) Write(results []*model.PageResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Web Scrape Report")
	md.PlainText("")
	md.PlainTextf("Scraped %d page(s).", len(results))
	md.PlainText("")

	w.writeSummary(md, results)

	for i, page := range results {
		w.writePage(md, i+1, page)
	}

	return len(md.String()), md.Build()
}

// writeSummary writes the per-page overview table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, results []*model.PageResult) {
	rows := make([][]string, 0, len(results))
	for _, page := range results {
		depth := "-"
		if page.Depth != nil {
			depth = strconv.Itoa(*page.Depth)
		}
		rows = append(rows, []string{
			"`" + page.URL + "`",
			strconv.Itoa(page.StatusCode),
			page.Title,
			depth,
			strconv.Itoa(len(page.Links)),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Status", "Title", "Depth", "Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePage writes one page section with its extracted facets.
func (w *MarkdownWriter) writePage(md *markdown.Markdown, index int, page *model.PageResult) {
	md.H2(fmt.Sprintf("Page %d: %s", index, page.URL))
	md.PlainText("")

	if len(page.Headings) > 0 {
		md.H3("Headings")
		md.BulletList(page.Headings...)
		md.PlainText("")
	}

	if len(page.Paragraphs) > 0 {
		md.H3(fmt.Sprintf("Paragraphs (%d)", len(page.Paragraphs)))
		for i, para := range page.Paragraphs {
			if i >= paragraphPreview {
				md.PlainTextf("... and %d more", len(page.Paragraphs)-paragraphPreview)
				break
			}
			md.PlainText(para)
			md.PlainText("")
		}
	}

	if len(page.Links) > 0 {
		rows := make([][]string, 0, len(page.Links))
		for i, link := range page.Links {
			if i >= linkPreview {
				break
			}
			rows = append(rows, []string{link.Text, "`" + link.URL + "`"})
		}
		md.H3(fmt.Sprintf("Links (%d)", len(page.Links)))
		md.Table(markdown.TableSet{
			Header: []string{"Text", "URL"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(page.Images) > 0 {
		rows := make([][]string, 0, len(page.Images))
		for i, img := range page.Images {
			if i >= imagePreview {
				break
			}
			rows = append(rows, []string{img.Alt, "`" + img.Src + "`"})
		}
		md.H3(fmt.Sprintf("Images (%d)", len(page.Images)))
		md.Table(markdown.TableSet{
			Header: []string{"Alt", "Source"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	for i, table := range page.Tables {
		if i >= tablePreview {
			break
		}
		md.H3(fmt.Sprintf("Table %d", i+1))
		md.Table(markdown.TableSet{
			Header: tableHeader(table),
			Rows:   squareRows(table),
		})
		md.PlainText("")
	}

	for i, code := range page.CodeBlocks {
		if i >= codeBlockPreview {
			break
		}
		md.H3(fmt.Sprintf("Code Block %d", i+1))
		md.CodeBlocks(markdown.SyntaxHighlight(code.Language), strings.TrimRight(code.Content, "\n"))
		md.PlainText("")
	}

	if page.Metadata != nil {
		w.writeMetadata(md, page.Metadata)
	}

	for _, result := range page.CustomSelectors {
		md.H3(fmt.Sprintf("Selector `%s` (%d matches)", result.Selector, len(result.Matches)))
		if len(result.Matches) > 0 {
			md.BulletList(result.Matches...)
		}
		md.PlainText("")
	}
}

// writeMetadata writes the page metadata as a property table.
func (w *MarkdownWriter) writeMetadata(md *markdown.Markdown, meta *model.Metadata) {
	rows := make([][]string, 0, 9)
	add := func(name, value string) {
		if value != "" {
			rows = append(rows, []string{name, value})
		}
	}
	add("Description", meta.Description)
	add("Keywords", meta.Keywords)
	add("Author", meta.Author)
	add("OG Title", meta.OGTitle)
	add("OG Description", meta.OGDescription)
	add("OG Image", meta.OGImage)
	add("OG URL", meta.OGURL)
	add("Canonical URL", meta.CanonicalURL)
	add("Favicon", meta.Favicon)

	if len(rows) == 0 {
		return
	}

	md.H3("Metadata")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// tableHeader returns the extracted headers, or generated column names
// when the table had none, since markdown tables need a header row.
func tableHeader(table model.Table) []string {
	if len(table.Headers) > 0 {
		return table.Headers
	}
	width := tableWidth(table)
	header := make([]string, width)
	for i := range header {
		header[i] = fmt.Sprintf("Column %d", i+1)
	}
	return header
}

// squareRows pads every row to the table's widest row so the markdown
// table renders with a consistent column count.
func squareRows(table model.Table) [][]string {
	width := tableWidth(table)
	rows := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		padded := make([]string, width)
		copy(padded, row)
		rows = append(rows, padded)
	}
	return rows
}

// tableWidth returns the widest row or header length of the table.
func tableWidth(table model.Table) int {
	width := len(table.Headers)
	for _, row := range table.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}
