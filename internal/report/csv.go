package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
)

// csvHeader is the column layout of the CSV report. One row per page,
// with counts instead of full content so the file stays spreadsheet-sized.
var csvHeader = []string{
	"url",
	"status_code",
	"title",
	"headings_count",
	"paragraphs_count",
	"links_count",
	"images_count",
	"tables_count",
	"code_blocks_count",
	"depth",
}

// CSVWriter outputs one summary row per scraped page.
//
// Design decision: We use the standard encoding/csv package; it handles
// quoting and escaping, and none of the example data needs anything a
// full CSV library would add.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the CSV report. The depth column is empty for pages
// scraped outside crawl mode.
func (w *CSVWriter) Write(results []*model.PageResult) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	for _, page := range results {
		depth := ""
		if page.Depth != nil {
			depth = strconv.Itoa(*page.Depth)
		}

		record := []string{
			page.URL,
			strconv.Itoa(page.StatusCode),
			page.Title,
			strconv.Itoa(len(page.Headings)),
			strconv.Itoa(len(page.Paragraphs)),
			strconv.Itoa(len(page.Links)),
			strconv.Itoa(len(page.Images)),
			strconv.Itoa(len(page.Tables)),
			strconv.Itoa(len(page.CodeBlocks)),
			depth,
		}
		if err := cw.Write(record); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
