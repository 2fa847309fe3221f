package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
)

// ErrUnknownFormat is returned for a format name no writer implements.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer defines the interface for report output.
// Implementations write scraped pages in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(results []*model.PageResult) (int, error)
}

// NewWriter creates a Writer for the named format writing to output.
// Supported formats are json, csv, text and markdown.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case "json":
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case "csv":
		return NewCSVWriter(output), nil
	case "text":
		return NewTextWriter(output), nil
	case "markdown":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FileExtension returns the file extension for the named format, used
// when building per-page output file names.
func FileExtension(format string) string {
	switch format {
	case "json":
		return "json"
	case "csv":
		return "csv"
	case "markdown":
		return "md"
	default:
		return "txt"
	}
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(results []*model.PageResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
