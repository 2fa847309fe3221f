package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
)

// samplePages builds a small result set covering every facet.
func samplePages() []*model.PageResult {
	depth := 1
	return []*model.PageResult{
		{
			URL:        "https://example.com/",
			StatusCode: 200,
			Title:      "Home",
			Headings:   []string{"Welcome", "Features"},
			Paragraphs: []string{"Intro paragraph.", "Second paragraph."},
			Links: []model.Link{
				{Text: "About", URL: "https://example.com/about"},
			},
			Images: []model.Image{
				{Alt: "", Src: "https://example.com/logo.png"},
			},
			Tables: []model.Table{
				{Headers: []string{"Name"}, Rows: [][]string{{"Alice"}}},
			},
			CodeBlocks: []model.CodeBlock{
				{Content: "fmt.Println(\"hi\")", Language: "go"},
			},
			Metadata: &model.Metadata{Description: "A test page"},
			CustomSelectors: []model.CustomSelectorResult{
				{Selector: ".price", Matches: []string{"$10"}},
			},
		},
		{
			URL:        "https://example.com/about",
			StatusCode: 200,
			Title:      "About",
			Depth:      &depth,
		},
	}
}

// TestNewWriter tests the format-to-writer factory.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	t.Run("creates a writer for every supported format", func(t *testing.T) {
		t.Parallel()

		for _, format := range []string{"json", "csv", "text", "markdown"} {
			if _, err := NewWriter(format, &bytes.Buffer{}); err != nil {
				t.Errorf("expected writer for %q, got %v", format, err)
			}
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		t.Parallel()

		if _, err := NewWriter("xml", &bytes.Buffer{}); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

// TestJSONWriter tests JSON report output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writer := NewJSONWriter(&buf, WithPrettyPrint())

	n, err := writer.Write(samplePages())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(decoded))
	}
	if decoded[0]["url"] != "https://example.com/" {
		t.Errorf("unexpected url field: %v", decoded[0]["url"])
	}
	if decoded[0]["status_code"] != float64(200) {
		t.Errorf("unexpected status_code field: %v", decoded[0]["status_code"])
	}
	if _, ok := decoded[0]["depth"]; ok {
		t.Error("expected depth omitted for non-crawl page")
	}
	if decoded[1]["depth"] != float64(1) {
		t.Errorf("expected depth 1 on crawled page, got %v", decoded[1]["depth"])
	}
}

// TestCSVWriter tests the CSV summary output.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writer := NewCSVWriter(&buf)

	if _, err := writer.Write(samplePages()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}

	wantHeader := "url,status_code,title,headings_count,paragraphs_count,links_count,images_count,tables_count,code_blocks_count,depth"
	if lines[0] != wantHeader {
		t.Errorf("unexpected header:\n got %q\nwant %q", lines[0], wantHeader)
	}
	if lines[1] != "https://example.com/,200,Home,2,2,1,1,1,1," {
		t.Errorf("unexpected first row: %q", lines[1])
	}
	if lines[2] != "https://example.com/about,200,About,0,0,0,0,0,0,1" {
		t.Errorf("unexpected second row: %q", lines[2])
	}
}

// TestTextWriter tests the human-readable text output.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders every facet section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writer := NewTextWriter(&buf)
		if _, err := writer.Write(samplePages()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"URL: https://example.com/\n",
			"Status: 200",
			"Title: Home",
			"Headings (2):",
			"  - Welcome",
			"Paragraphs (2):",
			"  1. Intro paragraph.",
			"Links (1):",
			"  - About (https://example.com/about)",
			"Images (1):",
			"  - No alt text (https://example.com/logo.png)",
			"Tables (1):",
			"    Headers: Name",
			"    Rows: 1",
			"Code Blocks (1):",
			"(go)",
			"Metadata:",
			"  Description: A test page",
			"Custom Selectors:",
			"  '.price' (1 matches):",
			"    1. $10",
			"Depth: 1",
			strings.Repeat("=", 80),
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("long lists are cut off with a more line", func(t *testing.T) {
		t.Parallel()

		page := &model.PageResult{URL: "https://example.com/", StatusCode: 200}
		for i := 0; i < 12; i++ {
			page.Links = append(page.Links, model.Link{Text: "link", URL: "https://example.com/x"})
		}

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write([]*model.PageResult{page}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "... and 2 more") {
			t.Errorf("expected cut-off line, got %q", buf.String())
		}
	})

	t.Run("long text is truncated with an ellipsis", func(t *testing.T) {
		t.Parallel()

		if got := truncateText(strings.Repeat("a", 150), 100); len(got) != 103 || !strings.HasSuffix(got, "...") {
			t.Errorf("unexpected truncation: %q", got)
		}
		if got := truncateText("short", 100); got != "short" {
			t.Errorf("expected short text unchanged, got %q", got)
		}
	})
}

// TestMarkdownWriter tests the Markdown report output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writer := NewMarkdownWriter(&buf)

	if _, err := writer.Write(samplePages()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Web Scrape Report",
		"## Page 1: https://example.com/",
		"### Headings",
		"- Welcome",
		"```go",
		"| URL | Status | Title | Depth | Links |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}
}

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	multi := NewMultiWriter(NewTextWriter(&a), NewCSVWriter(&b))

	if _, err := multi.Write(samplePages()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}
