package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/abdulwahed-sweden/simple-web-scraper/internal/model"
)

// headingTags are the heading levels extracted, in extraction order.
var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// Extractor pulls structured facets out of a parsed document.
// One Extractor is created per page; the base URL is the URL the page was
// fetched from and is used to resolve relative link and image targets.
//
// Design decision: Each facet is extracted independently so that one
// malformed construct (a broken table, an unresolvable href) never blocks
// the other facets. The only fatal condition is an invalid user-supplied
// selector, which is a configuration error rather than a page condition.
type Extractor struct {
	// baseURL is the URL of the page being extracted.
	baseURL *url.URL

	// selectors are the user-supplied CSS selectors, in request order.
	selectors []string

	// withMetadata enables meta-tag and link-element metadata extraction.
	withMetadata bool
}

// NewExtractor creates an extractor for a page fetched from pageURL.
func NewExtractor(pageURL string, selectors []string, withMetadata bool) (*Extractor, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidURL, pageURL, err)
	}
	return &Extractor{
		baseURL:      u,
		selectors:    selectors,
		withMetadata: withMetadata,
	}, nil
}

// Extract runs every facet extraction against the document and returns a
// PageResult with the content facets populated. URL, status code and depth
// are filled in by the caller. The only possible error is an invalid
// custom selector.
func (e *Extractor) Extract(doc *goquery.Document) (*model.PageResult, error) {
	result := &model.PageResult{
		Title:      e.Title(doc),
		Headings:   e.Headings(doc),
		Paragraphs: e.Paragraphs(doc),
		Links:      e.Links(doc),
		Images:     e.Images(doc),
		Tables:     e.Tables(doc),
		CodeBlocks: e.CodeBlocks(doc),
	}

	if e.withMetadata {
		result.Metadata = e.Metadata(doc)
	}

	custom, err := e.CustomSelectors(doc)
	if err != nil {
		return nil, err
	}
	result.CustomSelectors = custom

	return result, nil
}

// Title returns the trimmed text of the first <title> element, or the
// empty string when the document has none.
func (e *Extractor) Title(doc *goquery.Document) string {
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(title.Text())
}

// Headings returns the trimmed text of all h1..h6 elements, grouped by
// level, blank ones dropped.
func (e *Extractor) Headings(doc *goquery.Document) []string {
	headings := make([]string, 0)
	for _, tag := range headingTags {
		doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				headings = append(headings, text)
			}
		})
	}
	return headings
}

// Paragraphs returns the trimmed text of all <p> elements, blank ones
// dropped.
func (e *Extractor) Paragraphs(doc *goquery.Document) []string {
	paragraphs := make([]string, 0)
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return paragraphs
}

// Links returns every anchor with an href, resolved to an absolute URL.
// Anchors whose href cannot be normalized are dropped. An anchor with no
// text uses the raw href as its text.
func (e *Extractor) Links(doc *goquery.Document) []model.Link {
	links := make([]model.Link, 0)
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		absolute, ok := NormalizeURL(e.baseURL, href)
		if !ok {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			text = href
		}
		links = append(links, model.Link{Text: text, URL: absolute})
	})
	return links
}

// Images returns every <img> with a src, resolved to an absolute URL.
// The alt text defaults to the empty string.
func (e *Extractor) Images(doc *goquery.Document) []model.Image {
	images := make([]model.Image, 0)
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		absolute, ok := NormalizeURL(e.baseURL, src)
		if !ok {
			return
		}
		alt, _ := s.Attr("alt")
		images = append(images, model.Image{Alt: alt, Src: absolute})
	})
	return images
}

// Tables extracts every table's header cells and rows. A table with
// neither headers nor rows is dropped.
//
// Each table's inner markup is re-parsed as an isolated fragment so that
// the header and cell queries only run against that table's own subtree
// rather than the whole document. Cells of a nested table therefore also
// match the outer table's queries; that merge is the documented behavior.
func (e *Extractor) Tables(doc *goquery.Document) []model.Table {
	tables := make([]model.Table, 0)
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		inner, err := s.Html()
		if err != nil {
			return
		}
		fragment, err := goquery.NewDocumentFromReader(strings.NewReader("<table>" + inner + "</table>"))
		if err != nil {
			return
		}

		headers := make([]string, 0)
		fragment.Find("th").Each(func(_ int, th *goquery.Selection) {
			if text := strings.TrimSpace(th.Text()); text != "" {
				headers = append(headers, text)
			}
		})

		rows := make([][]string, 0)
		fragment.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := make([]string, 0)
			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(td.Text()))
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})

		if len(headers) == 0 && len(rows) == 0 {
			return
		}
		tables = append(tables, model.Table{Headers: headers, Rows: rows})
	})
	return tables
}

// CodeBlocks extracts code from three places: <code> children of <pre>
// elements, bare <pre> elements with no <code> child, and inline <code>
// elements outside any <pre>. Content keeps its original whitespace;
// blocks that are blank after trimming are dropped.
func (e *Extractor) CodeBlocks(doc *goquery.Document) []model.CodeBlock {
	blocks := make([]model.CodeBlock, 0)

	doc.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		codes := pre.Find("code")
		if codes.Length() > 0 {
			codes.Each(func(_ int, code *goquery.Selection) {
				content := code.Text()
				if strings.TrimSpace(content) == "" {
					return
				}
				blocks = append(blocks, model.CodeBlock{
					Content:  content,
					Language: languageFromClass(code),
				})
			})
			return
		}

		content := pre.Text()
		if strings.TrimSpace(content) == "" {
			return
		}
		blocks = append(blocks, model.CodeBlock{Content: content})
	})

	doc.Find("code").Each(func(_ int, code *goquery.Selection) {
		if insidePre(code) {
			return
		}
		content := code.Text()
		if strings.TrimSpace(content) == "" {
			return
		}
		blocks = append(blocks, model.CodeBlock{
			Content:  content,
			Language: languageFromClass(code),
		})
	})

	return blocks
}

// insidePre reports whether the selection's node has a <pre> ancestor.
// The document owns its node tree, so this is a plain parent-pointer walk.
func insidePre(s *goquery.Selection) bool {
	if len(s.Nodes) == 0 {
		return false
	}
	for n := s.Nodes[0].Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.Data == "pre" {
			return true
		}
	}
	return false
}

// languageFromClass infers a code language from a class token with a
// "language-" or "lang-" prefix, e.g. "language-rust" or "lang-python".
func languageFromClass(s *goquery.Selection) string {
	class, _ := s.Attr("class")
	for _, token := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(token, "language-"); ok {
			return lang
		}
		if lang, ok := strings.CutPrefix(token, "lang-"); ok {
			return lang
		}
	}
	return ""
}

// Metadata scans <meta> elements (keyed by name or property, lowercased)
// for the known description, keywords, author and Open Graph fields, and
// <link> elements for the canonical URL and favicon. Values are stored
// as they appear in the markup.
func (e *Extractor) Metadata(doc *goquery.Document) *model.Metadata {
	md := &model.Metadata{}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok {
			name, ok = s.Attr("property") // Open Graph uses property
		}
		content, okContent := s.Attr("content")
		if !ok || !okContent {
			return
		}

		switch strings.ToLower(name) {
		case "description":
			md.Description = content
		case "keywords":
			md.Keywords = content
		case "author":
			md.Author = content
		case "og:title":
			md.OGTitle = content
		case "og:description":
			md.OGDescription = content
		case "og:image":
			md.OGImage = content
		case "og:url":
			md.OGURL = content
		}
	})

	doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		rel, okRel := s.Attr("rel")
		href, okHref := s.Attr("href")
		if !okRel || !okHref {
			return
		}

		switch strings.ToLower(rel) {
		case "canonical":
			md.CanonicalURL = href
		case "icon", "shortcut icon":
			md.Favicon = href
		}
	})

	return md
}

// CustomSelectors evaluates each user-supplied selector in request order
// and collects the trimmed non-blank text of the matching elements.
//
// An invalid selector wraps ErrInvalidSelector; the caller treats it as a
// fatal configuration error for the whole run, not a per-page failure.
// We compile with cascadia directly because goquery's Find panics on bad
// selectors instead of returning an error.
func (e *Extractor) CustomSelectors(doc *goquery.Document) ([]model.CustomSelectorResult, error) {
	results := make([]model.CustomSelectorResult, 0, len(e.selectors))

	for _, selector := range e.selectors {
		matcher, err := cascadia.Compile(selector)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, selector, err)
		}

		matches := make([]string, 0)
		doc.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				matches = append(matches, text)
			}
		})

		results = append(results, model.CustomSelectorResult{
			Selector: selector,
			Matches:  matches,
		})
	}

	return results, nil
}
