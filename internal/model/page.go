package model

// PageResult holds everything extracted from a single fetched page.
// It is immutable once produced by the scraper: the spider appends it to the
// result list and the report writers only read it.
//
// Design decision: We keep one flat result struct rather than per-facet
// result types because:
//  1. A page is extracted in a single pass and consumed as a unit
//  2. Report writers iterate facets without type switches
//  3. The JSON shape matches the tool's documented output format
type PageResult struct {
	// URL is the URL the page was fetched from.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Title is the text of the first <title> element, trimmed.
	// Empty when the page has no title.
	Title string `json:"title,omitempty"`

	// Headings contains the text of all h1..h6 elements, trimmed,
	// blank ones dropped.
	Headings []string `json:"headings"`

	// Paragraphs contains the text of all <p> elements, trimmed,
	// blank ones dropped.
	Paragraphs []string `json:"paragraphs"`

	// Links contains every anchor with an href, URL resolved to absolute.
	Links []Link `json:"links"`

	// Images contains every <img> with a src, src resolved to absolute.
	Images []Image `json:"images"`

	// Tables contains extracted tables. Tables with neither headers nor
	// rows are dropped.
	Tables []Table `json:"tables,omitempty"`

	// CodeBlocks contains <pre>/<code> content with optional language hints.
	CodeBlocks []CodeBlock `json:"code_blocks,omitempty"`

	// Metadata holds meta-tag and link-element metadata.
	// Nil unless metadata extraction was requested.
	Metadata *Metadata `json:"metadata,omitempty"`

	// CustomSelectors holds the matches for each user-supplied CSS
	// selector, in request order.
	CustomSelectors []CustomSelectorResult `json:"custom_selectors,omitempty"`

	// Depth is the crawl depth at which this page was fetched.
	// Nil in non-crawl mode where no traversal takes place.
	Depth *int `json:"depth,omitempty"`
}

// Link is a hyperlink extracted from an anchor element.
// URL is always absolute after normalization.
type Link struct {
	// Text is the anchor's trimmed text, falling back to the raw href
	// when the anchor has no text.
	Text string `json:"text"`

	// URL is the absolute link target.
	URL string `json:"url"`
}

// Image is an image reference extracted from an <img> element.
// Src is always absolute after normalization.
type Image struct {
	// Alt is the alt text, empty when absent.
	Alt string `json:"alt"`

	// Src is the absolute image source.
	Src string `json:"src"`
}

// Table is an extracted HTML table.
type Table struct {
	// Headers contains the non-blank <th> cell texts.
	Headers []string `json:"headers"`

	// Rows contains, per <tr> with at least one <td>, the cell texts.
	Rows [][]string `json:"rows"`
}

// CodeBlock is a code fragment from a <pre> or <code> element.
// Content keeps its original whitespace.
type CodeBlock struct {
	// Content is the code text as it appeared in the document.
	Content string `json:"content"`

	// Language is the hint from a "language-" or "lang-" class token,
	// empty when the element carries none.
	Language string `json:"language,omitempty"`
}

// Metadata holds page metadata from <meta> and <link> elements.
// Each field is independently present or absent.
type Metadata struct {
	Description   string `json:"description,omitempty"`
	Keywords      string `json:"keywords,omitempty"`
	Author        string `json:"author,omitempty"`
	OGTitle       string `json:"og_title,omitempty"`
	OGDescription string `json:"og_description,omitempty"`
	OGImage       string `json:"og_image,omitempty"`
	OGURL         string `json:"og_url,omitempty"`
	CanonicalURL  string `json:"canonical_url,omitempty"`
	Favicon       string `json:"favicon,omitempty"`
}

// IsEmpty reports whether no metadata field was found.
func (m *Metadata) IsEmpty() bool {
	return m == nil || *m == Metadata{}
}

// CustomSelectorResult holds the matches for one user-supplied selector.
type CustomSelectorResult struct {
	// Selector is the CSS selector string as given by the user.
	Selector string `json:"selector"`

	// Matches contains the trimmed non-blank text of each matching element.
	Matches []string `json:"matches"`
}
