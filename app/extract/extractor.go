package extract

import (
	"log/slog"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"
)

// Fields maps a content key to the text extracted for it.
type Fields map[string][]string

// Meta holds page-level metadata: every name/property meta tag pair passed
// through verbatim, plus the resolved domain and source URL.
type Meta map[string]string

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run extracts structured fields and metadata from raw markup. With explicit
// selectors, each key yields the text of its matches (an empty list when
// nothing matches). Without selectors it falls back to a fixed heuristic
// set - title, h1-h3 headings, paragraphs, link targets and the full visible
// text - which tolerates structural site changes. Malformed markup is parsed
// best-effort and never returns an error.
func (e *Extractor) Run(markup string, pageURL string, selectors map[string]string) (Fields, Meta) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Warn("Failed to parse markup, returning empty extraction", "url", pageURL, "error", err)
		return Fields{}, baseMeta(pageURL)
	}

	var fields Fields
	if len(selectors) > 0 {
		fields = e.extractBySelectors(doc, selectors)
	} else {
		fields = e.extractHeuristic(doc, markup)
	}

	return fields, e.extractMeta(doc, pageURL)
}

// MainText returns the page's primary readable text, used as the canonical
// content for hashing and free-text cleaning.
func (e *Extractor) MainText(markup string, pageURL string) string {
	parsed, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(markup), parsed)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text
		}
	}

	// Readability found no article body; fall back to the visible text.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup
	}
	return visibleText(doc)
}

func (e *Extractor) extractBySelectors(doc *goquery.Document, selectors map[string]string) Fields {
	fields := make(Fields, len(selectors))
	for key, selector := range selectors {
		texts := []string{}
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(sel.Text()))
		})
		fields[key] = texts
	}
	return fields
}

func (e *Extractor) extractHeuristic(doc *goquery.Document, markup string) Fields {
	fields := Fields{
		"title":      []string{},
		"headings":   []string{},
		"paragraphs": []string{},
		"links":      []string{},
		"main_text":  []string{},
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		fields["title"] = []string{title}
	}

	doc.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			fields["headings"] = append(fields["headings"], text)
		}
	})

	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			fields["paragraphs"] = append(fields["paragraphs"], text)
		}
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			fields["links"] = append(fields["links"], href)
		}
	})

	if text := visibleText(doc); text != "" {
		fields["main_text"] = []string{text}
	}

	return fields
}

func (e *Extractor) extractMeta(doc *goquery.Document, pageURL string) Meta {
	meta := baseMeta(pageURL)

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok {
			name, ok = sel.Attr("property")
		}
		content, hasContent := sel.Attr("content")
		if ok && name != "" && hasContent {
			meta[name] = content
		}
	})

	return meta
}

func baseMeta(pageURL string) Meta {
	meta := Meta{"url": pageURL}
	if parsed, err := url.Parse(pageURL); err == nil {
		meta["domain"] = parsed.Host
	}
	return meta
}

func visibleText(doc *goquery.Document) string {
	clone := doc.Selection.Clone()
	clone.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(clone.Text()), " ")
}
