package extract

import (
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/poiesic/silo/core"
)

const (
	// MaxTextRunes bounds the cleaned text passed downstream, capping the
	// token cost of AI analysis.
	MaxTextRunes = 20000

	// wordsPerMinute is the reading speed used for read-time estimates.
	wordsPerMinute = 200
)

// Result holds everything extracted from one page.
type Result struct {
	Title       string
	Description string
	Metadata    core.Metadata
	Text        string // cleaned plain-text body
}

// strippedSelectors are removed before text extraction: non-content blocks
// that would pollute summaries and embeddings.
var strippedSelectors = []string{"script", "style", "noscript", "nav", "header", "footer", "aside", "form"}

// Extract parses page markup and produces structured metadata plus a cleaned
// plain-text body. pageURL is the fetched (post-redirect) URL and is used to
// resolve relative references and as the canonical fallback.
func Extract(html, pageURL string) (*Result, error) {
	if strings.TrimSpace(html) == "" {
		return nil, &ExtractionError{URL: pageURL, Reason: "empty document"}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ExtractionError{URL: pageURL, Reason: "unparseable markup", Err: err}
	}

	base, _ := url.Parse(pageURL)

	text := cleanText(doc)
	words := len(strings.Fields(text))

	result := &Result{
		Title:       resolveTitle(doc, pageURL),
		Description: metaContent(doc, "og:description", "description", "twitter:description"),
		Text:        text,
		Metadata: core.Metadata{
			Favicon:     absoluteURL(faviconHref(doc), base),
			Author:      metaContent(doc, "author", "article:author", "og:author", "twitter:creator"),
			PublishedAt: metaContent(doc, "article:published_time", "og:published_time", "publication_date", "date"),
			Language:    pageLanguage(doc),
			Canonical:   resolveCanonical(doc, base, pageURL),
			WordCount:   words,
			ReadMinutes: readMinutes(words),
		},
	}

	return result, nil
}

// resolveTitle applies the title precedence: social preview tag, <title>,
// first heading, then the URL path.
func resolveTitle(doc *goquery.Document, pageURL string) string {
	if title := metaContent(doc, "og:title", "twitter:title"); title != "" {
		return title
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if heading := strings.TrimSpace(doc.Find("h1").First().Text()); heading != "" {
		return heading
	}
	return titleFromURL(pageURL)
}

// titleFromURL derives a last-resort title from the URL path.
func titleFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return u.Host
	}
	segment := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		segment = path[idx+1:]
	}
	segment = strings.NewReplacer("-", " ", "_", " ").Replace(segment)
	return strings.TrimSpace(segment)
}

// resolveCanonical returns the page's declared canonical URL when it
// resolves against the fetched URL's scheme, else the fetched URL.
func resolveCanonical(doc *goquery.Document, base *url.URL, pageURL string) string {
	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return pageURL
	}
	resolved := absoluteURL(strings.TrimSpace(href), base)
	u, err := url.Parse(resolved)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return pageURL
	}
	return resolved
}

// metaContent returns the first non-empty content attribute among meta tags
// matching any of the given names or properties, in order.
func metaContent(doc *goquery.Document, names ...string) string {
	for _, name := range names {
		for _, sel := range []string{`meta[property="` + name + `"]`, `meta[name="` + name + `"]`} {
			if content, ok := doc.Find(sel).First().Attr("content"); ok {
				if trimmed := strings.TrimSpace(content); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}

func faviconHref(doc *goquery.Document) string {
	href := ""
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		if strings.Contains(strings.ToLower(rel), "icon") {
			if h, ok := s.Attr("href"); ok && strings.TrimSpace(h) != "" {
				href = strings.TrimSpace(h)
				return false
			}
		}
		return true
	})
	return href
}

func pageLanguage(doc *goquery.Document) string {
	lang, _ := doc.Find("html").First().Attr("lang")
	return strings.ToLower(strings.TrimSpace(lang))
}

// cleanText strips non-content blocks and collapses whitespace runs, bounded
// to MaxTextRunes.
func cleanText(doc *goquery.Document) string {
	stripped := doc.Clone()
	stripped.Find(strings.Join(strippedSelectors, ", ")).Remove()

	text := strings.Join(strings.Fields(stripped.Find("body").Text()), " ")
	if text == "" {
		text = strings.Join(strings.Fields(stripped.Text()), " ")
	}

	runes := []rune(text)
	if len(runes) > MaxTextRunes {
		text = string(runes[:MaxTextRunes])
	}
	return text
}

// readMinutes estimates reading time, rounded up, minimum one minute for
// any non-empty text.
func readMinutes(words int) int {
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// absoluteURL resolves href against base; href is returned as-is when base
// is unavailable.
func absoluteURL(href string, base *url.URL) string {
	if href == "" {
		return ""
	}
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
