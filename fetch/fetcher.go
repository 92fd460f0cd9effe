package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds one page fetch end to end.
	DefaultTimeout = 12 * time.Second

	// DefaultMaxBodyBytes caps how much of a page is read. Anything larger
	// is not a bookmarkable document.
	DefaultMaxBodyBytes = 5 << 20 // 5 MiB

	// userAgent mimics a desktop browser; many sites serve bots a stub page.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0 Safari/537.36"
)

// Page is the result of fetching one URL.
type Page struct {
	HTML        string
	ContentType string
	FinalURL    string // post-redirect URL
	FetchedAt   time.Time
}

// Fetcher retrieves page content over HTTP.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	logger       *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the default fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = timeout
	}
}

// WithMaxBodyBytes overrides the default body size cap.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests and by
// callers that need custom transports.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a page fetcher with browser-like request headers and a
// bounded timeout.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{Timeout: DefaultTimeout},
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       slog.Default().With("component", "fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the page at url, following redirects. It rejects non-HTML
// content and oversized bodies, and decodes the body to UTF-8 using the
// response's declared charset. All failures return a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: "invalid request", Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("error fetching url", "url", url, "err", err)
		return nil, &FetchError{URL: url, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, Reason: "status " + resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isTextual(contentType) {
		return nil, &FetchError{URL: url, Reason: "unsupported content type " + contentType}
	}

	if resp.ContentLength > f.maxBodyBytes {
		return nil, &FetchError{URL: url, Reason: "body too large"}
	}

	limited := io.LimitReader(resp.Body, f.maxBodyBytes+1)

	// Decode to UTF-8 using the declared charset; pages that lie about
	// their encoding degrade to raw bytes rather than failing the fetch.
	reader, err := charset.NewReader(limited, contentType)
	if err != nil {
		f.logger.Warn("charset detection failed, reading raw body", "url", url, "err", err)
		reader = limited
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &FetchError{URL: url, Reason: "reading body failed", Err: err}
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, &FetchError{URL: url, Reason: "body too large"}
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Page{
		HTML:        string(body),
		ContentType: contentType,
		FinalURL:    finalURL,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// isTextual reports whether the content type can be parsed as markup. An
// absent header is treated as textual; plenty of servers omit it.
func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "html") || strings.Contains(ct, "text") || strings.Contains(ct, "xml")
}
