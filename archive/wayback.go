package archive

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// DefaultSaveEndpoint is the Wayback Machine Save Page Now endpoint.
const DefaultSaveEndpoint = "https://web.archive.org/save/"

const waybackUserAgent = "SiloBot/1.0 (+https://github.com/poiesic/silo)"

// WaybackClient implements Client against the Wayback Machine
// Save Page Now API.
type WaybackClient struct {
	endpoint   string
	httpClient *http.Client
}

// WaybackOption configures a WaybackClient.
type WaybackOption func(*WaybackClient)

// WithEndpoint overrides the save endpoint. Used by tests.
func WithEndpoint(endpoint string) WaybackOption {
	return func(w *WaybackClient) {
		if endpoint != "" {
			w.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) WaybackOption {
	return func(w *WaybackClient) {
		if client != nil {
			w.httpClient = client
		}
	}
}

// NewWaybackClient creates a client for the Wayback Machine save API.
// Timeout control is the caller's: the coordinator wraps each Snapshot call
// in its own context deadline.
func NewWaybackClient(opts ...WaybackOption) *WaybackClient {
	w := &WaybackClient{
		endpoint: DefaultSaveEndpoint,
		httpClient: &http.Client{
			// The save endpoint redirects to the capture; we only need the header.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Snapshot requests a capture of url and returns the archive URL announced
// in the response's Content-Location header.
func (w *WaybackClient) Snapshot(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", waybackUserAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	default:
		return "", fmt.Errorf("archival service returned status %s", resp.Status)
	}

	archiveURL := resp.Header.Get("Content-Location")
	if archiveURL == "" {
		return "", fmt.Errorf("archival service returned no capture location")
	}
	if !strings.HasPrefix(archiveURL, "http") {
		archiveURL = "https://web.archive.org" + archiveURL
	}
	return archiveURL, nil
}
