package core

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// trackingParams are query parameters stripped during URL normalization.
// They identify the share, not the page.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"msclkid": true,
	"ref_src": true,
}

var entityFolder = cases.Fold()

// NormalizeURL canonicalizes a raw URL so equivalent shares of the same page
// map to one link identity: lowercased scheme and host, default port and
// fragment dropped, tracking parameters removed, trailing slash trimmed on
// non-root paths. A URL without a scheme is assumed to be https.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrEmptyURL
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}

	host := strings.ToLower(u.Host)
	// Only the port that is the scheme's default is redundant; an
	// explicit :80 on https names a different origin.
	switch u.Scheme {
	case "http":
		host = strings.TrimSuffix(host, ":80")
	case "https":
		host = strings.TrimSuffix(host, ":443")
	}
	if host == "" {
		return "", ErrInvalidURL
	}
	u.Host = host
	u.Fragment = ""

	if u.RawQuery != "" {
		values := u.Query()
		for param := range values {
			if trackingParams[param] || strings.HasPrefix(param, "utm_") {
				values.Del(param)
			}
		}
		u.RawQuery = values.Encode()
	}

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), nil
}

// Domain extracts the lowercased host from a normalized URL.
func Domain(normalizedURL string) string {
	u, err := url.Parse(normalizedURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// NormalizeEntity folds an entity name into its canonical matching form:
// Unicode case folding, NFC normalization, and whitespace runs collapsed to
// single spaces. Stored entities and query-side "from <name>" terms go
// through the same fold so they compare equal.
func NormalizeEntity(name string) string {
	folded := entityFolder.String(norm.NFC.String(name))
	return strings.Join(strings.Fields(folded), " ")
}
