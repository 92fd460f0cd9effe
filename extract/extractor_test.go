package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html lang="en-US">
<head>
	<title>Document Title</title>
	<meta property="og:title" content="Social Title">
	<meta property="og:description" content="A social description.">
	<meta name="author" content="Jane Writer">
	<meta property="article:published_time" content="2024-03-01T10:00:00Z">
	<link rel="icon" href="/favicon.ico">
	<link rel="canonical" href="https://example.com/canonical-post">
	<script>var tracking = true;</script>
	<style>body { color: red; }</style>
</head>
<body>
	<nav>Home About Contact</nav>
	<h1>Visible Heading</h1>
	<p>First paragraph of real content.</p>
	<p>Second   paragraph with   extra whitespace.</p>
	<footer>Copyright notice</footer>
</body>
</html>`

func TestExtract(t *testing.T) {
	result, err := Extract(samplePage, "https://example.com/post")
	require.NoError(t, err)

	t.Run("title prefers social preview", func(t *testing.T) {
		assert.Equal(t, "Social Title", result.Title)
	})

	t.Run("description from og tag", func(t *testing.T) {
		assert.Equal(t, "A social description.", result.Description)
	})

	t.Run("metadata fields", func(t *testing.T) {
		assert.Equal(t, "Jane Writer", result.Metadata.Author)
		assert.Equal(t, "2024-03-01T10:00:00Z", result.Metadata.PublishedAt)
		assert.Equal(t, "en-us", result.Metadata.Language)
		assert.Equal(t, "https://example.com/favicon.ico", result.Metadata.Favicon)
		assert.Equal(t, "https://example.com/canonical-post", result.Metadata.Canonical)
	})

	t.Run("text excludes non-content blocks", func(t *testing.T) {
		assert.Contains(t, result.Text, "First paragraph of real content.")
		assert.NotContains(t, result.Text, "tracking")
		assert.NotContains(t, result.Text, "color: red")
		assert.NotContains(t, result.Text, "Home About Contact")
		assert.NotContains(t, result.Text, "Copyright notice")
	})

	t.Run("whitespace collapsed", func(t *testing.T) {
		assert.Contains(t, result.Text, "Second paragraph with extra whitespace.")
	})

	t.Run("read time minimum one minute", func(t *testing.T) {
		assert.Greater(t, result.Metadata.WordCount, 0)
		assert.Equal(t, 1, result.Metadata.ReadMinutes)
	})
}

func TestResolveTitlePrecedence(t *testing.T) {
	t.Run("falls back to document title", func(t *testing.T) {
		result, err := Extract(`<html><head><title>Doc Title</title></head><body><h1>Heading</h1></body></html>`, "https://example.com/x")
		require.NoError(t, err)
		assert.Equal(t, "Doc Title", result.Title)
	})

	t.Run("falls back to first heading", func(t *testing.T) {
		result, err := Extract(`<html><body><h1>Only Heading</h1></body></html>`, "https://example.com/x")
		require.NoError(t, err)
		assert.Equal(t, "Only Heading", result.Title)
	})

	t.Run("falls back to url path", func(t *testing.T) {
		result, err := Extract(`<html><body><p>no title anywhere</p></body></html>`, "https://example.com/posts/my-great-post")
		require.NoError(t, err)
		assert.Equal(t, "my great post", result.Title)
	})

	t.Run("root path falls back to host", func(t *testing.T) {
		result, err := Extract(`<html><body><p>text</p></body></html>`, "https://example.com/")
		require.NoError(t, err)
		assert.Equal(t, "example.com", result.Title)
	})
}

func TestResolveCanonical(t *testing.T) {
	t.Run("relative canonical resolves against page url", func(t *testing.T) {
		result, err := Extract(`<html><head><link rel="canonical" href="/clean-path"></head><body>x</body></html>`, "https://example.com/messy?q=1")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/clean-path", result.Metadata.Canonical)
	})

	t.Run("non-resolvable canonical ignored", func(t *testing.T) {
		result, err := Extract(`<html><head><link rel="canonical" href="app://internal"></head><body>x</body></html>`, "https://example.com/page")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page", result.Metadata.Canonical)
	})

	t.Run("absent canonical uses page url", func(t *testing.T) {
		result, err := Extract(`<html><body>x</body></html>`, "https://example.com/page")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page", result.Metadata.Canonical)
	})
}

func TestExtractErrors(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		_, err := Extract("   ", "https://example.com")
		var extractErr *ExtractionError
		assert.True(t, errors.As(err, &extractErr))
	})
}

func TestCleanTextBound(t *testing.T) {
	long := "<html><body><p>" + strings.Repeat("word ", MaxTextRunes) + "</p></body></html>"
	result, err := Extract(long, "https://example.com/long")
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(result.Text)), MaxTextRunes)
}

func TestReadMinutes(t *testing.T) {
	assert.Equal(t, 0, readMinutes(0))
	assert.Equal(t, 1, readMinutes(1))
	assert.Equal(t, 1, readMinutes(200))
	assert.Equal(t, 2, readMinutes(201))
	assert.Equal(t, 5, readMinutes(1000))
}
