package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/silo/ai/mock"
	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/fetch"
	"github.com/poiesic/silo/ingest"
	"github.com/poiesic/silo/retrieve"
	"github.com/poiesic/silo/storage"
	"github.com/poiesic/silo/storage/sqlite"
)

type sentMessage struct {
	chatID int64
	html   string
}

type sentDocument struct {
	chatID   int64
	filename string
	data     []byte
	caption  string
}

type fakeTransport struct {
	messages  []sentMessage
	documents []sentDocument
}

func (f *fakeTransport) SendMessage(ctx context.Context, chatID int64, html string) error {
	f.messages = append(f.messages, sentMessage{chatID, html})
	return nil
}

func (f *fakeTransport) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	f.documents = append(f.documents, sentDocument{chatID, filename, data, caption})
	return nil
}

func (f *fakeTransport) lastMessage(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.messages)
	return f.messages[len(f.messages)-1].html
}

type fakeArchiver struct{}

func (fakeArchiver) Archive(ctx context.Context, linkID core.ID, url, html string) (*core.Snapshot, error) {
	return &core.Snapshot{LinkId: linkID, Ref: "https://web.archive.org/web/1/" + url}, nil
}

func newTestRouter(t *testing.T) (*Router, *fakeTransport, storage.LinkRepository) {
	t.Helper()

	repo, err := sqlite.NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	pipeline, err := ingest.NewPipeline(fetch.NewFetcher(), repo, mock.NewMockProvider(), fakeArchiver{})
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	ranker, err := retrieve.NewRanker(repo)
	require.NoError(t, err)

	service, err := NewService(pipeline, ranker, repo, fakeArchiver{})
	require.NoError(t, err)

	transport := &fakeTransport{}
	router, err := NewRouter(service, transport, nil)
	require.NoError(t, err)

	return router, transport, repo
}

func newPageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html lang="en"><head><title>Onboarding Guide</title>
			<meta name="description" content="How we onboard engineers."></head>
			<body><p>Checklist and pointers for new team members.</p></body></html>`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHandleTextIngestsURL(t *testing.T) {
	router, transport, repo := newTestRouter(t)
	server := newPageServer(t)
	ctx := context.Background()

	// Plain URL regex is anchored to real-looking hosts; httptest's
	// 127.0.0.1 address won't match it, so call the handler directly.
	require.NoError(t, router.handleURLs(ctx, 10, 1, []string{server.URL}, ""))

	reply := transport.lastMessage(t)
	assert.Contains(t, reply, "Onboarding Guide")
	assert.Contains(t, reply, `<a href=`)

	links, err := repo.Recent(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestHandleURLsKeepsSenderNote(t *testing.T) {
	router, _, repo := newTestRouter(t)
	server := newPageServer(t)
	ctx := context.Background()

	note := "the onboarding guide Sarah recommended"
	require.NoError(t, router.handleURLs(ctx, 10, 1, []string{server.URL}, note))

	links, err := repo.Recent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, note, links[0].Description)
}

func TestExtractNote(t *testing.T) {
	note := extractNote("the onboarding guide Sarah recommended https://example.com/post?id=3 worth a read")
	assert.Equal(t, "the onboarding guide Sarah recommended worth a read", note)

	assert.Empty(t, extractNote("https://example.com/post"))
}

func TestHandleTextDetectsURLsInProse(t *testing.T) {
	urls := urlPattern.FindAllString("check this out https://example.com/post?id=3 great read", -1)
	require.Len(t, urls, 1)
	assert.Equal(t, "https://example.com/post?id=3", urls[0])

	assert.Empty(t, urlPattern.FindAllString("articles about onboarding from last week", -1))
}

func TestHandleTextAnswersQueries(t *testing.T) {
	router, transport, repo := newTestRouter(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &core.Link{
		UserID: 1, URL: "https://example.com/onboarding",
		Title: "Onboarding Guide", Summary: "How we onboard engineers.",
	})
	require.NoError(t, err)

	require.NoError(t, router.HandleText(ctx, 10, 1, "that onboarding guide"))

	reply := transport.lastMessage(t)
	assert.Contains(t, reply, "Here is what I found for:")
	assert.Contains(t, reply, "Onboarding Guide")
	assert.Contains(t, reply, "How we onboard engineers.")
}

func TestReplyOmitsAbsentFields(t *testing.T) {
	router, transport, repo := newTestRouter(t)
	ctx := context.Background()

	// Bare link: no title, no summary, no description.
	_, err := repo.Upsert(ctx, &core.Link{UserID: 1, URL: "https://example.com/bare"})
	require.NoError(t, err)

	require.NoError(t, router.HandleCommand(ctx, 10, 1, "/recent", ""))

	reply := transport.lastMessage(t)
	assert.Contains(t, reply, "https://example.com/bare")
	// One line for the header, one for the anchor, nothing claiming a summary.
	for _, line := range strings.Split(reply, "\n") {
		assert.NotContains(t, line, "Summary")
	}
}

func TestReplyEscapesHTML(t *testing.T) {
	router, transport, repo := newTestRouter(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &core.Link{
		UserID: 1, URL: "https://example.com/x",
		Title: `<script>alert("x")</script>`,
	})
	require.NoError(t, err)

	require.NoError(t, router.HandleCommand(ctx, 10, 1, "/recent", ""))

	reply := transport.lastMessage(t)
	assert.NotContains(t, reply, "<script>")
	assert.Contains(t, reply, "&lt;script&gt;")
}

func TestHandleCommandSearchRequiresQuery(t *testing.T) {
	router, transport, _ := newTestRouter(t)

	require.NoError(t, router.HandleCommand(context.Background(), 10, 1, "/search", "  "))
	assert.Contains(t, transport.lastMessage(t), "/search")
}

func TestHandleCommandStats(t *testing.T) {
	router, transport, repo := newTestRouter(t)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, &core.Link{UserID: 1, URL: "https://example.com", Title: "T"})
	require.NoError(t, err)

	require.NoError(t, router.HandleCommand(ctx, 10, 1, "/stats", ""))

	reply := transport.lastMessage(t)
	assert.Contains(t, reply, "Links saved: 1")
}

func TestHandleCommandExport(t *testing.T) {
	router, transport, repo := newTestRouter(t)
	ctx := context.Background()

	link, err := repo.Upsert(ctx, &core.Link{
		UserID: 1, URL: "https://example.com", Title: "Title", Summary: "Summary",
	})
	require.NoError(t, err)
	require.NoError(t, repo.AttachCategories(ctx, link.Id, []string{"golang"}))

	require.NoError(t, router.HandleCommand(ctx, 10, 1, "/export", ""))

	require.Len(t, transport.documents, 1)
	doc := transport.documents[0]
	assert.True(t, strings.HasPrefix(doc.filename, "silo_links_"))

	content := string(doc.data)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2, "header plus one row")
	assert.Contains(t, lines[0], "Title,URL,Summary")
	assert.Contains(t, lines[1], "golang")
	assert.Contains(t, lines[1], "Summary")
}

func TestHandleCommandExportEmpty(t *testing.T) {
	router, transport, _ := newTestRouter(t)

	require.NoError(t, router.HandleCommand(context.Background(), 10, 1, "/export", ""))
	assert.Empty(t, transport.documents)
	assert.Contains(t, transport.lastMessage(t), "Nothing to export")
}

func TestHandleCommandArchive(t *testing.T) {
	router, transport, repo := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, router.HandleCommand(ctx, 10, 1, "/archive", "https://example.com/page"))

	reply := transport.lastMessage(t)
	assert.Contains(t, reply, "Snapshot saved")
	assert.Contains(t, reply, "web.archive.org")

	links, err := repo.Recent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.NotEmpty(t, links[0].ArchiveRef)
}

func TestHandleCommandUnknownShowsHelp(t *testing.T) {
	router, transport, _ := newTestRouter(t)

	require.NoError(t, router.HandleCommand(context.Background(), 10, 1, "/bogus", ""))
	assert.Contains(t, transport.lastMessage(t), "Silo saves and finds your links")
}
