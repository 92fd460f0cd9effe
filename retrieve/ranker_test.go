package retrieve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/query"
	"github.com/poiesic/silo/storage"
	"github.com/poiesic/silo/storage/sqlite"
)

func newTestRanker(t *testing.T) (*Ranker, storage.LinkRepository) {
	t.Helper()
	repo, err := sqlite.NewRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ranker, err := NewRanker(repo)
	require.NoError(t, err)
	return ranker, repo
}

func seed(t *testing.T, repo storage.LinkRepository, url, title, summary string) *core.Link {
	t.Helper()
	link, err := repo.Upsert(context.Background(), &core.Link{
		UserID:  1,
		URL:     url,
		Domain:  core.Domain(url),
		Title:   title,
		Summary: summary,
	})
	require.NoError(t, err)
	return link
}

func TestNewRankerRequiresRepository(t *testing.T) {
	_, err := NewRanker(nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
}

func TestQueryEmptyIntentReturnsRecent(t *testing.T) {
	ranker, repo := newTestRanker(t)
	ctx := context.Background()

	seed(t, repo, "https://example.com/old", "Old", "")
	time.Sleep(2 * time.Millisecond)
	seed(t, repo, "https://example.com/new", "New", "")

	links, err := ranker.Query(ctx, 1, &query.Intent{})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "New", links[0].Title)
}

func TestQueryByTerms(t *testing.T) {
	ranker, repo := newTestRanker(t)
	ctx := context.Background()

	seed(t, repo, "https://example.com/db", "Database Indexing Guide", "")
	seed(t, repo, "https://example.com/ml", "Intro to Machine Learning", "")

	intent := query.ParseAt(time.Now().UTC(), "that database indexing article")
	links, err := ranker.Query(ctx, 1, intent)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "Database Indexing Guide", links[0].Title)
}

func TestQueryEntityFilter(t *testing.T) {
	ranker, repo := newTestRanker(t)
	ctx := context.Background()

	match := seed(t, repo, "https://example.com/one", "Quarterly Notes", "")
	seed(t, repo, "https://example.com/two", "Other Notes", "")
	require.NoError(t, repo.AttachEntities(ctx, match.Id, []core.Entity{
		{Name: "Sarah", Type: "person"},
	}))

	intent := query.ParseAt(time.Now().UTC(), "from Sarah")
	links, err := ranker.Query(ctx, 1, intent)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, match.Id, links[0].Id)
}

func TestQueryRelaxedFallbackToWindow(t *testing.T) {
	ranker, repo := newTestRanker(t)
	ctx := context.Background()

	seed(t, repo, "https://example.com/a", "First", "")
	seed(t, repo, "https://example.com/b", "Second", "")

	// Keyword matches nothing, but the window covers both links.
	intent := query.ParseAt(time.Now().UTC().Add(time.Minute), "zebra quantum last week")
	links, err := ranker.Query(ctx, 1, intent)
	require.NoError(t, err)
	assert.Len(t, links, 2, "window-only relaxed pass should answer")
}

func TestQueryFallsBackToRecent(t *testing.T) {
	ranker, repo := newTestRanker(t)
	ctx := context.Background()

	seed(t, repo, "https://example.com/a", "Something", "")

	// No window, keyword matches nothing: answer with recent links.
	intent := query.ParseAt(time.Now().UTC(), "zebra quantum")
	links, err := ranker.Query(ctx, 1, intent)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestQueryEmptyStoreIsValidEmptyResult(t *testing.T) {
	ranker, _ := newTestRanker(t)

	links, err := ranker.Query(context.Background(), 1, query.ParseAt(time.Now().UTC(), "anything at all"))
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestQueryPageSize(t *testing.T) {
	ranker, repo := newTestRanker(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		seed(t, repo, "https://example.com/p"+string(rune('a'+i)), "Page", "")
	}

	links, err := ranker.Query(ctx, 1, &query.Intent{})
	require.NoError(t, err)
	assert.Len(t, links, DefaultPageSize)
}
