package archive

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/silo/core"
)

type stubClient struct {
	ref   string
	err   error
	calls int
}

func (s *stubClient) Snapshot(ctx context.Context, url string) (string, error) {
	s.calls++
	return s.ref, s.err
}

func newTestStore(t *testing.T) *ContentStore {
	t.Helper()
	store, err := OpenContentStore("", true)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewCoordinatorValidation(t *testing.T) {
	store := newTestStore(t)

	_, err := NewCoordinator(nil, store)
	assert.ErrorIs(t, err, ErrClientRequired)

	_, err = NewCoordinator(&stubClient{}, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestArchivePrimarySuccess(t *testing.T) {
	client := &stubClient{ref: "https://web.archive.org/web/20250101000000/https://example.com/post"}
	coord, err := NewCoordinator(client, newTestStore(t))
	require.NoError(t, err)

	snap, err := coord.Archive(context.Background(), core.ID(42), "https://example.com/post", "<html></html>")
	require.NoError(t, err)

	assert.Equal(t, core.ID(42), snap.LinkId)
	assert.Equal(t, client.ref, snap.Ref)
	assert.False(t, snap.Fallback)
	assert.False(t, snap.CapturedAt.IsZero())
	assert.Equal(t, 1, client.calls)
}

func TestArchiveFallsBackToLocalCapture(t *testing.T) {
	client := &stubClient{err: errors.New("service unavailable")}
	store := newTestStore(t)
	coord, err := NewCoordinator(client, store)
	require.NoError(t, err)

	html := "<html><body>saved page</body></html>"
	snap, err := coord.Archive(context.Background(), core.ID(7), "https://example.com/post", html)
	require.NoError(t, err)

	assert.True(t, snap.Fallback)
	assert.True(t, strings.HasPrefix(snap.Ref, snapshotKeyPrefix))

	content, err := store.Get(snap.Ref)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/post", content.URL)
	assert.Equal(t, "text/html", content.MIME)
	assert.Equal(t, html, content.Body)
}

func TestArchiveBothTiersFail(t *testing.T) {
	client := &stubClient{err: errors.New("service unavailable")}
	coord, err := NewCoordinator(client, newTestStore(t))
	require.NoError(t, err)

	snap, err := coord.Archive(context.Background(), core.ID(7), "https://example.com/post", "")
	assert.Nil(t, snap)

	var unavailable *Unavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "https://example.com/post", unavailable.URL)
}

func TestArchiveEmptyRefTreatedAsFailure(t *testing.T) {
	client := &stubClient{ref: ""}
	store := newTestStore(t)
	coord, err := NewCoordinator(client, store)
	require.NoError(t, err)

	snap, err := coord.Archive(context.Background(), core.ID(1), "https://example.com", "<html></html>")
	require.NoError(t, err)
	assert.True(t, snap.Fallback)
}
