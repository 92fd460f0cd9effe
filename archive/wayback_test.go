package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaybackSnapshotSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/save/https://example.com/post", r.URL.Path)
		w.Header().Set("Content-Location", "/web/20250101000000/https://example.com/post")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewWaybackClient(WithEndpoint(server.URL + "/save/"))
	ref, err := client.Snapshot(context.Background(), "https://example.com/post")
	require.NoError(t, err)
	assert.Equal(t, "https://web.archive.org/web/20250101000000/https://example.com/post", ref)
}

func TestWaybackSnapshotAbsoluteLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Location", "https://web.archive.org/web/20250101000000/https://example.com")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewWaybackClient(WithEndpoint(server.URL + "/save/"))
	ref, err := client.Snapshot(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://web.archive.org/web/20250101000000/https://example.com", ref)
}

func TestWaybackSnapshotErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewWaybackClient(WithEndpoint(server.URL + "/save/"))
	_, err := client.Snapshot(context.Background(), "https://example.com")
	assert.Error(t, err)
}

func TestWaybackSnapshotMissingLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewWaybackClient(WithEndpoint(server.URL + "/save/"))
	_, err := client.Snapshot(context.Background(), "https://example.com")
	assert.Error(t, err)
}
