package silo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/silo/ai/mock"
	"github.com/poiesic/silo/config"
	"github.com/poiesic/silo/core"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.StorePath = filepath.Join(t.TempDir(), "silo.db")
	cfg.ArchiveDir = filepath.Join(t.TempDir(), "snapshots")
	return cfg
}

func openTestSilo(t *testing.T) *Silo {
	t.Helper()
	s, err := Open(testConfig(t), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenAndClose(t *testing.T) {
	s, err := Open(testConfig(t), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Search.PageSize = 0

	_, err := Open(cfg, WithProvider(mock.NewMockProvider()))
	assert.Error(t, err)
}

func TestRepositoryRoundTrip(t *testing.T) {
	s := openTestSilo(t)
	ctx := context.Background()

	link, err := s.Repository().Upsert(ctx, &core.Link{
		UserID: 1, URL: "https://example.com/post", Title: "A Post",
	})
	require.NoError(t, err)

	got, err := s.Repository().GetLink(ctx, link.Id)
	require.NoError(t, err)
	assert.Equal(t, "A Post", got.Title)
}

func TestNewRankerUsesConfiguredPageSize(t *testing.T) {
	cfg := testConfig(t)
	cfg.Search.PageSize = 2

	s, err := Open(cfg, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for _, url := range []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"} {
		_, err := s.Repository().Upsert(ctx, &core.Link{UserID: 1, URL: url, Title: "T"})
		require.NoError(t, err)
	}

	ranker, err := s.NewRanker()
	require.NoError(t, err)

	links, err := ranker.Query(ctx, 1, nil)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestNewPipelineAndService(t *testing.T) {
	s := openTestSilo(t)

	pipeline, err := s.NewPipeline()
	require.NoError(t, err)
	pipeline.Release()

	service, err := s.NewService()
	require.NoError(t, err)
	assert.NotNil(t, service)
}
