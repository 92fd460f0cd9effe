package bot

import (
	"context"
	"log/slog"

	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/ingest"
	"github.com/poiesic/silo/query"
	"github.com/poiesic/silo/retrieve"
	"github.com/poiesic/silo/storage"
)

// Service implements the bot's operation surface over the ingestion
// pipeline, the retrieval ranker and the store. It is transport-agnostic:
// the Router owns formatting and delivery.
type Service struct {
	pipeline *ingest.Pipeline
	ranker   *retrieve.Ranker
	repo     storage.LinkRepository
	archiver ingest.Archiver
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates the bot service over the given collaborators.
func NewService(
	pipeline *ingest.Pipeline,
	ranker *retrieve.Ranker,
	repo storage.LinkRepository,
	archiver ingest.Archiver,
	opts ...ServiceOption,
) (*Service, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if ranker == nil {
		return nil, ErrRankerRequired
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if archiver == nil {
		return nil, ErrArchiverRequired
	}

	s := &Service{
		pipeline: pipeline,
		ranker:   ranker,
		repo:     repo,
		archiver: archiver,
		logger:   slog.Default().With("component", "bot"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Ingest saves one URL for a user, with an optional note in the sender's
// own words.
func (s *Service) Ingest(ctx context.Context, userID int64, url, note string) (*ingest.Outcome, error) {
	return s.pipeline.IngestURL(ctx, userID, url, note)
}

// IngestAll saves multiple URLs concurrently, reporting per-URL outcomes.
// The note is shared by every URL.
func (s *Service) IngestAll(ctx context.Context, userID int64, urls []string, note string) []*ingest.Report {
	return s.pipeline.IngestAll(ctx, userID, urls, note)
}

// Search resolves a natural-language query to one page of links.
func (s *Service) Search(ctx context.Context, userID int64, text string) ([]*core.Link, error) {
	return s.ranker.Query(ctx, userID, query.Parse(text))
}

// Recent returns the user's most recently updated links.
func (s *Service) Recent(ctx context.Context, userID int64) ([]*core.Link, error) {
	return s.repo.Recent(ctx, userID, retrieve.DefaultPageSize)
}

// Stats summarizes the user's collection.
func (s *Service) Stats(ctx context.Context, userID int64) (*storage.Stats, error) {
	return s.repo.Stats(ctx, userID)
}

// Export produces a CSV dump of the user's links with all enrichment,
// returning the row count alongside the encoded file so callers can report
// it without reparsing.
func (s *Service) Export(ctx context.Context, userID int64) ([]byte, int, error) {
	rows, err := s.repo.Export(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}
	data, err := BuildCSV(rows)
	if err != nil {
		return nil, 0, err
	}
	return data, len(rows), nil
}

// Archive captures a snapshot of a URL on demand, saving the link first if
// the user hasn't already. Only the external archive tier is available
// here: without a fetched page there is no content for the local fallback.
func (s *Service) Archive(ctx context.Context, userID int64, rawURL string) (*core.Snapshot, error) {
	normalized, err := core.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	link, err := s.repo.Upsert(ctx, &core.Link{
		UserID: userID,
		URL:    normalized,
		Domain: core.Domain(normalized),
	})
	if err != nil {
		return nil, err
	}

	snap, err := s.archiver.Archive(ctx, link.Id, normalized, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.AttachSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}
