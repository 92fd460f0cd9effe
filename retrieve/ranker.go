package retrieve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/query"
	"github.com/poiesic/silo/storage"
)

// DefaultPageSize bounds how many links one query returns.
const DefaultPageSize = 5

// Ranker turns parsed query intents into ordered link results. Filtering
// is tiered: a strict pass requires every search term, then a per-token
// pass accepts any of them, then the ranker relaxes to the temporal
// window alone, then to plain recency. Retrieval prefers some plausible
// answer over no answer.
type Ranker struct {
	repo     storage.LinkRepository
	pageSize int
	logger   *slog.Logger
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithPageSize overrides the default result page size.
func WithPageSize(size int) RankerOption {
	return func(r *Ranker) {
		if size > 0 {
			r.pageSize = size
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) RankerOption {
	return func(r *Ranker) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRanker creates a ranker over the given repository.
func NewRanker(repo storage.LinkRepository, opts ...RankerOption) (*Ranker, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	r := &Ranker{
		repo:     repo,
		pageSize: DefaultPageSize,
		logger:   slog.Default().With("component", "retrieve"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Query resolves an intent to at most one page of links, most recent
// first. An empty or recency-only intent returns the user's most recent
// links. Malformed queries have no error path here; an empty store yields
// an empty (valid) result.
func (r *Ranker) Query(ctx context.Context, userID int64, intent *query.Intent) ([]*core.Link, error) {
	if intent == nil || intent.Empty() {
		return r.repo.Recent(ctx, userID, r.pageSize)
	}

	links, err := r.repo.Search(ctx, &storage.LinkFilter{
		UserID: userID,
		Since:  intent.Since,
		Until:  intent.Until,
		Entity: intent.Entity,
		Terms:  intent.Terms,
		Limit:  r.pageSize,
	})
	if err != nil {
		return nil, err
	}
	if len(links) > 0 {
		return links, nil
	}

	// Per-token pass: require any term instead of all of them, best
	// hit count first. Multi-word queries rarely land every word in a
	// short title or summary.
	if strings.Count(intent.Terms, " ") > 0 {
		links, err = r.repo.Search(ctx, &storage.LinkFilter{
			UserID:  userID,
			Since:   intent.Since,
			Until:   intent.Until,
			Entity:  intent.Entity,
			Terms:   intent.Terms,
			AnyTerm: true,
			Limit:   r.pageSize,
		})
		if err != nil {
			return nil, err
		}
		if len(links) > 0 {
			r.logger.Debug("strict pass empty, answered from per-token match", "query", intent.Raw)
			return links, nil
		}
	}

	// Relaxed pass: drop entity and terms together, keep the window.
	if !intent.Since.IsZero() || !intent.Until.IsZero() {
		links, err = r.repo.Search(ctx, &storage.LinkFilter{
			UserID: userID,
			Since:  intent.Since,
			Until:  intent.Until,
			Limit:  r.pageSize,
		})
		if err != nil {
			return nil, err
		}
		if len(links) > 0 {
			r.logger.Debug("strict pass empty, answered from temporal window", "query", intent.Raw)
			return links, nil
		}
	}

	r.logger.Debug("filters matched nothing, answering with recent links", "query", intent.Raw)
	return r.repo.Recent(ctx, userID, r.pageSize)
}
