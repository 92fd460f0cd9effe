package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/silo/core"
)

// DefaultTimeout bounds the primary archival attempt.
const DefaultTimeout = 20 * time.Second

// Client requests a snapshot of a URL from an external archival service.
// Implementations must be thread-safe for concurrent use.
type Client interface {
	// Snapshot asks the service to capture url and returns a public
	// reference to the capture. Any failure (timeout, rate limit,
	// rejection, unreachable URL) is returned as an error; the coordinator
	// treats all of them the same way.
	Snapshot(ctx context.Context, url string) (string, error)
}

// Coordinator produces a Snapshot for a URL via a two-tier fallback chain:
// the external archival service first, then a local capture of the already
// fetched page content. Each tier is attempted at most once per call -
// this is a fallback chain, not a retry loop.
type Coordinator struct {
	client  Client
	store   *ContentStore
	timeout time.Duration
	logger  *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithTimeout bounds the primary archival attempt.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCoordinator creates a coordinator over the given archival client and
// local content store.
func NewCoordinator(client Client, store *ContentStore, opts ...CoordinatorOption) (*Coordinator, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	c := &Coordinator{
		client:  client,
		store:   store,
		timeout: DefaultTimeout,
		logger:  slog.Default().With("component", "archive"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Archive captures a snapshot of url. html is the page content already
// fetched by the pipeline; it feeds the local fallback when the external
// service fails. Returns *Unavailable when both tiers fail.
func (c *Coordinator) Archive(ctx context.Context, linkID core.ID, url, html string) (*core.Snapshot, error) {
	primaryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ref, err := c.client.Snapshot(primaryCtx, url)
	if err == nil && ref != "" {
		return &core.Snapshot{
			LinkId:     linkID,
			Ref:        ref,
			CapturedAt: time.Now().UTC(),
			Fallback:   false,
		}, nil
	}
	c.logger.Warn("primary archival failed, falling back to local capture", "url", url, "err", err)

	if html == "" {
		return nil, &Unavailable{URL: url, Err: err}
	}

	key, err := c.store.Put(url, "text/html", html)
	if err != nil {
		c.logger.Error("local capture failed", "url", url, "err", err)
		return nil, &Unavailable{URL: url, Err: err}
	}

	return &core.Snapshot{
		LinkId:     linkID,
		Ref:        key,
		CapturedAt: time.Now().UTC(),
		Fallback:   true,
	}, nil
}
