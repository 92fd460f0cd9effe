package storage

import (
	"context"

	"github.com/poiesic/silo/core"
)

// LinkRepository provides operations for managing links and their
// enrichment. Implementations must be thread-safe and support concurrent
// access; upserts on the same (user, URL) key serialize inside the store.
type LinkRepository interface {
	// Upsert creates the link if absent or updates its mutable fields
	// (title, description, summary, content type, archive ref) if present,
	// bumping LastUpdated. FirstSeen is set only on creation.
	// Returns the stored link.
	Upsert(ctx context.Context, link *core.Link) (*core.Link, error)

	// GetLink retrieves a link by its identity.
	// Returns ErrNotFound if the link doesn't exist.
	GetLink(ctx context.Context, id core.ID) (*core.Link, error)

	// PutMetadata replaces the link's extracted metadata wholesale.
	PutMetadata(ctx context.Context, meta *core.Metadata) error

	// AttachCategories attaches category tags to a link. Idempotent:
	// a category already attached is not duplicated.
	AttachCategories(ctx context.Context, linkID core.ID, categories []string) error

	// AttachEntities attaches named entities to a link, deduplicated by
	// normalized form.
	AttachEntities(ctx context.Context, linkID core.ID, entities []core.Entity) error

	// PutEmbedding stores an embedding for a link. Any prior embedding for
	// the same link under a different model is marked superseded, never
	// deleted. Re-embedding with the same model replaces the vector.
	PutEmbedding(ctx context.Context, emb *core.Embedding) error

	// AttachSnapshot records an archive snapshot and updates the link's
	// archive reference to point at it.
	AttachSnapshot(ctx context.Context, snap *core.Snapshot) error

	// Embeddings retrieves the current (non-superseded) embeddings for all
	// of a user's links, keyed by link identity. Used by batch
	// re-embedding. A user of 0 means all users.
	Embeddings(ctx context.Context, userID int64) ([]*core.Embedding, error)

	// Search retrieves links matching the filter, most recent first.
	Search(ctx context.Context, filter *LinkFilter) ([]*core.Link, error)

	// Recent retrieves a user's most recently updated links.
	Recent(ctx context.Context, userID int64, limit int) ([]*core.Link, error)

	// Export produces one row per link for a user with all enrichment
	// joined in, ordered by first-seen time.
	Export(ctx context.Context, userID int64) ([]*ExportRow, error)

	// Stats summarizes a user's saved links.
	Stats(ctx context.Context, userID int64) (*Stats, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
