package storage

import (
	"time"

	"github.com/poiesic/silo/core"
)

// LinkFilter narrows a link search. Zero-valued fields are ignored:
// an empty filter matches a user's entire collection.
type LinkFilter struct {
	UserID int64     // required; links are never searched across users
	Since  time.Time // inclusive lower bound on LastUpdated
	Until  time.Time // exclusive upper bound on LastUpdated
	Entity string    // normalized entity that must be attached
	Terms  string    // free-text matched against title/description/summary
	Limit  int       // maximum results; 0 means the store's default

	// AnyTerm matches links containing any Terms token instead of all of
	// them, ordered by how many tokens hit. Callers use it as a relaxed
	// second pass when the all-token match comes up empty.
	AnyTerm bool
}

// ExportRow is one link with all its enrichment joined in, shaped for
// tabular export.
type ExportRow struct {
	Link       *core.Link
	Metadata   *core.Metadata // nil when extraction was degraded
	Categories []string
	Entities   []core.Entity
	Snapshots  []*core.Snapshot
}

// Stats summarizes a user's collection.
type Stats struct {
	TotalLinks    int64
	TotalDomains  int64
	ByContentType map[core.ContentType]int64
	TopCategories []CategoryCount
	OldestLink    time.Time
	NewestLink    time.Time
}

// CategoryCount is a category and the number of links carrying it.
type CategoryCount struct {
	Category string
	Count    int64
}
