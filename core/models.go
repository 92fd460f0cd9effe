package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Link IDs are generated from (user, normalized URL) so the same link
// saved twice by the same user resolves to the same identity.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// LinkID computes the identity of a link from its owning user and normalized URL.
func LinkID(userID int64, normalizedURL string) ID {
	return IDFromContent(strconv.FormatInt(userID, 10) + "|" + normalizedURL)
}

// ContentType classifies what kind of page a link points at.
type ContentType string

const (
	ContentTypeArticle   ContentType = "article"
	ContentTypeReference ContentType = "reference"
	ContentTypeTool      ContentType = "tool"
	ContentTypeMedia     ContentType = "media"
	ContentTypeOther     ContentType = "other"
)

// ContentTypes lists the valid content type values, used to constrain
// classifier output.
var ContentTypes = []ContentType{
	ContentTypeArticle,
	ContentTypeReference,
	ContentTypeTool,
	ContentTypeMedia,
	ContentTypeOther,
}

// ParseContentType maps arbitrary classifier output onto the enum,
// falling back to ContentTypeOther for anything unrecognized.
func ParseContentType(s string) ContentType {
	for _, ct := range ContentTypes {
		if string(ct) == s {
			return ct
		}
	}
	return ContentTypeOther
}

// Link is a user's saved reference to one URL plus its derived annotations.
type Link struct {
	Id          ID
	UserID      int64
	URL         string // normalized form
	Domain      string
	Title       string
	Description string
	Summary     string // AI-generated synopsis, empty when unavailable
	ContentType ContentType
	ArchiveRef  string // reference to the most recent snapshot, empty when none
	FirstSeen   time.Time
	LastUpdated time.Time
}

// Metadata holds page-level details extracted from a link's markup.
// It is replaced wholesale on each re-ingestion.
type Metadata struct {
	LinkId      ID
	Favicon     string
	Author      string
	PublishedAt string // as declared by the page, not normalized
	Language    string
	Canonical   string
	WordCount   int
	ReadMinutes int
}

// Entity is a named entity (person, organization, product, technology)
// mentioned by a page. Normalized is the case- and whitespace-folded form
// used for query matching.
type Entity struct {
	Name       string
	Type       string
	Normalized string
}

// Embedding is a vector representation of a link's content for one model.
// Regenerating with a different model supersedes, but never deletes,
// earlier rows.
type Embedding struct {
	LinkId      ID
	Model       string
	Vector      []float32
	GeneratedAt time.Time
	Superseded  bool
}

// Snapshot references archived page content: either an external archive URL
// or a key into the local content store.
type Snapshot struct {
	LinkId     ID
	Ref        string
	CapturedAt time.Time
	Fallback   bool // true when the local capture path produced it
}
