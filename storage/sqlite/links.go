// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/storage"
)

// linkRow is the scan target for the links table. Timestamps are stored
// as unix microseconds to sidestep driver-dependent time formatting.
type linkRow struct {
	Id          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	URL         string `db:"url"`
	Domain      string `db:"domain"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Summary     string `db:"summary"`
	ContentType string `db:"content_type"`
	ArchiveRef  string `db:"archive_ref"`
	FirstSeen   int64  `db:"first_seen"`
	LastUpdated int64  `db:"last_updated"`
}

func (row *linkRow) toLink() *core.Link {
	return &core.Link{
		Id:          core.ID(row.Id),
		UserID:      row.UserID,
		URL:         row.URL,
		Domain:      row.Domain,
		Title:       row.Title,
		Description: row.Description,
		Summary:     row.Summary,
		ContentType: core.ContentType(row.ContentType),
		ArchiveRef:  row.ArchiveRef,
		FirstSeen:   time.UnixMicro(row.FirstSeen).UTC(),
		LastUpdated: time.UnixMicro(row.LastUpdated).UTC(),
	}
}

const upsertLinkQuery = `
INSERT INTO links (id, user_id, url, domain, title, description, summary,
                   content_type, archive_ref, first_seen, last_updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	domain       = excluded.domain,
	title        = CASE WHEN excluded.title = '' THEN links.title ELSE excluded.title END,
	description  = CASE WHEN excluded.description = '' THEN links.description ELSE excluded.description END,
	summary      = CASE WHEN excluded.summary = '' THEN links.summary ELSE excluded.summary END,
	content_type = CASE WHEN excluded.content_type = 'other' THEN links.content_type ELSE excluded.content_type END,
	archive_ref  = CASE WHEN excluded.archive_ref = '' THEN links.archive_ref ELSE excluded.archive_ref END,
	last_updated = excluded.last_updated`

// Upsert creates or updates the link keyed by (user, normalized URL).
// Enrichment fields left empty by a degraded re-ingestion never overwrite
// previously stored values; 'other' is the empty value for content type.
func (r *repository) Upsert(ctx context.Context, link *core.Link) (*core.Link, error) {
	if err := core.ValidateLink(link); err != nil {
		return nil, err
	}

	id := link.Id
	if id == 0 {
		id = core.LinkID(link.UserID, link.URL)
	}

	now := time.Now().UTC()
	contentType := link.ContentType
	if contentType == "" {
		contentType = core.ContentTypeOther
	}

	_, err := r.db.ExecContext(ctx, upsertLinkQuery,
		int64(id), link.UserID, link.URL, link.Domain,
		link.Title, link.Description, link.Summary,
		string(contentType), link.ArchiveRef,
		now.UnixMicro(), now.UnixMicro())
	if err != nil {
		return nil, &storage.PersistenceError{Op: "upsert link", Err: err}
	}

	return r.GetLink(ctx, id)
}

// GetLink retrieves a link by its identity.
func (r *repository) GetLink(ctx context.Context, id core.ID) (*core.Link, error) {
	var row linkRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM links WHERE id = ?`, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, &storage.PersistenceError{Op: "get link", Err: err}
	}
	return row.toLink(), nil
}

// PutMetadata replaces the link's extracted metadata wholesale.
func (r *repository) PutMetadata(ctx context.Context, meta *core.Metadata) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO link_metadata (link_id, favicon, author, published_at,
		                           language, canonical, word_count, read_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (link_id) DO UPDATE SET
			favicon      = excluded.favicon,
			author       = excluded.author,
			published_at = excluded.published_at,
			language     = excluded.language,
			canonical    = excluded.canonical,
			word_count   = excluded.word_count,
			read_minutes = excluded.read_minutes`,
		int64(meta.LinkId), meta.Favicon, meta.Author, meta.PublishedAt,
		meta.Language, meta.Canonical, meta.WordCount, meta.ReadMinutes)
	if err != nil {
		return &storage.PersistenceError{Op: "put metadata", Err: err}
	}
	return nil
}

// AttachCategories attaches category tags, skipping ones already attached.
func (r *repository) AttachCategories(ctx context.Context, linkID core.ID, categories []string) error {
	for _, category := range categories {
		if category == "" {
			continue
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO link_categories (link_id, category) VALUES (?, ?)
			ON CONFLICT (link_id, category) DO NOTHING`,
			int64(linkID), category)
		if err != nil {
			return &storage.PersistenceError{Op: "attach categories", Err: err}
		}
	}
	return nil
}

// AttachEntities attaches named entities, deduplicated by normalized form.
func (r *repository) AttachEntities(ctx context.Context, linkID core.ID, entities []core.Entity) error {
	for _, entity := range entities {
		if err := core.ValidateEntity(&entity); err != nil {
			return err
		}
		normalized := entity.Normalized
		if normalized == "" {
			normalized = core.NormalizeEntity(entity.Name)
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO link_entities (link_id, name, type, normalized)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (link_id, normalized) DO NOTHING`,
			int64(linkID), entity.Name, entity.Type, normalized)
		if err != nil {
			return &storage.PersistenceError{Op: "attach entities", Err: err}
		}
	}
	return nil
}

// PutEmbedding stores an embedding, marking embeddings under other models
// for the same link as superseded.
func (r *repository) PutEmbedding(ctx context.Context, emb *core.Embedding) error {
	generatedAt := emb.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return &storage.PersistenceError{Op: "put embedding", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE link_embeddings SET superseded = 1
		WHERE link_id = ? AND model != ?`,
		int64(emb.LinkId), emb.Model)
	if err != nil {
		return &storage.PersistenceError{Op: "put embedding", Err: err}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO link_embeddings (link_id, model, vector, generated_at, superseded)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT (link_id, model) DO UPDATE SET
			vector       = excluded.vector,
			generated_at = excluded.generated_at,
			superseded   = 0`,
		int64(emb.LinkId), emb.Model, encodeVector(emb.Vector), generatedAt.UnixMicro())
	if err != nil {
		return &storage.PersistenceError{Op: "put embedding", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &storage.PersistenceError{Op: "put embedding", Err: err}
	}
	return nil
}

// AttachSnapshot records an archive snapshot and points the link's archive
// reference at it.
func (r *repository) AttachSnapshot(ctx context.Context, snap *core.Snapshot) error {
	capturedAt := snap.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return &storage.PersistenceError{Op: "attach snapshot", Err: err}
	}
	defer tx.Rollback()

	fallback := 0
	if snap.Fallback {
		fallback = 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO link_snapshots (link_id, ref, captured_at, fallback)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (link_id, ref) DO NOTHING`,
		int64(snap.LinkId), snap.Ref, capturedAt.UnixMicro(), fallback)
	if err != nil {
		return &storage.PersistenceError{Op: "attach snapshot", Err: err}
	}

	_, err = tx.ExecContext(ctx, `UPDATE links SET archive_ref = ? WHERE id = ?`,
		snap.Ref, int64(snap.LinkId))
	if err != nil {
		return &storage.PersistenceError{Op: "attach snapshot", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &storage.PersistenceError{Op: "attach snapshot", Err: err}
	}
	return nil
}

// Embeddings retrieves current embeddings, optionally scoped to one user.
func (r *repository) Embeddings(ctx context.Context, userID int64) ([]*core.Embedding, error) {
	query := `
		SELECT e.link_id, e.model, e.vector, e.generated_at, e.superseded
		FROM link_embeddings e
		JOIN links l ON l.id = e.link_id
		WHERE e.superseded = 0`
	args := []any{}
	if userID != 0 {
		query += ` AND l.user_id = ?`
		args = append(args, userID)
	}

	type embeddingRow struct {
		LinkID      int64  `db:"link_id"`
		Model       string `db:"model"`
		Vector      []byte `db:"vector"`
		GeneratedAt int64  `db:"generated_at"`
		Superseded  int    `db:"superseded"`
	}

	var rows []embeddingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &storage.PersistenceError{Op: "load embeddings", Err: err}
	}

	embeddings := make([]*core.Embedding, 0, len(rows))
	for _, row := range rows {
		embeddings = append(embeddings, &core.Embedding{
			LinkId:      core.ID(row.LinkID),
			Model:       row.Model,
			Vector:      decodeVector(row.Vector),
			GeneratedAt: time.UnixMicro(row.GeneratedAt).UTC(),
			Superseded:  row.Superseded != 0,
		})
	}
	return embeddings, nil
}
