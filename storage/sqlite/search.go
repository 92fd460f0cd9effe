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
	"strings"
	"time"

	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/storage"
)

// defaultSearchLimit bounds searches whose filter doesn't set one.
const defaultSearchLimit = 100

// Search retrieves links matching the filter, most recent first. Free text
// matches when every whitespace-separated token appears in at least one of
// title, description or summary (case-insensitive); with AnyTerm set, one
// matching token suffices and links matching more tokens sort first.
func (r *repository) Search(ctx context.Context, filter *storage.LinkFilter) ([]*core.Link, error) {
	if filter == nil || filter.UserID == 0 {
		return nil, storage.ErrInvalidFilter
	}

	var (
		where = []string{"user_id = ?"}
		args  = []any{filter.UserID}
	)

	if !filter.Since.IsZero() {
		where = append(where, "last_updated >= ?")
		args = append(args, filter.Since.UnixMicro())
	}
	if !filter.Until.IsZero() {
		where = append(where, "last_updated < ?")
		args = append(args, filter.Until.UnixMicro())
	}
	if filter.Entity != "" {
		where = append(where, "id IN (SELECT link_id FROM link_entities WHERE normalized = ?)")
		args = append(args, filter.Entity)
	}

	var tokenClauses []string
	for _, token := range strings.Fields(filter.Terms) {
		pattern := "%" + escapeLike(token) + "%"
		tokenClauses = append(tokenClauses, `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR summary LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	orderBy := "last_updated DESC"
	if len(tokenClauses) > 0 {
		if filter.AnyTerm {
			where = append(where, "("+strings.Join(tokenClauses, " OR ")+")")
			// Hit count first, recency breaks ties. SQLite comparisons
			// evaluate to 0 or 1, so the clauses sum directly.
			orderBy = "(" + strings.Join(tokenClauses, " + ") + ") DESC, last_updated DESC"
			for _, token := range strings.Fields(filter.Terms) {
				pattern := "%" + escapeLike(token) + "%"
				args = append(args, pattern, pattern, pattern)
			}
		} else {
			where = append(where, tokenClauses...)
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	args = append(args, limit)

	query := `SELECT * FROM links WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY ` + orderBy + ` LIMIT ?`

	var rows []linkRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, &storage.PersistenceError{Op: "search links", Err: err}
	}
	return toLinks(rows), nil
}

// Recent retrieves a user's most recently updated links.
func (r *repository) Recent(ctx context.Context, userID int64, limit int) ([]*core.Link, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	var rows []linkRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM links WHERE user_id = ?
		ORDER BY last_updated DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "recent links", Err: err}
	}
	return toLinks(rows), nil
}

// Export produces one fully-joined row per link, ordered by first-seen.
func (r *repository) Export(ctx context.Context, userID int64) ([]*storage.ExportRow, error) {
	var rows []linkRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM links WHERE user_id = ? ORDER BY first_seen`, userID)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "export links", Err: err}
	}

	export := make([]*storage.ExportRow, 0, len(rows))
	for _, row := range rows {
		exportRow := &storage.ExportRow{Link: row.toLink()}

		meta, err := r.metadataFor(ctx, row.Id)
		if err != nil {
			return nil, err
		}
		exportRow.Metadata = meta

		if err := r.db.SelectContext(ctx, &exportRow.Categories, `
			SELECT category FROM link_categories WHERE link_id = ?
			ORDER BY category`, row.Id); err != nil {
			return nil, &storage.PersistenceError{Op: "export categories", Err: err}
		}

		if err := r.db.SelectContext(ctx, &exportRow.Entities, `
			SELECT name, type, normalized FROM link_entities WHERE link_id = ?
			ORDER BY normalized`, row.Id); err != nil {
			return nil, &storage.PersistenceError{Op: "export entities", Err: err}
		}

		snapshots, err := r.snapshotsFor(ctx, row.Id)
		if err != nil {
			return nil, err
		}
		exportRow.Snapshots = snapshots

		export = append(export, exportRow)
	}
	return export, nil
}

func (r *repository) metadataFor(ctx context.Context, linkID int64) (*core.Metadata, error) {
	type metadataRow struct {
		LinkID      int64  `db:"link_id"`
		Favicon     string `db:"favicon"`
		Author      string `db:"author"`
		PublishedAt string `db:"published_at"`
		Language    string `db:"language"`
		Canonical   string `db:"canonical"`
		WordCount   int    `db:"word_count"`
		ReadMinutes int    `db:"read_minutes"`
	}

	var rows []metadataRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM link_metadata WHERE link_id = ?`, linkID)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "export metadata", Err: err}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &core.Metadata{
		LinkId:      core.ID(row.LinkID),
		Favicon:     row.Favicon,
		Author:      row.Author,
		PublishedAt: row.PublishedAt,
		Language:    row.Language,
		Canonical:   row.Canonical,
		WordCount:   row.WordCount,
		ReadMinutes: row.ReadMinutes,
	}, nil
}

func (r *repository) snapshotsFor(ctx context.Context, linkID int64) ([]*core.Snapshot, error) {
	type snapshotRow struct {
		LinkID     int64  `db:"link_id"`
		Ref        string `db:"ref"`
		CapturedAt int64  `db:"captured_at"`
		Fallback   int    `db:"fallback"`
	}

	var rows []snapshotRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM link_snapshots WHERE link_id = ?
		ORDER BY captured_at`, linkID)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "export snapshots", Err: err}
	}

	snapshots := make([]*core.Snapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, &core.Snapshot{
			LinkId:     core.ID(row.LinkID),
			Ref:        row.Ref,
			CapturedAt: time.UnixMicro(row.CapturedAt).UTC(),
			Fallback:   row.Fallback != 0,
		})
	}
	return snapshots, nil
}

// Stats summarizes a user's collection.
func (r *repository) Stats(ctx context.Context, userID int64) (*storage.Stats, error) {
	stats := &storage.Stats{
		ByContentType: make(map[core.ContentType]int64),
	}

	err := r.db.GetContext(ctx, &stats.TotalLinks, `
		SELECT COUNT(*) FROM links WHERE user_id = ?`, userID)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "stats", Err: err}
	}

	err = r.db.GetContext(ctx, &stats.TotalDomains, `
		SELECT COUNT(DISTINCT domain) FROM links WHERE user_id = ?`, userID)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "stats", Err: err}
	}

	type typeCount struct {
		ContentType string `db:"content_type"`
		Count       int64  `db:"count"`
	}
	var typeCounts []typeCount
	err = r.db.SelectContext(ctx, &typeCounts, `
		SELECT content_type, COUNT(*) AS count FROM links
		WHERE user_id = ? GROUP BY content_type`, userID)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "stats", Err: err}
	}
	for _, tc := range typeCounts {
		stats.ByContentType[core.ContentType(tc.ContentType)] = tc.Count
	}

	type categoryCount struct {
		Category string `db:"category"`
		Count    int64  `db:"count"`
	}
	var categoryCounts []categoryCount
	err = r.db.SelectContext(ctx, &categoryCounts, `
		SELECT c.category, COUNT(*) AS count
		FROM link_categories c
		JOIN links l ON l.id = c.link_id
		WHERE l.user_id = ?
		GROUP BY c.category
		ORDER BY count DESC, c.category
		LIMIT 5`, userID)
	if err != nil {
		return nil, &storage.PersistenceError{Op: "stats", Err: err}
	}
	for _, cc := range categoryCounts {
		stats.TopCategories = append(stats.TopCategories, storage.CategoryCount{
			Category: cc.Category,
			Count:    cc.Count,
		})
	}

	if stats.TotalLinks > 0 {
		var bounds struct {
			Oldest int64 `db:"oldest"`
			Newest int64 `db:"newest"`
		}
		err = r.db.GetContext(ctx, &bounds, `
			SELECT MIN(first_seen) AS oldest, MAX(last_updated) AS newest
			FROM links WHERE user_id = ?`, userID)
		if err != nil {
			return nil, &storage.PersistenceError{Op: "stats", Err: err}
		}
		stats.OldestLink = time.UnixMicro(bounds.Oldest).UTC()
		stats.NewestLink = time.UnixMicro(bounds.Newest).UTC()
	}

	return stats, nil
}

func toLinks(rows []linkRow) []*core.Link {
	links := make([]*core.Link, 0, len(rows))
	for i := range rows {
		links = append(links, rows[i].toLink())
	}
	return links
}

// escapeLike escapes LIKE wildcards in user-supplied tokens.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
