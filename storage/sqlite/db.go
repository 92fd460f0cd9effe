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
	"encoding/binary"
	"log/slog"
	"math"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/poiesic/silo/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS links (
	id           INTEGER PRIMARY KEY,
	user_id      INTEGER NOT NULL,
	url          TEXT    NOT NULL,
	domain       TEXT    NOT NULL DEFAULT '',
	title        TEXT    NOT NULL DEFAULT '',
	description  TEXT    NOT NULL DEFAULT '',
	summary      TEXT    NOT NULL DEFAULT '',
	content_type TEXT    NOT NULL DEFAULT 'other',
	archive_ref  TEXT    NOT NULL DEFAULT '',
	first_seen   INTEGER NOT NULL,
	last_updated INTEGER NOT NULL,
	UNIQUE (user_id, url)
);

CREATE INDEX IF NOT EXISTS idx_links_user_updated
	ON links (user_id, last_updated);

CREATE TABLE IF NOT EXISTS link_metadata (
	link_id      INTEGER PRIMARY KEY REFERENCES links(id),
	favicon      TEXT    NOT NULL DEFAULT '',
	author       TEXT    NOT NULL DEFAULT '',
	published_at TEXT    NOT NULL DEFAULT '',
	language     TEXT    NOT NULL DEFAULT '',
	canonical    TEXT    NOT NULL DEFAULT '',
	word_count   INTEGER NOT NULL DEFAULT 0,
	read_minutes INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS link_categories (
	link_id  INTEGER NOT NULL REFERENCES links(id),
	category TEXT    NOT NULL,
	PRIMARY KEY (link_id, category)
);

CREATE TABLE IF NOT EXISTS link_entities (
	link_id    INTEGER NOT NULL REFERENCES links(id),
	name       TEXT    NOT NULL,
	type       TEXT    NOT NULL DEFAULT '',
	normalized TEXT    NOT NULL,
	PRIMARY KEY (link_id, normalized)
);

CREATE INDEX IF NOT EXISTS idx_entities_normalized
	ON link_entities (normalized);

CREATE TABLE IF NOT EXISTS link_embeddings (
	link_id      INTEGER NOT NULL REFERENCES links(id),
	model        TEXT    NOT NULL,
	vector       BLOB    NOT NULL,
	generated_at INTEGER NOT NULL,
	superseded   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (link_id, model)
);

CREATE TABLE IF NOT EXISTS link_snapshots (
	link_id     INTEGER NOT NULL REFERENCES links(id),
	ref         TEXT    NOT NULL,
	captured_at INTEGER NOT NULL,
	fallback    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (link_id, ref)
);
`

// repository implements storage.LinkRepository over a SQLite database.
type repository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ storage.LinkRepository = (*repository)(nil)

// NewRepository opens (creating if needed) a SQLite-backed link repository
// at path. Pass ":memory:" for an ephemeral database in tests. The schema
// is created on open; WAL mode keeps concurrent ingestion writers from
// blocking readers.
func NewRepository(path string) (storage.LinkRepository, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, &storage.PersistenceError{Op: "open", Err: err}
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// churn under concurrent ingestion.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &storage.PersistenceError{Op: "migrate", Err: err}
	}

	return &repository{
		db:     db,
		logger: slog.Default().With("component", "sqlite-repository"),
	}, nil
}

// Close closes the underlying database.
func (r *repository) Close() error {
	return r.db.Close()
}

// encodeVector packs an embedding vector as fixed-width little-endian
// float32 bits for BLOB storage.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(data []byte) []float32 {
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector
}
