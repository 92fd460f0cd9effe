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

package reembed

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/poiesic/silo/ai"
	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of links to embed in each batch
	BatchSize int

	// MaxRetries is the maximum number of retry attempts for embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:  50,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
	}
}

// Reembedder regenerates embeddings for a user's links with the configured
// embedder's model. Prior embeddings under other models are superseded by
// the store, never deleted, so a model migration is reversible.
type Reembedder struct {
	repo     storage.LinkRepository
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.LinkRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Reembedder{
		repo:     repo,
		embedder: embedder,
		config:   config,
		progress: progress,
	}, nil
}

// Run reembeds every link of the given user that carries embeddable text.
// Links with no title, description or summary are skipped. Returns the
// number of links reembedded.
func (r *Reembedder) Run(ctx context.Context, userID int64) (int, error) {
	rows, err := r.repo.Export(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load links: %w", err)
	}

	var (
		links []*core.Link
		texts []string
	)
	for _, row := range rows {
		text := embeddableText(row.Link)
		if text == "" {
			continue
		}
		links = append(links, row.Link)
		texts = append(texts, text)
	}

	total := len(links)
	if total == 0 {
		fmt.Fprintf(r.progress, "no embeddable links found\n")
		return 0, nil
	}
	fmt.Fprintf(r.progress, "reembedding %d links with model %s\n", total, r.embedder.Model())

	done := 0
	for start := 0; start < total; start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > total {
			end = total
		}

		var vectors [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			vectors, embedErr = r.embedder.EmbedTexts(ctx, texts[start:end])
			return embedErr
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return done, fmt.Errorf("failed to embed batch after %d attempts: %w", r.config.MaxRetries, err)
		}
		if len(vectors) != end-start {
			return done, fmt.Errorf("embedding count mismatch: expected %d, got %d", end-start, len(vectors))
		}

		for i, link := range links[start:end] {
			err := r.repo.PutEmbedding(ctx, &core.Embedding{
				LinkId:      link.Id,
				Model:       r.embedder.Model(),
				Vector:      vectors[i],
				GeneratedAt: time.Now().UTC(),
			})
			if err != nil {
				return done, err
			}
			done++
		}
		fmt.Fprintf(r.progress, "reembedded %d/%d\n", done, total)
	}

	return done, nil
}

// embeddableText joins the link fields worth embedding. Page text is not
// retained after ingestion, so reembedding works from the stored fields.
func embeddableText(link *core.Link) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{link.Title, link.Description, link.Summary} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
