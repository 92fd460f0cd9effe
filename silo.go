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

// Package silo assembles the link manager: a SQLite link store, a local
// snapshot store, an OpenAI-compatible AI provider and the archive
// coordinator, with constructors for the pipeline, ranker and bot service
// wired on top.
package silo

import (
	"io"
	"log/slog"

	"github.com/poiesic/silo/ai"
	"github.com/poiesic/silo/ai/openai"
	"github.com/poiesic/silo/archive"
	"github.com/poiesic/silo/bot"
	"github.com/poiesic/silo/config"
	"github.com/poiesic/silo/fetch"
	"github.com/poiesic/silo/ingest"
	"github.com/poiesic/silo/reembed"
	"github.com/poiesic/silo/retrieve"
	"github.com/poiesic/silo/storage"
	"github.com/poiesic/silo/storage/sqlite"
)

// Silo owns the long-lived collaborators: store, content store, archive
// coordinator, AI provider and fetcher. Pipelines, rankers and services
// are constructed on top of it per use.
type Silo struct {
	cfg          *config.Config
	repo         storage.LinkRepository
	contentStore *archive.ContentStore
	coordinator  *archive.Coordinator
	provider     ai.Provider
	fetcher      *fetch.Fetcher
	logger       *slog.Logger
}

// Option configures Open.
type Option func(*options)

type options struct {
	provider ai.Provider
}

// WithProvider substitutes the AI provider, typically with ai/mock in
// tests or offline runs.
func WithProvider(provider ai.Provider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// Open initializes all stores and clients from the configuration. Pass a
// nil cfg to run on defaults.
func Open(cfg *config.Config, opts ...Option) (*Silo, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	repo, err := sqlite.NewRepository(cfg.StorePath)
	if err != nil {
		return nil, err
	}

	contentStore, err := archive.OpenContentStore(cfg.ArchiveDir, false)
	if err != nil {
		repo.Close()
		return nil, err
	}

	coordinator, err := archive.NewCoordinator(
		archive.NewWaybackClient(),
		contentStore,
		archive.WithTimeout(cfg.Timeouts.Archive),
	)
	if err != nil {
		contentStore.Close()
		repo.Close()
		return nil, err
	}

	provider := o.provider
	if provider == nil {
		provider, err = openai.NewProvider(ai.NewConfig(
			ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
			ai.WithChatHost(cfg.AI.ChatHost),
			ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
			ai.WithChatModel(cfg.AI.ChatModel),
			ai.WithToken(cfg.AI.Token),
		))
		if err != nil {
			contentStore.Close()
			repo.Close()
			return nil, err
		}
	}

	return &Silo{
		cfg:          cfg,
		repo:         repo,
		contentStore: contentStore,
		coordinator:  coordinator,
		provider:     provider,
		fetcher:      fetch.NewFetcher(fetch.WithTimeout(cfg.Timeouts.Fetch)),
		logger:       slog.Default(),
	}, nil
}

// Close releases the provider and stores.
func (s *Silo) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.contentStore.Close(); err != nil {
		s.logger.Error("error closing content store", "err", err)
		return err
	}
	if err := s.repo.Close(); err != nil {
		s.logger.Error("error closing link repository", "err", err)
		return err
	}
	return nil
}

// Repository exposes the link store.
func (s *Silo) Repository() storage.LinkRepository {
	return s.repo
}

// Provider exposes the AI provider.
func (s *Silo) Provider() ai.Provider {
	return s.provider
}

// NewPipeline constructs an ingestion pipeline over the silo's
// collaborators.
func (s *Silo) NewPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	base := []ingest.Option{
		ingest.WithAITimeout(s.cfg.Timeouts.AI),
		ingest.WithPoolSize(s.cfg.Pipeline.Workers),
	}
	return ingest.NewPipeline(s.fetcher, s.repo, s.provider, s.coordinator,
		append(base, opts...)...)
}

// NewRanker constructs a retrieval ranker.
func (s *Silo) NewRanker(opts ...retrieve.RankerOption) (*retrieve.Ranker, error) {
	base := []retrieve.RankerOption{retrieve.WithPageSize(s.cfg.Search.PageSize)}
	return retrieve.NewRanker(s.repo, append(base, opts...)...)
}

// NewService constructs the bot service surface.
func (s *Silo) NewService() (*bot.Service, error) {
	pipeline, err := s.NewPipeline()
	if err != nil {
		return nil, err
	}
	ranker, err := s.NewRanker()
	if err != nil {
		pipeline.Release()
		return nil, err
	}
	return bot.NewService(pipeline, ranker, s.repo, s.coordinator)
}

// NewReembedder constructs a batch reembedder writing progress to w.
func (s *Silo) NewReembedder(w io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(s.repo, s.provider.Embedder(), nil, w)
}
