// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the AI services used to enrich links.
//
// This package defines interfaces for the three enrichment capabilities -
// classification, summarization, and text embeddings - following the
// dependency inversion principle: the ingestion pipeline depends on these
// abstractions rather than on concrete provider implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Classifier: derives content type, topics, and named entities
//   - Summarizer: produces a bounded human-readable synopsis
//   - Embedder: generates vector embeddings from text
//   - Provider: aggregates the three for convenient initialization
//
// Each capability is independently degradable: a provider error surfaces as
// an explicit error return that the caller maps to an "unavailable" outcome
// for that capability alone. Implementations never panic on malformed
// provider output; Classification.Normalize collapses duplicates and
// defaults missing fields to empty.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider etc.) return interface types to
// enforce abstraction. Mock constructors return concrete types so tests can
// inject behavior via function fields and assert on call counts.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	classification, err := provider.Classifier().Classify(ctx, pageText)
//	summary, err := provider.Summarizer().Summarize(ctx, pageText)
//	vector, err := provider.Embedder().EmbedText(ctx, pageText)
package ai
