package ai

import "context"

// Classifier derives structured annotations (content type, topics, named
// entities) from cleaned page text.
// Implementations must be thread-safe for concurrent use.
type Classifier interface {
	// Classify analyzes text and returns its content type, topic tags, and
	// named entities. Malformed provider output is normalized: duplicate
	// topics and entities collapse by normalized form, missing fields
	// default to empty. Returns an error only when the provider itself
	// fails; callers treat that as "classification unavailable".
	Classify(ctx context.Context, text string) (*Classification, error)
}

// Summarizer produces a bounded-length human-readable synopsis of page text.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize returns a 2-3 sentence synopsis of the text, capped at
	// MaxSummaryRunes. Returns an error when the provider fails; callers
	// treat that as "summary unavailable".
	Summarize(ctx context.Context, text string) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice matches the order of the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Model reports the identifier of the embedding model in use, stored
	// alongside generated vectors.
	Model() string
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Classifier, Summarizer, and
// Embedder instances, ensuring they share configuration appropriately.
type Provider interface {
	// Classifier returns the content classification service.
	Classifier() Classifier

	// Summarizer returns the summarization service.
	Summarizer() Summarizer

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
