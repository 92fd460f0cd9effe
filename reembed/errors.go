package reembed

import "errors"

var (
	// ErrRepositoryRequired is returned when a link repository is not provided.
	ErrRepositoryRequired = errors.New("link repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be > 0")
)
