package ingest

import "errors"

var (
	// ErrFetcherRequired is returned when a fetcher is not provided.
	ErrFetcherRequired = errors.New("fetcher required")

	// ErrRepositoryRequired is returned when a link repository is not provided.
	ErrRepositoryRequired = errors.New("link repository required")

	// ErrProviderRequired is returned when an AI provider is not provided.
	ErrProviderRequired = errors.New("AI provider required")

	// ErrArchiverRequired is returned when an archiver is not provided.
	ErrArchiverRequired = errors.New("archiver required")
)
