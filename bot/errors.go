package bot

import "errors"

var (
	// ErrPipelineRequired is returned when an ingestion pipeline is not provided.
	ErrPipelineRequired = errors.New("ingestion pipeline required")

	// ErrRankerRequired is returned when a retrieval ranker is not provided.
	ErrRankerRequired = errors.New("retrieval ranker required")

	// ErrRepositoryRequired is returned when a link repository is not provided.
	ErrRepositoryRequired = errors.New("link repository required")

	// ErrArchiverRequired is returned when an archiver is not provided.
	ErrArchiverRequired = errors.New("archiver required")

	// ErrServiceRequired is returned when a service is not provided.
	ErrServiceRequired = errors.New("service required")

	// ErrTransportRequired is returned when a transport is not provided.
	ErrTransportRequired = errors.New("transport required")
)
