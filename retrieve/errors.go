package retrieve

import "errors"

// ErrRepositoryRequired is returned when a link repository is not provided.
var ErrRepositoryRequired = errors.New("link repository required")
