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

package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrClientRequired indicates a coordinator was constructed without
	// an archive client.
	ErrClientRequired = errors.New("archive client is required")

	// ErrStoreRequired indicates a coordinator was constructed without
	// a local content store.
	ErrStoreRequired = errors.New("content store is required")

	// ErrSnapshotNotFound indicates no content exists under the given key.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Unavailable indicates that neither the external archive service nor the
// local fallback could capture the page.
type Unavailable struct {
	URL string
	Err error
}

func (e *Unavailable) Error() string {
	return fmt.Sprintf("archiving unavailable for %s: %v", e.URL, e.Err)
}

func (e *Unavailable) Unwrap() error {
	return e.Err
}
