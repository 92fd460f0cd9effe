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


package core

import "fmt"

// ValidateLink validates a Link according to domain rules.
//
// Validation rules:
//   - UserID must be set
//   - URL must not be empty
//
// NOT validated (populated by the pipeline):
//   - Title/Description/Summary (may be empty under degraded extraction)
//   - ArchiveRef (empty until the archive stage runs)
//   - Timestamps (set by the store on upsert)
func ValidateLink(link *Link) error {
	if link == nil {
		return fmt.Errorf("%w: link is nil", ErrInvalidLink)
	}

	if link.UserID == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidLink, ErrMissingUser)
	}

	if link.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLink, ErrEmptyURL)
	}

	return nil
}

// ValidateEntity validates an Entity according to domain rules.
func ValidateEntity(entity *Entity) error {
	if entity == nil || entity.Name == "" {
		return ErrEmptyEntityName
	}
	return nil
}
