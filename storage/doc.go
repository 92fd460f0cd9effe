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

// Package storage provides the storage abstraction layer for silo.
//
// This package defines the LinkRepository interface that decouples storage
// implementation from business logic. The ingestion pipeline is the sole
// writer of links and their enrichment; retrieval and export only read.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	repo, err := sqlite.NewRepository(path)  // returns storage.LinkRepository
//
// Consumers can substitute mock implementations without modification.
//
// # Error Semantics
//
// Lookups of missing records return ErrNotFound. Any other store failure is
// wrapped in *PersistenceError and is terminal for the calling operation:
// the caller must assume no partial write was committed.
package storage
