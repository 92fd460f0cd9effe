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

// Package sqlite implements storage.LinkRepository over SQLite.
//
// The schema is created on open and the database runs in WAL mode. The
// UNIQUE (user_id, url) constraint, together with content-derived link IDs,
// is the sole mutual-exclusion point for concurrent ingestion of the same
// key: two pipelines upserting the same (user, URL) land on the same row
// and the second one wins on the mutable fields.
//
// Timestamps are stored as unix microseconds and embedding vectors as
// little-endian float32 BLOBs, keeping the schema independent of driver
// time-formatting behavior.
package sqlite
