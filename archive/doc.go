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

// Package archive captures durable snapshots of saved pages.
//
// Archiving is two-tiered. The Coordinator first asks an external archive
// service (the Wayback Machine's Save Page Now endpoint by default) to
// capture the live URL. If that fails or the service is unreachable, the
// already-fetched HTML is written to a local badger-backed ContentStore
// and the store key becomes the snapshot reference. Only when both tiers
// fail does archiving return an error, and callers are expected to treat
// that as a degraded outcome rather than a failed save.
//
// Snapshot references are opaque strings: external captures carry the
// archive service URL, local captures carry a "snapshot:"-prefixed store
// key readable back through ContentStore.Get.
package archive
