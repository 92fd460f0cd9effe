// Package ingest provides pipeline orchestration for saving links.
//
// The Pipeline type manages the ingestion workflow for one URL:
//   - Fetching the page (terminal on failure)
//   - Extracting metadata and cleaned text
//   - Upserting the link keyed by (user, normalized URL)
//   - Classifying, summarizing and embedding the text
//   - Archiving a snapshot of the page
//
// Only fetching and persistence are hard requirements; every other stage
// degrades to an absent field recorded on the returned Outcome. Multiple
// URLs are processed concurrently using a worker pool with no ordering
// guarantee between them.
package ingest
