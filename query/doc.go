// Package query parses free-text search requests into structured intents.
//
// Parsing is deterministic and total: every input yields an Intent. An
// intent carries an optional [Since, Until) time window resolved against
// an anchor time, an optional normalized entity filter lifted from
// "from <name>" style phrases, and the residual keywords left after stop
// words and consumed phrases are stripped.
package query
