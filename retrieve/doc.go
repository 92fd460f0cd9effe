// Package retrieve ranks a user's links against parsed query intents.
//
// A strict pass applies the intent's window, entity and keyword filters
// together against the store. When it matches nothing, the ranker relaxes
// in one step to the temporal window alone, and finally to the user's most
// recent links, so a query always gets some plausible answer. Within any
// tier, results are most recent first and bounded to a fixed page size.
package retrieve
