// Package reembed regenerates link embeddings in batches.
//
// Switching embedding models leaves stored vectors stale; Reembedder walks
// a user's links, embeds their stored text fields with the new model, and
// writes the vectors back. The store marks embeddings under other models
// as superseded rather than deleting them. Embedding calls are retried
// with exponential backoff; progress is reported to a writer.
package reembed
