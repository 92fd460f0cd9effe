// Package bot exposes the chat-facing surface of silo.
//
// Service implements the operations (ingest, search, recent, stats,
// export, archive) over the pipeline, ranker and store. Router classifies
// inbound messages (URLs are saved, commands dispatched, and any other
// text answered as a natural-language search) and replies through an
// injected Transport. The package is transport-agnostic; a concrete chat
// binding (Telegram, Slack, a test fake) only has to implement Transport.
package bot
