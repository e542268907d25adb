// Package assistant provides the chat-completions client used for metadata
// lookups.
//
// The client targets any OpenRouter-compatible endpoint and requests
// JSON-only responses. Transport hiccups (408/429/5xx) are retried with
// exponential backoff honoring Retry-After; a failed lookup after that is a
// per-task failure, never a pipeline abort. Task-level retry is deliberately
// absent: the operator re-runs the tool and already-enriched folders are
// skipped.
//
// A zero configured timeout leaves the request deadline to the caller's
// context, since lookups for obscure titles can legitimately take minutes.
package assistant
