// Package journal partitions run outcomes into append-only channels.
//
// Every task outcome lands on exactly one channel: processed, rejected,
// failed, or skipped, plus a comparison channel for catalog reconciliation
// reports. Separation by category is the contract; a reader of the rejected
// journal sees only results the assistant produced but Tome distrusted.
//
// The pipeline takes a Sink so tests assert on structured events instead of
// parsing log text.
package journal
