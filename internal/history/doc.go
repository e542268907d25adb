// Package history keeps a SQLite ledger of past enrichment runs.
//
// Each run gets one summary row plus per-folder outcome rows, written in a
// single transaction when the run finishes. The ledger is what "tome history"
// reads; the per-run JSONL journals remain the detailed record.
package history
