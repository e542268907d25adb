// Package audiobookshelf is a thin client for the slice of the
// Audiobookshelf REST API that catalog reconciliation needs: list libraries,
// list library items, and trigger a per-item re-scan.
//
// The server stays the source of truth for its own ingestion; Tome never
// pushes metadata fields over this API, it only asks the server to re-read
// the artifact it wrote to disk.
package audiobookshelf
