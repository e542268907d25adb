// Package reconcile joins freshly enriched local folders to remote catalog
// items and asks the server to re-scan them.
//
// The join key is the folder basename, not the full path: the library is
// typically mounted at different paths locally and on the server. The remote
// catalog is fetched exactly once, before any enrichment runs, so the lookup
// is read-only for the whole run. A missing remote entry is a warning, not
// an error, and a failed re-scan trigger never fails the enrichment task.
package reconcile
