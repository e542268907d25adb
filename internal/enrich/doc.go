// Package enrich turns scan tasks into persisted metadata artifacts.
//
// The worker owns the per-task sequence: skip folders that already carry an
// artifact, ask the assistant about the representative file, parse the reply,
// gate it on confidence, persist the accepted artifact, and hand it to the
// catalog reconciler. The executor owns the concurrency: a fixed pool of
// workers, unordered result collection, an optional early stop once enough
// tasks have succeeded, and containment of any task that panics.
package enrich
