// Package metadata defines the bibliographic record shared across the
// pipeline, the tolerant JSON extraction for assistant output, and the
// per-directory artifact store.
//
// A Record carries a confidence score plus rationale; both are transient and
// stripped before persistence. Acceptance is a strict cutoff: confidence
// below 0.60 rejects, exactly 0.60 accepts, and a missing confidence field
// defaults to 0.5 and therefore rejects.
package metadata
