// Package preflight provides readiness checks for external services
// and filesystem paths that tome depends on.
//
// The "tome status" command shows each check's outcome; "tome enrich" runs
// RunAll before scanning so a misconfigured assistant key or an unreadable
// library fails the run up front instead of after hundreds of lookups.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
