// Package logging builds slog loggers with console and JSON handlers plus
// typed attribute helpers shared across the codebase.
//
// The console handler renders single-line "TIME LEVEL component: message
// key=value" output; the JSON handler is the stock slog handler with UTC
// timestamps. Outcome journals live in internal/journal, not here; this
// package only covers operator-facing diagnostics.
package logging
