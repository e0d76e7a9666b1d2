// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (LEX1001, SEM3004, ...).
//   - Message: short human oriented text.
//   - Primary: the source.Span pointing to the issue.
//   - Notes: optional secondary spans with extra context.
//
// # Emitting diagnostics
//
// Phases never store diagnostics themselves. They receive a Reporter and emit
// through ReportError / ReportWarning / ReportInfo builders:
//
//	diag.ReportError(r, diag.SemUnknownName, span, "unknown variable or function: x").Emit()
//
// BagReporter collects into a Bag, which supports sorting, deduplication and a
// hard limit. Compilation is considered failed iff the bag holds an error.
//
// Package diag does not format anything; rendering lives in internal/diagfmt.
package diag
