// Package diag defines the diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced
//     by the lexer, the parser and the two resolution passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// Package diag does not render anything for humans beyond the single-line
// golden form; pretty and JSON output live in internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – numeric identifier with a stable string form (see codes.go).
//     Ranges: 1xxx lexer, 2xxx parser, 3xxx resolver, 4xxx I/O, 5xxx
//     workspace, 6xxx observability.
//   - Message – short, actionable text. Syntax errors read
//     "expected X, found Y".
//   - Primary span – the canonical source.Span pointing at the issue.
//   - Notes – secondary spans, e.g. "first declared here" on duplicates.
//
// # Emitting diagnostics
//
// Phases receive a diag.Reporter. ReportError / ReportWarning return a
// ReportBuilder; chain WithNote and finish with Emit. BagReporter collects
// into a Bag, which supports sorting, deduplication and filtering.
//
// Lexical and syntax errors are fatal for their file: the parser stops at
// the first one. Resolver diagnostics accumulate and are sorted by position
// before they reach the caller.
package diag
