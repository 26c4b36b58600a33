package lavish

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"lavish/internal/diag"
	"lavish/internal/source"
	"lavish/schema"
)

// Diagnostic is a compiler message in a form that does not depend on the
// compiler internals. Pos is zero for diagnostics that belong to no
// source position, such as unreadable files.
type Diagnostic struct {
	Severity string // "error", "warning" or "info"
	Code     string
	Message  string
	Pos      schema.Position
	Notes    []Note
}

type Note struct {
	Pos     schema.Position
	Message string
}

func (d Diagnostic) String() string {
	if d.Pos.File == "" {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Severity, d.Code, d.Message)
}

// Error is returned when compilation produced no schema. Diagnostics holds
// at least one error, ordered by file, line and column.
type Error struct {
	Diagnostics []Diagnostic
	// Omitted counts diagnostics dropped by WithMaxDiagnostics.
	Omitted int
}

func (e *Error) Error() string {
	var first *Diagnostic
	errs := 0
	for i := range e.Diagnostics {
		if e.Diagnostics[i].Severity != "error" {
			continue
		}
		if first == nil {
			first = &e.Diagnostics[i]
		}
		errs++
	}
	switch {
	case first == nil:
		return "lavish: compilation failed"
	case errs == 1:
		return first.String()
	default:
		return fmt.Sprintf("%s (and %d more errors)", first.String(), errs-1)
	}
}

// Codes lists the diagnostic codes in order, handy in tests.
func (e *Error) Codes() []string {
	out := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		out[i] = d.Code
	}
	return out
}

// AsError extracts *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func convertDiagnostics(items []diag.Diagnostic, fs *source.FileSet) []Diagnostic {
	out := make([]Diagnostic, 0, len(items))
	for _, d := range items {
		if d.Code == diag.ObsTimings {
			continue
		}
		cd := Diagnostic{
			Severity: strings.ToLower(d.Severity.String()),
			Code:     d.Code.ID(),
			Message:  d.Message,
		}
		if d.Located() {
			cd.Pos = position(fs, d.Primary)
			for _, n := range d.Notes {
				cd.Notes = append(cd.Notes, Note{Pos: position(fs, n.Span), Message: n.Msg})
			}
		}
		out = append(out, cd)
	}
	sortDiagnostics(out)
	return out
}

func position(fs *source.FileSet, sp source.Span) schema.Position {
	if fs == nil || int(sp.File) >= fs.Len() {
		return schema.Position{}
	}
	p := fs.Position(sp)
	return schema.Position{File: p.Path, Line: p.Line, Column: p.Col}
}

func sortDiagnostics(ds []Diagnostic) {
	slices.SortStableFunc(ds, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Pos.File, b.Pos.File),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
			cmp.Compare(a.Code, b.Code),
		)
	})
}
