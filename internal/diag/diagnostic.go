package diag

import (
	"lavish/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Located reports whether the code points into source text. IO, project
// and observability diagnostics carry a zero span that must not be
// resolved against the file set.
func (c Code) Located() bool {
	switch c.Phase() {
	case PhaseIO, PhaseProject, PhaseObserv:
		return false
	default:
		return true
	}
}

func (d Diagnostic) Located() bool { return d.Code.Located() }
