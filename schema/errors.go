package schema

import (
	"fmt"

	"lavish/internal/diag"
)

// LookupKind tells what kind of declaration a failed lookup wanted.
type LookupKind uint8

const (
	UnresolvedFunction LookupKind = iota
	UnresolvedType
)

func (k LookupKind) String() string {
	if k == UnresolvedType {
		return "type"
	}
	return "function"
}

// Code returns the diagnostic code of the failure, e.g. "SEM3006".
func (k LookupKind) Code() string {
	if k == UnresolvedType {
		return diag.SemaUnresolvedType.ID()
	}
	return diag.SemaUnresolvedFunction.ID()
}

// LookupError reports a qualified path that names no declaration of the
// wanted kind. Found is the kind of what lives at the path instead, if any.
type LookupError struct {
	Kind  LookupKind
	Path  string
	Found string
}

func (e *LookupError) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("%s: unresolved %s '%s' (found %s)", e.Kind.Code(), e.Kind, e.Path, e.Found)
	}
	return fmt.Sprintf("%s: unresolved %s '%s'", e.Kind.Code(), e.Kind, e.Path)
}
