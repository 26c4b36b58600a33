package symbols

import (
	"lavish/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid   ScopeKind = iota
	ScopeRoot                // holds the top-level namespaces of the whole unit
	ScopeNamespace           // structs, enums, functions and child namespaces
	ScopeFunction            // nested functions of one function, nothing else
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeRoot:
		return "root"
	case ScopeNamespace:
		return "namespace"
	case ScopeFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy. Owner is the
// namespace or function symbol whose body the scope is; the root scope has
// no owner.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     SymbolID
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
