package symbols

import (
	"lavish/internal/ast"
	"lavish/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolNamespace
	SymbolStruct
	SymbolEnum
	SymbolFunction
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolNamespace:
		return "namespace"
	case SymbolStruct:
		return "struct"
	case SymbolEnum:
		return "enum"
	case SymbolFunction:
		return "function"
	default:
		return "invalid"
	}
}

// IsType reports whether symbols of this kind can appear in a type position.
func (k SymbolKind) IsType() bool {
	return k == SymbolStruct || k == SymbolEnum
}

// SymbolDecl points at the AST origin.
type SymbolDecl struct {
	SourceFile source.FileID
	ASTFile    ast.FileID
	Item       ast.ItemID
}

// Symbol describes a named entity available in a scope.
//
// Inner is the scope opened by the symbol: the namespace body for
// namespaces, the nested-function scope for functions that declare nested
// functions. Reopened lists the later blocks of a namespace declared more
// than once; they all share Inner.
type Symbol struct {
	Name     source.StringID
	Kind     SymbolKind
	Scope    ScopeID
	Span     source.Span
	Decl     SymbolDecl
	Inner    ScopeID
	Reopened []SymbolDecl
}

// ItemIDs returns every AST item declaring the symbol, first one first.
func (s *Symbol) ItemIDs() []ast.ItemID {
	out := make([]ast.ItemID, 0, 1+len(s.Reopened))
	out = append(out, s.Decl.Item)
	for _, d := range s.Reopened {
		out = append(out, d.Item)
	}
	return out
}
