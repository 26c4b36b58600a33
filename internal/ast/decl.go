package ast

import "lavish/internal/source"

// NamespaceDecl lists the items of one `namespace NAME { ... }` block in
// source order. A namespace reopened later gets its own NamespaceDecl;
// merging happens during symbol registration.
type NamespaceDecl struct {
	Items []ItemID
}

type StructDecl struct {
	Fields []Field
}

// Field is a named, typed slot: a struct field, a parameter or a result.
type Field struct {
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
	Type     TypeID
	Doc      string
}

type EnumDecl struct {
	Variants []Variant
}

type Variant struct {
	Name source.StringID
	Span source.Span
	Doc  string
}

// FnRole says which peer implements a function.
type FnRole uint8

const (
	RoleServer FnRole = iota
	RoleClient
)

func (r FnRole) String() string {
	if r == RoleClient {
		return "client"
	}
	return "server"
}

// Opposite returns the peer role: nested callbacks normally belong to it.
func (r FnRole) Opposite() FnRole {
	if r == RoleClient {
		return RoleServer
	}
	return RoleClient
}

type FnDecl struct {
	Role     FnRole
	RoleSpan source.Span
	Params   []Field
	Results  []Field
	Nested   []ItemID // only ItemFn
}
