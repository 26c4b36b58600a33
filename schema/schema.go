// Package schema is the resolved, immutable form of a lavish program: the
// namespace tree, every struct, enum and function with fully bound types,
// and a flat index from qualified path to declaration.
//
// A Schema is produced once by the compiler and never mutated afterwards.
// The exported fields of the declaration types are there for convenient
// traversal by code generators; they must be treated as read-only.
package schema

import (
	"fmt"
	"strings"
)

// Position locates a declaration name in its source file.
type Position struct {
	File   string `json:"file" msgpack:"file"`
	Line   uint32 `json:"line" msgpack:"line"`
	Column uint32 `json:"column" msgpack:"column"`
}

func (p Position) String() string {
	if p.File == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Role says which peer implements a function.
type Role uint8

const (
	RoleServer Role = iota
	RoleClient
)

func (r Role) String() string {
	if r == RoleClient {
		return "client"
	}
	return "server"
}

// ParseRole accepts "server" and "client".
func ParseRole(s string) (Role, bool) {
	switch s {
	case "server":
		return RoleServer, true
	case "client":
		return RoleClient, true
	default:
		return RoleServer, false
	}
}

// DeclKind classifies the entries of the path index.
type DeclKind uint8

const (
	DeclStruct DeclKind = iota
	DeclEnum
	DeclFunction
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclEnum:
		return "enum"
	case DeclFunction:
		return "function"
	default:
		return fmt.Sprintf("DeclKind(%d)", k)
	}
}

// Decl is an entry of the qualified-path index: *Struct, *Enum or *Function.
type Decl interface {
	DeclKind() DeclKind
	QualifiedPath() string
	sealedDecl()
}

type Namespace struct {
	Name       string
	Path       string
	Doc        string
	Pos        Position
	Parent     *Namespace
	Namespaces []*Namespace
	Structs    []*Struct
	Enums      []*Enum
	Functions  []*Function // top-level functions only
}

// Field is a struct field, a function parameter or a function result.
type Field struct {
	Name string
	Type TypeRef
	Doc  string
	Pos  Position
}

type Struct struct {
	Name      string
	Path      string
	Doc       string
	Pos       Position
	Namespace *Namespace
	Fields    []Field
}

func (s *Struct) DeclKind() DeclKind    { return DeclStruct }
func (s *Struct) QualifiedPath() string { return s.Path }
func (*Struct) sealedDecl()             {}

// Field returns the field called name.
func (s *Struct) Field(name string) (*Field, bool) {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i], true
		}
	}
	return nil, false
}

type Variant struct {
	Name string
	Doc  string
	Pos  Position
}

type Enum struct {
	Name      string
	Path      string
	Doc       string
	Pos       Position
	Namespace *Namespace
	Variants  []Variant
}

func (e *Enum) DeclKind() DeclKind    { return DeclEnum }
func (e *Enum) QualifiedPath() string { return e.Path }
func (*Enum) sealedDecl()             {}

// Function is a callable declared by one peer. Nested functions are the
// callbacks the opposite peer may invoke while a call of this function is
// pending; they are reachable only through Nested and the path index.
type Function struct {
	Name      string
	Path      string
	Doc       string
	Pos       Position
	Role      Role
	Namespace *Namespace
	Parent    *Function
	Params    []Field
	Results   []Field
	Nested    []*Function
}

func (f *Function) DeclKind() DeclKind    { return DeclFunction }
func (f *Function) QualifiedPath() string { return f.Path }
func (*Function) sealedDecl()             {}

// Depth is 0 for top-level functions, 1 for their callbacks and so on.
func (f *Function) Depth() int {
	d := 0
	for p := f.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Schema is the root of a compiled program.
type Schema struct {
	namespaces []*Namespace
	nsIndex    map[string]*Namespace
	index      map[string]Decl

	// creation order, pre-order over the namespace tree
	allNamespaces []*Namespace
	structs       []*Struct
	enums         []*Enum
	functions     []*Function
}

func newSchema() *Schema {
	return &Schema{
		nsIndex: make(map[string]*Namespace),
		index:   make(map[string]Decl),
	}
}

func (s *Schema) addNamespace(ns *Namespace) {
	if ns.Parent == nil {
		s.namespaces = append(s.namespaces, ns)
	} else {
		ns.Parent.Namespaces = append(ns.Parent.Namespaces, ns)
	}
	s.allNamespaces = append(s.allNamespaces, ns)
	s.nsIndex[ns.Path] = ns
}

func (s *Schema) addDecl(d Decl) {
	if prev, dup := s.index[d.QualifiedPath()]; dup {
		panic(fmt.Sprintf("schema: %s %q indexed twice (previous %s)", d.DeclKind(), d.QualifiedPath(), prev.DeclKind()))
	}
	s.index[d.QualifiedPath()] = d
	switch d := d.(type) {
	case *Struct:
		s.structs = append(s.structs, d)
	case *Enum:
		s.enums = append(s.enums, d)
	case *Function:
		s.functions = append(s.functions, d)
	}
}

// Namespaces returns the top-level namespaces in declaration order.
func (s *Schema) Namespaces() []*Namespace { return s.namespaces }

// Namespace finds a namespace by its dotted path.
func (s *Schema) Namespace(path string) (*Namespace, bool) {
	ns, ok := s.nsIndex[path]
	return ns, ok
}

// Lookup finds a struct, enum or function by qualified path.
func (s *Schema) Lookup(path string) (Decl, bool) {
	d, ok := s.index[path]
	return d, ok
}

func (s *Schema) Function(path string) (*Function, bool) {
	fn, ok := s.index[path].(*Function)
	return fn, ok
}

func (s *Schema) Struct(path string) (*Struct, bool) {
	st, ok := s.index[path].(*Struct)
	return st, ok
}

func (s *Schema) Enum(path string) (*Enum, bool) {
	en, ok := s.index[path].(*Enum)
	return en, ok
}

// Functions returns every function, nested ones included, depth-first in
// pre-order.
func (s *Schema) Functions() []*Function { return s.functions }

// Structs returns every struct in declaration order.
func (s *Schema) Structs() []*Struct { return s.structs }

// Enums returns every enum in declaration order.
func (s *Schema) Enums() []*Enum { return s.enums }

// Paths returns all indexed paths: functions first, then structs, then
// enums, each group in declaration order.
func (s *Schema) Paths() []string {
	out := make([]string, 0, len(s.index))
	for _, fn := range s.functions {
		out = append(out, fn.Path)
	}
	for _, st := range s.structs {
		out = append(out, st.Path)
	}
	for _, en := range s.enums {
		out = append(out, en.Path)
	}
	return out
}

// ResolveFunction is Function with a diagnostic error for missing paths.
func (s *Schema) ResolveFunction(path string) (*Function, error) {
	if fn, ok := s.Function(path); ok {
		return fn, nil
	}
	return nil, s.lookupError(UnresolvedFunction, path)
}

// ResolveType returns a reference to the struct or enum at path.
func (s *Schema) ResolveType(path string) (TypeRef, error) {
	switch d := s.index[path].(type) {
	case *Struct:
		return &StructRef{Path: d.Path, decl: d}, nil
	case *Enum:
		return &EnumRef{Path: d.Path, decl: d}, nil
	default:
		return nil, s.lookupError(UnresolvedType, path)
	}
}

func (s *Schema) lookupError(kind LookupKind, path string) *LookupError {
	err := &LookupError{Kind: kind, Path: path}
	if d, ok := s.index[path]; ok {
		err.Found = d.DeclKind().String()
	} else if _, ok := s.nsIndex[path]; ok {
		err.Found = "namespace"
	}
	return err
}

// parentPath drops the last segment of a dotted path.
func parentPath(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return ""
}
