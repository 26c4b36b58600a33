package schema

import (
	"fmt"
	"strings"

	"lavish/internal/ast"
	"lavish/internal/sema"
	"lavish/internal/source"
	"lavish/internal/symbols"
	"lavish/internal/types"
)

// Input is everything the compiler knows about a unit that passed
// resolution without errors.
type Input struct {
	Builder *ast.Builder
	Files   *source.FileSet
	Symbols *symbols.Result
	Sema    *sema.Result
}

// Build freezes a resolved unit into a Schema. It performs no validation:
// callers must only invoke it when registration and resolution reported no
// errors, and a missing binding is treated as a bug.
//
// Declarations are created first and types bound second, so struct
// references may point at structs declared later, or at themselves.
func Build(in Input) *Schema {
	if in.Builder == nil || in.Symbols == nil || in.Sema == nil {
		panic("schema: Build needs the AST, the symbol table and the resolution result")
	}
	b := &assembler{
		in:      in,
		table:   in.Symbols.Table,
		s:       newSchema(),
		structs: make(map[symbols.SymbolID]*Struct),
		enums:   make(map[symbols.SymbolID]*Enum),
		refs:    make(map[types.TypeID]TypeRef),
	}
	for _, nsSym := range in.Symbols.Namespaces {
		b.namespace(nsSym, nil)
	}
	b.bindTypes()
	return b.s
}

type assembler struct {
	in    Input
	table *symbols.Table
	s     *Schema

	structs map[symbols.SymbolID]*Struct
	enums   map[symbols.SymbolID]*Enum
	refs    map[types.TypeID]TypeRef

	// declarations waiting for their types
	pendingStructs []pendingStruct
	pendingFns     []pendingFn
}

type pendingStruct struct {
	decl *Struct
	item ast.ItemID
}

type pendingFn struct {
	decl *Function
	item ast.ItemID
}

func (b *assembler) namespace(sym symbols.SymbolID, parent *Namespace) {
	nsSym := b.table.Symbols.Get(sym)
	items := nsSym.ItemIDs()
	first := b.in.Builder.Items.Get(items[0])

	ns := &Namespace{
		Name:   b.name(nsSym.Name),
		Path:   b.table.Path(sym),
		Doc:    b.namespaceDoc(items),
		Pos:    b.position(first.NameSpan),
		Parent: parent,
	}
	b.s.addNamespace(ns)

	for _, memberID := range b.table.Members(sym, symbols.KindMaskAny) {
		member := b.table.Symbols.Get(memberID)
		switch member.Kind {
		case symbols.SymbolNamespace:
			b.namespace(memberID, ns)
		case symbols.SymbolStruct:
			b.structShell(memberID, ns)
		case symbols.SymbolEnum:
			b.enumDecl(memberID, ns)
		case symbols.SymbolFunction:
			ns.Functions = append(ns.Functions, b.function(member.Decl.Item, ns, nil))
		default:
			panic(fmt.Sprintf("schema: unexpected %s symbol in namespace %s", member.Kind, ns.Path))
		}
	}
}

// namespaceDoc joins the doc comments of every block of a reopened
// namespace.
func (b *assembler) namespaceDoc(items []ast.ItemID) string {
	var docs []string
	for _, id := range items {
		if doc := b.in.Builder.Items.Get(id).Doc; doc != "" {
			docs = append(docs, doc)
		}
	}
	return strings.Join(docs, "\n")
}

func (b *assembler) structShell(sym symbols.SymbolID, ns *Namespace) {
	itemID := b.table.Symbols.Get(sym).Decl.Item
	item := b.in.Builder.Items.Get(itemID)
	decl := b.in.Builder.Items.Struct(itemID)

	st := &Struct{
		Name:      b.name(item.Name),
		Path:      b.table.Path(sym),
		Doc:       item.Doc,
		Pos:       b.position(item.NameSpan),
		Namespace: ns,
		Fields:    make([]Field, len(decl.Fields)),
	}
	for i, f := range decl.Fields {
		st.Fields[i] = Field{Name: b.name(f.Name), Doc: f.Doc, Pos: b.position(f.NameSpan)}
	}
	ns.Structs = append(ns.Structs, st)
	b.structs[sym] = st
	b.s.addDecl(st)
	b.pendingStructs = append(b.pendingStructs, pendingStruct{decl: st, item: itemID})
}

func (b *assembler) enumDecl(sym symbols.SymbolID, ns *Namespace) {
	itemID := b.table.Symbols.Get(sym).Decl.Item
	item := b.in.Builder.Items.Get(itemID)
	decl := b.in.Builder.Items.Enum(itemID)

	en := &Enum{
		Name:      b.name(item.Name),
		Path:      b.table.Path(sym),
		Doc:       item.Doc,
		Pos:       b.position(item.NameSpan),
		Namespace: ns,
		Variants:  make([]Variant, len(decl.Variants)),
	}
	for i, v := range decl.Variants {
		en.Variants[i] = Variant{Name: b.name(v.Name), Doc: v.Doc, Pos: b.position(v.Span)}
	}
	ns.Enums = append(ns.Enums, en)
	b.enums[sym] = en
	b.s.addDecl(en)
}

// function creates fn and its nested functions in pre-order. The path
// comes from resolution; nested functions are not namespace members.
func (b *assembler) function(itemID ast.ItemID, ns *Namespace, parent *Function) *Function {
	info, ok := b.in.Sema.Function(itemID)
	if !ok {
		panic(fmt.Sprintf("schema: function item %d was not resolved", itemID))
	}
	item := b.in.Builder.Items.Get(itemID)
	decl := b.in.Builder.Items.Fn(itemID)

	fn := &Function{
		Name:      b.name(item.Name),
		Path:      info.Path,
		Doc:       item.Doc,
		Pos:       b.position(item.NameSpan),
		Role:      role(decl.Role),
		Namespace: ns,
		Parent:    parent,
		Params:    b.fieldShells(decl.Params),
		Results:   b.fieldShells(decl.Results),
		Nested:    make([]*Function, 0, len(info.Callbacks)),
	}
	b.s.addDecl(fn)
	b.pendingFns = append(b.pendingFns, pendingFn{decl: fn, item: itemID})
	for _, nested := range info.Callbacks {
		fn.Nested = append(fn.Nested, b.function(nested, ns, fn))
	}
	return fn
}

func (b *assembler) fieldShells(fields []ast.Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Name: b.name(f.Name), Doc: f.Doc, Pos: b.position(f.NameSpan)}
	}
	return out
}

func (b *assembler) bindTypes() {
	for _, p := range b.pendingStructs {
		for i, f := range b.in.Builder.Items.Struct(p.item).Fields {
			p.decl.Fields[i].Type = b.typeRef(b.in.Sema.TypeOf(f.Type))
		}
	}
	for _, p := range b.pendingFns {
		decl := b.in.Builder.Items.Fn(p.item)
		for i, f := range decl.Params {
			p.decl.Params[i].Type = b.typeRef(b.in.Sema.TypeOf(f.Type))
		}
		for i, f := range decl.Results {
			p.decl.Results[i].Type = b.typeRef(b.in.Sema.TypeOf(f.Type))
		}
	}
	b.pendingStructs, b.pendingFns = nil, nil
}

// typeRef converts an interned type. Equal types share one TypeRef value.
func (b *assembler) typeRef(id types.TypeID) TypeRef {
	if ref, ok := b.refs[id]; ok {
		return ref
	}
	tt, ok := b.in.Sema.TypeInterner.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("schema: unresolved type %d", id))
	}

	var ref TypeRef
	switch tt.Kind {
	case types.KindUint:
		ref = uintPrimitive(tt.Width)
	case types.KindInt:
		ref = intPrimitive(tt.Width)
	case types.KindBool:
		ref = Bool
	case types.KindString:
		ref = String
	case types.KindData:
		ref = Data
	case types.KindTimestamp:
		ref = Timestamp
	case types.KindArray:
		ref = &Array{Elem: b.typeRef(tt.Elem)}
	case types.KindOption:
		ref = &Option{Elem: b.typeRef(tt.Elem)}
	case types.KindMap:
		key, isPrim := b.typeRef(tt.Elem).(Primitive)
		if !isPrim {
			panic(fmt.Sprintf("schema: map key of type %d is not primitive", id))
		}
		ref = &Map{Key: key, Value: b.typeRef(tt.Value)}
	case types.KindStruct:
		st := b.structs[symbols.SymbolID(tt.Decl)]
		if st == nil {
			panic(fmt.Sprintf("schema: struct symbol %d has no declaration", tt.Decl))
		}
		ref = &StructRef{Path: st.Path, decl: st}
	case types.KindEnum:
		en := b.enums[symbols.SymbolID(tt.Decl)]
		if en == nil {
			panic(fmt.Sprintf("schema: enum symbol %d has no declaration", tt.Decl))
		}
		ref = &EnumRef{Path: en.Path, decl: en}
	default:
		panic(fmt.Sprintf("schema: unexpected type kind %s", tt.Kind))
	}
	b.refs[id] = ref
	return ref
}

func uintPrimitive(w types.Width) Primitive {
	switch w {
	case types.Width8:
		return U8
	case types.Width16:
		return U16
	case types.Width32:
		return U32
	case types.Width64:
		return U64
	}
	panic(fmt.Sprintf("schema: bad integer width %d", w))
}

func intPrimitive(w types.Width) Primitive {
	switch w {
	case types.Width8:
		return I8
	case types.Width16:
		return I16
	case types.Width32:
		return I32
	case types.Width64:
		return I64
	}
	panic(fmt.Sprintf("schema: bad integer width %d", w))
}

func role(r ast.FnRole) Role {
	if r == ast.RoleClient {
		return RoleClient
	}
	return RoleServer
}

func (b *assembler) name(id source.StringID) string {
	return b.table.Strings.MustLookup(id)
}

func (b *assembler) position(sp source.Span) Position {
	if b.in.Files == nil || int(sp.File) >= b.in.Files.Len() {
		return Position{}
	}
	p := b.in.Files.Position(sp)
	return Position{File: p.Path, Line: p.Line, Column: p.Col}
}
