package ast

import (
	"lavish/internal/source"
)

type Hints struct{ Files, Items, Types uint }

// Builder owns the arenas of one or more parsed files.
type Builder struct {
	Files           *Files
	Items           *Items
	Types           *TypeExprs
	StringsInterner *source.Interner
}

// NewBuilder allocates arenas. A nil interner gets a private one; pass a
// shared interner when several builders will be merged later.
func NewBuilder(hints Hints, stringsInterner *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 3
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Types == 0 {
		hints.Types = 1 << 8
	}
	if stringsInterner == nil {
		stringsInterner = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Items:           NewItems(hints.Items),
		Types:           NewTypeExprs(hints.Types),
		StringsInterner: stringsInterner,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// NewNamespace allocates an empty namespace item.
func (b *Builder) NewNamespace(span source.Span, name source.StringID, nameSpan source.Span, doc string) ItemID {
	payload := PayloadID(b.Items.Namespaces.Allocate(NamespaceDecl{}))
	return b.newItem(ItemNamespace, span, name, nameSpan, doc, payload)
}

func (b *Builder) NewStruct(span source.Span, name source.StringID, nameSpan source.Span, doc string, fields []Field) ItemID {
	payload := PayloadID(b.Items.Structs.Allocate(StructDecl{Fields: fields}))
	return b.newItem(ItemStruct, span, name, nameSpan, doc, payload)
}

func (b *Builder) NewEnum(span source.Span, name source.StringID, nameSpan source.Span, doc string, variants []Variant) ItemID {
	payload := PayloadID(b.Items.Enums.Allocate(EnumDecl{Variants: variants}))
	return b.newItem(ItemEnum, span, name, nameSpan, doc, payload)
}

func (b *Builder) NewFn(span source.Span, name source.StringID, nameSpan source.Span, doc string, decl FnDecl) ItemID {
	payload := PayloadID(b.Items.Fns.Allocate(decl))
	return b.newItem(ItemFn, span, name, nameSpan, doc, payload)
}

func (b *Builder) newItem(kind ItemKind, span source.Span, name source.StringID, nameSpan source.Span, doc string, payload PayloadID) ItemID {
	id := b.Items.New(kind, span, payload)
	item := b.Items.Get(id)
	item.Name = name
	item.NameSpan = nameSpan
	item.Doc = doc
	return id
}

// PushNamespace appends a top-level namespace to file.
func (b *Builder) PushNamespace(file FileID, ns ItemID) {
	f := b.Files.Get(file)
	f.Namespaces = append(f.Namespaces, ns)
}

// PushItem appends item to the namespace ns.
func (b *Builder) PushItem(ns ItemID, item ItemID) {
	decl := b.Items.Namespace(ns)
	decl.Items = append(decl.Items, item)
}

// Name returns the declared name of item.
func (b *Builder) Name(id ItemID) string {
	item := b.Items.Get(id)
	if item == nil {
		return ""
	}
	return b.StringsInterner.MustLookup(item.Name)
}
