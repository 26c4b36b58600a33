package ast

import (
	"fmt"
	"slices"
)

// Absorb moves every file of other into b and returns the new file ids in
// other's order. Both builders must share one string interner. All ids
// inside other are shifted by the current arena sizes of b, so other must
// not be used afterwards.
func (b *Builder) Absorb(other *Builder) []FileID {
	if other.StringsInterner != b.StringsInterner {
		panic(fmt.Errorf("ast: cannot absorb a builder with a different string interner"))
	}

	itemBase := ItemID(b.Items.Arena.Len())
	typeBase := TypeID(b.Types.Arena.Len())
	nsBase := PayloadID(b.Items.Namespaces.Len())
	structBase := PayloadID(b.Items.Structs.Len())
	enumBase := PayloadID(b.Items.Enums.Len())
	fnBase := PayloadID(b.Items.Fns.Len())

	shiftItem := func(id ItemID) ItemID {
		if !id.IsValid() {
			return id
		}
		return id + itemBase
	}
	shiftType := func(id TypeID) TypeID {
		if !id.IsValid() {
			return id
		}
		return id + typeBase
	}
	shiftItems := func(ids []ItemID) []ItemID {
		out := slices.Clone(ids)
		for i := range out {
			out[i] = shiftItem(out[i])
		}
		return out
	}
	shiftFields := func(fields []Field) []Field {
		out := slices.Clone(fields)
		for i := range out {
			out[i].Type = shiftType(out[i].Type)
		}
		return out
	}

	for _, expr := range other.Types.Arena.Slice() {
		expr.Elem = shiftType(expr.Elem)
		expr.Value = shiftType(expr.Value)
		expr.Path = slices.Clone(expr.Path)
		b.Types.Arena.Allocate(expr)
	}
	for _, ns := range other.Items.Namespaces.Slice() {
		b.Items.Namespaces.Allocate(NamespaceDecl{Items: shiftItems(ns.Items)})
	}
	for _, st := range other.Items.Structs.Slice() {
		b.Items.Structs.Allocate(StructDecl{Fields: shiftFields(st.Fields)})
	}
	for _, en := range other.Items.Enums.Slice() {
		b.Items.Enums.Allocate(EnumDecl{Variants: slices.Clone(en.Variants)})
	}
	for _, fn := range other.Items.Fns.Slice() {
		fn.Params = shiftFields(fn.Params)
		fn.Results = shiftFields(fn.Results)
		fn.Nested = shiftItems(fn.Nested)
		b.Items.Fns.Allocate(fn)
	}
	for _, item := range other.Items.Arena.Slice() {
		switch item.Kind {
		case ItemNamespace:
			item.Payload += nsBase
		case ItemStruct:
			item.Payload += structBase
		case ItemEnum:
			item.Payload += enumBase
		case ItemFn:
			item.Payload += fnBase
		default:
			panic(fmt.Errorf("ast: unknown item kind %d", item.Kind))
		}
		b.Items.Arena.Allocate(item)
	}

	files := make([]FileID, 0, other.Files.Arena.Len())
	for _, f := range other.Files.Arena.Slice() {
		id := FileID(b.Files.Arena.Allocate(File{
			Span:       f.Span,
			Source:     f.Source,
			Namespaces: shiftItems(f.Namespaces),
		}))
		files = append(files, id)
	}
	return files
}
