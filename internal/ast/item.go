package ast

import (
	"lavish/internal/source"
)

type ItemKind uint8

const (
	ItemNamespace ItemKind = iota
	ItemStruct
	ItemEnum
	ItemFn
)

func (k ItemKind) String() string {
	switch k {
	case ItemNamespace:
		return "namespace"
	case ItemStruct:
		return "struct"
	case ItemEnum:
		return "enum"
	case ItemFn:
		return "function"
	default:
		return "item"
	}
}

// Item is the common header of every declaration. The kind-specific part
// lives in the per-kind arena addressed by Payload.
type Item struct {
	Kind     ItemKind
	Span     source.Span
	Name     source.StringID
	NameSpan source.Span
	Doc      string
	Payload  PayloadID
}

type Items struct {
	Arena      *Arena[Item]
	Namespaces *Arena[NamespaceDecl]
	Structs    *Arena[StructDecl]
	Enums      *Arena[EnumDecl]
	Fns        *Arena[FnDecl]
}

// NewItems creates per-kind arenas. capHint of 0 selects 1<<7.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:      NewArena[Item](capHint),
		Namespaces: NewArena[NamespaceDecl](capHint / 4),
		Structs:    NewArena[StructDecl](capHint),
		Enums:      NewArena[EnumDecl](capHint / 4),
		Fns:        NewArena[FnDecl](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

// Namespace returns the namespace payload of id, or nil if id is not a namespace.
func (i *Items) Namespace(id ItemID) *NamespaceDecl {
	item := i.Get(id)
	if item == nil || item.Kind != ItemNamespace {
		return nil
	}
	return i.Namespaces.Get(uint32(item.Payload))
}

// Struct returns the struct payload of id, or nil.
func (i *Items) Struct(id ItemID) *StructDecl {
	item := i.Get(id)
	if item == nil || item.Kind != ItemStruct {
		return nil
	}
	return i.Structs.Get(uint32(item.Payload))
}

// Enum returns the enum payload of id, or nil.
func (i *Items) Enum(id ItemID) *EnumDecl {
	item := i.Get(id)
	if item == nil || item.Kind != ItemEnum {
		return nil
	}
	return i.Enums.Get(uint32(item.Payload))
}

// Fn returns the function payload of id, or nil.
func (i *Items) Fn(id ItemID) *FnDecl {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil
	}
	return i.Fns.Get(uint32(item.Payload))
}
