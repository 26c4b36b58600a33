package schema

import "fmt"

// Kind identifies the category of a type reference.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindArray
	KindOption
	KindMap
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindOption:
		return "option"
	case KindMap:
		return "map"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// TypeRef is the resolved type of a field, parameter or result.
//
// The set of implementations is closed: Primitive, *Array, *Option, *Map,
// *StructRef and *EnumRef. Generators are expected to switch over Kind()
// or the concrete type and treat anything else as a bug.
type TypeRef interface {
	Kind() Kind
	// String renders the type in IDL syntax, e.g. "map<string, chat.User>".
	String() string

	sealed()
}

// Primitive is a scalar wire type.
type Primitive uint8

const (
	InvalidPrimitive Primitive = iota
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	Bool
	String
	Data
	Timestamp
)

var primitiveNames = [...]string{
	InvalidPrimitive: "invalid",
	U8:               "u8",
	U16:              "u16",
	U32:              "u32",
	U64:              "u64",
	I8:               "i8",
	I16:              "i16",
	I32:              "i32",
	I64:              "i64",
	Bool:             "bool",
	String:           "string",
	Data:             "data",
	Timestamp:        "timestamp",
}

func (p Primitive) Kind() Kind { return KindPrimitive }

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "invalid"
}

// IsInteger reports whether p is one of the fixed-width integers.
func (p Primitive) IsInteger() bool { return p >= U8 && p <= I64 }

// IsSigned reports whether p is a signed integer.
func (p Primitive) IsSigned() bool { return p >= I8 && p <= I64 }

// Bits returns the width of an integer primitive, 0 for the others.
func (p Primitive) Bits() int {
	switch p {
	case U8, I8:
		return 8
	case U16, I16:
		return 16
	case U32, I32:
		return 32
	case U64, I64:
		return 64
	default:
		return 0
	}
}

func (Primitive) sealed() {}

// ParsePrimitive maps an IDL keyword such as "u32" to its Primitive.
func ParsePrimitive(name string) (Primitive, bool) {
	for p := U8; p <= Timestamp; p++ {
		if primitiveNames[p] == name {
			return p, true
		}
	}
	return InvalidPrimitive, false
}

// Array is array<Elem>.
type Array struct {
	Elem TypeRef
}

func (a *Array) Kind() Kind     { return KindArray }
func (a *Array) String() string { return "array<" + a.Elem.String() + ">" }
func (*Array) sealed()          {}

// Option is option<Elem>.
type Option struct {
	Elem TypeRef
}

func (o *Option) Kind() Kind     { return KindOption }
func (o *Option) String() string { return "option<" + o.Elem.String() + ">" }
func (*Option) sealed()          {}

// Map is map<Key, Value>. Keys are always primitive scalars.
type Map struct {
	Key   Primitive
	Value TypeRef
}

func (m *Map) Kind() Kind { return KindMap }
func (m *Map) String() string {
	return "map<" + m.Key.String() + ", " + m.Value.String() + ">"
}
func (*Map) sealed() {}

// StructRef points at a struct declaration of the same schema.
type StructRef struct {
	Path string
	decl *Struct
}

func (r *StructRef) Kind() Kind     { return KindStruct }
func (r *StructRef) String() string { return r.Path }
func (*StructRef) sealed()          {}

// Struct returns the referenced declaration.
func (r *StructRef) Struct() *Struct { return r.decl }

// EnumRef points at an enum declaration of the same schema.
type EnumRef struct {
	Path string
	decl *Enum
}

func (r *EnumRef) Kind() Kind     { return KindEnum }
func (r *EnumRef) String() string { return r.Path }
func (*EnumRef) sealed()          {}

// Enum returns the referenced declaration.
func (r *EnumRef) Enum() *Enum { return r.decl }

// Walk calls fn for ref and every type nested in it, outermost first.
// Struct and enum references are not followed into their declarations.
func Walk(ref TypeRef, fn func(TypeRef)) {
	fn(ref)
	switch t := ref.(type) {
	case Primitive, *StructRef, *EnumRef:
	case *Array:
		Walk(t.Elem, fn)
	case *Option:
		Walk(t.Elem, fn)
	case *Map:
		Walk(t.Key, fn)
		Walk(t.Value, fn)
	default:
		panic(fmt.Sprintf("schema: unknown type ref %T", ref))
	}
}
