package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type (unresolved reference).
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUint
	KindInt
	KindBool
	KindString
	KindData
	KindTimestamp
	KindArray
	KindOption
	KindMap
	KindStruct
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindData:
		return "data"
	case KindTimestamp:
		return "timestamp"
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

// IsScalar reports whether the kind is a primitive scalar: the only kinds
// allowed as map keys.
func (k Kind) IsScalar() bool {
	return k >= KindUint && k <= KindTimestamp
}

// IsNominal reports whether the kind refers to a user declaration.
func (k Kind) IsNominal() bool {
	return k == KindStruct || k == KindEnum
}

// Width captures the precision of integers.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Type is a compact descriptor for any supported type. Elem is the element
// of array and option and the key of map; Value is the map value. Decl is
// the declaring symbol of struct and enum types.
type Type struct {
	Kind  Kind
	Elem  TypeID
	Value TypeID
	Width Width
	Decl  uint32
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes a signed integer of the given width.
func MakeInt(width Width) Type {
	return Type{Kind: KindInt, Width: width}
}

// MakeUint describes an unsigned integer type.
func MakeUint(width Width) Type {
	return Type{Kind: KindUint, Width: width}
}

// MakeArray describes array<elem>.
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// MakeOption describes option<elem>.
func MakeOption(elem TypeID) Type {
	return Type{Kind: KindOption, Elem: elem}
}

// MakeMap describes map<key, value>.
func MakeMap(key, value TypeID) Type {
	return Type{Kind: KindMap, Elem: key, Value: value}
}

// MakeStruct describes a reference to the struct declared by decl.
func MakeStruct(decl uint32) Type {
	return Type{Kind: KindStruct, Decl: decl}
}

// MakeEnum describes a reference to the enum declared by decl.
func MakeEnum(decl uint32) Type {
	return Type{Kind: KindEnum, Decl: decl}
}
