package ast

import (
	"strings"

	"lavish/internal/source"
)

type TypeExprKind uint8

const (
	TypeExprPrimitive TypeExprKind = iota
	TypeExprArray
	TypeExprOption
	TypeExprMap
	TypeExprPath // user type, possibly namespace-qualified: a.b.T
)

// Primitive enumerates the scalar keywords.
type Primitive uint8

const (
	PrimInvalid Primitive = iota
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimBool
	PrimString
	PrimData
	PrimTimestamp
)

var primitiveNames = [...]string{
	PrimInvalid:   "invalid",
	PrimU8:        "u8",
	PrimU16:       "u16",
	PrimU32:       "u32",
	PrimU64:       "u64",
	PrimI8:        "i8",
	PrimI16:       "i16",
	PrimI32:       "i32",
	PrimI64:       "i64",
	PrimBool:      "bool",
	PrimString:    "string",
	PrimData:      "data",
	PrimTimestamp: "timestamp",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "invalid"
}

type PathSegment struct {
	Name source.StringID
	Span source.Span
}

// TypeExpr is a type as written. Elem is the element of array/option and
// the key of map; Value is the value of map.
type TypeExpr struct {
	Kind  TypeExprKind
	Span  source.Span
	Prim  Primitive
	Elem  TypeID
	Value TypeID
	Path  []PathSegment
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Arena: NewArena[TypeExpr](capHint),
	}
}

func (t *TypeExprs) New(expr TypeExpr) TypeID {
	return TypeID(t.Arena.Allocate(expr))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

// PathString joins the path segments with '.'.
func (t *TypeExprs) PathString(id TypeID, strs *source.Interner) string {
	expr := t.Get(id)
	if expr == nil || expr.Kind != TypeExprPath {
		return ""
	}
	parts := make([]string, len(expr.Path))
	for i, seg := range expr.Path {
		parts[i] = strs.MustLookup(seg.Name)
	}
	return strings.Join(parts, ".")
}
