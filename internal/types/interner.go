package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive scalars.
type Builtins struct {
	U8, U16, U32, U64 TypeID
	I8, I16, I32, I64 TypeID
	Bool              TypeID
	String            TypeID
	Data              TypeID
	Timestamp         TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors: two
// structurally equal types always share one id.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		types: make([]Type, 1, 64), // 0 is NoTypeID
		index: make(map[Type]TypeID, 64),
	}
	b := &in.builtins
	b.U8 = in.Intern(MakeUint(Width8))
	b.U16 = in.Intern(MakeUint(Width16))
	b.U32 = in.Intern(MakeUint(Width32))
	b.U64 = in.Intern(MakeUint(Width64))
	b.I8 = in.Intern(MakeInt(Width8))
	b.I16 = in.Intern(MakeInt(Width16))
	b.I32 = in.Intern(MakeInt(Width32))
	b.I64 = in.Intern(MakeInt(Width64))
	b.Bool = in.Intern(Type{Kind: KindBool})
	b.String = in.Intern(Type{Kind: KindString})
	b.Data = in.Intern(Type{Kind: KindData})
	b.Timestamp = in.Intern(Type{Kind: KindTimestamp})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID. Composite
// types over an invalid element stay invalid.
func (in *Interner) Intern(t Type) TypeID {
	switch t.Kind {
	case KindInvalid:
		return NoTypeID
	case KindArray, KindOption:
		if t.Elem == NoTypeID {
			return NoTypeID
		}
	case KindMap:
		if t.Elem == NoTypeID || t.Value == NoTypeID {
			return NoTypeID
		}
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len reports the number of interned types.
func (in *Interner) Len() int { return len(in.types) - 1 }

// DirectStructs appends to dst the struct declarations that id holds by
// value. array, option and map are indirections and stop the walk.
func (in *Interner) DirectStructs(dst []uint32, id TypeID) []uint32 {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindStruct {
		return dst
	}
	return append(dst, tt.Decl)
}
