package types

import (
	"strconv"
)

// Namer renders the name of a struct or enum declaration.
type Namer func(decl uint32) string

// Label returns a user-friendly label for a TypeID, in IDL syntax.
func Label(typesIn *Interner, id TypeID, name Namer) string {
	return labelDepth(typesIn, id, name, 0)
}

func labelDepth(typesIn *Interner, id TypeID, name Namer, depth int) string {
	if id == NoTypeID || typesIn == nil {
		return "?"
	}
	if depth > 8 {
		return "..."
	}
	tt, ok := typesIn.Lookup(id)
	if !ok {
		return "?"
	}
	switch tt.Kind {
	case KindUint:
		return "u" + strconv.Itoa(int(tt.Width))
	case KindInt:
		return "i" + strconv.Itoa(int(tt.Width))
	case KindBool, KindString, KindData, KindTimestamp:
		return tt.Kind.String()
	case KindArray:
		return "array<" + labelDepth(typesIn, tt.Elem, name, depth+1) + ">"
	case KindOption:
		return "option<" + labelDepth(typesIn, tt.Elem, name, depth+1) + ">"
	case KindMap:
		return "map<" + labelDepth(typesIn, tt.Elem, name, depth+1) + ", " + labelDepth(typesIn, tt.Value, name, depth+1) + ">"
	case KindStruct, KindEnum:
		if name != nil {
			return name(tt.Decl)
		}
		return tt.Kind.String() + "#" + strconv.FormatUint(uint64(tt.Decl), 10)
	default:
		return "?"
	}
}
