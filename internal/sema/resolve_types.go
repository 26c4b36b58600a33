package sema

import (
	"fmt"
	"strings"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/source"
	"lavish/internal/symbols"
	"lavish/internal/types"
)

func (tc *typeChecker) primitive(p ast.Primitive) types.TypeID {
	b := tc.types.Builtins()
	switch p {
	case ast.PrimU8:
		return b.U8
	case ast.PrimU16:
		return b.U16
	case ast.PrimU32:
		return b.U32
	case ast.PrimU64:
		return b.U64
	case ast.PrimI8:
		return b.I8
	case ast.PrimI16:
		return b.I16
	case ast.PrimI32:
		return b.I32
	case ast.PrimI64:
		return b.I64
	case ast.PrimBool:
		return b.Bool
	case ast.PrimString:
		return b.String
	case ast.PrimData:
		return b.Data
	case ast.PrimTimestamp:
		return b.Timestamp
	default:
		panic(fmt.Sprintf("sema: unknown primitive %d", p))
	}
}

// resolveType binds a type expression in scope and records the result for
// it and every sub-expression. Errors are reported at the offending part.
func (tc *typeChecker) resolveType(scope symbols.ScopeID, id ast.TypeID) types.TypeID {
	expr := tc.builder.Types.Get(id)
	if expr == nil {
		panic(fmt.Sprintf("sema: missing type expression %d", id))
	}

	var ty types.TypeID
	switch expr.Kind {
	case ast.TypeExprPrimitive:
		ty = tc.primitive(expr.Prim)
	case ast.TypeExprArray:
		ty = tc.types.Intern(types.MakeArray(tc.resolveType(scope, expr.Elem)))
	case ast.TypeExprOption:
		ty = tc.types.Intern(types.MakeOption(tc.resolveType(scope, expr.Elem)))
	case ast.TypeExprMap:
		key := tc.resolveType(scope, expr.Elem)
		value := tc.resolveType(scope, expr.Value)
		if !tc.validMapKey(key, expr.Elem) {
			key = types.NoTypeID
		}
		ty = tc.types.Intern(types.MakeMap(key, value))
	case ast.TypeExprPath:
		ty = tc.resolvePath(scope, expr)
	default:
		panic(fmt.Sprintf("sema: unknown type expression kind %d", expr.Kind))
	}

	tc.result.ExprTypes[id] = ty
	return ty
}

// validMapKey enforces that map keys are primitive scalars. An unresolved
// key was already reported.
func (tc *typeChecker) validMapKey(key types.TypeID, keyExpr ast.TypeID) bool {
	tt, ok := tc.types.Lookup(key)
	if !ok {
		return false
	}
	if tt.Kind.IsScalar() {
		return true
	}
	span := tc.builder.Types.Get(keyExpr).Span
	label := types.Label(tc.types, key, tc.symbolName)
	msg := fmt.Sprintf("invalid generic argument: map key must be a primitive scalar type, found '%s'", label)
	b := diag.ReportError(tc.reporter, diag.SemaInvalidGenericArgument, span, msg)
	if tt.Kind.IsNominal() {
		if decl := tc.table.Symbols.Get(symbols.SymbolID(tt.Decl)); decl != nil {
			b.WithNote(decl.Span, fmt.Sprintf("'%s' is a user-defined %s", label, decl.Kind))
		}
	}
	b.Emit()
	return false
}

// resolvePath binds `T` through the scope chain, or `a.b.T` by finding
// namespace `a` through the chain and descending from there.
func (tc *typeChecker) resolvePath(scope symbols.ScopeID, expr *ast.TypeExpr) types.TypeID {
	segs := expr.Path
	last := segs[len(segs)-1]

	var (
		sym symbols.SymbolID
		ok  bool
	)
	if len(segs) == 1 {
		sym, ok = tc.table.LookupChain(scope, last.Name, symbols.KindMaskType)
		if !ok {
			tc.reportUnresolvedType(scope, expr, last.Name)
			return types.NoTypeID
		}
	} else {
		inner, found := tc.resolveNamespacePath(scope, segs[:len(segs)-1])
		if !found {
			return types.NoTypeID
		}
		sym, ok = tc.table.LookupIn(inner, last.Name, symbols.KindMaskType)
		if !ok {
			tc.reportUnresolvedType(inner, expr, last.Name)
			return types.NoTypeID
		}
	}

	decl := tc.table.Symbols.Get(sym)
	switch decl.Kind {
	case symbols.SymbolStruct:
		return tc.types.Intern(types.MakeStruct(uint32(sym)))
	case symbols.SymbolEnum:
		return tc.types.Intern(types.MakeEnum(uint32(sym)))
	default:
		panic(fmt.Sprintf("sema: type lookup returned a %s", decl.Kind))
	}
}

func (tc *typeChecker) resolveNamespacePath(scope symbols.ScopeID, segs []ast.PathSegment) (symbols.ScopeID, bool) {
	sym, ok := tc.table.LookupChain(scope, segs[0].Name, symbols.SymbolNamespace.Mask())
	for i := 0; ; i++ {
		if !ok {
			path := tc.pathText(segs[:i+1])
			diag.ReportError(tc.reporter, diag.SemaUnresolvedNamespace, segs[i].Span,
				fmt.Sprintf("unresolved namespace '%s'", path)).Emit()
			return symbols.NoScopeID, false
		}
		inner := tc.table.Symbols.Get(sym).Inner
		if i+1 == len(segs) {
			return inner, true
		}
		sym, ok = tc.table.LookupIn(inner, segs[i+1].Name, symbols.SymbolNamespace.Mask())
	}
}

// reportUnresolvedType explains what the name is when it exists but is not
// a type, e.g. a function or a namespace.
func (tc *typeChecker) reportUnresolvedType(scope symbols.ScopeID, expr *ast.TypeExpr, name source.StringID) {
	path := tc.pathText(expr.Path)
	b := diag.ReportError(tc.reporter, diag.SemaUnresolvedType, expr.Span,
		fmt.Sprintf("unresolved type '%s'", path))

	lookup := tc.table.LookupChain
	if len(expr.Path) > 1 {
		lookup = tc.table.LookupIn
	}
	if other, ok := lookup(scope, name, symbols.KindMaskAny); ok {
		sym := tc.table.Symbols.Get(other)
		b.WithNote(sym.Span, fmt.Sprintf("'%s' is a %s, not a type", tc.name(name), sym.Kind))
	}
	b.Emit()
}

func (tc *typeChecker) pathText(segs []ast.PathSegment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = tc.name(s.Name)
	}
	return strings.Join(parts, ".")
}
