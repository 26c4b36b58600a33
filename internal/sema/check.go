package sema

import (
	"fmt"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/source"
	"lavish/internal/symbols"
	"lavish/internal/types"
)

// Options configure the resolution pass over a registered unit.
type Options struct {
	Reporter diag.Reporter
	Symbols  *symbols.Result
	Types    *types.Interner
}

// Function is one function of the call-nesting tree. Top-level functions
// have no Parent. Callbacks are the nested functions that may be called
// while this function's call is pending.
type Function struct {
	Item      ast.ItemID
	Symbol    symbols.SymbolID
	Path      string
	Role      ast.FnRole
	Parent    ast.ItemID
	Callbacks []ast.ItemID
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	TypeInterner *types.Interner
	// ExprTypes maps every written type expression to its resolved type;
	// unresolved ones map to types.NoTypeID.
	ExprTypes map[ast.TypeID]types.TypeID
	// Functions lists every function depth-first, pre-order.
	Functions []Function
	fnIndex   map[ast.ItemID]int
	// Cyclic is set once a CyclicTypeDefinition was reported.
	Cyclic bool
}

// Function returns the nesting-tree entry of a function item.
func (r *Result) Function(item ast.ItemID) (*Function, bool) {
	idx, ok := r.fnIndex[item]
	if !ok {
		return nil, false
	}
	return &r.Functions[idx], true
}

// TypeOf returns the resolved type of a type expression.
func (r *Result) TypeOf(expr ast.TypeID) types.TypeID {
	return r.ExprTypes[expr]
}

// Check is pass 2. It runs after symbols.Register has seen every
// declaration of the unit, so declaration order never matters. It binds
// type references through the scope chain, validates generic arguments,
// assigns qualified paths to functions, and finally looks for structs
// that contain themselves without indirection. Diagnostics are
// accumulated; only cycle analysis of a namespace stops at its first cycle.
func Check(builder *ast.Builder, files []ast.FileID, opts Options) Result {
	res := Result{
		ExprTypes: make(map[ast.TypeID]types.TypeID),
		fnIndex:   make(map[ast.ItemID]int),
	}
	if opts.Types != nil {
		res.TypeInterner = opts.Types
	} else {
		res.TypeInterner = types.NewInterner()
	}
	if builder == nil || opts.Symbols == nil {
		return res
	}

	tc := typeChecker{
		builder:  builder,
		table:    opts.Symbols.Table,
		reporter: opts.Reporter,
		types:    res.TypeInterner,
		result:   &res,
		edges:    make(map[symbols.SymbolID][]edge),
	}
	tc.run(files)
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	table    *symbols.Table
	reporter diag.Reporter
	types    *types.Interner
	result   *Result

	// direct containment edges, per struct symbol, in field order
	edges map[symbols.SymbolID][]edge
	// struct symbols per namespace symbol, in declaration order
	nsStructs map[symbols.SymbolID][]symbols.SymbolID
	nsOrder   []symbols.SymbolID
}

func (tc *typeChecker) run(files []ast.FileID) {
	tc.nsStructs = make(map[symbols.SymbolID][]symbols.SymbolID)
	for _, fileID := range files {
		file := tc.builder.Files.Get(fileID)
		if file == nil {
			continue
		}
		for _, nsID := range file.Namespaces {
			tc.namespace(nsID, "")
		}
	}
	tc.checkCycles()
}

func (tc *typeChecker) namespace(itemID ast.ItemID, parentPath string) {
	item := tc.builder.Items.Get(itemID)
	path := joinPath(parentPath, tc.name(item.Name))
	scope := tc.table.BodyScope(itemID)
	nsSym, _ := tc.table.ItemSymbol(itemID)
	if nsSym.IsValid() {
		if _, seen := tc.nsStructs[nsSym]; !seen {
			tc.nsStructs[nsSym] = nil
			tc.nsOrder = append(tc.nsOrder, nsSym)
		}
	}

	for _, memberID := range tc.builder.Items.Namespace(itemID).Items {
		member := tc.builder.Items.Get(memberID)
		switch member.Kind {
		case ast.ItemNamespace:
			tc.namespace(memberID, path)
		case ast.ItemStruct:
			tc.structDecl(scope, nsSym, memberID)
		case ast.ItemEnum:
			// варианты без полезной нагрузки: проверять нечего
		case ast.ItemFn:
			tc.fn(scope, memberID, path, ast.NoItemID)
		default:
			panic(fmt.Sprintf("sema: unknown item kind %d", member.Kind))
		}
	}
}

func (tc *typeChecker) structDecl(scope symbols.ScopeID, nsSym symbols.SymbolID, itemID ast.ItemID) {
	sym, registered := tc.table.ItemSymbol(itemID)
	if registered && nsSym.IsValid() {
		tc.nsStructs[nsSym] = append(tc.nsStructs[nsSym], sym)
	}
	for _, field := range tc.builder.Items.Struct(itemID).Fields {
		ty := tc.resolveType(scope, field.Type)
		if !registered {
			continue
		}
		for _, target := range tc.types.DirectStructs(nil, ty) {
			tc.edges[sym] = append(tc.edges[sym], edge{
				to:    symbols.SymbolID(target),
				field: field.Name,
				span:  tc.builder.Types.Get(field.Type).Span,
			})
		}
	}
}

func (tc *typeChecker) name(id source.StringID) string {
	return tc.table.Strings.MustLookup(id)
}

// symbolName renders struct and enum references in labels and messages.
func (tc *typeChecker) symbolName(decl uint32) string {
	return tc.table.Path(symbols.SymbolID(decl))
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
