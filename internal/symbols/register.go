package symbols

import (
	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/source"
)

// RegisterOptions controls the registration pass.
type RegisterOptions struct {
	Table    *Table
	Hints    Hints
	Reporter diag.Reporter
	Validate bool
}

// Result captures registration artefacts for a whole unit.
type Result struct {
	Table *Table
	// Namespaces lists the top-level namespace symbols in first-declaration order.
	Namespaces []SymbolID
}

// Register is pass 1: it walks every file and declares namespaces,
// structs, enums and functions into their scopes. Nested functions go to
// the scope of their enclosing function, never to the namespace. Member
// names (fields, variants, parameters, results) are checked for
// uniqueness too. All clashes are reported; the walk never stops early.
func Register(builder *ast.Builder, files []ast.FileID, opts RegisterOptions) Result {
	table := opts.Table
	if table == nil {
		table = NewTable(opts.Hints, builder.StringsInterner)
	}
	result := Result{Table: table}

	reg := registrar{
		builder:  builder,
		table:    table,
		reporter: opts.Reporter,
		resolver: NewResolver(table, table.Root, ResolverOptions{Reporter: opts.Reporter}),
	}

	for _, fileID := range files {
		file := builder.Files.Get(fileID)
		if file == nil {
			continue
		}
		reg.file = fileID
		reg.source = file.Source
		for _, nsID := range file.Namespaces {
			if sym, fresh := reg.namespace(nsID); fresh {
				result.Namespaces = append(result.Namespaces, sym)
			}
		}
	}

	if opts.Validate {
		if err := table.Validate(); err != nil {
			panic(err)
		}
	}
	return result
}

type registrar struct {
	builder  *ast.Builder
	table    *Table
	reporter diag.Reporter
	resolver *Resolver
	file     ast.FileID
	source   source.FileID
}

func (r *registrar) decl(item ast.ItemID) SymbolDecl {
	return SymbolDecl{SourceFile: r.source, ASTFile: r.file, Item: item}
}

// namespace returns the namespace symbol and whether it was declared for
// the first time.
func (r *registrar) namespace(itemID ast.ItemID) (SymbolID, bool) {
	item := r.builder.Items.Get(itemID)
	id, ok, reopened := r.resolver.Declare(item.Name, item.NameSpan, SymbolNamespace, r.decl(itemID))

	var scope ScopeID
	switch {
	case reopened:
		scope = r.table.Symbols.Get(id).Inner
		r.resolver.Resume(scope)
	case ok:
		scope = r.resolver.Enter(ScopeNamespace, id, item.Span)
		r.table.Symbols.Get(id).Inner = scope
	default:
		// имя занято не пространством имён: тело всё равно регистрируем,
		// чтобы найти ошибки внутри, но в отдельной безымянной области
		scope = r.resolver.Enter(ScopeNamespace, NoSymbolID, item.Span)
	}

	r.table.bodies[itemID] = scope
	for _, member := range r.builder.Items.Namespace(itemID).Items {
		r.item(member)
	}
	r.resolver.Leave(scope)
	return id, ok && !reopened
}

func (r *registrar) item(itemID ast.ItemID) {
	item := r.builder.Items.Get(itemID)
	switch item.Kind {
	case ast.ItemNamespace:
		r.namespace(itemID)
	case ast.ItemStruct:
		r.resolver.Declare(item.Name, item.NameSpan, SymbolStruct, r.decl(itemID))
		r.uniqueFields(r.builder.Items.Struct(itemID).Fields)
	case ast.ItemEnum:
		r.resolver.Declare(item.Name, item.NameSpan, SymbolEnum, r.decl(itemID))
		r.uniqueVariants(r.builder.Items.Enum(itemID).Variants)
	case ast.ItemFn:
		r.fn(itemID)
	default:
		panic("symbols: unknown item kind " + item.Kind.String())
	}
}

func (r *registrar) fn(itemID ast.ItemID) {
	item := r.builder.Items.Get(itemID)
	fn := r.builder.Items.Fn(itemID)
	id, ok, _ := r.resolver.Declare(item.Name, item.NameSpan, SymbolFunction, r.decl(itemID))

	r.uniqueFields(fn.Params)
	r.uniqueFields(fn.Results)

	if len(fn.Nested) == 0 {
		return
	}
	owner := NoSymbolID
	if ok {
		owner = id
	}
	scope := r.resolver.Enter(ScopeFunction, owner, item.Span)
	if ok {
		r.table.Symbols.Get(id).Inner = scope
	}
	for _, nested := range fn.Nested {
		r.fn(nested)
	}
	r.resolver.Leave(scope)
}

func (r *registrar) uniqueFields(fields []ast.Field) {
	if len(fields) < 2 {
		return
	}
	seen := make(map[source.StringID]source.Span, len(fields))
	for _, f := range fields {
		if prev, dup := seen[f.Name]; dup {
			ReportDuplicate(r.reporter, r.table.Strings.MustLookup(f.Name), f.NameSpan, prev)
			continue
		}
		seen[f.Name] = f.NameSpan
	}
}

func (r *registrar) uniqueVariants(variants []ast.Variant) {
	if len(variants) < 2 {
		return
	}
	seen := make(map[source.StringID]source.Span, len(variants))
	for _, v := range variants {
		if prev, dup := seen[v.Name]; dup {
			ReportDuplicate(r.reporter, r.table.Strings.MustLookup(v.Name), v.Span, prev)
			continue
		}
		seen[v.Name] = v.Span
	}
}
