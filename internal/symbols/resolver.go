package symbols

import (
	"fmt"

	"lavish/internal/diag"
	"lavish/internal/source"
)

// ResolverOptions configures resolver construction.
type ResolverOptions struct {
	Reporter diag.Reporter
}

// KindMask restricts lookup to specific symbol kinds.
type KindMask uint32

const (
	// KindMaskAny allows all kinds.
	KindMaskAny KindMask = ^KindMask(0)
	// KindMaskType selects symbols usable in a type position.
	KindMaskType = KindMask(1<<SymbolStruct | 1<<SymbolEnum)
)

// Mask converts a symbol kind into a KindMask bit.
func (k SymbolKind) Mask() KindMask {
	return KindMask(1 << uint(k))
}

func matchKind(mask KindMask, kind SymbolKind) bool {
	return mask == KindMaskAny || mask&kind.Mask() != 0
}

// canReopen: only namespaces may be declared twice; their bodies merge.
func canReopen(existing, next SymbolKind) bool {
	return existing == SymbolNamespace && next == SymbolNamespace
}

// Resolver drives scope management and declaration routines.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
	stack    []ScopeID
}

// NewResolver wires a resolver to an existing scope. If root is valid it
// becomes the current scope; otherwise scope-sensitive operations are no-ops.
func NewResolver(table *Table, root ScopeID, opts ResolverOptions) *Resolver {
	r := &Resolver{
		table:    table,
		reporter: opts.Reporter,
		stack:    make([]ScopeID, 0, 8),
	}
	if root.IsValid() {
		r.stack = append(r.stack, root)
	}
	return r
}

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Enter creates a child scope owned by owner, pushes it and returns its ID.
func (r *Resolver) Enter(kind ScopeKind, owner SymbolID, span source.Span) ScopeID {
	parent := r.CurrentScope()
	scope := r.table.Scopes.New(kind, parent, owner, span)
	r.stack = append(r.stack, scope)
	return scope
}

// Resume pushes an already existing scope, used for reopened namespaces.
func (r *Resolver) Resume(scope ScopeID) {
	r.stack = append(r.stack, scope)
}

// Leave pops the current scope. Closing anything but expected is a bug in
// the walker.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		panic("symbols: Leave on empty scope stack")
	}
	top := r.stack[len(r.stack)-1]
	if expected.IsValid() && top != expected {
		panic(fmt.Sprintf("symbols: scope stack mismatch: closing scope #%d while expecting #%d", top, expected))
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Declare installs a symbol into the current scope. A namespace declared
// again in the same scope returns the existing symbol with reopened=true.
// Any other clash is reported and yields (NoSymbolID, false, false).
func (r *Resolver) Declare(name source.StringID, span source.Span, kind SymbolKind, decl SymbolDecl) (id SymbolID, ok, reopened bool) {
	scopeID := r.CurrentScope()
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false, false
	}

	for _, symID := range scope.NameIndex[name] {
		sym := r.table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		if canReopen(sym.Kind, kind) {
			sym.Reopened = append(sym.Reopened, decl)
			r.table.bindItem(decl.Item, symID)
			return symID, true, true
		}
		r.reportDuplicate(name, span, sym.Span)
		return NoSymbolID, false, false
	}

	sym := Symbol{
		Name:  name,
		Kind:  kind,
		Scope: scopeID,
		Span:  span,
		Decl:  decl,
	}
	id = r.table.Symbols.New(&sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[name] = append(scope.NameIndex[name], id)
	r.table.bindItem(decl.Item, id)
	return id, true, false
}

func (r *Resolver) reportDuplicate(name source.StringID, span, prevSpan source.Span) {
	ReportDuplicate(r.reporter, r.table.Strings.MustLookup(name), span, prevSpan)
}

// ReportDuplicate emits DuplicateDeclaration at the second declaration with
// a note at the first one.
func ReportDuplicate(reporter diag.Reporter, name string, span, prevSpan source.Span) {
	if reporter == nil {
		return
	}
	msg := fmt.Sprintf("duplicate declaration of '%s'", name)
	diag.ReportError(reporter, diag.SemaDuplicateDeclaration, span, msg).
		WithNote(prevSpan, "previous declaration here").
		Emit()
}
