package symbols

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"lavish/internal/ast"
	"lavish/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates symbol-related arenas and shared resources.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	Root    ScopeID
	items   map[ast.ItemID]SymbolID
	bodies  map[ast.ItemID]ScopeID
}

// NewTable builds a fresh table with an empty root scope.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
		items:   make(map[ast.ItemID]SymbolID),
		bodies:  make(map[ast.ItemID]ScopeID),
	}
	t.Root = t.Scopes.New(ScopeRoot, NoScopeID, NoSymbolID, source.Span{})
	return t
}

// ItemSymbol returns the symbol an AST item was registered as. Reopened
// namespace blocks map to the first declaration's symbol.
func (t *Table) ItemSymbol(item ast.ItemID) (SymbolID, bool) {
	id, ok := t.items[item]
	return id, ok
}

func (t *Table) bindItem(item ast.ItemID, sym SymbolID) {
	t.items[item] = sym
}

// BodyScope returns the scope holding the members of a namespace item. It
// exists even when the namespace name itself clashed with another symbol.
func (t *Table) BodyScope(item ast.ItemID) ScopeID {
	return t.bodies[item]
}

// LookupIn searches a single scope, without walking to parents.
func (t *Table) LookupIn(scopeID ScopeID, name source.StringID, mask KindMask) (SymbolID, bool) {
	scope := t.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}
	ids := scope.NameIndex[name]
	for i := len(ids) - 1; i >= 0; i-- {
		if sym := t.Symbols.Get(ids[i]); sym != nil && matchKind(mask, sym.Kind) {
			return ids[i], true
		}
	}
	return NoSymbolID, false
}

// LookupChain walks from scopeID up to the root and returns the innermost
// match.
func (t *Table) LookupChain(scopeID ScopeID, name source.StringID, mask KindMask) (SymbolID, bool) {
	for scopeID.IsValid() {
		if id, ok := t.LookupIn(scopeID, name, mask); ok {
			return id, true
		}
		scope := t.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		scopeID = scope.Parent
	}
	return NoSymbolID, false
}

// Path returns the dotted path of a symbol: namespaces, enclosing functions
// and the symbol's own name, e.g. "layered.login.challenge".
func (t *Table) Path(id SymbolID) string {
	var parts []string
	for id.IsValid() {
		sym := t.Symbols.Get(id)
		if sym == nil {
			break
		}
		parts = append(parts, t.Strings.MustLookup(sym.Name))
		id = t.Owner(id)
	}
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, ".")
}

// Owner returns the symbol owning the scope sym was declared in: the
// enclosing namespace or function. NoSymbolID for top-level namespaces.
func (t *Table) Owner(id SymbolID) SymbolID {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return NoSymbolID
	}
	if scope := t.Scopes.Get(sym.Scope); scope != nil {
		return scope.Owner
	}
	return NoSymbolID
}

// Members returns the symbols declared in the inner scope of id, in
// declaration order, optionally filtered by kind.
func (t *Table) Members(id SymbolID, mask KindMask) []SymbolID {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return nil
	}
	return t.ScopeMembers(sym.Inner, mask)
}

// ScopeMembers returns the symbols of one scope in declaration order.
func (t *Table) ScopeMembers(scopeID ScopeID, mask KindMask) []SymbolID {
	scope := t.Scopes.Get(scopeID)
	if scope == nil {
		return nil
	}
	if mask == KindMaskAny {
		return scope.Symbols
	}
	var out []SymbolID
	for _, id := range scope.Symbols {
		if sym := t.Symbols.Get(id); sym != nil && matchKind(mask, sym.Kind) {
			out = append(out, id)
		}
	}
	return out
}
