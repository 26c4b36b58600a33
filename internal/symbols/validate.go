package symbols

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Validate walks internal arenas checking structural invariants: parent and
// child links agree, every scope symbol is indexed by name, every symbol
// sits in its scope and owners point back at the scopes they open.
// Returns nil if everything is consistent; otherwise joins all issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if (scope.Kind == ScopeRoot) != !scope.Parent.IsValid() {
			errs = append(errs, fmt.Errorf("scope %d (%s) has parent %d", scopeID, scope.Kind, scope.Parent))
		}
		if scope.Parent.IsValid() {
			if int(scope.Parent) >= len(t.Scopes.data) || scope.Parent == scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
			} else if !slices.Contains(t.Scopes.data[scope.Parent].Children, scopeID) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
			}
		}
		for _, child := range scope.Children {
			if int(child) >= len(t.Scopes.data) || t.Scopes.data[child].Parent != scopeID {
				errs = append(errs, fmt.Errorf("scope %d child %d missing parent backlink", scopeID, child))
			}
		}
		if owner := t.Symbols.Get(scope.Owner); owner != nil && owner.Inner != scopeID {
			errs = append(errs, fmt.Errorf("scope %d owner %d opens scope %d instead", scopeID, scope.Owner, owner.Inner))
		}

		indexed := 0
		for name, bucket := range scope.NameIndex {
			for _, id := range bucket {
				if !slices.Contains(scope.Symbols, id) {
					errs = append(errs, fmt.Errorf("scope %d name index %d references missing symbol %d", scopeID, name, id))
				}
			}
			indexed += len(bucket)
		}
		if indexed != len(scope.Symbols) {
			errs = append(errs, fmt.Errorf("scope %d indexes %d symbols, holds %d", scopeID, indexed, len(scope.Symbols)))
		}
	}

	for idx := 1; idx < len(t.Symbols.data); idx++ {
		symbolID, err := toSymbolID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		symbol := t.Symbols.data[idx]
		scope := t.Scopes.Get(symbol.Scope)
		if scope == nil {
			errs = append(errs, fmt.Errorf("symbol %d has invalid scope %d", symbolID, symbol.Scope))
			continue
		}
		if !slices.Contains(scope.Symbols, symbolID) {
			errs = append(errs, fmt.Errorf("symbol %d is missing from scope %d list", symbolID, symbol.Scope))
		}
		if symbol.Kind == SymbolNamespace && !symbol.Inner.IsValid() {
			errs = append(errs, fmt.Errorf("namespace symbol %d has no body scope", symbolID))
		}
		if symbol.Kind.IsType() && symbol.Inner.IsValid() {
			errs = append(errs, fmt.Errorf("%s symbol %d opens a scope", symbol.Kind, symbolID))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func toScopeID(idx int) (ScopeID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index %d overflow: %w", idx, err)
	}
	return ScopeID(value), nil
}

func toSymbolID(idx int) (SymbolID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoSymbolID, fmt.Errorf("symbol index %d overflow: %w", idx, err)
	}
	return SymbolID(value), nil
}
