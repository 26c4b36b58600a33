package sema

import (
	"fmt"

	"lavish/internal/ast"
	"lavish/internal/diag"
	"lavish/internal/symbols"
)

// fn resolves a function signature and walks its nested functions
// depth-first, pre-order. Nested functions see the types of the enclosing
// namespace: their own scope only ever holds functions.
func (tc *typeChecker) fn(scope symbols.ScopeID, itemID ast.ItemID, prefix string, parent ast.ItemID) {
	item := tc.builder.Items.Get(itemID)
	decl := tc.builder.Items.Fn(itemID)
	sym, _ := tc.table.ItemSymbol(itemID)

	path := joinPath(prefix, tc.name(item.Name))
	idx := len(tc.result.Functions)
	tc.result.Functions = append(tc.result.Functions, Function{
		Item:   itemID,
		Symbol: sym,
		Path:   path,
		Role:   decl.Role,
		Parent: parent,
	})
	if _, dup := tc.result.fnIndex[itemID]; dup {
		panic(fmt.Sprintf("sema: function item %d visited twice", itemID))
	}
	tc.result.fnIndex[itemID] = idx

	for _, p := range decl.Params {
		tc.resolveType(scope, p.Type)
	}
	for _, r := range decl.Results {
		tc.resolveType(scope, r.Type)
	}

	if len(decl.Nested) > 0 {
		tc.result.Functions[idx].Callbacks = append([]ast.ItemID(nil), decl.Nested...)
	}
	for _, nestedID := range decl.Nested {
		nested := tc.builder.Items.Fn(nestedID)
		if nested.Role == decl.Role {
			tc.reportSameRole(itemID, nestedID)
		}
		tc.fn(scope, nestedID, path, itemID)
	}
}

// reportSameRole warns about a callback that nobody can invoke: while a
// server function runs only the server may call back into the client and
// vice versa.
func (tc *typeChecker) reportSameRole(parentID, nestedID ast.ItemID) {
	parent := tc.builder.Items.Get(parentID)
	nested := tc.builder.Items.Get(nestedID)
	role := tc.builder.Items.Fn(parentID).Role
	msg := fmt.Sprintf("nested function '%s' has the same role (%s) as its enclosing function '%s'",
		tc.name(nested.Name), role, tc.name(parent.Name))
	diag.ReportWarning(tc.reporter, diag.SemaNestedSameRole, tc.builder.Items.Fn(nestedID).RoleSpan, msg).
		WithNote(parent.NameSpan, fmt.Sprintf("callbacks of a %s function are implemented by the %s", role, role.Opposite())).
		Emit()
}
