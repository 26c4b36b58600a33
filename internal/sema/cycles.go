package sema

import (
	"fmt"
	"strings"

	"lavish/internal/diag"
	"lavish/internal/source"
	"lavish/internal/symbols"
)

// edge is a struct field that holds another struct by value.
type edge struct {
	to    symbols.SymbolID
	field source.StringID
	span  source.Span
}

type visitState uint8

const (
	stateUnvisited visitState = iota
	stateVisiting
	stateDone
)

// cycleWalk is one DFS over the direct containment graph. path holds the
// structs currently in progress, via[i] the edge from path[i] to path[i+1].
type cycleWalk struct {
	tc     *typeChecker
	states map[symbols.SymbolID]visitState
	path   []symbols.SymbolID
	via    []edge
}

// checkCycles runs per namespace, starting from its structs in declaration
// order. The first cycle found ends the analysis of that namespace; structs
// on the offending path are marked done so other namespaces do not report
// the same cycle again.
func (tc *typeChecker) checkCycles() {
	w := cycleWalk{tc: tc, states: make(map[symbols.SymbolID]visitState)}
	for _, ns := range tc.nsOrder {
		for _, start := range tc.nsStructs[ns] {
			if w.states[start] != stateUnvisited {
				continue
			}
			if w.visit(start) {
				for _, sym := range w.path {
					w.states[sym] = stateDone
				}
				w.path, w.via = w.path[:0], w.via[:0]
				break
			}
		}
	}
}

// visit returns true once a cycle was reported; the path is left intact.
func (w *cycleWalk) visit(sym symbols.SymbolID) bool {
	w.states[sym] = stateVisiting
	w.path = append(w.path, sym)
	for _, e := range w.tc.edges[sym] {
		switch w.states[e.to] {
		case stateVisiting:
			w.report(e)
			return true
		case stateUnvisited:
			w.via = append(w.via, e)
			if w.visit(e.to) {
				return true
			}
			w.via = w.via[:len(w.via)-1]
		}
	}
	w.states[sym] = stateDone
	w.path = w.path[:len(w.path)-1]
	return false
}

// report describes the cycle closed by back edge e, e.g. "A -> B -> A".
func (w *cycleWalk) report(back edge) {
	tc := w.tc
	tc.result.Cyclic = true

	start := 0
	for i, sym := range w.path {
		if sym == back.to {
			start = i
			break
		}
	}
	names := make([]string, 0, len(w.path)-start+1)
	for _, sym := range w.path[start:] {
		names = append(names, tc.table.Path(sym))
	}
	names = append(names, tc.table.Path(back.to))

	msg := fmt.Sprintf("cyclic type definition: %s", strings.Join(names, " -> "))
	b := diag.ReportError(tc.reporter, diag.SemaCyclicTypeDefinition, back.span, msg)
	holder := w.path[len(w.path)-1]
	for i, e := range w.via[start:] {
		from := w.path[start+i]
		b.WithNote(e.span, fmt.Sprintf("field '%s' of '%s' holds '%s' directly",
			tc.name(e.field), tc.table.Path(from), tc.table.Path(e.to)))
	}
	b.WithNote(tc.table.Symbols.Get(holder).Span,
		fmt.Sprintf("wrap field '%s' in option<>, array<> or map<> to break the cycle", tc.name(back.field)))
	b.Emit()
}
