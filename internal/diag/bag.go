package diag

import (
	"slices"
	"sort"
)

// Bag stores diagnostics up to a limit. A limit of 0 means unlimited.
// Diagnostics past the limit are not kept but still counted, so
// HasErrors and ErrorCount never lose an error to the cap.
type Bag struct {
	items []Diagnostic
	max   int

	omitted       int
	omittedErrors int
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Returns false when the limit was reached and d was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.omit(d)
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) omit(d Diagnostic) {
	b.omitted++
	if d.Severity >= SevError {
		b.omittedErrors++
	}
}

// HasErrors reports whether any diagnostic, kept or omitted, has
// Severity >= SevError.
func (b *Bag) HasErrors() bool {
	if b.omittedErrors > 0 {
		return true
	}
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level diagnostics, including
// omitted ones.
func (b *Bag) ErrorCount() int {
	n := b.omittedErrors
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Omitted returns how many diagnostics were dropped by the limit.
func (b *Bag) Omitted() int {
	return b.omitted
}

// Items возвращает read-only slice диагностик.
// Do not modify the result: it aliases the bag's storage.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic from other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); b.max > 0 && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
	b.omitted += other.omitted
	b.omittedErrors += other.omittedErrors
}

// Truncate keeps the first n diagnostics and counts the rest as
// omitted. Call it after Sort so the kept ones are the first n by
// position. If the kept part would hold no error while a dropped one
// does, the first dropped error takes the last kept slot, so a failed
// compilation always shows at least one cause. n <= 0 keeps everything.
func (b *Bag) Truncate(n int) {
	if n <= 0 || len(b.items) <= n {
		return
	}
	kept, rest := b.items[:n], b.items[n:]
	if !slices.ContainsFunc(kept, isError) {
		if i := slices.IndexFunc(rest, isError); i >= 0 {
			kept[n-1], rest[i] = rest[i], kept[n-1]
		}
	}
	for _, d := range rest {
		b.omit(d)
	}
	clear(rest)
	b.items = kept
}

func isError(d Diagnostic) bool { return d.Severity >= SevError }

// Sort puts diagnostics without a location first, then orders by file,
// start, end, severity (desc) and code so that output is deterministic
// regardless of the order phases reported in.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if li, lj := di.Located(), dj.Located(); li != lj {
			return !li
		}
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Filter keeps only diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	out := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	clear(b.items[len(out):])
	b.items = out
}

// Transform replaces every diagnostic with fn's result.
func (b *Bag) Transform(fn func(Diagnostic) Diagnostic) {
	for i := range b.items {
		b.items[i] = fn(b.items[i])
	}
}
