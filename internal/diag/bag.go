package diag

import (
	"cmp"
	"slices"
)

// Bag accumulates diagnostics up to a limit.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics (0 means no limit).
func NewBag(max int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, min(max, 64)), max: max}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.Full() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Full reports whether the limit has been reached.
func (b *Bag) Full() bool { return b.max > 0 && len(b.items) >= b.max }

// HasErrors reports whether any diagnostic is SevError or worse.
func (b *Bag) HasErrors() bool { return b.Count(SevError) > 0 }

// Count returns the number of diagnostics at sev or above.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= sev {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает внутренний срез; не модифицируйте его.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends the diagnostics of other; the limit grows to fit them.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	if b.max > 0 {
		b.max = max(b.max, len(b.items))
	}
}

// Sort orders by file, start, end, severity (worst first) and code, keeping
// insertion order for ties.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
