// Package textrange defines half-open offset ranges over a text's code units.
package textrange

import (
	"fmt"
	"sort"
)

// Range is a half-open range [Start, End) of code-unit offsets.
//
// A Range carries no reference to the text it indexes; callers state which
// text (base or edited) a range is expressed against.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// New returns the range [start, end).
func New(start, end int) Range {
	return Range{Start: start, End: end}
}

// Len returns the number of code units covered. Empty and inverted ranges
// have length zero.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no code units.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Valid reports whether the range is non-empty and lies within a text of the
// given length: 0 <= Start < End <= length.
func (r Range) Valid(length int) bool {
	return r.Start >= 0 && r.End > r.Start && r.End <= length
}

// Contains reports whether offset i falls in [Start, End).
func (r Range) Contains(i int) bool {
	return r.Start <= i && i < r.End
}

// ContainsRange reports whether other lies entirely within r.
func (r Range) ContainsRange(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Overlaps reports whether the two ranges share at least one code unit.
// Ranges that only touch at a boundary do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Shift returns the range moved by delta.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// String renders the range in interval notation, e.g. "[2,5)".
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Sort orders ranges by Start, then End. The sort is stable.
func Sort(ranges []Range) {
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].Start != ranges[j].Start {
			return ranges[i].Start < ranges[j].Start
		}
		return ranges[i].End < ranges[j].End
	})
}

// Subtract returns the parts of target that lie outside every cut, in
// ascending order. Empty cuts are ignored; cuts need not be sorted.
func Subtract(target Range, cuts []Range) []Range {
	if target.IsEmpty() {
		return nil
	}

	sorted := make([]Range, 0, len(cuts))
	for _, c := range cuts {
		if !c.IsEmpty() {
			sorted = append(sorted, c)
		}
	}
	Sort(sorted)

	var out []Range
	cursor := target.Start

	for _, cut := range sorted {
		if cut.End <= cursor {
			continue
		}
		if cut.Start >= target.End {
			break
		}

		if segEnd := min(cut.Start, target.End); segEnd > cursor {
			out = append(out, Range{Start: cursor, End: segEnd})
		}
		cursor = max(cursor, cut.End)
		if cursor >= target.End {
			break
		}
	}

	if cursor < target.End {
		out = append(out, Range{Start: cursor, End: target.End})
	}

	return out
}
