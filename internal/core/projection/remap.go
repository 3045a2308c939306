package projection

import (
	"sort"

	"github.com/colonyops/redline/internal/core/textrange"
)

// MapToEdited converts a base-text range into edited-text coordinates.
//
// Each endpoint is resolved independently. A start offset belongs to the
// segment whose base range contains it; an end offset belongs to the segment
// whose base range it closes or falls inside. If either endpoint lands in a
// replaced segment the range has no stable counterpart and ok is false; a
// highlight that straddles an edit is hidden rather than guessed at.
func MapToEdited(r textrange.Range, segments []Segment) (mapped textrange.Range, ok bool) {
	return mapRange(r, segments, baseSide)
}

// MapToBase converts an edited-text range back into base-text coordinates.
// It is the inverse of MapToEdited for ranges inside copied segments.
func MapToBase(r textrange.Range, segments []Segment) (mapped textrange.Range, ok bool) {
	return mapRange(r, segments, outSide)
}

type side func(Segment) (from, to textrange.Range)

func baseSide(s Segment) (textrange.Range, textrange.Range) { return s.Base, s.Out }

func outSide(s Segment) (textrange.Range, textrange.Range) { return s.Out, s.Base }

func mapRange(r textrange.Range, segments []Segment, pick side) (textrange.Range, bool) {
	start, ok := mapStart(r.Start, segments, pick)
	if !ok {
		return textrange.Range{}, false
	}
	end, ok := mapEnd(r.End, segments, pick)
	if !ok {
		return textrange.Range{}, false
	}
	if end <= start {
		return textrange.Range{}, false
	}
	return textrange.New(start, end), true
}

// mapStart resolves an offset that opens a range: from.Start <= i < from.End.
func mapStart(i int, segments []Segment, pick side) (int, bool) {
	idx := sort.Search(len(segments), func(k int) bool {
		from, _ := pick(segments[k])
		return from.End > i
	})
	if idx == len(segments) {
		return 0, false
	}
	return translate(i, segments[idx], pick, func(from textrange.Range) bool {
		return from.Start <= i
	})
}

// mapEnd resolves an offset that closes a range: from.Start < i <= from.End.
func mapEnd(i int, segments []Segment, pick side) (int, bool) {
	idx := sort.Search(len(segments), func(k int) bool {
		from, _ := pick(segments[k])
		return from.End >= i
	})
	if idx == len(segments) {
		return 0, false
	}
	return translate(i, segments[idx], pick, func(from textrange.Range) bool {
		return from.Start < i
	})
}

func translate(i int, seg Segment, pick side, inside func(textrange.Range) bool) (int, bool) {
	from, to := pick(seg)
	if !inside(from) || seg.Kind != KindCopy {
		return 0, false
	}
	return to.Start + (i - from.Start), true
}
