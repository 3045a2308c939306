// Package doctext provides a UTF-16 code-unit view of document text.
//
// The analyzer reports offsets the way a JavaScript string indexes its
// contents, one position per UTF-16 code unit. Text stores the encoded units
// so that ranges received from the analyzer can be applied without
// conversion. Slicing through the middle of a surrogate pair yields U+FFFD
// for the orphaned half when the slice is turned back into a string.
package doctext

import (
	"slices"
	"unicode/utf16"

	"github.com/colonyops/redline/internal/core/textrange"
)

// Text is an immutable sequence of UTF-16 code units.
type Text struct {
	units []uint16
}

// New encodes s as UTF-16.
func New(s string) Text {
	return Text{units: utf16.Encode([]rune(s))}
}

// Len returns the number of code units.
func (t Text) Len() int {
	return len(t.units)
}

// String decodes the text back into a Go string.
func (t Text) String() string {
	return string(utf16.Decode(t.units))
}

// Sub returns the code units in [start, end). The bounds must satisfy
// 0 <= start <= end <= Len().
func (t Text) Sub(start, end int) Text {
	return Text{units: t.units[start:end:end]}
}

// Slice returns [start, end) decoded as a string.
func (t Text) Slice(start, end int) string {
	return string(utf16.Decode(t.units[start:end]))
}

// SliceRange returns the substring covered by r. r must be within bounds.
func (t Text) SliceRange(r textrange.Range) string {
	return t.Slice(r.Start, r.End)
}

// At returns the code unit at offset i.
func (t Text) At(i int) uint16 {
	return t.units[i]
}

// Equal reports whether both texts hold the same code units.
func (t Text) Equal(other Text) bool {
	return slices.Equal(t.units, other.units)
}

// IndexUnit returns the offset of the first occurrence of u at or after
// from, or -1.
func (t Text) IndexUnit(u uint16, from int) int {
	for i := max(from, 0); i < len(t.units); i++ {
		if t.units[i] == u {
			return i
		}
	}
	return -1
}

// Count returns how many times u occurs in [start, end).
func (t Text) Count(u uint16, start, end int) int {
	n := 0
	for _, c := range t.units[start:end] {
		if c == u {
			n++
		}
	}
	return n
}

// Truncate returns at most n code units of t decoded as a string, and
// whether anything was cut.
func (t Text) Truncate(n int) (string, bool) {
	if n >= len(t.units) {
		return t.String(), false
	}
	return t.Slice(0, n), true
}

// CommonPrefix returns the length of the longest common prefix of a and b.
func CommonPrefix(a, b Text) int {
	n := min(a.Len(), b.Len())
	p := 0
	for p < n && a.units[p] == b.units[p] {
		p++
	}
	return p
}

// CommonSuffix returns the length of the longest common suffix of a and b,
// never exceeding limit.
func CommonSuffix(a, b Text, limit int) int {
	la, lb := a.Len(), b.Len()
	s := 0
	for s < limit && a.units[la-1-s] == b.units[lb-1-s] {
		s++
	}
	return s
}

// Builder accumulates code units into a Text.
type Builder struct {
	units []uint16
}

// Len returns the number of code units written so far.
func (b *Builder) Len() int {
	return len(b.units)
}

// Grow ensures capacity for n more code units.
func (b *Builder) Grow(n int) {
	b.units = slices.Grow(b.units, n)
}

// Write appends t.
func (b *Builder) Write(t Text) {
	b.units = append(b.units, t.units...)
}

// WriteString appends s encoded as UTF-16.
func (b *Builder) WriteString(s string) {
	for _, r := range s {
		b.units = utf16.AppendRune(b.units, r)
	}
}

// Text returns the accumulated text. The builder must not be used after.
func (b *Builder) Text() Text {
	return Text{units: b.units}
}
