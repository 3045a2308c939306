package textrange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRange_Valid(t *testing.T) {
	tests := []struct {
		name   string
		r      Range
		length int
		want   bool
	}{
		{name: "inside", r: New(2, 5), length: 10, want: true},
		{name: "whole text", r: New(0, 10), length: 10, want: true},
		{name: "negative start", r: New(-1, 3), length: 10, want: false},
		{name: "past end", r: New(8, 11), length: 10, want: false},
		{name: "empty", r: New(4, 4), length: 10, want: false},
		{name: "inverted", r: New(5, 2), length: 10, want: false},
		{name: "empty text", r: New(0, 1), length: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Valid(tt.length))
		})
	}
}

func TestRange_OverlapsAndContains(t *testing.T) {
	a := New(2, 5)

	assert.True(t, a.Overlaps(New(4, 8)))
	assert.True(t, a.Overlaps(New(0, 3)))
	assert.False(t, a.Overlaps(New(5, 8)), "touching ranges do not overlap")
	assert.False(t, a.Overlaps(New(0, 2)), "touching ranges do not overlap")

	assert.True(t, a.Contains(2))
	assert.True(t, a.Contains(4))
	assert.False(t, a.Contains(5))

	assert.True(t, New(0, 10).ContainsRange(a))
	assert.False(t, New(3, 10).ContainsRange(a))
}

func TestRange_Len(t *testing.T) {
	assert.Equal(t, 3, New(2, 5).Len())
	assert.Equal(t, 0, New(5, 5).Len())
	assert.Equal(t, 0, New(5, 2).Len())
	assert.Equal(t, "[2,5)", New(2, 5).String())
	assert.Equal(t, New(0, 3), New(2, 5).Shift(-2))
}

func TestSubtract(t *testing.T) {
	tests := []struct {
		name   string
		target Range
		cuts   []Range
		want   []Range
	}{
		{
			name:   "no cuts",
			target: New(0, 10),
			want:   []Range{New(0, 10)},
		},
		{
			name:   "cut in the middle",
			target: New(0, 10),
			cuts:   []Range{New(3, 5)},
			want:   []Range{New(0, 3), New(5, 10)},
		},
		{
			name:   "cut covers start",
			target: New(2, 8),
			cuts:   []Range{New(0, 4)},
			want:   []Range{New(4, 8)},
		},
		{
			name:   "cut covers end",
			target: New(2, 8),
			cuts:   []Range{New(6, 12)},
			want:   []Range{New(2, 6)},
		},
		{
			name:   "cut covers everything",
			target: New(2, 8),
			cuts:   []Range{New(0, 12)},
			want:   nil,
		},
		{
			name:   "unsorted overlapping cuts",
			target: New(0, 20),
			cuts:   []Range{New(12, 15), New(2, 4), New(3, 6)},
			want:   []Range{New(0, 2), New(6, 12), New(15, 20)},
		},
		{
			name:   "disjoint cuts outside",
			target: New(5, 10),
			cuts:   []Range{New(0, 5), New(10, 12)},
			want:   []Range{New(5, 10)},
		},
		{
			name:   "empty cuts ignored",
			target: New(0, 4),
			cuts:   []Range{New(2, 2)},
			want:   []Range{New(0, 4)},
		},
		{
			name:   "empty target",
			target: New(3, 3),
			cuts:   []Range{New(0, 1)},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subtract(tt.target, tt.cuts))
		})
	}
}
