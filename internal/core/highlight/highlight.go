// Package highlight merges overlapping annotation ranges into a flat,
// non-overlapping sequence of spans covering a text.
package highlight

import (
	"sort"

	"github.com/colonyops/redline/internal/core/doctext"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/core/textrange"
)

// Type is the category of a highlight.
type Type string

const (
	TypeRisk       Type = "risk"
	TypeLegal      Type = "legal"
	TypeSuggestion Type = "suggestion"
	TypeEdit       Type = "edit" // an accepted suggestion in the edited text
)

// Highlight is a range to be marked in a specific text.
type Highlight struct {
	Range        textrange.Range
	Type         Type
	ID           string
	Level        review.Level // risks only
	SuggestionID string       // edits only
	Priority     int          // higher sorts first among equal starts, after edits
}

// SpanKind tells plain text apart from highlighted text.
type SpanKind string

const (
	SpanText      SpanKind = "text"
	SpanHighlight SpanKind = "highlight"
)

// Span is one piece of the rendered text. Highlight spans carry the id a
// click handler needs to reopen the matching detail view.
type Span struct {
	Range        textrange.Range `json:"range"`
	Kind         SpanKind        `json:"kind"`
	Type         Type            `json:"type,omitempty"`
	ID           string          `json:"id,omitempty"`
	Level        review.Level    `json:"level,omitempty"`
	SuggestionID string          `json:"suggestion_id,omitempty"`
	Text         string          `json:"text"`
}

// SubtractEdits cuts every edit range out of the other highlights, so that
// edits render on top without the same code units being marked twice. A
// highlight split by an edit becomes several highlights sharing its id.
func SubtractEdits(highlights []Highlight) []Highlight {
	var edits []textrange.Range
	for _, h := range highlights {
		if h.Type == TypeEdit && !h.Range.IsEmpty() {
			edits = append(edits, h.Range)
		}
	}
	if len(edits) == 0 {
		return highlights
	}
	textrange.Sort(edits)

	out := make([]Highlight, 0, len(highlights))
	for _, h := range highlights {
		if h.Type == TypeEdit || !overlapsAny(h.Range, edits) {
			out = append(out, h)
			continue
		}
		for _, piece := range textrange.Subtract(h.Range, edits) {
			part := h
			part.Range = piece
			out = append(out, part)
		}
	}
	return out
}

func overlapsAny(r textrange.Range, others []textrange.Range) bool {
	for _, o := range others {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}

// Sort orders highlights for rendering: by start offset, then edits before
// everything else, then by descending priority, then by end offset.
func Sort(highlights []Highlight) {
	sort.SliceStable(highlights, func(i, j int) bool {
		a, b := highlights[i], highlights[j]
		if a.Range.Start != b.Range.Start {
			return a.Range.Start < b.Range.Start
		}
		if ae, be := a.Type == TypeEdit, b.Type == TypeEdit; ae != be {
			return ae
		}
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Range.End < b.Range.End
	})
}

// Compose produces spans that tile text exactly. Highlights with ranges
// outside text are dropped, edits are subtracted from the rest, and any
// highlight starting inside an earlier one is skipped.
func Compose(text doctext.Text, highlights []Highlight) []Span {
	n := text.Len()
	if n == 0 {
		return nil
	}

	valid := make([]Highlight, 0, len(highlights))
	for _, h := range highlights {
		if h.Range.Valid(n) {
			valid = append(valid, h)
		}
	}
	valid = SubtractEdits(valid)
	Sort(valid)

	spans := make([]Span, 0, 2*len(valid)+1)
	cursor := 0

	for _, h := range valid {
		if h.Range.Start < cursor {
			continue
		}
		if h.Range.Start > cursor {
			spans = append(spans, textSpan(text, cursor, h.Range.Start))
		}
		spans = append(spans, Span{
			Range:        h.Range,
			Kind:         SpanHighlight,
			Type:         h.Type,
			ID:           h.ID,
			Level:        h.Level,
			SuggestionID: h.SuggestionID,
			Text:         text.SliceRange(h.Range),
		})
		cursor = h.Range.End
	}

	if cursor < n {
		spans = append(spans, textSpan(text, cursor, n))
	}
	return spans
}

// Plain returns text as a single text span, or nothing for empty text.
func Plain(text doctext.Text) []Span {
	if text.Len() == 0 {
		return nil
	}
	return []Span{textSpan(text, 0, text.Len())}
}

func textSpan(text doctext.Text, start, end int) Span {
	return Span{
		Range: textrange.New(start, end),
		Kind:  SpanText,
		Text:  text.Slice(start, end),
	}
}
