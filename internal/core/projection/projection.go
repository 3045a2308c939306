// Package projection derives the edited text from the base text and the set
// of accepted suggestions, and maps ranges between the two.
//
// The edited text is never patched incrementally. Every call to Project
// starts from the base text and the full decision set, and returns the text
// together with the segment list that explains it; the two are only valid as
// a pair.
package projection

import (
	"sort"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/doctext"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/core/textrange"
)

// Kind distinguishes copied spans from replaced spans.
type Kind string

const (
	KindCopy    Kind = "copy"
	KindReplace Kind = "replace"
)

// Segment maps a span of base text to a span of edited text.
//
// For KindCopy the two ranges have equal length and cover identical code
// units. For KindReplace the out range holds the suggestion's revised text
// and may be shorter or longer than the base range, or empty.
type Segment struct {
	Kind         Kind            `json:"kind"`
	SuggestionID string          `json:"suggestion_id,omitempty"`
	Base         textrange.Range `json:"base"`
	Out          textrange.Range `json:"out"`
}

// AppliedEdit records where an accepted suggestion landed in the edited text.
type AppliedEdit struct {
	SuggestionID string          `json:"suggestion_id"`
	Range        textrange.Range `json:"range"`
}

// Result is the output of a projection.
type Result struct {
	Text         doctext.Text
	Segments     []Segment
	AppliedEdits []AppliedEdit
	SkippedIDs   []string
}

// Project applies every accepted suggestion to base.
//
// Suggestions with a range that is empty or outside the base text are
// skipped. Remaining suggestions are applied in order of their start offset;
// one that overlaps an already applied suggestion is skipped, so the
// earliest suggestion wins. Skipped ids are reported in SkippedIDs, invalid
// ranges first. The result is fully determined by the inputs.
func Project(base doctext.Text, suggestions []review.Suggestion, decisions decision.Set) Result {
	var (
		res      Result
		accepted = make([]review.Suggestion, 0, len(suggestions))
		baseLen  = base.Len()
	)

	for _, s := range suggestions {
		if decisions.Get(s.ID) != decision.Accepted {
			continue
		}
		if !s.HighlightRange.Valid(baseLen) {
			res.SkippedIDs = append(res.SkippedIDs, s.ID)
			continue
		}
		accepted = append(accepted, s)
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].HighlightRange.Start < accepted[j].HighlightRange.Start
	})

	var (
		out             doctext.Builder
		cursor          = 0
		lastAcceptedEnd = -1
	)
	out.Grow(baseLen)

	for _, s := range accepted {
		r := s.HighlightRange
		if r.Start < lastAcceptedEnd {
			res.SkippedIDs = append(res.SkippedIDs, s.ID)
			continue
		}

		if r.Start > cursor {
			res.Segments = append(res.Segments, copySegment(&out, base, cursor, r.Start))
		}

		outStart := out.Len()
		out.WriteString(s.RevisedText)
		outRange := textrange.New(outStart, out.Len())

		res.Segments = append(res.Segments, Segment{
			Kind:         KindReplace,
			SuggestionID: s.ID,
			Base:         r,
			Out:          outRange,
		})
		res.AppliedEdits = append(res.AppliedEdits, AppliedEdit{SuggestionID: s.ID, Range: outRange})

		cursor = r.End
		lastAcceptedEnd = r.End
	}

	if cursor < baseLen {
		res.Segments = append(res.Segments, copySegment(&out, base, cursor, baseLen))
	}

	res.Text = out.Text()
	return res
}

func copySegment(out *doctext.Builder, base doctext.Text, start, end int) Segment {
	outStart := out.Len()
	out.Write(base.Sub(start, end))
	return Segment{
		Kind: KindCopy,
		Base: textrange.New(start, end),
		Out:  textrange.New(outStart, out.Len()),
	}
}

// OutputText returns the edited text a segment produced.
func (s Segment) OutputText(edited doctext.Text) string {
	return edited.SliceRange(s.Out)
}
