// Package engine derives everything a review view shows from the base text,
// the analysis, and the current decision set.
//
// Nothing here is cached. Callers mutate decisions, then call Recompute
// again; the result is a pure function of its input.
package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/doctext"
	"github.com/colonyops/redline/internal/core/highlight"
	"github.com/colonyops/redline/internal/core/projection"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/core/textrange"
)

// Modes reported to observers.
const (
	ModeBase      = "base"
	ModeProjected = "projected"
	ModeManual    = "manual"
)

// Options select which highlight categories are composed.
type Options struct {
	ShowSuggestions bool
	ShowLegal       bool

	// Priorities orders highlights that start at the same offset. Higher
	// wins. Edits always come first regardless of this map.
	Priorities map[highlight.Type]int
}

// DefaultOptions shows risks and legal citations. Suggestion highlights
// are hidden; the rewrite is reached through its risk.
func DefaultOptions() Options {
	return Options{ShowLegal: true}
}

// Input is the complete state a recomputation depends on.
type Input struct {
	Analysis  review.Analysis
	Decisions decision.Set
	Options   Options
}

// DerivedState is the output of a recomputation.
type DerivedState struct {
	// EditedText is nil when no suggestion is accepted.
	EditedText   *string                  `json:"edited_text"`
	Segments     []projection.Segment     `json:"segments"`
	AppliedEdits []projection.AppliedEdit `json:"applied_edits"`
	SkippedIDs   []string                 `json:"skipped_ids"`
	DroppedIDs   []string                 `json:"dropped_ids"`
	BaseSpans    []highlight.Span         `json:"base_spans"`
	Spans        []highlight.Span         `json:"spans"`
}

// Edited reports whether an edited text exists.
func (d DerivedState) Edited() bool {
	return d.EditedText != nil
}

// Text returns the text Spans are composed over.
func (d DerivedState) Text(base string) string {
	if d.EditedText != nil {
		return *d.EditedText
	}
	return base
}

// SkippedWarning returns a user-facing notice for suggestions that were
// accepted but could not be applied, or "" when there are none.
func (d DerivedState) SkippedWarning() string {
	switch n := len(d.SkippedIDs); n {
	case 0:
		return ""
	case 1:
		return "1 suggestion could not be applied because its range overlaps another or is invalid"
	default:
		return fmt.Sprintf("%d suggestions could not be applied because their ranges overlap others or are invalid", n)
	}
}

// Recompute derives the base and edited views.
//
// With no accepted suggestion, or none that could be applied, there is no
// edited text and Spans equals BaseSpans. SkippedIDs is still reported. Otherwise the accepted suggestions are projected onto the base
// text, every risk and legal range is remapped onto the edited text, and
// ranges that touch a replaced region are left out and listed in DroppedIDs.
func Recompute(in Input) DerivedState {
	base := doctext.New(in.Analysis.BaseText)
	opts := in.Options

	st := DerivedState{
		BaseSpans: highlight.Compose(base, baseHighlights(in.Analysis, opts)),
	}

	if !in.Decisions.HasAccepted() {
		st.Spans = st.BaseSpans
		return st
	}

	res := projection.Project(base, in.Analysis.Suggestions, in.Decisions)
	st.SkippedIDs = res.SkippedIDs
	if len(res.AppliedEdits) == 0 {
		st.Spans = st.BaseSpans
		return st
	}

	edited := res.Text.String()
	st.EditedText = &edited
	st.Segments = res.Segments
	st.AppliedEdits = res.AppliedEdits

	hs := make([]highlight.Highlight, 0, len(res.AppliedEdits)+len(in.Analysis.Risks)+len(in.Analysis.LegalBasis))
	for _, e := range res.AppliedEdits {
		if e.Range.IsEmpty() {
			continue
		}
		hs = append(hs, highlight.Highlight{
			Range:        e.Range,
			Type:         highlight.TypeEdit,
			ID:           review.EditID(e.SuggestionID),
			SuggestionID: e.SuggestionID,
			Priority:     opts.priority(highlight.TypeEdit),
		})
	}

	for _, h := range baseHighlights(in.Analysis, opts) {
		// Accepted suggestions already show up as edits.
		if h.Type == highlight.TypeSuggestion && in.Decisions.Get(h.ID) == decision.Accepted {
			continue
		}
		// Never shown in the base view either.
		if !h.Range.Valid(base.Len()) {
			continue
		}
		mapped, ok := projection.MapToEdited(h.Range, res.Segments)
		if !ok {
			st.DroppedIDs = appendUnique(st.DroppedIDs, h.ID)
			continue
		}
		h.Range = mapped
		hs = append(hs, h)
	}

	st.Spans = highlight.Compose(res.Text, hs)
	return st
}

// RecomputeManual derives the edited view for text the user edited by hand,
// where no segment map exists. Only the changed region is marked.
func RecomputeManual(analysis review.Analysis, edited string, opts Options) DerivedState {
	base := doctext.New(analysis.BaseText)
	text := doctext.New(edited)

	st := DerivedState{
		BaseSpans: highlight.Compose(base, baseHighlights(analysis, opts)),
		Spans:     highlight.ComposeManual(base, text),
	}
	if !base.Equal(text) {
		st.EditedText = &edited
	}
	return st
}

func baseHighlights(a review.Analysis, opts Options) []highlight.Highlight {
	hs := make([]highlight.Highlight, 0, len(a.Risks)+len(a.LegalBasis)+len(a.Suggestions))

	for _, r := range a.Risks {
		hs = append(hs, highlight.Highlight{
			Range:    r.HighlightRange,
			Type:     highlight.TypeRisk,
			ID:       r.ID,
			Level:    r.Level,
			Priority: opts.priority(highlight.TypeRisk),
		})
	}

	if opts.ShowLegal {
		for _, l := range a.LegalBasis {
			hs = append(hs, highlight.Highlight{
				Range:    l.RelatedRange,
				Type:     highlight.TypeLegal,
				ID:       l.ID,
				Priority: opts.priority(highlight.TypeLegal),
			})
		}
	}

	if opts.ShowSuggestions {
		for _, s := range a.Suggestions {
			hs = append(hs, highlight.Highlight{
				Range:        s.HighlightRange,
				Type:         highlight.TypeSuggestion,
				ID:           s.ID,
				SuggestionID: s.ID,
				Priority:     opts.priority(highlight.TypeSuggestion),
			})
		}
	}

	return hs
}

func (o Options) priority(t highlight.Type) int {
	return o.Priorities[t]
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// Observer receives one sample per recomputation.
type Observer interface {
	ObserveRecompute(mode string, segments, skipped, dropped int, elapsed time.Duration)
}

// Engine wraps the pure functions with logging and metrics.
type Engine struct {
	logger   zerolog.Logger
	observer Observer
}

// New returns an Engine. observer may be nil.
func New(logger zerolog.Logger, observer Observer) *Engine {
	return &Engine{logger: logger, observer: observer}
}

// Recompute calls Recompute and reports the outcome.
func (e *Engine) Recompute(in Input) DerivedState {
	start := time.Now()
	st := Recompute(in)

	mode := ModeBase
	if st.Edited() {
		mode = ModeProjected
	}
	e.report(in.Analysis.DocumentID, mode, st, time.Since(start))
	return st
}

// RecomputeManual calls RecomputeManual and reports the outcome.
func (e *Engine) RecomputeManual(analysis review.Analysis, edited string, opts Options) DerivedState {
	start := time.Now()
	st := RecomputeManual(analysis, edited, opts)
	e.report(analysis.DocumentID, ModeManual, st, time.Since(start))
	return st
}

func (e *Engine) report(documentID, mode string, st DerivedState, elapsed time.Duration) {
	e.logger.Debug().
		Str("document_id", documentID).
		Str("mode", mode).
		Int("segments", len(st.Segments)).
		Int("applied", len(st.AppliedEdits)).
		Strs("skipped", st.SkippedIDs).
		Strs("dropped", st.DroppedIDs).
		Int("spans", len(st.Spans)).
		Dur("elapsed", elapsed).
		Msg("recomputed")

	if e.observer != nil {
		e.observer.ObserveRecompute(mode, len(st.Segments), len(st.SkippedIDs), len(st.DroppedIDs), elapsed)
	}
}

// MapRange maps a base range onto the text Spans are composed over.
func (d DerivedState) MapRange(r textrange.Range) (textrange.Range, bool) {
	if d.EditedText == nil {
		return r, true
	}
	return projection.MapToEdited(r, d.Segments)
}
