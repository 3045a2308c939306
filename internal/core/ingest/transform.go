package ingest

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/colonyops/redline/internal/core/doctext"
	"github.com/colonyops/redline/internal/core/review"
)

// Options tune how analyzer text is abbreviated. Lengths count UTF-16 code
// units, matching the offsets the analyzer reports.
type Options struct {
	TitleMaxLen      int     // title is the first line of the issue, cut at this length
	OriginalMaxLen   int     // original text longer than this is cut
	IssueFallbackLen int     // original text falls back to this much of the issue
	MinLegalScore    float64 // citations scoring below this are dropped
}

// DefaultOptions returns the abbreviation lengths used by the review UI.
func DefaultOptions() Options {
	return Options{
		TitleMaxLen:      25,
		OriginalMaxLen:   100,
		IssueFallbackLen: 50,
	}
}

const (
	ellipsis      = "..."
	fallbackTitle = "Risk"
)

// RejectedRisk records an analyzer record that failed validation.
type RejectedRisk struct {
	Index      int    `json:"index"`
	Identifier string `json:"identifier,omitempty"`
	Reason     string `json:"reason"`
}

// Transformer converts analyzer responses.
type Transformer struct {
	opts     Options
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewTransformer returns a Transformer using opts.
func NewTransformer(opts Options, logger zerolog.Logger) *Transformer {
	return &Transformer{
		opts:     opts,
		validate: validator.New(),
		logger:   logger,
	}
}

// Transform builds an Analysis from an analyzer response. fallbackContent,
// when non-empty, is used as the base text instead of the response's
// raw_content. Records that fail validation are skipped and returned so the
// caller can report them; they never fail the whole response.
func (t *Transformer) Transform(resp Response, fallbackContent string) (review.Analysis, []RejectedRisk, error) {
	if err := resp.Ready(); err != nil {
		return review.Analysis{}, nil, err
	}

	if resp.DataInconsistent {
		t.logger.Warn().Str("document_id", resp.UUID).Msg("analyzer flagged data as inconsistent")
	}

	content := resp.RawContent
	if fallbackContent != "" {
		content = fallbackContent
	}

	var (
		base     = doctext.New(content)
		rejected []RejectedRisk
		seen     = map[legalKey]bool{}
		analysis = review.Analysis{
			DocumentID: resp.UUID,
			BaseText:   content,
			Risks:      []review.Risk{},
		}
	)

	for i, raw := range resp.Risks {
		if err := t.validate.Struct(raw); err != nil {
			t.logger.Warn().Err(err).Int("index", i).Str("identifier", raw.Identifier).Msg("skipping invalid risk record")
			rejected = append(rejected, RejectedRisk{Index: i, Identifier: raw.Identifier, Reason: err.Error()})
			continue
		}

		risk := t.risk(raw)
		analysis.Risks = append(analysis.Risks, risk)

		for _, lb := range risk.LegalBasis {
			key := legalKey{lb.LawName, lb.Article}
			if seen[key] {
				continue
			}
			seen[key] = true
			analysis.LegalBasis = append(analysis.LegalBasis, lb)
		}

		if revision := raw.revision(); revision != "" {
			analysis.Suggestions = append(analysis.Suggestions, review.Suggestion{
				ID:             review.SuggestionID(raw.Identifier),
				OriginalText:   t.originalText(raw, base),
				RevisedText:    revision,
				Reason:         t.reasonText(raw, risk.Title),
				HighlightRange: raw.HighlightRange,
			})
		}
	}

	t.logger.Debug().
		Str("document_id", resp.UUID).
		Int("risks", len(analysis.Risks)).
		Int("suggestions", len(analysis.Suggestions)).
		Int("legal_basis", len(analysis.LegalBasis)).
		Int("rejected", len(rejected)).
		Msg("analysis ingested")

	return analysis, rejected, nil
}

type legalKey struct {
	law     string
	article string
}

func (t *Transformer) risk(raw Risk) review.Risk {
	legal := make([]review.LegalBasis, 0, len(raw.LegalBasis))
	for i, lb := range raw.LegalBasis {
		if lb.RelevanceScore < t.opts.MinLegalScore {
			continue
		}
		var link string
		if lb.ReferenceLink != nil {
			link = *lb.ReferenceLink
		}
		legal = append(legal, review.LegalBasis{
			ID:            review.LegalID(raw.Identifier, i),
			LawName:       lb.LawName,
			Article:       lb.Order,
			Content:       lb.Content,
			Score:         lb.RelevanceScore,
			ReferenceLink: link,
			RelatedRange:  raw.HighlightRange,
		})
	}

	return review.Risk{
		ID:             review.RiskID(raw.Identifier),
		Identifier:     raw.Identifier,
		Level:          review.Level(raw.Level),
		Title:          t.title(raw.DetectedIssue),
		DetectedIssue:  raw.DetectedIssue,
		SuggestionText: raw.Suggestions,
		HighlightRange: raw.HighlightRange,
		LegalBasis:     legal,
	}
}

// title takes the issue's first line up to TitleMaxLen code units and adds
// an ellipsis when the issue is longer than that.
func (t *Transformer) title(issue string) string {
	if issue == "" {
		return fallbackTitle
	}

	text := doctext.New(issue)
	end := 0
	for end < text.Len() && end < t.opts.TitleMaxLen && !isLineTerminator(text.At(end)) {
		end++
	}

	title := text.Slice(0, end)
	if text.Len() > t.opts.TitleMaxLen {
		title += ellipsis
	}
	return title
}

func isLineTerminator(u uint16) bool {
	return u == '\n' || u == '\r' || u == 0x2028 || u == 0x2029
}

func (t *Transformer) originalText(raw Risk, base doctext.Text) string {
	var original string
	if raw.HighlightRange.Valid(base.Len()) {
		original = base.SliceRange(raw.HighlightRange)
	}
	if raw.OriginalText != nil && *raw.OriginalText != "" {
		original = *raw.OriginalText
	}

	if original == "" {
		s, cut := doctext.New(raw.DetectedIssue).Truncate(t.opts.IssueFallbackLen)
		if cut {
			s += ellipsis
		}
		return s
	}

	if s, cut := doctext.New(original).Truncate(t.opts.OriginalMaxLen); cut {
		return s + ellipsis
	}
	return original
}

func (t *Transformer) reasonText(raw Risk, title string) string {
	if reason := raw.reason(); reason != "" {
		return reason
	}
	return fmt.Sprintf("Addresses risk: %s", title)
}
