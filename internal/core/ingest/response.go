// Package ingest converts analyzer responses into the review domain model.
package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/redline/internal/core/textrange"
)

// Analysis job states reported by the analyzer.
const (
	StatusInit      = "init"
	StatusAnalyzing = "analyzing"
	StatusSuccess   = "success"
	StatusFailed    = "failed"
)

// Sentinel errors for responses that cannot be converted.
var (
	ErrAnalysisNotReady = errors.New("analysis not ready")
	ErrAnalysisFailed   = errors.New("analysis failed")
)

// Response mirrors the analyzer's risk listing for one document.
type Response struct {
	UUID             string     `json:"uuid"`
	RawContent       string     `json:"raw_content,omitempty"`
	Risks            []Risk     `json:"risks"`
	GeneratedAt      *time.Time `json:"generated_at,omitempty"`
	AnalyzerVersion  string     `json:"analyzer_version,omitempty"`
	DataInconsistent bool       `json:"data_inconsistent"`
	Status           string     `json:"status,omitempty"`
	Error            string     `json:"error,omitempty"`
}

// Risk is a single analyzer finding.
//
// SuggestedRevision and RevisedText are alternative names for the concrete
// rewrite; Suggestions holds advisory prose and is never applied to the text.
type Risk struct {
	Identifier        string          `json:"identifier" validate:"required"`
	Level             string          `json:"level" validate:"required,oneof=high medium low"`
	HighlightRange    textrange.Range `json:"highlight_range"`
	Suggestions       string          `json:"suggestions"`
	LegalBasis        []LegalBasis    `json:"legal_basis" validate:"dive"`
	DetectedIssue     string          `json:"detected_issue"`
	SuggestedRevision *string         `json:"suggested_revision,omitempty"`
	RevisedText       *string         `json:"revised_text,omitempty"`
	OriginalText      *string         `json:"original_text,omitempty"`
	RevisionRationale *string         `json:"revision_rationale,omitempty"`
	SuggestionReason  *string         `json:"suggestion_reason,omitempty"`
}

// LegalBasis is a citation attached to a risk.
type LegalBasis struct {
	LawName        string  `json:"law_name" validate:"required"`
	Order          string  `json:"order"`
	Content        string  `json:"content"`
	ReferenceLink  *string `json:"reference_link"`
	RelevanceScore float64 `json:"relevance_score" validate:"gte=0,lte=1"`
}

// Ready reports whether the response holds a finished analysis. A missing
// status is treated as finished, since a plain risk export carries none.
func (r Response) Ready() error {
	switch r.Status {
	case "", StatusSuccess:
		return nil
	case StatusFailed:
		if r.Error != "" {
			return fmt.Errorf("%w: %s", ErrAnalysisFailed, r.Error)
		}
		return ErrAnalysisFailed
	default:
		return fmt.Errorf("%w: status %q", ErrAnalysisNotReady, r.Status)
	}
}

func (r Risk) revision() string {
	switch {
	case r.SuggestedRevision != nil:
		return *r.SuggestedRevision
	case r.RevisedText != nil:
		return *r.RevisedText
	default:
		return ""
	}
}

func (r Risk) reason() string {
	switch {
	case r.RevisionRationale != nil:
		return *r.RevisionRationale
	case r.SuggestionReason != nil:
		return *r.SuggestionReason
	default:
		return ""
	}
}
