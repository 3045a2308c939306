// Package review defines the contract-review domain: risks detected by the
// analyzer, the rewrites it suggests, and the legal citations backing them.
package review

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/textrange"
)

// Id prefixes shared by the analyzer adapter and the renderers. A risk, its
// suggestion, and its legal citations are tied together by the analyzer's
// identifier.
const (
	RiskPrefix       = "risk-"
	SuggestionPrefix = "sug-"
	LegalPrefix      = "legal-"
	EditPrefix       = "edit-"
)

// Level is the severity the analyzer assigned to a risk.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	default:
		return false
	}
}

// Rank orders levels by severity, high first. Unknown levels rank lowest.
func (l Level) Rank() int {
	switch l {
	case LevelHigh:
		return 3
	case LevelMedium:
		return 2
	case LevelLow:
		return 1
	default:
		return 0
	}
}

// Risk is a single issue detected in the base text.
type Risk struct {
	ID             string          `json:"id"`
	Identifier     string          `json:"identifier"`
	Level          Level           `json:"level"`
	Title          string          `json:"title"`
	DetectedIssue  string          `json:"detected_issue"`
	SuggestionText string          `json:"suggestion,omitempty"` // advisory text, not a rewrite
	HighlightRange textrange.Range `json:"highlight_range"`
	LegalBasis     []LegalBasis    `json:"legal_basis,omitempty"`
}

// SuggestionID returns the id of the suggestion derived from this risk, if
// the analyzer produced one.
func (r Risk) SuggestionID() string {
	return SuggestionID(r.Identifier)
}

// Suggestion is a proposed replacement of HighlightRange in the base text.
type Suggestion struct {
	ID             string          `json:"id"`
	OriginalText   string          `json:"original_text"`
	RevisedText    string          `json:"revised_text"`
	Reason         string          `json:"reason,omitempty"`
	HighlightRange textrange.Range `json:"highlight_range"`
}

// LegalBasis is a statute or regulation cited in support of a risk.
type LegalBasis struct {
	ID            string          `json:"id"`
	LawName       string          `json:"law_name"`
	Article       string          `json:"article"`
	Content       string          `json:"content"`
	Score         float64         `json:"score"`
	ReferenceLink string          `json:"reference_link,omitempty"`
	RelatedRange  textrange.Range `json:"related_range"`
}

// Analysis is everything the analyzer reported for one document.
type Analysis struct {
	DocumentID  string       `json:"document_id"`
	BaseText    string       `json:"base_text"`
	Risks       []Risk       `json:"risks"`
	Suggestions []Suggestion `json:"suggestions"`
	LegalBasis  []LegalBasis `json:"legal_basis"`
}

// Risk returns the risk with the given id.
func (a Analysis) Risk(id string) (Risk, bool) {
	for _, r := range a.Risks {
		if r.ID == id {
			return r, true
		}
	}
	return Risk{}, false
}

// Suggestion returns the suggestion with the given id.
func (a Analysis) Suggestion(id string) (Suggestion, bool) {
	for _, s := range a.Suggestions {
		if s.ID == id {
			return s, true
		}
	}
	return Suggestion{}, false
}

// Legal returns the legal basis with the given id.
func (a Analysis) Legal(id string) (LegalBasis, bool) {
	for _, l := range a.LegalBasis {
		if l.ID == id {
			return l, true
		}
	}
	for _, r := range a.Risks {
		for _, l := range r.LegalBasis {
			if l.ID == id {
				return l, true
			}
		}
	}
	return LegalBasis{}, false
}

// RiskForSuggestion returns the risk a suggestion was derived from.
func (a Analysis) RiskForSuggestion(suggestionID string) (Risk, bool) {
	identifier, ok := strings.CutPrefix(suggestionID, SuggestionPrefix)
	if !ok {
		return Risk{}, false
	}
	for _, r := range a.Risks {
		if r.Identifier == identifier {
			return r, true
		}
	}
	return Risk{}, false
}

// ResolveRisk maps any highlight id (risk, suggestion, edit, or legal) back
// to the risk whose detail view it should open.
func (a Analysis) ResolveRisk(id string) (Risk, bool) {
	switch {
	case strings.HasPrefix(id, RiskPrefix):
		return a.Risk(id)
	case strings.HasPrefix(id, SuggestionPrefix):
		return a.RiskForSuggestion(id)
	case strings.HasPrefix(id, EditPrefix):
		return a.RiskForSuggestion(strings.TrimPrefix(id, EditPrefix))
	case strings.HasPrefix(id, LegalPrefix):
		legal, ok := a.Legal(id)
		if !ok {
			return Risk{}, false
		}
		for _, r := range a.Risks {
			for _, l := range r.LegalBasis {
				if l.LawName == legal.LawName && l.Article == legal.Article {
					return r, true
				}
			}
		}
	}
	return Risk{}, false
}

// RiskID derives a risk id from the analyzer identifier.
func RiskID(identifier string) string {
	return RiskPrefix + identifier
}

// SuggestionID derives a suggestion id from the analyzer identifier.
func SuggestionID(identifier string) string {
	return SuggestionPrefix + identifier
}

// LegalID derives a legal basis id from the analyzer identifier and the
// citation's position in that risk's list.
func LegalID(identifier string, index int) string {
	return LegalPrefix + identifier + "-" + strconv.Itoa(index)
}

// EditID derives the highlight id used for an applied suggestion.
func EditID(suggestionID string) string {
	return EditPrefix + suggestionID
}

// ContentHash returns the SHA256 hex digest of text. Decisions are bound to
// the hash so that a changed document starts with a clean decision set.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Session is the persisted review state for one document.
type Session struct {
	ID          string       `json:"session_id"`
	DocumentID  string       `json:"document_id"`
	ContentHash string       `json:"content_hash"` // SHA256 of the base text
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Decisions   decision.Set `json:"decisions"`
}

// Matches reports whether the session was recorded against the same
// document identity.
func (s Session) Matches(documentID, contentHash string) bool {
	return s.DocumentID == documentID && s.ContentHash == contentHash
}
