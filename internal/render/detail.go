package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/core/styles"
)

var levelLabels = map[review.Level]string{
	review.LevelHigh:   "High",
	review.LevelMedium: "Medium",
	review.LevelLow:    "Low",
}

// RiskMarkdown describes a risk, its suggested rewrite and its citations as
// markdown. state is the current decision on the rewrite.
func RiskMarkdown(a review.Analysis, r review.Risk, state decision.Decision) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Title)
	fmt.Fprintf(&sb, "**Level:** %s  \n", levelLabel(r.Level))
	fmt.Fprintf(&sb, "**ID:** `%s`\n\n", r.ID)

	if r.DetectedIssue != "" {
		sb.WriteString("## Issue\n\n")
		sb.WriteString(r.DetectedIssue)
		sb.WriteString("\n\n")
	}

	if r.SuggestionText != "" {
		sb.WriteString("## Advice\n\n")
		sb.WriteString(r.SuggestionText)
		sb.WriteString("\n\n")
	}

	if s, ok := a.Suggestion(r.SuggestionID()); ok {
		fmt.Fprintf(&sb, "## Suggested rewrite (%s)\n\n", state)
		sb.WriteString(quote(s.OriginalText))
		sb.WriteString("\n\nbecomes\n\n")
		sb.WriteString(quote(s.RevisedText))
		sb.WriteString("\n\n")
		if s.Reason != "" {
			fmt.Fprintf(&sb, "_%s_\n\n", s.Reason)
		}
	}

	if len(r.LegalBasis) > 0 {
		sb.WriteString("## Legal basis\n\n")
		for _, lb := range r.LegalBasis {
			name := strings.TrimSpace(lb.LawName + " " + lb.Article)
			if lb.ReferenceLink != "" {
				fmt.Fprintf(&sb, "- [%s](%s) (relevance %.0f%%)\n", name, lb.ReferenceLink, lb.Score*100)
			} else {
				fmt.Fprintf(&sb, "- **%s** (relevance %.0f%%)\n", name, lb.Score*100)
			}
			if lb.Content != "" {
				fmt.Fprintf(&sb, "  %s\n", strings.ReplaceAll(lb.Content, "\n", " "))
			}
		}
	}

	return sb.String()
}

// Markdown renders markdown for a terminal of the given width using the
// active theme.
func Markdown(md string, width int) (string, error) {
	style := styles.GlamourStyle()
	noMargin := uint(0)
	style.Document.Margin = &noMargin

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func levelLabel(l review.Level) string {
	if s, ok := levelLabels[l]; ok {
		return s
	}
	return string(l)
}

func quote(s string) string {
	if s == "" {
		return "> _(empty)_"
	}
	return "> " + strings.ReplaceAll(s, "\n", "\n> ")
}
