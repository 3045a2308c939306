// Package render turns composed spans into printable output.
package render

import (
	"html"
	"strings"

	"github.com/colonyops/redline/internal/core/highlight"
	"github.com/colonyops/redline/internal/core/styles"
)

// Plain concatenates span text, dropping all markup.
func Plain(spans []highlight.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// ANSI styles highlight spans for a terminal. The span whose id equals
// activeID, if any, is additionally emphasized.
func ANSI(spans []highlight.Span, activeID string) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Kind != highlight.SpanHighlight {
			sb.WriteString(s.Text)
			continue
		}

		style := styles.ForHighlight(s.Type, s.Level)
		if activeID != "" && s.ID == activeID {
			style = style.Inherit(styles.ActiveStyle)
		}

		// Render line by line; lipgloss pads multi-line blocks to equal width.
		for i, line := range strings.Split(s.Text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line != "" {
				sb.WriteString(style.Render(line))
			}
		}
	}
	return sb.String()
}

// HTML writes spans as escaped text with <mark> elements. Each mark carries
// its highlight id so a page can link back to the detail view.
func HTML(spans []highlight.Span, activeID string) string {
	var sb strings.Builder
	for _, s := range spans {
		if s.Kind != highlight.SpanHighlight {
			sb.WriteString(html.EscapeString(s.Text))
			continue
		}

		sb.WriteString(`<mark class="hl `)
		sb.WriteString(string(s.Type))
		if s.Type == highlight.TypeRisk && s.Level != "" {
			sb.WriteString(" risk-")
			sb.WriteString(string(s.Level))
		}
		if activeID != "" && s.ID == activeID {
			sb.WriteString(" active")
		}
		sb.WriteString(`" data-id="`)
		sb.WriteString(html.EscapeString(s.ID))
		sb.WriteByte('"')
		if s.SuggestionID != "" {
			sb.WriteString(` data-suggestion-id="`)
			sb.WriteString(html.EscapeString(s.SuggestionID))
			sb.WriteByte('"')
		}
		sb.WriteByte('>')
		sb.WriteString(html.EscapeString(s.Text))
		sb.WriteString("</mark>")
	}
	return sb.String()
}
