package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/redline/internal/core/doctext"
	"github.com/colonyops/redline/internal/core/highlight"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/core/textrange"
)

func sampleSpans() []highlight.Span {
	text := doctext.New("Pay <30> days & \"fees\"\nnext line")
	return highlight.Compose(text, []highlight.Highlight{
		{Range: textrange.New(4, 8), Type: highlight.TypeRisk, ID: "risk-1", Level: review.LevelHigh},
		{Range: textrange.New(16, 22), Type: highlight.TypeLegal, ID: "legal-1-0"},
		{Range: textrange.New(23, 27), Type: highlight.TypeEdit, ID: "edit-sug-2", SuggestionID: "sug-2"},
	})
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "Pay <30> days & \"fees\"\nnext line", Plain(sampleSpans()))
	assert.Empty(t, Plain(nil))
}

func TestHTML(t *testing.T) {
	got := HTML(sampleSpans(), "legal-1-0")

	assert.Equal(t,
		`Pay <mark class="hl risk risk-high" data-id="risk-1">&lt;30&gt;</mark> days &amp; `+
			`<mark class="hl legal active" data-id="legal-1-0">&#34;fees&#34;</mark>`+"\n"+
			`<mark class="hl edit" data-id="edit-sug-2" data-suggestion-id="sug-2">next</mark> line`,
		got)
}

func TestANSI_KeepsText(t *testing.T) {
	spans := sampleSpans()
	out := ANSI(spans, "risk-1")

	for _, s := range spans {
		for _, line := range strings.Split(s.Text, "\n") {
			assert.Contains(t, out, line)
		}
	}
	assert.Equal(t, strings.Count(Plain(spans), "\n"), strings.Count(out, "\n"))
}
