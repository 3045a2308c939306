package review

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/engine"
	"github.com/colonyops/redline/internal/core/highlight"
	corereview "github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/core/styles"
	"github.com/colonyops/redline/internal/redline"
	"github.com/colonyops/redline/internal/render"
)

const (
	maxListWidth = 44
	minListWidth = 24
	chromeHeight = 3 // header, status bar, help line
)

// ReloadMsg asks the view to re-read the analysis from disk.
type ReloadMsg struct {
	Path string
}

// item is one row in the risk list.
type item struct {
	risk         corereview.Risk
	suggestionID string // empty when the analyzer proposed no rewrite
}

// View is the review screen.
type View struct {
	ctx   context.Context
	svc   *redline.ReviewService
	doc   *redline.Document
	state engine.DerivedState
	items []item

	cursor         int
	showBase       bool
	showDetail     bool
	confirmDiscard bool

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	width    int
	height   int

	status     string
	statusWarn bool
}

// New creates a review view for doc.
func New(ctx context.Context, svc *redline.ReviewService, doc *redline.Document) View {
	v := View{
		ctx:      ctx,
		svc:      svc,
		doc:      doc,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(0, 0),
	}
	keyStyle := lipgloss.NewStyle().Foreground(styles.CurrentPalette.Primary)
	v.help.Styles.ShortKey = keyStyle
	v.help.Styles.ShortDesc = styles.MutedStyle
	v.help.Styles.FullKey = keyStyle
	v.help.Styles.FullDesc = styles.MutedStyle

	v.rebuild()
	if doc.Reset {
		v.setStatus("document content changed; saved decisions were discarded", true)
	}
	return v
}

// SetSize updates the view dimensions.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width

	v.viewport.Width = max(width-v.listWidth()-1, 1)
	v.viewport.Height = max(height-chromeHeight, 1)
	v.refresh()
}

// State returns the current derived state.
func (v View) State() engine.DerivedState {
	return v.state
}

// ShowingBase reports whether the base text is displayed.
func (v View) ShowingBase() bool {
	return v.showBase || !v.state.Edited()
}

// ConfirmingDiscard reports whether the discard prompt is open.
func (v View) ConfirmingDiscard() bool {
	return v.confirmDiscard
}

// Init implements tea.Model.
func (v View) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (v View) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case ReloadMsg:
		return v.reload(), nil

	case tea.KeyMsg:
		if v.confirmDiscard {
			return v.handleConfirm(msg), nil
		}
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v View) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.move(-1)
	case key.Matches(msg, v.keys.Down):
		v.move(1)
	case key.Matches(msg, v.keys.Accept):
		v.decide(decision.Accepted)
	case key.Matches(msg, v.keys.Reject):
		v.decide(decision.Rejected)
	case key.Matches(msg, v.keys.Clear):
		v.decide(decision.Undecided)
	case key.Matches(msg, v.keys.View):
		if !v.state.Edited() {
			v.setStatus("no accepted suggestions; showing base text", false)
			break
		}
		v.showBase = !v.showBase
		v.showDetail = false
		v.refresh()
	case key.Matches(msg, v.keys.Detail):
		v.showDetail = !v.showDetail
		v.refresh()
	case key.Matches(msg, v.keys.Discard):
		v.confirmDiscard = true
	case key.Matches(msg, v.keys.Help):
		v.help.ShowAll = !v.help.ShowAll
	default:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v View) handleConfirm(msg tea.KeyMsg) View {
	v.confirmDiscard = false
	if !key.Matches(msg, v.keys.Confirm) {
		v.setStatus("discard cancelled", false)
		return v
	}

	if err := v.svc.Discard(v.ctx, v.doc); err != nil {
		v.setStatus(err.Error(), true)
		return v
	}
	v.showBase = false
	v.recompute()
	v.setStatus("all decisions discarded", false)
	return v
}

func (v *View) move(delta int) {
	if len(v.items) == 0 {
		return
	}
	v.cursor = min(max(v.cursor+delta, 0), len(v.items)-1)
	v.refresh()
}

func (v *View) decide(target decision.Decision) {
	it, ok := v.selected()
	if !ok {
		return
	}
	if it.suggestionID == "" {
		v.setStatus("this risk has no suggested rewrite", true)
		return
	}

	var (
		change decision.Change
		err    error
	)
	if target == decision.Undecided {
		change, err = v.svc.Decide(v.ctx, v.doc, it.suggestionID, target)
	} else {
		change, err = v.svc.Toggle(v.ctx, v.doc, it.suggestionID, target)
	}
	if err != nil {
		log.Error().Err(err).Str("suggestion_id", it.suggestionID).Msg("review: decision failed")
		v.setStatus(err.Error(), true)
		return
	}

	v.recompute()
	if warning := v.state.SkippedWarning(); warning != "" {
		v.setStatus(warning, true)
		return
	}
	v.setStatus(fmt.Sprintf("%s %s", change.ID, change.To), false)
}

func (v View) reload() View {
	if err := v.svc.Reload(v.doc); err != nil {
		log.Warn().Err(err).Msg("review: reload failed")
		v.setStatus("reload failed: "+err.Error(), true)
		return v
	}

	v.rebuild()
	if v.doc.Reset {
		v.setStatus("document content changed; decisions were reset", true)
	} else {
		v.setStatus("analysis reloaded", false)
	}
	return v
}

// rebuild recreates the risk list after the analysis changed.
func (v *View) rebuild() {
	v.items = buildItems(v.doc.Analysis)
	v.cursor = min(v.cursor, max(len(v.items)-1, 0))
	v.recompute()
}

func (v *View) recompute() {
	v.state = v.svc.Recompute(v.doc)
	if !v.state.Edited() {
		v.showBase = false
	}
	v.refresh()
}

func buildItems(a corereview.Analysis) []item {
	items := make([]item, 0, len(a.Risks))
	for _, r := range a.Risks {
		it := item{risk: r}
		if _, ok := a.Suggestion(r.SuggestionID()); ok {
			it.suggestionID = r.SuggestionID()
		}
		items = append(items, it)
	}
	slices.SortStableFunc(items, func(a, b item) int {
		return cmp.Compare(a.risk.HighlightRange.Start, b.risk.HighlightRange.Start)
	})
	return items
}

func (v View) selected() (item, bool) {
	if v.cursor < 0 || v.cursor >= len(v.items) {
		return item{}, false
	}
	return v.items[v.cursor], true
}

// activeID returns the highlight id that represents the selected risk in
// the displayed text.
func (v View) activeID() string {
	it, ok := v.selected()
	if !ok {
		return ""
	}
	if !v.ShowingBase() && it.suggestionID != "" && v.doc.Decisions.Get(it.suggestionID) == decision.Accepted {
		return corereview.EditID(it.suggestionID)
	}
	return it.risk.ID
}

func (v View) spans() []highlight.Span {
	if v.ShowingBase() {
		return v.state.BaseSpans
	}
	return v.state.Spans
}

// refresh re-renders the document pane and scrolls to the active span.
func (v *View) refresh() {
	if v.viewport.Width <= 0 {
		return
	}

	if v.showDetail {
		v.viewport.SetContent(v.detail())
		v.viewport.GotoTop()
		return
	}

	spans := v.spans()
	active := v.activeID()
	v.viewport.SetContent(v.wrap(render.ANSI(spans, active)))

	if i := v.scrollTarget(spans); i >= 0 {
		line := lipgloss.Height(v.wrap(render.ANSI(spans[:i], ""))) - 1
		v.viewport.SetYOffset(max(line-v.viewport.Height/3, 0))
		return
	}
	v.viewport.GotoTop()
}

// scrollTarget returns the index of the span the selected risk starts in, or
// -1. A risk drawn under another highlight has no span of its own, so its
// range is mapped onto the displayed text instead.
func (v View) scrollTarget(spans []highlight.Span) int {
	active := v.activeID()
	for i, s := range spans {
		if s.ID == active {
			return i
		}
	}

	it, ok := v.selected()
	if !ok {
		return -1
	}
	r := it.risk.HighlightRange
	if !v.ShowingBase() {
		if r, ok = v.state.MapRange(r); !ok {
			return -1
		}
	}
	for i, s := range spans {
		if s.Range.End > r.Start {
			return i
		}
	}
	return -1
}

func (v View) wrap(s string) string {
	return lipgloss.NewStyle().Width(v.viewport.Width).Render(s)
}

func (v View) detail() string {
	it, ok := v.selected()
	if !ok {
		return ""
	}

	md := render.RiskMarkdown(v.doc.Analysis, it.risk, v.doc.Decisions.Get(it.suggestionID))
	out, err := render.Markdown(md, v.viewport.Width)
	if err != nil {
		return md
	}
	return out
}

func (v *View) setStatus(msg string, warn bool) {
	v.status = msg
	v.statusWarn = warn
}

func (v View) listWidth() int {
	return min(max(v.width/3, minListWidth), maxListWidth)
}

// View renders the screen.
func (v View) View() string {
	if v.width == 0 {
		return ""
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		v.renderList(),
		styles.DividerStyle.Render(strings.Repeat("│\n", max(v.viewport.Height-1, 0))+"│"),
		v.viewport.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		body,
		v.renderStatus(),
		v.help.View(v.keys),
	)
}

func (v View) renderHeader() string {
	mode := "edited"
	if v.ShowingBase() {
		mode = "base"
	}
	if v.showDetail {
		mode = "detail"
	}

	snapshot := v.doc.Decisions.Snapshot()
	header := fmt.Sprintf("redline · %s · %s · %d accepted · %d rejected",
		v.doc.Analysis.DocumentID, mode, len(snapshot.Accepted()), len(snapshot.Rejected()))
	return styles.HeaderStyle.Width(v.width).Render(header)
}

func (v View) renderList() string {
	width := v.listWidth()
	height := v.viewport.Height

	if len(v.items) == 0 {
		return lipgloss.NewStyle().Width(width).Height(height).Render(styles.MutedStyle.Render(" no risks"))
	}

	// Keep the cursor visible.
	start := 0
	if v.cursor >= height {
		start = v.cursor - height + 1
	}
	end := min(start+height, len(v.items))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, v.renderRow(v.items[i], i == v.cursor, width))
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(rows, "\n"))
}

func (v View) renderRow(it item, selected bool, width int) string {
	icon := styles.MutedStyle.Render(" ")
	if it.suggestionID != "" {
		switch v.doc.Decisions.Get(it.suggestionID) {
		case decision.Accepted:
			icon = styles.AcceptedStyle.Render(styles.IconAccepted)
		case decision.Rejected:
			icon = styles.RejectedStyle.Render(styles.IconRejected)
		default:
			icon = styles.UndecidedStyle.Render(styles.IconUndecided)
		}
	}

	level := styles.ForHighlight(highlight.TypeRisk, it.risk.Level).Render(styles.IconRisk)

	title := it.risk.Title
	if !v.ShowingBase() && slices.Contains(v.state.DroppedIDs, it.risk.ID) {
		title += " (replaced)"
	}
	title = truncate(title, width-6)

	prefix := "  "
	if selected {
		prefix = "> "
		title = styles.SelectedRowStyle.Render(title)
	}
	return prefix + icon + " " + level + " " + title
}

func (v View) renderStatus() string {
	msg := v.status
	if v.confirmDiscard {
		msg = "Discard all decisions for this document? (y/n)"
	}
	if msg == "" {
		msg = v.state.SkippedWarning()
	}

	style := styles.StatusBarStyle.Width(v.width)
	if v.statusWarn || v.confirmDiscard {
		style = style.Foreground(styles.CurrentPalette.Warning)
	}
	return style.Render(msg)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
