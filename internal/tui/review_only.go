// Package tui hosts the interactive review program.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/redline/internal/redline"
	"github.com/colonyops/redline/internal/store/jsonfile"
	review "github.com/colonyops/redline/internal/tui/views/review"
)

// ReviewOnlyOptions configures the review TUI.
type ReviewOnlyOptions struct {
	Service  *redline.ReviewService
	Document *redline.Document

	// Changes, when set, delivers file events for the analysis or base
	// text. Each event reloads the document.
	Changes <-chan jsonfile.FileEvent
}

// ReviewOnlyModel is the top-level model of the review TUI.
type ReviewOnlyModel struct {
	reviewView review.View
	changes    <-chan jsonfile.FileEvent
	quitting   bool
}

// NewReviewOnly creates a new review TUI model.
func NewReviewOnly(ctx context.Context, opts ReviewOnlyOptions) ReviewOnlyModel {
	return ReviewOnlyModel{
		reviewView: review.New(ctx, opts.Service, opts.Document),
		changes:    opts.Changes,
	}
}

// Init implements tea.Model.
func (m ReviewOnlyModel) Init() tea.Cmd {
	return tea.Batch(m.reviewView.Init(), waitForChange(m.changes))
}

// Update implements tea.Model.
func (m ReviewOnlyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.reviewView.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if !m.reviewView.ConfirmingDiscard() {
			switch msg.String() {
			case "ctrl+c", "q":
				m.quitting = true
				return m, tea.Quit
			}
		}

	case review.ReloadMsg:
		var cmd tea.Cmd
		m.reviewView, cmd = m.reviewView.Update(msg)
		return m, tea.Batch(cmd, waitForChange(m.changes))
	}

	var cmd tea.Cmd
	m.reviewView, cmd = m.reviewView.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ReviewOnlyModel) View() string {
	if m.quitting {
		return ""
	}
	return m.reviewView.View()
}

// waitForChange blocks on the next file event. A closed channel ends the
// subscription.
func waitForChange(ch <-chan jsonfile.FileEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return review.ReloadMsg{Path: ev.Path}
	}
}
