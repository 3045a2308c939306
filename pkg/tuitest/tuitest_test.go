package tuitest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "color", in: "\x1b[31mred\x1b[0m text", want: "red text"},
		{name: "trailing spaces", in: "a   \nb  ", want: "a\nb"},
		{name: "trailing newlines", in: "a\n\n\n", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.in))
		})
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "a", Keys("a").String())
	assert.Equal(t, "tab", KeyTab().String())
	assert.Equal(t, "enter", KeyEnter().String())
	assert.Equal(t, "esc", KeyEsc().String())
	assert.Equal(t, tea.WindowSizeMsg{Width: 80, Height: 24}, WindowSize(80, 24))
}
