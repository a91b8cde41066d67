package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/deepchat-dev/deepchat/internal/tui/theme"
)

// Status renders the status bar at the bottom
type Status struct {
	Width     int
	Model     string
	Thinking  bool
	Streaming bool
	Message   string
}

// NewStatus creates a new status bar
func NewStatus(width int) *Status {
	return &Status{
		Width: width,
		Model: "deepseek-chat",
	}
}

// SetWidth updates the status bar width
func (s *Status) SetWidth(width int) {
	s.Width = width
}

// SetThinking sets the thinking state
func (s *Status) SetThinking(thinking bool) {
	s.Thinking = thinking
}

// SetStreaming sets the streaming state
func (s *Status) SetStreaming(streaming bool) {
	s.Streaming = streaming
}

// SetMessage sets the status message
func (s *Status) SetMessage(msg string) {
	s.Message = msg
}

// SetModel sets the model name
func (s *Status) SetModel(model string) {
	s.Model = model
}

// View renders the status bar
func (s *Status) View() string {
	t := theme.Current

	hintStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	hint := hintStyle.Render("Enter to send · Ctrl+Y copy code · Ctrl+C quit")
	if s.Message != "" {
		hint = hintStyle.Render(s.Message)
	}

	// Model badge
	modelStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.BackgroundSecondary).
		Padding(0, 1)
	modelBadge := modelStyle.Render(s.Model)

	var rightContent string
	switch {
	case s.Streaming:
		streamStyle := lipgloss.NewStyle().
			Foreground(t.Primary)
		rightContent = streamStyle.Render("● streaming · /stop to cancel")
	case s.Thinking:
		thinkStyle := lipgloss.NewStyle().
			Foreground(t.Primary)
		rightContent = thinkStyle.Render("● thinking...")
	default:
		rightContent = modelBadge
	}

	leftWidth := lipgloss.Width(hint)
	rightWidth := lipgloss.Width(rightContent)
	spacing := s.Width - leftWidth - rightWidth - 2

	if spacing < 0 {
		spacing = 0
	}

	bar := lipgloss.JoinHorizontal(
		lipgloss.Center,
		hint,
		lipgloss.NewStyle().Width(spacing).Render(""),
		rightContent,
	)

	return bar
}
