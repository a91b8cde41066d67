package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/deepchat-dev/deepchat/internal/tui/theme"
)

// Header renders the application header
type Header struct {
	Width    int
	Version  string
	Endpoint string
}

// NewHeader creates a new header component
func NewHeader(width int, version, endpoint string) *Header {
	return &Header{
		Width:    width,
		Version:  version,
		Endpoint: endpoint,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetEndpoint updates the endpoint shown on the right
func (h *Header) SetEndpoint(endpoint string) {
	h.Endpoint = endpoint
}

// View renders the header
func (h *Header) View() string {
	t := theme.Current

	logoStyle := lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	logo := logoStyle.Render("◆ DeepChat")

	// Version badge - subtle pill style
	versionStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.BackgroundSecondary).
		Padding(0, 1).
		Render(fmt.Sprintf("v%s", h.Version))

	// Endpoint the active model talks to, shortened when long
	endpoint := strings.TrimPrefix(h.Endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	maxEndpointLen := 40
	if len(endpoint) > maxEndpointLen {
		endpoint = endpoint[:maxEndpointLen-3] + "..."
	}

	endpointStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	connStyle := lipgloss.NewStyle().
		Foreground(t.Success)

	leftPart := lipgloss.JoinHorizontal(
		lipgloss.Center,
		logo,
		"  ",
		versionStyle,
	)

	rightPart := lipgloss.JoinHorizontal(
		lipgloss.Center,
		connStyle.Render("●"),
		" ",
		endpointStyle.Render(endpoint),
	)

	spacing := h.Width - lipgloss.Width(leftPart) - lipgloss.Width(rightPart) - 2
	if spacing < 1 {
		spacing = 1
	}

	header := lipgloss.JoinHorizontal(
		lipgloss.Center,
		leftPart,
		lipgloss.NewStyle().Width(spacing).Render(""),
		rightPart,
	)

	separator := lipgloss.NewStyle().
		Foreground(t.Border).
		Width(h.Width).
		Render(strings.Repeat("─", h.Width))

	return header + "\n" + separator
}
