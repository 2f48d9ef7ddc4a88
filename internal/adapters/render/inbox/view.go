// Package inbox renders inbox pages and account details for the terminal.
// The MCP tool surface has its own plain-text formatting; this package is
// only used by the CLI commands.
package inbox

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/mailtm-mcp/internal/domain"
)

// Render returns a styled listing of one inbox page.
func Render(in domain.Inbox) string {
	s := newStyles()

	lines := []string{
		s.title.Render(fmt.Sprintf("Inbox: %s", in.Address)),
		s.header.Render(fmt.Sprintf("%d message(s) total | page %d", in.Total, in.Page)),
	}

	if len(in.Messages) == 0 {
		lines = append(lines, s.empty.Render("Inbox is empty."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, m := range in.Messages {
		lines = append(lines, renderMessage(m, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderMessage(m domain.MessageSummary, s styles) string {
	subject := m.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	marker := s.unread.Render("●")
	subjectLine := s.unread.Render(subject)
	if m.Seen {
		marker = s.read.Render("○")
		subjectLine = s.read.Render(subject)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		fmt.Sprintf("%s %s", marker, subjectLine),
		s.detail.Render(fmt.Sprintf("  from %s", m.From)),
		s.key.Render(fmt.Sprintf("  id   %s", m.ID)),
	)
}

// RenderAccount returns a styled account summary with a storage usage bar.
func RenderAccount(info domain.AccountInfo, session domain.Session) string {
	s := newStyles()

	lines := []string{
		s.title.Render(info.Address),
		s.header.Render(fmt.Sprintf("account id: %s", info.ID)),
		fmt.Sprintf("%s %s",
			renderUsageBar(info.UsedPercent(), 24, s),
			s.detail.Render(fmt.Sprintf("%d / %d bytes (%.1f%% used)", info.Used, info.Quota, info.UsedPercent())),
		),
	}

	if info.CreatedAt != "" {
		lines = append(lines, s.key.Render("created "+info.CreatedAt))
	}
	if session.Active() {
		lines = append(lines, s.header.Render("session active"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderUsageBar(usedPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	if usedPercent < 0 {
		usedPercent = 0
	}
	if usedPercent > 100 {
		usedPercent = 100
	}

	filled := int(usedPercent / 100 * float64(width))
	if filled > width {
		filled = width
	}

	return "[" +
		s.barFill.Render(strings.Repeat("█", filled)) +
		s.barEmpty.Render(strings.Repeat("░", width-filled)) +
		"]"
}
