// Package ui holds the shared Lip Gloss styles and terminal print helpers.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	DoneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	HelpStyle     = lipgloss.NewStyle().Faint(true)

	BoxChecked   = "☑"
	BoxUnchecked = "☐"
)

// SetTheme adjusts the palette. "mono" drops all color for dumb terminals
// and log capture; anything else restores the default palette.
func SetTheme(name string) {
	if strings.ToLower(name) == "mono" {
		plain := lipgloss.NewStyle()
		SuccessStyle = plain
		PendingStyle = plain
		AccentStyle = plain
		MutedStyle = plain
		ErrorStyle = lipgloss.NewStyle().Bold(true)
		SelectedStyle = lipgloss.NewStyle().Reverse(true)
		DoneStyle = lipgloss.NewStyle().Strikethrough(true)
		HelpStyle = plain
		BoxChecked = "[x]"
		BoxUnchecked = "[ ]"
		return
	}
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle = lipgloss.NewStyle().Faint(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	DoneStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	HelpStyle = lipgloss.NewStyle().Faint(true)
	BoxChecked = "☑"
	BoxUnchecked = "☐"
}

func Ok(msg string) {
	fmt.Println(SuccessStyle.Render("✔ " + msg))
}

func Fail(msg string) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✖ "+msg))
}

// Panel draws a framed box around the given lines.
func Panel(lines []string) {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	fmt.Println(border.Render(strings.Join(lines, "\n")))
}

// ProgressBar renders a Unicode progress bar, e.g. [████░░░░] 2/4.
func ProgressBar(done, total, width int) string {
	if width <= 0 {
		width = 28
	}
	div := total
	if div == 0 {
		div = 1
	}
	filled := int(float64(done) / float64(div) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf("] %d/%d", done, total)
}
