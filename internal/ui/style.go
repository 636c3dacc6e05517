package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/grouptodo/gtd/todo"
)

var (
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	inProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	completedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boldStyle       = lipgloss.NewStyle().Bold(true)
)

var (
	colorOverrideMu sync.Mutex
	colorOverride   *bool
)

// SetColorMode forces color on ("always"), off ("never"), or terminal
// detection ("auto", the default).
func SetColorMode(mode string) {
	colorOverrideMu.Lock()
	defer colorOverrideMu.Unlock()

	switch mode {
	case "always":
		enabled := true
		colorOverride = &enabled
	case "never":
		enabled := false
		colorOverride = &enabled
	default:
		colorOverride = nil
	}
}

// StatusBadge renders a display status with its color when ANSI output is
// enabled.
func StatusBadge(status todo.DisplayStatus) string {
	if !ansiEnabled() {
		return string(status)
	}

	switch status {
	case todo.StatusPending:
		return pendingStyle.Render(string(status))
	case todo.StatusInProgress:
		return inProgressStyle.Render(string(status))
	case todo.StatusCompleted:
		return completedStyle.Render(string(status))
	case todo.StatusFailed:
		return failedStyle.Render(string(status))
	default:
		return string(status)
	}
}

// Muted renders dimmed text when ANSI output is enabled.
func Muted(value string) string {
	if !ansiEnabled() {
		return value
	}
	return mutedStyle.Render(value)
}

// Bold renders bold text when ANSI output is enabled.
func Bold(value string) string {
	if !ansiEnabled() {
		return value
	}
	return boldStyle.Render(value)
}

func ansiEnabled() bool {
	colorOverrideMu.Lock()
	override := colorOverride
	colorOverrideMu.Unlock()
	if override != nil {
		return *override
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
