package render

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// WelcomeInfo contains information to display when an interactive loop
// starts.
type WelcomeInfo struct {
	// Model is the configured language model name.
	Model string
	// Version is the aicmd version string.
	Version string
	// Chat selects the chat-mode banner text.
	Chat bool
}

// tips rotate daily in the welcome banner.
var tips = []string{
	"run `aicmd` right after a failed command to get a fix",
	"use -c to ask a quick question without entering chat mode",
	"type 'context' in chat mode to see what the assistant remembers",
	"type 'clear-context' in chat mode to start a fresh conversation",
	"use -y to auto-confirm suggested commands (safety checks still apply)",
	"run `aicmd setup` to install the shell hooks for error detection",
	"run `aicmd doctor` to check what evidence is currently available",
	"type 'history' in interactive mode to see your recent inputs",
	"type 'search <text>' in interactive mode to find past inputs",
	"press Ctrl+D on an empty line to exit",
}

// getTipOfTheDay returns a tip based on the current date, stable for the
// whole day.
func getTipOfTheDay() string {
	if len(tips) == 0 {
		return ""
	}
	now := time.Now()
	daysSinceEpoch := now.Year()*365 + int(now.Month())*31 + now.Day()
	return tips[daysSinceEpoch%len(tips)]
}

// Welcome renders the interactive banner to w.
func Welcome(w io.Writer, info WelcomeInfo) {
	titleStyle := lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(ColorGray)
	valueStyle := lipgloss.NewStyle().Foreground(ColorCyan)
	dimStyle := lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	title := "aicmd — terminal command assistant"
	if info.Chat {
		title = "aicmd chat — ask me anything about the command line"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(title))
	if info.Version != "" {
		fmt.Fprintln(w, labelStyle.Render("version: ")+valueStyle.Render(info.Version))
	}
	if info.Model != "" {
		fmt.Fprintln(w, labelStyle.Render("model:   ")+valueStyle.Render(info.Model))
	}
	if tip := getTipOfTheDay(); tip != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, dimStyle.Render("tip: "+tip))
	}
	fmt.Fprintln(w)
}
