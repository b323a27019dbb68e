// Package render formats model responses and the interactive banner for the
// terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const (
	ColorCyan   = lipgloss.Color("12") // Section headers
	ColorYellow = lipgloss.Color("11") // Warnings, safety notes
	ColorGreen  = lipgloss.Color("10") // Suggested commands
	ColorRed    = lipgloss.Color("9")  // Errors
	ColorGray   = lipgloss.Color("8")  // Secondary info
)

var (
	HeaderStyle  = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	CommandStyle = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	SafetyStyle  = lipgloss.NewStyle().Foreground(ColorYellow)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	DimStyle     = lipgloss.NewStyle().Foreground(ColorGray)
)

// defaultWidth is used when the terminal width is unknown.
const defaultWidth = 80

// Section is one labelled block of a rendered response.
type Section struct {
	Title string
	Body  string
}

// Sections writes labelled blocks to w, wrapping body text to the terminal
// width. Empty bodies are skipped.
func Sections(w io.Writer, width int, sections ...Section) {
	if width <= 0 {
		width = defaultWidth
	}

	for _, section := range sections {
		if strings.TrimSpace(section.Body) == "" {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, HeaderStyle.Render(section.Title))
		fmt.Fprintln(w, wordwrap.String(section.Body, width))
	}
}

// Command writes the highlighted suggested command to w.
func Command(w io.Writer, command string) {
	if strings.TrimSpace(command) == "" {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, HeaderStyle.Render("Command"))
	fmt.Fprintln(w, "  "+CommandStyle.Render(command))
}

// Safety writes a safety note in the warning style.
func Safety(w io.Writer, note string) {
	if strings.TrimSpace(note) == "" {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, SafetyStyle.Render("Safety: "+note))
}

// Error writes an error line in the error style.
func Error(w io.Writer, message string) {
	fmt.Fprintln(w, ErrorStyle.Render("✗ "+message))
}
