// Package render formats views for the terminal.
package render

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	driftStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B42318", Dark: "#F97066"}).Bold(true)
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#175CD3", Dark: "#84CAFF"})
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Setup picks the colour profile for output written to w. Anything that
// isn't a terminal, or NO_COLOR, gets plain text.
func Setup(w io.Writer) {
	lipgloss.SetColorProfile(profileFor(w))
}

func profileFor(w io.Writer) termenv.Profile {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return termenv.Ascii
	}
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// Colored reports whether styles currently emit escape codes.
func Colored() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}

func Title(s string) string    { return titleStyle.Render(s) }
func Muted(s string) string    { return mutedStyle.Render(s) }
func Category(s string) string { return categoryStyle.Render(s) }
func Header(s string) string   { return headerStyle.Render(s) }

// Drift highlights a drift status; an empty status stays empty.
func Drift(status string) string {
	if status == "" {
		return ""
	}
	return driftStyle.Render(status)
}
