package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Banner writes installer progress and the final outcome to Out.
// Styled output is only produced when Styled is set; plain text otherwise.
type Banner struct {
	Out    io.Writer
	Styled bool
}

// NewBanner returns a Banner that styles output when out is an interactive terminal.
func NewBanner(out io.Writer, styled bool) *Banner {
	return &Banner{Out: out, Styled: styled}
}

// Info prints an informational line.
func (b *Banner) Info(message string) {
	if b.Styled {
		message = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true).Render(message)
	}
	fmt.Fprintln(b.Out, message)
}

// Progress prints "(step i/n) message".
func (b *Banner) Progress(step, total int, message string) {
	prefix := fmt.Sprintf("(step %d/%d)", step, total)
	if b.Styled {
		prefix = lipgloss.NewStyle().Foreground(ColorMuted).Render(prefix)
		message = lipgloss.NewStyle().Foreground(ColorValue).Render(message)
	}
	fmt.Fprintf(b.Out, "%s %s\n", prefix, message)
}

// Success prints a highlighted success line.
func (b *Banner) Success(message string) {
	b.banner(" SUCCESS ", ColorOK, message)
}

// Failure prints a highlighted error line.
func (b *Banner) Failure(message string) {
	b.banner(" ERROR ", ColorCritical, message)
}

func (b *Banner) banner(label string, color lipgloss.Color, message string) {
	if !b.Styled {
		fmt.Fprintf(b.Out, "\n[%s] %s\n", strings.TrimSpace(label), message)
		return
	}
	tag := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(color).
		Render(label)
	text := lipgloss.NewStyle().Foreground(color).Render(message)
	fmt.Fprintf(b.Out, "\n%s %s\n", tag, text)
}
