package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user cancels a prompt with ctrl+c.
var ErrAborted = errors.New("prompt aborted")

// Option is one choice of a single-choice prompt.
type Option struct {
	Value string
	Label string
}

type selectKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Choose  key.Binding
	Default key.Binding
	Abort   key.Binding
}

func defaultSelectKeys() selectKeyMap {
	return selectKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Default: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "default"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "abort"),
		),
	}
}

// SelectModel is a bubbletea model for a single-choice prompt.
type SelectModel struct {
	title    string
	options  []Option
	cursor   int
	def      int
	keys     selectKeyMap
	selected int
	done     bool
	aborted  bool
}

// NewSelectModel builds a prompt whose cursor starts on defaultValue.
// An unknown default falls back to the first option.
func NewSelectModel(title string, options []Option, defaultValue string) SelectModel {
	def := 0
	for i, o := range options {
		if o.Value == defaultValue {
			def = i
			break
		}
	}
	return SelectModel{
		title:    title,
		options:  options,
		cursor:   def,
		def:      def,
		keys:     defaultSelectKeys(),
		selected: -1,
	}
}

// Init implements tea.Model.
func (m SelectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Abort):
		m.aborted = true
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Default):
		m.selected = m.def
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Choose):
		m.selected = m.cursor
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m SelectModel) View() string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	cursorStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	muted := lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	if m.done {
		if m.aborted {
			return ""
		}
		return fmt.Sprintf("%s %s\n", titleStyle.Render(m.title), cursorStyle.Render(m.options[m.selected].Label))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	for i, o := range m.options {
		line := fmt.Sprintf("[%s] %s", o.Value, o.Label)
		if i == m.def {
			line += " (default)"
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString(labelStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString(muted.Render("↑/↓ move, enter select, esc default"))
	b.WriteString("\n")
	return b.String()
}

// Choice returns the chosen option once the prompt has finished.
func (m SelectModel) Choice() (Option, bool) {
	if !m.done || m.aborted || m.selected < 0 {
		return Option{}, false
	}
	return m.options[m.selected], true
}

// Aborted reports whether the user cancelled the prompt.
func (m SelectModel) Aborted() bool {
	return m.aborted
}

// RunSelect shows an interactive single-choice prompt and blocks until the
// user answers. Extra program options are applied after the input and
// output settings.
func RunSelect(
	ctx context.Context,
	in io.Reader,
	out io.Writer,
	title string,
	options []Option,
	defaultValue string,
	extra ...tea.ProgramOption,
) (Option, error) {
	if len(options) == 0 {
		return Option{}, errors.New("select prompt needs at least one option")
	}

	programOpts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	}, extra...)
	p := tea.NewProgram(NewSelectModel(title, options, defaultValue), programOpts...)
	final, err := p.Run()
	if err != nil {
		return Option{}, fmt.Errorf("running prompt: %w", err)
	}

	m, ok := final.(SelectModel)
	if !ok {
		return Option{}, fmt.Errorf("unexpected prompt model %T", final)
	}
	if m.Aborted() {
		return Option{}, ErrAborted
	}
	choice, ok := m.Choice()
	if !ok {
		return Option{}, ErrAborted
	}
	return choice, nil
}
