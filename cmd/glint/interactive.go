package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/glintui/glint-bridge/variant"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxHistory bounds the rendered probe history.
const maxHistory = 10

type probeEntry struct {
	source string
	result string
	failed bool
}

type workbenchModel struct {
	inputs   []textinput.Model
	history  []probeEntry
	focusIdx int
}

func newWorkbenchModel() *workbenchModel {
	literal := textinput.New()
	literal.Placeholder = "kind:value, e.g. f64:3.9"
	literal.Prompt = "value: "
	literal.Width = 40
	literal.Focus()

	target := textinput.New()
	target.Placeholder = "i32"
	target.Prompt = "to: "
	target.Width = 16

	return &workbenchModel{inputs: []textinput.Model{literal, target}}
}

func (m *workbenchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *workbenchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab":
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			m.inputs[m.focusIdx].Focus()
			return m, nil

		case "enter":
			m.history = append(m.history, m.probe())
			return m, nil

		case "esc":
			for i := range m.inputs {
				m.inputs[i].SetValue("")
			}
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = 0
			m.inputs[0].Focus()
			return m, nil
		}
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *workbenchModel) probe() probeEntry {
	literal := strings.TrimSpace(m.inputs[0].Value())
	to := strings.TrimSpace(m.inputs[1].Value())

	v, err := parseLiteral(literal)
	if err != nil {
		return probeEntry{source: literal, result: err.Error(), failed: true}
	}
	source := v.TypeName() + " " + renderValue(v)

	if to == "" {
		return probeEntry{source: source, result: "no target kind", failed: true}
	}
	kind, ok := variant.ParseKind(to)
	if !ok {
		return probeEntry{source: source, result: fmt.Sprintf("unknown kind %q", to), failed: true}
	}
	conv, ok := v.ConvertTo(kind)
	if !ok {
		return probeEntry{source: source, result: "not convertible to " + kind.String(), failed: true}
	}
	return probeEntry{source: source, result: conv.TypeName() + " " + renderValue(conv)}
}

func (m *workbenchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Glint Coercion Workbench"))
	b.WriteString("\n\n")

	start := 0
	if len(m.history) > maxHistory {
		start = len(m.history) - maxHistory
	}
	for _, e := range m.history[start:] {
		b.WriteString("  ")
		b.WriteString(kindStyle.Render(e.source))
		b.WriteString(" -> ")
		if e.failed {
			b.WriteString(errorStyle.Render(e.result))
		} else {
			b.WriteString(resultStyle.Render(e.result))
		}
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab switch field • enter coerce • esc clear • ctrl+c quit"))
	b.WriteString("\n")

	return b.String()
}

func runInteractive() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newWorkbenchModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
