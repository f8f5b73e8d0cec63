package main

import (
	"errors"
	"strings"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/TRT-MichaelO/contracts/pkg/syntax"
	"github.com/TRT-MichaelO/contracts/pkg/valueyaml"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33")).
			Width(7)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Padding(0, 1)

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)

	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

type shellFocus int

const (
	focusSpec shellFocus = iota
	focusValue
)

// evalResult is the outcome of one spec/value evaluation in the shell.
type evalResult struct {
	contract string
	bindings contract.Context
	err      error
}

// evaluate parses specText, decodes valueText as YAML and checks one against
// the other.
func evaluate(specText, valueText string, scope contract.Context) evalResult {
	if strings.TrimSpace(specText) == "" {
		return evalResult{err: errors.New("enter a spec")}
	}
	c, err := syntax.Parse(specText, syntax.WithScope(scope))
	if err != nil {
		return evalResult{err: err}
	}
	v, err := valueyaml.Decode([]byte(valueText))
	if err != nil {
		return evalResult{contract: c.String(), err: err}
	}
	ctx, err := contract.CheckContext(c, v, scope)
	var ve *contract.ValidationError
	if errors.As(err, &ve) {
		// show what was bound when the check failed
		ctx = ve.Context
	}
	return evalResult{contract: c.String(), bindings: ctx, err: err}
}

type shellModel struct {
	spec     textinput.Model
	value    textinput.Model
	focus    shellFocus
	scope    contract.Context
	bindings table.Model
	last     *evalResult
}

func newShellModel(scope contract.Context, initialSpec string) shellModel {
	spec := textinput.New()
	spec.Placeholder = "list[N](int)"
	spec.CharLimit = 512
	spec.SetValue(initialSpec)
	spec.Focus()

	value := textinput.New()
	value.Placeholder = "[1, 2, 3]"
	value.CharLimit = 4096

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "VAR", Width: 5},
			{Title: "KIND", Width: 6},
			{Title: "VALUE", Width: 48},
		}),
		table.WithHeight(6),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	t.SetStyles(s)

	return shellModel{spec: spec, value: value, focus: focusSpec, scope: scope, bindings: t}
}

func (m shellModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			m.toggleFocus()
			return m, nil
		case tea.KeyEnter:
			if m.focus == focusSpec {
				m.toggleFocus()
				return m, nil
			}
			res := evaluate(m.spec.Value(), m.value.Value(), m.scope)
			m.last = &res
			m.bindings.SetRows(bindingRows(res.bindings, m.scope))
			return m, nil
		}
	}
	var cmd tea.Cmd
	if m.focus == focusSpec {
		m.spec, cmd = m.spec.Update(msg)
	} else {
		m.value, cmd = m.value.Update(msg)
	}
	return m, cmd
}

func (m *shellModel) toggleFocus() {
	if m.focus == focusSpec {
		m.focus = focusValue
		m.spec.Blur()
		m.value.Focus()
		return
	}
	m.focus = focusSpec
	m.value.Blur()
	m.spec.Focus()
}

func bindingRows(ctx, scope contract.Context) []table.Row {
	var rows []table.Row
	for _, sym := range ctx.Symbols() {
		if _, scoped := scope[sym]; scoped {
			continue
		}
		v := ctx[sym]
		rows = append(rows, table.Row{sym, contract.KindOf(v).String(), contract.Repr(v)})
	}
	return rows
}

func (m shellModel) View() string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render(appName+" shell") + "\n\n")
	sb.WriteString(styleLabel.Render("spec") + m.spec.View() + "\n")
	sb.WriteString(styleLabel.Render("value") + m.value.View() + "\n\n")

	if m.last != nil {
		switch {
		case m.last.err != nil:
			sb.WriteString(styleErr.Render("✗ "+firstLine(m.last.err)) + "\n")
		default:
			sb.WriteString(styleOK.Render("✓ "+m.last.contract) + "\n")
		}
		if len(m.bindings.Rows()) > 0 {
			sb.WriteString(styleBase.Render(m.bindings.View()) + "\n")
		}
	}

	sb.WriteString(styleHelp.Render("[Tab] switch field  [Enter] check  [Esc] quit") + "\n")
	return sb.String()
}

func firstLine(err error) string {
	s, _, _ := strings.Cut(err.Error(), "\n")
	return s
}
