package tui

import (
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tturner/lingo/internal/validation"
	"github.com/tturner/lingo/internal/wizard"
)

// Model is the Bubble Tea model for one wizard run.
type Model struct {
	wiz       *wizard.Wizard
	form      *wizard.Form
	checks    *validation.Validator
	loop      *loop
	styles    Styles
	formTheme *huh.Theme

	step    *huh.Form
	stepID  string
	spinner spinner.Model
	width   int

	status      string
	statusErr   bool
	diagnostics []string
	result      []byte
	submitted   bool
	quitting    bool

	copy func(string) error
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.sync())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case continueMsg:
		if msg.fn != nil {
			msg.fn()
		}
		return m, m.sync()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "ctrl+b":
			return m, m.do(m.wiz.Back)
		case "ctrl+r":
			return m, m.do(m.wiz.Reset)
		case "ctrl+y":
			m.copyState()
			return m, nil
		}
	}

	if m.step == nil {
		return m, nil
	}
	fm, cmd := m.step.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.step = f
	}
	switch m.step.State {
	case huh.StateCompleted:
		// The form's own completion command is dropped; the wizard decides
		// what comes next.
		return m, m.do(m.wiz.Next)
	case huh.StateAborted:
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// do runs one wizard operation and reports its outcome.
func (m *Model) do(op func() error) tea.Cmd {
	m.status, m.statusErr = "", false
	m.report(op())
	return m.sync()
}

func (m *Model) report(err error) {
	var verr *wizard.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		msg := "Please correct the highlighted field"
		if s := m.form.Step(verr.Step); s != nil {
			if f := s.Field(verr.Field); f != nil && f.Error != "" {
				msg = fieldTitle(f) + ": " + f.Error
			}
		}
		m.status, m.statusErr = msg, true
	case errors.Is(err, wizard.ErrControlsDisabled):
		m.status, m.statusErr = "Busy, please wait", false
	default:
		m.status, m.statusErr = err.Error(), true
	}
}

// sync rebuilds the step form when the wizard settled on a different step
// or the current form has finished, and flushes queued loop work.
func (m *Model) sync() tea.Cmd {
	cmds := []tea.Cmd{m.loop.drain()}
	if m.submitted {
		return tea.Batch(append(cmds, tea.Quit)...)
	}
	st, err := m.wiz.State()
	if err != nil {
		m.quitting = true
		return tea.Batch(append(cmds, tea.Quit)...)
	}
	if st.Busy {
		m.step = nil
		return tea.Batch(cmds...)
	}
	if m.step == nil || m.stepID != st.Current || m.step.State != huh.StateNormal {
		step := m.form.Step(st.Current)
		if step == nil {
			return tea.Batch(cmds...)
		}
		var checks *validation.Validator
		if st.Options.ValidationEnabled {
			checks = m.checks
		}
		m.step = stepForm(step, st.Options.Labels, st.IsLastStep, checks, m.formTheme)
		m.stepID = st.Current
		cmds = append(cmds, m.step.Init())
	}
	return tea.Batch(cmds...)
}

func (m *Model) copyState() {
	data, err := stateYAML(m.wiz)
	if err == nil {
		err = m.copy(string(data))
	}
	if err != nil {
		m.status, m.statusErr = "Copy failed: "+err.Error(), true
		return
	}
	m.status, m.statusErr = "State copied to clipboard", false
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting || m.submitted {
		return ""
	}
	st, err := m.wiz.State()
	if err != nil {
		return m.styles.Error.Render(err.Error()) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.form.Name))
	b.WriteString("\n")
	b.WriteString(m.trail(st))
	b.WriteString("\n\n")

	switch {
	case m.loop.playing != nil && m.loop.playing.Phase == wizard.PhaseOut:
		b.WriteString(m.styles.PanelLeaving.Render(m.stepTitle(m.loop.playing.Step)))
	case st.Busy || m.step == nil:
		b.WriteString(m.styles.Panel.Render(m.spinner.View() + " Working..."))
	default:
		b.WriteString(m.styles.Panel.Render(m.step.View()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.buttons(st))
	b.WriteString("\n")

	if m.status != "" {
		style := m.styles.Info
		if m.statusErr {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	for _, d := range m.diagnostics {
		b.WriteString(m.styles.Warning.Render("! " + d))
		b.WriteString("\n")
	}
	b.WriteString(m.help())
	return b.String()
}

// trail renders the steps as a breadcrumb: visited steps checked, the
// current one highlighted.
func (m *Model) trail(st wizard.State) string {
	parts := make([]string, 0, len(m.form.Steps))
	for _, s := range m.form.Steps {
		label := s.Title
		if label == "" {
			label = s.ID
		}
		switch {
		case s.ID == st.Current:
			parts = append(parts, m.styles.StepCurrent.Render(label))
		case slices.Contains(st.Activated, s.ID):
			parts = append(parts, CheckIcon(true, m.styles)+" "+m.styles.StepVisited.Render(label))
		default:
			parts = append(parts, m.styles.StepPending.Render(label))
		}
	}
	return strings.Join(parts, m.styles.Muted.Render(" › "))
}

func (m *Model) buttons(st wizard.State) string {
	render := func(b wizard.Button) string {
		if b.Disabled {
			return m.styles.ButtonDisabled.Render(b.Label)
		}
		return m.styles.Button.Render(b.Label)
	}
	var out []string
	if !st.Buttons.Back.Hidden {
		out = append(out, render(st.Buttons.Back))
	}
	if !st.Buttons.Next.Hidden {
		out = append(out, render(st.Buttons.Next))
	}
	return strings.Join(out, "  ")
}

func (m *Model) help() string {
	keys := []struct{ key, desc string }{
		{"enter", "next"},
		{"ctrl+b", "back"},
		{"ctrl+r", "reset"},
		{"ctrl+y", "copy state"},
		{"ctrl+c", "quit"},
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, m.styles.KeyBinding.Render(k.key)+" "+m.styles.KeyHint.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}

func (m *Model) stepTitle(id string) string {
	if s := m.form.Step(id); s != nil && s.Title != "" {
		return s.Title
	}
	return id
}

// Result returns the submission response, if the form was submitted.
func (m *Model) Result() ([]byte, bool) {
	return m.result, m.submitted
}

// Diagnostics returns the configuration warnings raised by the wizard.
func (m *Model) Diagnostics() []string {
	return slices.Clone(m.diagnostics)
}

func fieldTitle(f *wizard.Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}
