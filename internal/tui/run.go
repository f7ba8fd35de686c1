package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tturner/lingo/internal/logging"
	"github.com/tturner/lingo/internal/validation"
	"github.com/tturner/lingo/internal/wizard"
)

// Config describes one interactive wizard run.
type Config struct {
	Form    *wizard.Form
	Options wizard.Options
	Rules   validation.Config

	Submitter wizard.Submitter
	Remote    wizard.Remote
	History   wizard.History
	Logger    *logging.Logger

	// Animations plays the in/out transitions with their configured
	// durations; otherwise steps switch at once.
	Animations bool
}

// NewModel wires a wizard to a Bubble Tea model and initializes it.
func NewModel(ctx context.Context, cfg Config) (*Model, error) {
	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = DefaultStyles.Info

	m := &Model{
		form:      cfg.Form,
		checks:    validation.New(),
		loop:      &loop{},
		styles:    DefaultStyles,
		formTheme: FormTheme(DefaultTheme),
		spinner:   sp,
		copy:      copyToClipboard,
	}

	caps := wizard.Capabilities{
		Validator: m.checks,
		Submitter: cfg.Submitter,
		Remote:    cfg.Remote,
		History:   cfg.History,
		Scheduler: m.loop,
		Animator:  wizard.Immediate{},
		Reporter: wizard.ReporterFunc(func(msg string) {
			m.diagnostics = append(m.diagnostics, msg)
		}),
		Logger: log,
	}
	if cfg.Animations {
		caps.Animator = m.loop
	}
	m.wiz = wizard.New(cfg.Form, caps).WithContext(ctx)

	var submission *wizard.SubmitConfig
	if cfg.Submitter != nil {
		submission = &wizard.SubmitConfig{
			Success: func(data []byte) {
				m.result = data
				m.submitted = true
			},
			Failure: func(err error) {
				m.status, m.statusErr = "Submission failed: "+err.Error(), true
			},
		}
	}
	opts := cfg.Options
	observe := opts.OnEvent
	opts.OnEvent = func(ev wizard.Event) {
		switch ev.Kind {
		case wizard.EventRemoteError:
			m.status, m.statusErr = "Step check failed: "+ev.Err.Error(), true
		case wizard.EventRerender:
			m.status, m.statusErr = "No step to go to from here", true
		}
		if observe != nil {
			observe(ev)
		}
	}
	if err := m.wiz.Init(opts, cfg.Rules, submission); err != nil {
		return nil, fmt.Errorf("init wizard: %w", err)
	}
	return m, nil
}

// Run shows the wizard in the terminal until it is submitted or the user
// quits. It returns the submission response, or nil when the user quit.
func Run(ctx context.Context, cfg Config) ([]byte, error) {
	m, err := NewModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return nil, fmt.Errorf("run wizard: %w", err)
	}
	result, ok := m.Result()
	if !ok {
		return nil, nil
	}
	return result, nil
}
