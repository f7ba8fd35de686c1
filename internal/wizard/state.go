package wizard

import (
	"maps"
	"slices"
)

// EventKind names what happened in a lifecycle event.
type EventKind string

const (
	EventInit        EventKind = "init"
	EventNext        EventKind = "next"
	EventBack        EventKind = "back"
	EventRerender    EventKind = "rerender"
	EventReset       EventKind = "reset"
	EventSubmit      EventKind = "submit"
	EventSubmitError EventKind = "submit_error"
	EventRemoteError EventKind = "remote_error"
	EventDiagnostic  EventKind = "diagnostic"
)

// Event is passed to lifecycle callbacks.
type Event struct {
	Kind       EventKind
	Current    string
	Previous   string
	IsLastStep bool
	Activated  []string
	Message    string
	Err        error
}

// StepState is the visibility of one step in a snapshot.
type StepState struct {
	ID       string `yaml:"id" json:"id"`
	Hidden   bool   `yaml:"hidden" json:"hidden"`
	Disabled bool   `yaml:"disabled" json:"disabled"`
}

// State is a read-only snapshot of a wizard. Changing it has no effect on
// the wizard it came from.
type State struct {
	Options    Options     `yaml:"options" json:"options"`
	Activated  []string    `yaml:"activated" json:"activated"`
	IsLastStep bool        `yaml:"is_last_step" json:"is_last_step"`
	Previous   string      `yaml:"previous,omitempty" json:"previous,omitempty"`
	Current    string      `yaml:"current" json:"current"`
	Buttons    Buttons     `yaml:"buttons" json:"buttons"`
	Focus      string      `yaml:"focus,omitempty" json:"focus,omitempty"`
	Busy       bool        `yaml:"busy" json:"busy"`
	Submitted  bool        `yaml:"submitted" json:"submitted"`
	Steps      []StepState `yaml:"steps" json:"steps"`
}

func (w *Wizard) snapshot() State {
	opts := w.opts
	opts.RemoteChecks = maps.Clone(w.opts.RemoteChecks)
	st := State{
		Options:    opts,
		Activated:  slices.Clone(w.activated),
		IsLastStep: w.isLast,
		Previous:   w.previous,
		Current:    w.current,
		Buttons:    w.form.Buttons,
		Focus:      w.focus,
		Busy:       w.busy,
		Submitted:  w.submitted,
		Steps:      make([]StepState, 0, len(w.form.Steps)),
	}
	for _, s := range w.form.Steps {
		st.Steps = append(st.Steps, StepState{ID: s.ID, Hidden: s.Hidden, Disabled: s.Disabled()})
	}
	return st
}

func (w *Wizard) event(kind EventKind) Event {
	return Event{
		Kind:       kind,
		Current:    w.current,
		Previous:   w.previous,
		IsLastStep: w.isLast,
		Activated:  slices.Clone(w.activated),
	}
}

func (w *Wizard) emit(ev Event) {
	if w.opts.OnEvent != nil {
		w.opts.OnEvent(ev)
	}
}
