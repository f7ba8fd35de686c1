// Package wizard drives a multi-step form: one visible step at a time, a
// navigation stack for going back, branch controls that pick a non-default
// successor, and submission once the last step is advanced.
//
// A Wizard is owned by a single event loop. None of its methods are safe
// for concurrent use; blocking work goes through the Scheduler capability
// and its continuation runs back on the loop.
package wizard

import (
	"context"
	"fmt"

	"github.com/tturner/lingo/internal/logging"
)

// Wizard is the controller bound to one Form.
type Wizard struct {
	form *Form
	caps Capabilities
	ctx  context.Context
	log  *logging.Logger

	initialized bool
	opts        Options
	submission  *SubmitConfig
	original    Buttons

	current    string
	previous   string
	activated  []string
	isLast     bool
	busy       bool
	focus      string
	submitted  bool
	historyErr error
}

// New binds a controller to form. The wizard does nothing until Init.
func New(form *Form, caps Capabilities) *Wizard {
	if form.Buttons.Next.Label == "" {
		form.Buttons.Next.Label = "Submit"
	}
	if form.Buttons.Back.Label == "" {
		form.Buttons.Back.Label = "Reset"
	}
	log := caps.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Wizard{form: form, caps: caps, ctx: context.Background(), log: log}
}

// WithContext sets the context passed to remote checks and submissions.
func (w *Wizard) WithContext(ctx context.Context) *Wizard {
	w.ctx = ctx
	return w
}

// Form returns the bound form.
func (w *Wizard) Form() *Form { return w.form }

// Initialized reports whether Init has run and Destroy has not.
func (w *Wizard) Initialized() bool { return w.initialized }

// Init resolves opts, hides every step and shows the first one. Calling it
// on an initialized wizard does nothing. Missing capabilities switch the
// options that need them off and raise a diagnostic.
func (w *Wizard) Init(opts Options, validation any, submission *SubmitConfig) error {
	if w.initialized {
		return nil
	}
	if len(w.form.Steps) == 0 {
		return ErrNoSteps
	}

	opts = opts.withDefaults()
	w.opts = opts
	if opts.ValidationEnabled {
		if w.caps.Validator == nil {
			w.opts.ValidationEnabled = false
			w.diagnose("validation disabled: no validator available")
		} else if err := w.caps.Validator.Configure(w.form, validation); err != nil {
			w.opts.ValidationEnabled = false
			w.diagnose(fmt.Sprintf("validation disabled: %v", err))
		}
	}
	if opts.HistoryEnabled && w.caps.History == nil {
		w.opts.HistoryEnabled = false
		w.diagnose("history navigation disabled: no history provider available")
	}
	if submission != nil && w.caps.Submitter == nil {
		submission = nil
		w.diagnose("ajax submission disabled: no submitter available")
	}
	if len(opts.RemoteChecks) > 0 && w.caps.Remote == nil {
		w.opts.RemoteChecks = nil
		w.diagnose("remote step checks disabled: no remote client available")
	}
	w.submission = submission

	w.original = w.form.Buttons
	for _, s := range w.form.Steps {
		s.Hidden = true
		if w.opts.DisableInputFields {
			s.setDisabled(true)
		}
	}
	w.initialized = true
	first := w.form.Steps[0].ID
	if w.opts.HistoryEnabled {
		w.caps.History.Init(first, w.load)
	}
	w.initialDisplay()
	w.log.Verbose("wizard %s initialized with %d steps", w.form.Name, len(w.form.Steps))
	w.emit(w.event(EventInit))
	return nil
}

// initialDisplay shows the first step without animation or callbacks.
func (w *Wizard) initialDisplay() {
	first := w.form.Steps[0]
	w.current = first.ID
	w.previous = ""
	w.activated = []string{first.ID}
	w.isLast = w.lastStep(first)
	first.Hidden = false
	first.setDisabled(false)
	w.focus = ""
	if w.opts.FocusFirstInput {
		if f := first.FirstInput(); f != nil {
			w.focus = f.Name
		}
	}
	w.busy = false
	w.updateButtons()
}

// Next advances the wizard: validation, then the remote check of the
// current step, then submission on the last step or navigation.
func (w *Wizard) Next() error {
	if err := w.ready(); err != nil {
		return err
	}
	step := w.form.Step(w.current)
	if w.opts.ValidationEnabled && !w.caps.Validator.Valid(step) {
		verr := &ValidationError{Step: step.ID}
		if f := w.caps.Validator.FocusInvalid(step); f != nil {
			w.focus = f.Name
			verr.Field = f.Name
		}
		w.log.Verbose("step %s refused: %v", step.ID, verr)
		return verr
	}
	if check, ok := w.opts.RemoteChecks[step.ID]; ok {
		return w.remoteCheck(step, check)
	}
	return w.proceed()
}

// proceed submits on the last step and advances anywhere else.
func (w *Wizard) proceed() error {
	if w.isLast {
		return w.submit()
	}
	return w.advance()
}

// advance resolves the successor of the current step and moves there. A
// successor that cannot be resolved replays the current step instead.
func (w *Wizard) advance() error {
	target, ok := w.navigate(w.form.Step(w.current))
	if !ok {
		w.rerender()
		return nil
	}
	if w.opts.HistoryEnabled {
		return w.pushHistory(target)
	}
	return w.show(target)
}

// navigate picks the next step. Branch controls win over declaration
// order; a branch control that selects nothing, or selects an unknown id,
// resolves to no step.
func (w *Wizard) navigate(step *Step) (string, bool) {
	links := step.Links(w.opts.LinkClass)
	if len(links) > 0 {
		for _, link := range links {
			v := link.branchValue()
			if v == "" {
				continue
			}
			if w.form.Step(v) == nil {
				w.log.Verbose("branch %s on step %s names unknown step %q", link.Name, step.ID, v)
				return "", false
			}
			return v, true
		}
		return "", false
	}
	i := w.form.index(step.ID)
	if i < 0 || i+1 >= len(w.form.Steps) {
		return "", false
	}
	return w.form.Steps[i+1].ID, true
}

// Back returns to the previously shown step. It does nothing on the first
// step.
func (w *Wizard) Back() error {
	if err := w.ready(); err != nil {
		return err
	}
	if len(w.activated) <= 1 {
		return nil
	}
	if w.opts.HistoryEnabled && w.caps.History.Len() > 1 {
		w.historyErr = nil
		w.caps.History.Back()
		return w.historyErr
	}
	return w.show(w.activated[len(w.activated)-2])
}

// Show jumps to the given step. With history enabled the jump is recorded
// as a history entry and displayed through the history callback.
func (w *Wizard) Show(id string) error {
	if err := w.ready(); err != nil {
		return err
	}
	if w.form.Step(id) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownStep, id)
	}
	if w.opts.HistoryEnabled && id != w.current {
		return w.pushHistory(id)
	}
	return w.show(id)
}

func (w *Wizard) pushHistory(id string) error {
	w.historyErr = nil
	w.caps.History.Push(id)
	return w.historyErr
}

// load is the history callback. An empty token means the history was
// rewound past its first entry, which shows the first step.
func (w *Wizard) load(token string) {
	if !w.initialized {
		return
	}
	if token == "" {
		token = w.form.Steps[0].ID
	}
	if w.busy {
		w.historyErr = ErrControlsDisabled
		return
	}
	w.historyErr = w.show(token)
}

// show displays id directly. Going to the entry under the top of the
// navigation stack is backward navigation and pops; anything else pushes.
func (w *Wizard) show(id string) error {
	next := w.form.Step(id)
	if next == nil {
		return fmt.Errorf("%w: %q", ErrUnknownStep, id)
	}
	if id == w.current {
		w.rerender()
		return nil
	}

	backward := len(w.activated) > 1 && w.activated[len(w.activated)-2] == id
	if backward {
		w.activated = w.activated[:len(w.activated)-1]
	} else {
		w.activated = append(w.activated, id)
	}
	from := w.current
	w.previous = from
	w.current = id
	w.isLast = w.lastStep(next)

	kind := EventNext
	if backward {
		kind = EventBack
	}
	w.log.LogTransition(string(kind), from, id)
	w.transition(from, id, func() {
		ev := w.event(kind)
		if backward && w.opts.AfterBack != nil {
			w.opts.AfterBack(ev)
		}
		if !backward && w.opts.AfterNext != nil {
			w.opts.AfterNext(ev)
		}
		w.emit(ev)
	})
	return nil
}

func (w *Wizard) lastStep(step *Step) bool {
	return step.HasClass(w.opts.SubmitStepClass) || w.form.index(step.ID) == len(w.form.Steps)-1
}

// Reset clears every field and shows the first step as if the wizard had
// just been initialized.
func (w *Wizard) Reset() error {
	if err := w.ready(); err != nil {
		return err
	}
	for _, s := range w.form.Steps {
		for _, f := range s.Fields {
			f.reset()
		}
	}
	for _, id := range w.activated {
		s := w.form.Step(id)
		s.Hidden = true
		if w.opts.DisableInputFields {
			s.setDisabled(true)
		}
	}
	w.activated = nil
	w.isLast = false
	w.submitted = false
	if w.opts.HistoryEnabled {
		w.caps.History.Init(w.form.Steps[0].ID, w.load)
	}
	w.initialDisplay()
	w.log.Verbose("wizard %s reset", w.form.Name)
	w.emit(w.event(EventReset))
	return nil
}

// Destroy unbinds the wizard: labels are restored, every step is shown
// with its fields enabled, and all state is dropped. The wizard must be
// initialized again before any other call.
func (w *Wizard) Destroy() error {
	if !w.initialized {
		return ErrNotInitialized
	}
	w.form.Buttons = w.original
	for _, s := range w.form.Steps {
		s.Hidden = false
		s.setDisabled(false)
		s.clearErrors()
	}
	if w.opts.HistoryEnabled {
		w.caps.History.Init("", nil)
	}
	w.initialized = false
	w.opts = Options{}
	w.submission = nil
	w.original = Buttons{}
	w.current = ""
	w.previous = ""
	w.activated = nil
	w.isLast = false
	w.busy = false
	w.focus = ""
	w.submitted = false
	w.log.Verbose("wizard %s destroyed", w.form.Name)
	return nil
}

// State returns a snapshot of the wizard.
func (w *Wizard) State() (State, error) {
	if !w.initialized {
		return State{}, ErrNotInitialized
	}
	return w.snapshot(), nil
}

// ready refuses navigation before Init and while controls are disabled.
func (w *Wizard) ready() error {
	if !w.initialized {
		return ErrNotInitialized
	}
	if w.busy {
		return ErrControlsDisabled
	}
	return nil
}

func (w *Wizard) diagnose(msg string) {
	w.log.Info("%s", msg)
	if w.caps.Reporter != nil {
		w.caps.Reporter.Diagnostic(msg)
	}
	ev := w.event(EventDiagnostic)
	ev.Message = msg
	w.emit(ev)
}

func (w *Wizard) scheduler() Scheduler {
	if w.caps.Scheduler != nil {
		return w.caps.Scheduler
	}
	return Inline{}
}

func (w *Wizard) animator() Animator {
	if w.caps.Animator != nil {
		return w.caps.Animator
	}
	return Immediate{}
}
