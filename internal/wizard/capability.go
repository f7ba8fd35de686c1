package wizard

import (
	"context"
	"net/url"
	"time"

	"github.com/tturner/lingo/internal/logging"
)

// Validator checks the fields of a step before the wizard advances.
type Validator interface {
	// Configure receives the validation configuration handed to Init. The
	// wizard does not look inside it.
	Configure(form *Form, config any) error
	// Valid reports whether every field of the step passes, marking the
	// failing fields with an error message.
	Valid(step *Step) bool
	// FocusInvalid returns the first failing field of the step, or nil.
	FocusInvalid(step *Step) *Field
}

// Submission is the accumulated form handed to a Submitter.
type Submission struct {
	Form   string
	Action string
	Method string
	Values url.Values
}

// Submitter transmits the completed form.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) ([]byte, error)
}

// Remote runs a server-side check for one step.
type Remote interface {
	Check(ctx context.Context, check RemoteCheck, values url.Values) ([]byte, error)
}

// History is a browser-history style token stack. Push and Back call the
// load function registered by Init with the token that became current.
type History interface {
	Init(initial string, load func(token string))
	Push(token string)
	Back() bool
	Len() int
}

// Phase says whether an animation hides or reveals a step.
type Phase int

const (
	PhaseOut Phase = iota
	PhaseIn
)

func (p Phase) String() string {
	if p == PhaseOut {
		return "out"
	}
	return "in"
}

// Animation describes one half of a step transition.
type Animation struct {
	Step     string
	Effect   string
	Phase    Phase
	Duration time.Duration
}

// Animator plays an animation and calls done on the event loop once it has
// finished.
type Animator interface {
	Animate(a Animation, done func())
}

// Scheduler runs blocking work away from the event loop. The continuation
// returned by work must be executed back on the loop.
type Scheduler interface {
	Go(work func() func())
}

// Reporter surfaces diagnostics to the user.
type Reporter interface {
	Diagnostic(msg string)
}

// Capabilities are the optional collaborators of a wizard. A nil field is
// the "none" variant of that capability.
type Capabilities struct {
	Validator Validator
	Submitter Submitter
	Remote    Remote
	History   History
	Animator  Animator
	Scheduler Scheduler
	Reporter  Reporter
	Logger    *logging.Logger
}

// Immediate completes every animation synchronously.
type Immediate struct{}

func (Immediate) Animate(_ Animation, done func()) { done() }

// Inline runs scheduled work and its continuation on the calling goroutine.
type Inline struct{}

func (Inline) Go(work func() func()) {
	if next := work(); next != nil {
		next()
	}
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(msg string)

func (f ReporterFunc) Diagnostic(msg string) { f(msg) }
