package wizard

import "time"

// Labels are the button captions used while the wizard is active.
type Labels struct {
	Next   string `yaml:"next" json:"next"`
	Back   string `yaml:"back" json:"back"`
	Submit string `yaml:"submit" json:"submit"`
}

// RemoteCheck is a server-side validation endpoint for one step. A nil
// Success accepts any response that arrives without error.
type RemoteCheck struct {
	URL     string                 `yaml:"url" json:"url"`
	Method  string                 `yaml:"method" json:"method"`
	Success func(data []byte) bool `yaml:"-" json:"-"`
}

// Options configure a wizard. They are resolved once by Init.
type Options struct {
	HistoryEnabled      bool          `yaml:"history_enabled" json:"history_enabled"`
	ValidationEnabled   bool          `yaml:"validation_enabled" json:"validation_enabled"`
	DisableInputFields  bool          `yaml:"disable_input_fields" json:"disable_input_fields"`
	ShowBackOnFirstStep bool          `yaml:"show_back_on_first_step" json:"show_back_on_first_step"`
	FocusFirstInput     bool          `yaml:"focus_first_input" json:"focus_first_input"`
	LinkClass           string        `yaml:"link_class" json:"link_class"`
	SubmitStepClass     string        `yaml:"submit_step_class" json:"submit_step_class"`
	Labels              Labels        `yaml:"labels" json:"labels"`
	InAnimation         string        `yaml:"in_animation" json:"in_animation"`
	OutAnimation        string        `yaml:"out_animation" json:"out_animation"`
	InDuration          time.Duration `yaml:"in_duration" json:"in_duration"`
	OutDuration         time.Duration `yaml:"out_duration" json:"out_duration"`

	RemoteChecks map[string]RemoteCheck `yaml:"remote_checks,omitempty" json:"remote_checks,omitempty"`

	AfterNext func(Event) `yaml:"-" json:"-"`
	AfterBack func(Event) `yaml:"-" json:"-"`
	// OnEvent observes every event, including re-renders, submissions and
	// remote failures.
	OnEvent func(Event) `yaml:"-" json:"-"`
}

// DefaultOptions returns the options a wizard gets when nothing is set.
func DefaultOptions() Options {
	return Options{
		DisableInputFields: true,
		LinkClass:          "link",
		SubmitStepClass:    "submit_step",
		Labels:             Labels{Next: "Next", Back: "Back", Submit: "Submit"},
		InAnimation:        "fade",
		OutAnimation:       "fade",
		InDuration:         400 * time.Millisecond,
		OutDuration:        400 * time.Millisecond,
	}
}

// withDefaults fills empty string and duration options. Booleans are taken
// as given, so callers that want DisableInputFields start from
// DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LinkClass == "" {
		o.LinkClass = d.LinkClass
	}
	if o.SubmitStepClass == "" {
		o.SubmitStepClass = d.SubmitStepClass
	}
	if o.Labels.Next == "" {
		o.Labels.Next = d.Labels.Next
	}
	if o.Labels.Back == "" {
		o.Labels.Back = d.Labels.Back
	}
	if o.Labels.Submit == "" {
		o.Labels.Submit = d.Labels.Submit
	}
	if o.InAnimation == "" {
		o.InAnimation = d.InAnimation
	}
	if o.OutAnimation == "" {
		o.OutAnimation = d.OutAnimation
	}
	if o.InDuration < 0 {
		o.InDuration = 0
	}
	if o.OutDuration < 0 {
		o.OutDuration = 0
	}
	return o
}

// SubmitConfig switches the last step to ajax-style submission. Success
// receives the server response; Failure receives transport or server
// errors.
type SubmitConfig struct {
	Success func(data []byte)
	Failure func(err error)
}
