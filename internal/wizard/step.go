package wizard

import (
	"net/url"
	"slices"
)

// Kind is the input widget type of a field.
type Kind string

const (
	KindText     Kind = "text"
	KindPassword Kind = "password"
	KindTextarea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
	KindSelect   Kind = "select"
	KindHidden   Kind = "hidden"
)

// Choice is one option of a radio or select field.
type Choice struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Field is one input inside a step.
//
// For checkboxes Value is what gets submitted (or "on" when empty) and
// Checked decides whether it is sent at all. Radio and select fields hold
// the selected choice in Value.
type Field struct {
	Name           string
	Kind           Kind
	Label          string
	Value          string
	Default        string
	Checked        bool
	DefaultChecked bool
	Options        []Choice
	Classes        []string
	Disabled       bool
	Error          string
}

// HasClass reports whether the field carries the given class.
func (f *Field) HasClass(class string) bool {
	return class != "" && slices.Contains(f.Classes, class)
}

// Focusable reports whether the field can take keyboard focus.
func (f *Field) Focusable() bool {
	return f.Kind != KindHidden && !f.Disabled
}

// branchValue is the step id a branch control currently points at, or ""
// when nothing is selected.
func (f *Field) branchValue() string {
	if f.Kind == KindCheckbox {
		if !f.Checked {
			return ""
		}
		return f.Value
	}
	return f.Value
}

// submitValue returns what a browser would send for this field.
func (f *Field) submitValue() (string, bool) {
	if f.Disabled {
		return "", false
	}
	switch f.Kind {
	case KindCheckbox:
		if !f.Checked {
			return "", false
		}
		if f.Value == "" {
			return "on", true
		}
		return f.Value, true
	case KindRadio:
		if f.Value == "" {
			return "", false
		}
		return f.Value, true
	default:
		return f.Value, true
	}
}

func (f *Field) reset() {
	f.Value = f.Default
	f.Checked = f.DefaultChecked
	f.Error = ""
}

// Step is one panel of the form, shown and hidden as a unit.
type Step struct {
	ID          string
	Title       string
	Description string
	Classes     []string
	Fields      []*Field
	Hidden      bool
}

// HasClass reports whether the step carries the given class.
func (s *Step) HasClass(class string) bool {
	return class != "" && slices.Contains(s.Classes, class)
}

// Field returns the named field, or nil.
func (s *Step) Field(name string) *Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FirstInput returns the first focusable field of the step, or nil.
func (s *Step) FirstInput() *Field {
	for _, f := range s.Fields {
		if f.Focusable() {
			return f
		}
	}
	return nil
}

// Links returns the branch controls of the step.
func (s *Step) Links(linkClass string) []*Field {
	var links []*Field
	for _, f := range s.Fields {
		if f.HasClass(linkClass) {
			links = append(links, f)
		}
	}
	return links
}

// Disabled reports whether every field of the step is disabled. A step
// without fields is never disabled.
func (s *Step) Disabled() bool {
	if len(s.Fields) == 0 {
		return false
	}
	for _, f := range s.Fields {
		if !f.Disabled {
			return false
		}
	}
	return true
}

// Values returns the submittable values of this step alone.
func (s *Step) Values() url.Values {
	values := url.Values{}
	s.collect(values)
	return values
}

func (s *Step) collect(values url.Values) {
	for _, f := range s.Fields {
		if v, ok := f.submitValue(); ok {
			values.Add(f.Name, v)
		}
	}
}

func (s *Step) setDisabled(disabled bool) {
	for _, f := range s.Fields {
		f.Disabled = disabled
	}
}

func (s *Step) clearErrors() {
	for _, f := range s.Fields {
		f.Error = ""
	}
}

// Button is a navigation control.
type Button struct {
	Label    string `yaml:"label" json:"label"`
	Disabled bool   `yaml:"disabled" json:"disabled"`
	Hidden   bool   `yaml:"hidden" json:"hidden"`
}

// Buttons are the two navigation controls of a wizard form.
type Buttons struct {
	Next Button `yaml:"next" json:"next"`
	Back Button `yaml:"back" json:"back"`
}

// Form is the container a wizard is bound to.
type Form struct {
	Name    string
	Action  string
	Method  string
	Steps   []*Step
	Buttons Buttons
}

// Step returns the step with the given id, or nil.
func (f *Form) Step(id string) *Step {
	if i := f.index(id); i >= 0 {
		return f.Steps[i]
	}
	return nil
}

func (f *Form) index(id string) int {
	for i, s := range f.Steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Values collects the submittable values of the given steps, in order.
func (f *Form) Values(stepIDs []string) url.Values {
	values := url.Values{}
	seen := make(map[string]bool, len(stepIDs))
	for _, id := range stepIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if s := f.Step(id); s != nil {
			s.collect(values)
		}
	}
	return values
}
