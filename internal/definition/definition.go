// Package definition reads wizard definition files and turns them into a
// wizard form, its options and its validation rules.
//
// Definitions are authored as YAML, or as JSON/JSONC when the file name
// ends in .json or .jsonc. Steps without an id get the slug of their
// title.
package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/tturner/lingo/internal/validation"
	"github.com/tturner/lingo/internal/wizard"
)

// Definition is a wizard definition as written on disk.
type Definition struct {
	Name       string            `yaml:"name" json:"name"`
	Action     string            `yaml:"action,omitempty" json:"action,omitempty"`
	Method     string            `yaml:"method,omitempty" json:"method,omitempty"`
	Options    OptionsDef        `yaml:"options,omitempty" json:"options,omitempty"`
	Validation validation.Config `yaml:"validation,omitempty" json:"validation,omitempty"`
	Steps      []StepDef         `yaml:"steps" json:"steps"`
}

// OptionsDef overlays wizard.DefaultOptions. Unset booleans keep their
// default; durations are Go duration strings such as "250ms".
type OptionsDef struct {
	HistoryEnabled      *bool          `yaml:"history_enabled,omitempty" json:"history_enabled,omitempty"`
	ValidationEnabled   *bool          `yaml:"validation_enabled,omitempty" json:"validation_enabled,omitempty"`
	DisableInputFields  *bool          `yaml:"disable_input_fields,omitempty" json:"disable_input_fields,omitempty"`
	ShowBackOnFirstStep *bool          `yaml:"show_back_on_first_step,omitempty" json:"show_back_on_first_step,omitempty"`
	FocusFirstInput     *bool          `yaml:"focus_first_input,omitempty" json:"focus_first_input,omitempty"`
	LinkClass           string         `yaml:"link_class,omitempty" json:"link_class,omitempty"`
	SubmitStepClass     string         `yaml:"submit_step_class,omitempty" json:"submit_step_class,omitempty"`
	Labels              *wizard.Labels `yaml:"labels,omitempty" json:"labels,omitempty"`
	InAnimation         string         `yaml:"in_animation,omitempty" json:"in_animation,omitempty"`
	OutAnimation        string         `yaml:"out_animation,omitempty" json:"out_animation,omitempty"`
	InDuration          string         `yaml:"in_duration,omitempty" json:"in_duration,omitempty"`
	OutDuration         string         `yaml:"out_duration,omitempty" json:"out_duration,omitempty"`
}

// StepDef is one step of a definition.
type StepDef struct {
	ID          string     `yaml:"id,omitempty" json:"id,omitempty"`
	Title       string     `yaml:"title,omitempty" json:"title,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Classes     []string   `yaml:"classes,omitempty" json:"classes,omitempty"`
	Remote      *RemoteDef `yaml:"remote,omitempty" json:"remote,omitempty"`
	Fields      []FieldDef `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// RemoteDef is a server-side check run before leaving the step. With
// SuccessContains set, the response must contain it.
type RemoteDef struct {
	URL             string `yaml:"url" json:"url"`
	Method          string `yaml:"method,omitempty" json:"method,omitempty"`
	SuccessContains string `yaml:"success_contains,omitempty" json:"success_contains,omitempty"`
}

// FieldDef is one input of a step.
type FieldDef struct {
	Name     string          `yaml:"name" json:"name"`
	Kind     wizard.Kind     `yaml:"kind,omitempty" json:"kind,omitempty"`
	Label    string          `yaml:"label,omitempty" json:"label,omitempty"`
	Value    string          `yaml:"value,omitempty" json:"value,omitempty"`
	Checked  bool            `yaml:"checked,omitempty" json:"checked,omitempty"`
	Disabled bool            `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Classes  []string        `yaml:"classes,omitempty" json:"classes,omitempty"`
	Options  []wizard.Choice `yaml:"options,omitempty" json:"options,omitempty"`
}

var (
	ErrNoSteps     = errors.New("definition has no steps")
	ErrDuplicateID = errors.New("duplicate step id")
	ErrMissingID   = errors.New("step needs an id or a title")
	ErrFieldName   = errors.New("field needs a name")
	ErrFieldKind   = errors.New("unknown field kind")
)

var knownKinds = map[wizard.Kind]bool{
	wizard.KindText:     true,
	wizard.KindPassword: true,
	wizard.KindTextarea: true,
	wizard.KindCheckbox: true,
	wizard.KindRadio:    true,
	wizard.KindSelect:   true,
	wizard.KindHidden:   true,
}

// Parse decodes a definition. format is "yaml", "json" or "jsonc"; JSON
// is accepted with comments and trailing commas either way.
func Parse(data []byte, format string) (*Definition, error) {
	var def Definition
	switch strings.ToLower(format) {
	case "json", "jsonc":
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parse definition JSON: %w", err)
		}
	case "yaml", "yml", "":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parse definition YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported definition format %q", format)
	}
	def.normalize()
	return &def, nil
}

// Load reads a definition file. The format follows the file extension and
// a missing name is taken from the file name.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}
	def, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}
	if def.Name == "" {
		def.Name = NameFromPath(path)
	}
	return def, nil
}

// LoadAndValidate reads a definition and validates it.
func LoadAndValidate(path string) (*Definition, error) {
	def, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validate definition: %w", err)
	}
	return def, nil
}

// Save writes a definition as YAML.
func Save(path string, def *Definition) error {
	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal definition: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write definition file: %w", err)
	}
	return nil
}

// NameFromPath strips the directory and extension from a path, so
// "wizards/add-user.yml" becomes "add-user".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (d *Definition) normalize() {
	for i := range d.Steps {
		s := &d.Steps[i]
		if s.ID == "" && s.Title != "" {
			s.ID = slug.Make(s.Title)
		}
		for j := range s.Fields {
			if s.Fields[j].Kind == "" {
				s.Fields[j].Kind = wizard.KindText
			}
		}
	}
}

// Validate checks the structure of the definition and returns every
// problem it finds.
func (d *Definition) Validate() error {
	if len(d.Steps) == 0 {
		return ErrNoSteps
	}
	var errs []error
	seen := make(map[string]int, len(d.Steps))
	for i, s := range d.Steps {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, ErrMissingID))
			continue
		}
		if prev, ok := seen[s.ID]; ok {
			errs = append(errs, fmt.Errorf("step %d: %w %q (first used by step %d)", i+1, ErrDuplicateID, s.ID, prev+1))
		} else {
			seen[s.ID] = i
		}
		if s.Remote != nil && strings.TrimSpace(s.Remote.URL) == "" {
			errs = append(errs, fmt.Errorf("step %s: remote check has no url", s.ID))
		}
		for j, f := range s.Fields {
			if f.Name == "" {
				errs = append(errs, fmt.Errorf("step %s field %d: %w", s.ID, j+1, ErrFieldName))
			}
			if !knownKinds[f.Kind] {
				errs = append(errs, fmt.Errorf("step %s field %s: %w %q", s.ID, f.Name, ErrFieldKind, f.Kind))
			}
		}
	}
	if _, err := d.Options.durations(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Warnings lists problems that do not stop the wizard from running: branch
// controls that point at unknown steps and rules for unknown fields.
func (d *Definition) Warnings() []string {
	linkClass := d.Options.LinkClass
	if linkClass == "" {
		linkClass = wizard.DefaultOptions().LinkClass
	}
	ids := make(map[string]bool, len(d.Steps))
	fields := map[string]bool{}
	for _, s := range d.Steps {
		ids[s.ID] = true
		for _, f := range s.Fields {
			fields[f.Name] = true
		}
	}

	var warnings []string
	for _, s := range d.Steps {
		for _, f := range s.Fields {
			if !slices.Contains(f.Classes, linkClass) {
				continue
			}
			targets := []string{f.Value}
			for _, c := range f.Options {
				targets = append(targets, c.Value)
			}
			for _, t := range targets {
				if t != "" && !ids[t] {
					warnings = append(warnings, fmt.Sprintf("step %s: branch %s points at unknown step %q", s.ID, f.Name, t))
				}
			}
		}
	}
	for name := range d.Validation.Rules {
		if !fields[name] {
			warnings = append(warnings, fmt.Sprintf("validation rule for unknown field %q", name))
		}
	}
	return warnings
}

// Form builds a fresh wizard form from the definition.
func (d *Definition) Form() *wizard.Form {
	form := &wizard.Form{
		Name:   d.Name,
		Action: d.Action,
		Method: d.Method,
	}
	for _, s := range d.Steps {
		step := &wizard.Step{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Classes:     append([]string(nil), s.Classes...),
		}
		for _, f := range s.Fields {
			step.Fields = append(step.Fields, &wizard.Field{
				Name:           f.Name,
				Kind:           f.Kind,
				Label:          f.Label,
				Value:          f.Value,
				Default:        f.Value,
				Checked:        f.Checked,
				DefaultChecked: f.Checked,
				Disabled:       f.Disabled,
				Options:        append([]wizard.Choice(nil), f.Options...),
				Classes:        append([]string(nil), f.Classes...),
			})
		}
		form.Steps = append(form.Steps, step)
	}
	return form
}

// WizardOptions resolves the definition options over wizard.DefaultOptions
// and collects the remote checks of every step.
func (d *Definition) WizardOptions() (wizard.Options, error) {
	o := wizard.DefaultOptions()
	od := d.Options
	setBool(&o.HistoryEnabled, od.HistoryEnabled)
	setBool(&o.ValidationEnabled, od.ValidationEnabled)
	setBool(&o.DisableInputFields, od.DisableInputFields)
	setBool(&o.ShowBackOnFirstStep, od.ShowBackOnFirstStep)
	setBool(&o.FocusFirstInput, od.FocusFirstInput)
	setString(&o.LinkClass, od.LinkClass)
	setString(&o.SubmitStepClass, od.SubmitStepClass)
	setString(&o.InAnimation, od.InAnimation)
	setString(&o.OutAnimation, od.OutAnimation)
	if od.Labels != nil {
		setString(&o.Labels.Next, od.Labels.Next)
		setString(&o.Labels.Back, od.Labels.Back)
		setString(&o.Labels.Submit, od.Labels.Submit)
	}

	durations, err := od.durations()
	if err != nil {
		return wizard.Options{}, err
	}
	if durations[0] != nil {
		o.InDuration = *durations[0]
	}
	if durations[1] != nil {
		o.OutDuration = *durations[1]
	}

	for _, s := range d.Steps {
		if s.Remote == nil {
			continue
		}
		if o.RemoteChecks == nil {
			o.RemoteChecks = map[string]wizard.RemoteCheck{}
		}
		o.RemoteChecks[s.ID] = s.Remote.check()
	}
	return o, nil
}

// Rules returns the validation configuration for wizard.Init.
func (d *Definition) Rules() validation.Config {
	return d.Validation
}

func (r *RemoteDef) check() wizard.RemoteCheck {
	c := wizard.RemoteCheck{URL: r.URL, Method: r.Method}
	if want := r.SuccessContains; want != "" {
		c.Success = func(data []byte) bool {
			return bytes.Contains(data, []byte(want))
		}
	}
	return c
}

func (o OptionsDef) durations() ([2]*time.Duration, error) {
	var out [2]*time.Duration
	for i, raw := range []string{o.InDuration, o.OutDuration} {
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return out, fmt.Errorf("options: bad duration %q: %w", raw, err)
		}
		out[i] = &d
	}
	return out, nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
