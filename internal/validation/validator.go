// Package validation is the rule-based field validator the wizard consults
// before leaving a step.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tturner/lingo/internal/wizard"
)

// Rule constrains one field, keyed by field name in Config.Rules.
type Rule struct {
	Required  bool   `yaml:"required,omitempty" json:"required,omitempty"`
	MinLength int    `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength int    `yaml:"max_length,omitempty" json:"max_length,omitempty"`
	Pattern   string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Email     bool   `yaml:"email,omitempty" json:"email,omitempty"`
	EqualTo   string `yaml:"equal_to,omitempty" json:"equal_to,omitempty"`
	Message   string `yaml:"message,omitempty" json:"message,omitempty"`
}

// Config is the validation configuration handed to wizard.Init.
type Config struct {
	Rules map[string]Rule `yaml:"rules" json:"rules"`
}

type compiledRule struct {
	Rule
	pattern *regexp.Regexp
}

// Validator implements wizard.Validator.
type Validator struct {
	form  *wizard.Form
	rules map[string]compiledRule
}

// New returns a validator with no rules; Configure loads them.
func New() *Validator {
	return &Validator{rules: map[string]compiledRule{}}
}

// Configure accepts a Config, a *Config or nil.
func (v *Validator) Configure(form *wizard.Form, config any) error {
	var cfg Config
	switch c := config.(type) {
	case nil:
	case Config:
		cfg = c
	case *Config:
		if c != nil {
			cfg = *c
		}
	default:
		return fmt.Errorf("unsupported validation config %T", config)
	}

	rules := make(map[string]compiledRule, len(cfg.Rules))
	var errs []error
	for name, rule := range cfg.Rules {
		cr := compiledRule{Rule: rule}
		if rule.Pattern != "" {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				errs = append(errs, fmt.Errorf("rule %s: %w", name, err))
				continue
			}
			cr.pattern = re
		}
		if rule.MinLength < 0 || rule.MaxLength < 0 || (rule.MaxLength > 0 && rule.MinLength > rule.MaxLength) {
			errs = append(errs, fmt.Errorf("rule %s: bad length bounds %d..%d", name, rule.MinLength, rule.MaxLength))
			continue
		}
		rules[name] = cr
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	v.form = form
	v.rules = rules
	return nil
}

// Valid checks every enabled field of the step and records the failure
// message in Field.Error.
func (v *Validator) Valid(step *wizard.Step) bool {
	ok := true
	for _, f := range step.Fields {
		if f.Disabled {
			continue
		}
		f.Error = v.Check(f)
		if f.Error != "" {
			ok = false
		}
	}
	return ok
}

// FocusInvalid returns the first field of the step that failed.
func (v *Validator) FocusInvalid(step *wizard.Step) *wizard.Field {
	for _, f := range step.Fields {
		if f.Error != "" && f.Focusable() {
			return f
		}
	}
	for _, f := range step.Fields {
		if f.Error != "" {
			return f
		}
	}
	return nil
}

// Check returns the error message for a field, or "" when it passes.
func (v *Validator) Check(f *wizard.Field) string {
	rule, ok := v.rules[f.Name]
	if !ok {
		return ""
	}
	value := f.Value
	if f.Kind == wizard.KindCheckbox && !f.Checked {
		value = ""
	}
	return v.check(rule, value)
}

// FieldFunc adapts the rule for a field name to an input validation
// callback taking the raw value.
func (v *Validator) FieldFunc(name string) func(string) error {
	return func(value string) error {
		rule, ok := v.rules[name]
		if !ok {
			return nil
		}
		if msg := v.check(rule, value); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func (v *Validator) check(rule compiledRule, value string) string {
	value = strings.TrimSpace(value)
	fail := func(def string) string {
		if rule.Message != "" {
			return rule.Message
		}
		return def
	}
	if value == "" {
		if rule.Required {
			return fail("This field is required.")
		}
		return ""
	}
	n := utf8.RuneCountInString(value)
	if rule.MinLength > 0 && n < rule.MinLength {
		return fail(fmt.Sprintf("Please enter at least %d characters.", rule.MinLength))
	}
	if rule.MaxLength > 0 && n > rule.MaxLength {
		return fail(fmt.Sprintf("Please enter no more than %d characters.", rule.MaxLength))
	}
	if rule.Email {
		if addr, err := mail.ParseAddress(value); err != nil || addr.Address != value {
			return fail("Please enter a valid email address.")
		}
	}
	if rule.pattern != nil && !rule.pattern.MatchString(value) {
		return fail("Please enter a value in the expected format.")
	}
	if rule.EqualTo != "" && v.form != nil {
		if other := v.lookup(rule.EqualTo); other != nil && strings.TrimSpace(other.Value) != value {
			return fail("Please enter the same value again.")
		}
	}
	return ""
}

func (v *Validator) lookup(name string) *wizard.Field {
	for _, s := range v.form.Steps {
		if f := s.Field(name); f != nil {
			return f
		}
	}
	return nil
}
