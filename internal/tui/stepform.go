package tui

import (
	"github.com/charmbracelet/huh"

	"github.com/tturner/lingo/internal/validation"
	"github.com/tturner/lingo/internal/wizard"
)

// stepForm builds the huh form for one step. Inputs are bound to the
// wizard fields directly, so the wizard sees every edit. checks is nil
// when validation is off.
func stepForm(step *wizard.Step, labels wizard.Labels, isLast bool, checks *validation.Validator, theme *huh.Theme) *huh.Form {
	var fields []huh.Field
	for _, f := range step.Fields {
		if field := inputFor(f, checks); field != nil {
			fields = append(fields, field)
		}
	}

	next := labels.Next
	if isLast {
		next = labels.Submit
	}
	if len(fields) == 0 {
		var ok bool
		fields = append(fields, huh.NewConfirm().
			Key(step.ID).
			Title(step.Title).
			Description(step.Description).
			Affirmative(next).
			Negative("").
			Value(&ok))
	}

	group := huh.NewGroup(fields...).Title(step.Title).Description(step.Description)
	return huh.NewForm(group).
		WithTheme(theme).
		WithShowHelp(false)
}

func inputFor(f *wizard.Field, checks *validation.Validator) huh.Field {
	if !f.Focusable() {
		return nil
	}
	title := f.Label
	if title == "" {
		title = f.Name
	}

	switch f.Kind {
	case wizard.KindCheckbox:
		return huh.NewConfirm().
			Key(f.Name).
			Title(title).
			Description(f.Error).
			Affirmative("Yes").
			Negative("No").
			Value(&f.Checked)
	case wizard.KindRadio, wizard.KindSelect:
		opts := make([]huh.Option[string], 0, len(f.Options))
		for _, c := range f.Options {
			label := c.Label
			if label == "" {
				label = c.Value
			}
			opts = append(opts, huh.NewOption(label, c.Value).Selected(c.Value == f.Value))
		}
		if len(opts) == 0 {
			break
		}
		return huh.NewSelect[string]().
			Key(f.Name).
			Title(title).
			Description(f.Error).
			Options(opts...).
			Value(&f.Value)
	case wizard.KindTextarea:
		text := huh.NewText().
			Key(f.Name).
			Title(title).
			Description(f.Error).
			Value(&f.Value)
		if checks != nil {
			text.Validate(checks.FieldFunc(f.Name))
		}
		return text
	}

	input := huh.NewInput().
		Key(f.Name).
		Title(title).
		Description(f.Error).
		Value(&f.Value)
	if f.Kind == wizard.KindPassword {
		input.EchoMode(huh.EchoModePassword)
	}
	if checks != nil {
		input.Validate(checks.FieldFunc(f.Name))
	}
	return input
}
