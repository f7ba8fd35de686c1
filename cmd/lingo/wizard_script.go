package main

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tturner/lingo/internal/errors"
	"github.com/tturner/lingo/internal/history"
	"github.com/tturner/lingo/internal/submit"
	"github.com/tturner/lingo/internal/validation"
	"github.com/tturner/lingo/internal/wizard"
)

type wizardScriptFlags struct {
	do      []string
	set     []string
	dryRun  bool
	history bool
	final   bool
	statsFlags
}

func newWizardScriptCmd(g *globalFlags) *cobra.Command {
	flags := &wizardScriptFlags{}
	cmd := &cobra.Command{
		Use:   "script <definition>",
		Short: "Drive a wizard with a list of commands and print its state",
		Long: `Run a wizard without a terminal UI. Each --do command is applied in
order and the wizard state is printed as a YAML document after each one.
Commands: next, back, show:<step>, reset, destroy, state, init and
set:<field>=<value> to fill in a field on the way.`,
		Example: `  lingo wizard script wizards/add-user.yml --set user_name=rods --do next,next --dry-run
  lingo wizard script wizards/add-user.yml --do next,set:zone=otherZone,next --final`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingArgError(cmd, "<definition>")
			}
			return runWizardScript(cmd, g, flags, args[0])
		},
	}
	cmd.Flags().StringSliceVar(&flags.do, "do", nil, "Comma-separated commands to run (default: state)")
	cmd.Flags().StringArrayVar(&flags.set, "set", nil, "Set a field before the first command, name=value (repeatable)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Record the submission instead of sending it")
	cmd.Flags().BoolVar(&flags.history, "history", false, "Record steps in a navigation history (overrides history)")
	cmd.Flags().BoolVar(&flags.final, "final", false, "Print only the state after the last command")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "Print request statistics to stderr")
	cmd.Flags().StringVar(&flags.metricsCSV, "metrics-csv", "", "Write per-request metrics to a CSV file")
	return cmd
}

// scriptStep is one YAML document of the script output.
type scriptStep struct {
	Command     string       `yaml:"command"`
	State       wizard.State `yaml:"state"`
	Diagnostics []string     `yaml:"diagnostics,omitempty"`
	Submission  string       `yaml:"submission,omitempty"`
}

// recorder keeps the last submission response for the output and whether
// the current command reached the submitter at all.
type recorder struct {
	next wizard.Submitter
	last []byte
	sent bool
}

func (r *recorder) Submit(ctx context.Context, sub wizard.Submission) ([]byte, error) {
	data, err := r.next.Submit(ctx, sub)
	r.last = data
	r.sent = true
	return data, err
}

func runWizardScript(cmd *cobra.Command, g *globalFlags, flags *wizardScriptFlags, path string) error {
	env, err := loadEnv(g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.close()

	def, opts, err := loadDefinition(path)
	if err != nil {
		return err
	}
	if flags.history || env.cfg.History {
		opts.HistoryEnabled = true
	}
	client, err := env.client()
	if err != nil {
		return err
	}

	rec := &recorder{next: submit.NewHTTP(client)}
	if flags.dryRun {
		rec.next = submit.Printer{W: io.Discard}
	}
	var diagnostics []string
	caps := wizard.Capabilities{
		Validator: validation.New(),
		Submitter: rec,
		Remote:    client,
		Reporter: wizard.ReporterFunc(func(msg string) {
			diagnostics = append(diagnostics, msg)
		}),
		Logger: env.log,
	}
	if opts.HistoryEnabled {
		caps.History = history.New()
	}

	form := def.Form()
	w := wizard.New(form, caps).WithContext(cmd.Context())
	if err := w.Init(opts, def.Rules(), nil); err != nil {
		return errors.WrapDefinitionError(err, path)
	}
	for _, s := range flags.set {
		if err := applyAssignment(form, s); err != nil {
			return err
		}
	}

	commands := flags.do
	if len(commands) == 0 {
		commands = []string{"state"}
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()

	for i, raw := range commands {
		step, err := runScriptCommand(w, rec, strings.TrimSpace(raw), def.Action, opts)
		if err != nil {
			_ = env.report(cmd.ErrOrStderr(), flags.statsFlags)
			return err
		}
		step.Diagnostics, diagnostics = diagnostics, nil
		if flags.final && i < len(commands)-1 {
			continue
		}
		if err := enc.Encode(step); err != nil {
			return fmt.Errorf("write state: %w", err)
		}
	}
	return env.report(cmd.ErrOrStderr(), flags.statsFlags)
}

func runScriptCommand(w *wizard.Wizard, rec *recorder, raw, action string, opts wizard.Options) (scriptStep, error) {
	step := scriptStep{Command: raw}
	if assignment, ok := strings.CutPrefix(raw, "set:"); ok {
		if err := applyAssignment(w.Form(), assignment); err != nil {
			return step, err
		}
		st, err := w.State()
		step.State = st
		return step, err
	}

	c, err := wizard.ParseCommand(raw)
	if err != nil {
		return step, err
	}
	before, _ := w.State()
	rec.last = nil
	rec.sent = false
	st, err := w.Do(c)
	if err != nil {
		return step, scriptError(err, c, w.Form(), before, rec.sent, action, opts)
	}
	step.State = st
	step.Submission = string(rec.last)
	return step, nil
}

// scriptError turns a failed command into something a user can act on.
// before is the state the command started from; sent reports whether the
// form went to the submitter.
func scriptError(err error, c wizard.Command, form *wizard.Form, before wizard.State, sent bool, action string, opts wizard.Options) error {
	var verr *wizard.ValidationError
	switch {
	case goerrors.As(err, &verr):
		msg := "invalid"
		if s := form.Step(verr.Step); s != nil {
			if f := s.Field(verr.Field); f != nil && f.Error != "" {
				msg = f.Error
			}
		}
		return fmt.Errorf("%s: step %s field %s: %s: %w", c, verr.Step, verr.Field, msg, err)
	case goerrors.Is(err, wizard.ErrRemoteRejected),
		goerrors.Is(err, wizard.ErrNoSubmitter),
		goerrors.Is(err, wizard.ErrUnknownStep),
		c.Verb != "next":
		return fmt.Errorf("%s: %w", c, err)
	case sent:
		return errors.WrapRemoteError(err, methodOr(form.Method, "POST"), action)
	}
	check := opts.RemoteChecks[before.Current]
	return errors.WrapRemoteError(err, methodOr(check.Method, "GET"), check.URL)
}

func methodOr(method, fallback string) string {
	if method == "" {
		return fallback
	}
	return method
}

// applyAssignment sets a field anywhere in the form. Checkboxes take a
// boolean; other fields take the value as is.
func applyAssignment(form *wizard.Form, s string) error {
	name, value, err := parseAssignment(s)
	if err != nil {
		return err
	}
	for _, step := range form.Steps {
		f := step.Field(name)
		if f == nil {
			continue
		}
		if f.Kind == wizard.KindCheckbox {
			checked, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("field %s is a checkbox: %w", name, err)
			}
			f.Checked = checked
			return nil
		}
		f.Value = value
		return nil
	}
	return fmt.Errorf("unknown field %q", name)
}
