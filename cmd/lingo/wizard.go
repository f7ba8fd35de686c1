package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tturner/lingo/internal/definition"
	"github.com/tturner/lingo/internal/errors"
	"github.com/tturner/lingo/internal/history"
	"github.com/tturner/lingo/internal/submit"
	"github.com/tturner/lingo/internal/tui"
	"github.com/tturner/lingo/internal/wizard"
)

func newWizardCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Run, script or check a wizard definition",
	}
	cmd.AddCommand(newWizardRunCmd(g))
	cmd.AddCommand(newWizardScriptCmd(g))
	cmd.AddCommand(newWizardCheckCmd())
	return cmd
}

type wizardRunFlags struct {
	dryRun       bool
	history      bool
	noAnimations bool
}

func newWizardRunCmd(g *globalFlags) *cobra.Command {
	flags := &wizardRunFlags{}
	cmd := &cobra.Command{
		Use:   "run <definition>",
		Short: "Fill in a wizard interactively",
		Long: `Show the wizard in the terminal one step at a time. Enter advances,
ctrl+b goes back, ctrl+r resets and ctrl+y copies the wizard state.
The last step submits the accumulated form to its action.`,
		Example: `  lingo wizard run wizards/add-user.yml
  lingo wizard run wizards/add-user.yml --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingArgError(cmd, "<definition>")
			}
			return runWizard(cmd, g, flags, args[0])
		},
	}
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the submission instead of sending it")
	cmd.Flags().BoolVar(&flags.history, "history", false, "Record steps in a navigation history (overrides history)")
	cmd.Flags().BoolVar(&flags.noAnimations, "no-animations", false, "Switch steps without transitions")
	return cmd
}

func runWizard(cmd *cobra.Command, g *globalFlags, flags *wizardRunFlags, path string) error {
	env, err := loadEnv(g, io.Discard)
	if err != nil {
		return err
	}
	defer env.close()

	def, opts, err := loadDefinition(path)
	if err != nil {
		return err
	}
	for _, w := range def.Warnings() {
		env.log.Info("%s: %s", path, w)
	}
	if flags.history || env.cfg.History {
		opts.HistoryEnabled = true
	}

	client, err := env.client()
	if err != nil {
		return err
	}
	var submitter wizard.Submitter = submit.NewHTTP(client)
	if flags.dryRun {
		submitter = submit.Printer{W: io.Discard}
	}
	var hist wizard.History
	if opts.HistoryEnabled {
		hist = history.New()
	}

	env.log.LogStartup(def.Name, env.cfg.BaseURL, len(def.Steps), strings.Join(env.cfg.Sources, ", "))
	result, err := tui.Run(cmd.Context(), tui.Config{
		Form:       def.Form(),
		Options:    opts,
		Rules:      def.Rules(),
		Submitter:  submitter,
		Remote:     client,
		History:    hist,
		Logger:     env.log,
		Animations: env.cfg.Animations && !flags.noAnimations,
	})
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Wizard cancelled")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(result), "\n"))
	return nil
}

type wizardCheckFlags struct {
	print bool
}

func newWizardCheckCmd() *cobra.Command {
	flags := &wizardCheckFlags{}
	cmd := &cobra.Command{
		Use:   "check <definition>",
		Short: "Validate a wizard definition",
		Example: `  lingo wizard check wizards/add-user.yml
  lingo wizard check wizards/add-user.jsonc --print`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingArgError(cmd, "<definition>")
			}
			return runWizardCheck(cmd, flags, args[0])
		},
	}
	cmd.Flags().BoolVar(&flags.print, "print", false, "Print the resolved wizard options")
	return cmd
}

func runWizardCheck(cmd *cobra.Command, flags *wizardCheckFlags, path string) error {
	def, opts, err := loadDefinition(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	ids := make([]string, 0, len(def.Steps))
	for _, s := range def.Steps {
		ids = append(ids, s.ID)
	}
	fmt.Fprintf(out, "OK: %s has %d steps (%s)\n", def.Name, len(def.Steps), strings.Join(ids, ", "))
	for _, w := range def.Warnings() {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if flags.print {
		data, err := yaml.Marshal(opts)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		fmt.Fprint(out, string(data))
	}
	return nil
}

func loadDefinition(path string) (*definition.Definition, wizard.Options, error) {
	def, err := definition.LoadAndValidate(path)
	if err != nil {
		return nil, wizard.Options{}, errors.WrapDefinitionError(err, path)
	}
	opts, err := def.WizardOptions()
	if err != nil {
		return nil, wizard.Options{}, errors.WrapDefinitionError(err, path)
	}
	return def, opts, nil
}
