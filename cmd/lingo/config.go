package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tturner/lingo/internal/config"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create configuration files",
	}
	cmd.AddCommand(newConfigShowCmd(g))
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration and where it came from",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.close()

			out := cmd.OutOrStdout()
			if len(env.cfg.Sources) == 0 {
				fmt.Fprintln(out, "# no config files found, using defaults and LINGO_* environment")
			}
			for _, src := range env.cfg.Sources {
				fmt.Fprintf(out, "# from %s\n", src)
			}
			data, err := env.cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}
}

type configInitFlags struct {
	global bool
	force  bool
}

func newConfigInitCmd() *cobra.Command {
	flags := &configInitFlags{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default lingo.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectPath()
			if flags.global {
				path = config.GlobalPath()
			}
			if _, err := os.Stat(path); err == nil && !flags.force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Write(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.global, "global", false, "Write the global file instead of ./lingo.yml")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing file")
	return cmd
}
