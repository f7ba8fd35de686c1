package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "lingo",
		Short: "Step-by-step form wizards for the grid admin web application",
		Long: `Lingo drives multi-step form wizards against the admin web application:
interactive in the terminal, or scripted for repeatable checks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Extra config file, read after the global and project files")
	rootCmd.PersistentFlags().StringVar(&g.baseURL, "base-url", "", "Application base URL (overrides base_url)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "silent, error, info, verbose or debug (overrides log_level)")
	rootCmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Write the log to this file (overrides log_file)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newWizardCmd(g))
	rootCmd.AddCommand(newFetchCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))

	// Custom help command
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			about := cmd.Long
			if about == "" {
				about = cmd.Short
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s", about, cmd.UsageString())
			return
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Usage:\n  %s <command> [arguments] [options]\n\n", cmd.Name())
		fmt.Fprintf(out, "Available Commands:\n")
		for _, subCmd := range cmd.Commands() {
			if !subCmd.Hidden {
				fmt.Fprintf(out, "  %-15s %s\n", subCmd.Name(), subCmd.Short)
			}
		}
		fmt.Fprintf(out, "\nUse \"%s help <command>\" for more information about a command.\n", cmd.Name())
	})
	return rootCmd
}
