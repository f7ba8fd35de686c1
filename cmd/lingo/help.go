package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func handleHelpArg(cmd *cobra.Command, args []string) bool {
	if len(args) == 0 {
		return false
	}
	if strings.EqualFold(args[0], "help") {
		_ = cmd.Help()
		return true
	}
	return false
}

func missingArgError(cmd *cobra.Command, arg string) error {
	_ = cmd.Help()
	return fmt.Errorf("required argument %s not set", arg)
}

// parseAssignment splits "name=value".
func parseAssignment(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", s)
	}
	return name, value, nil
}
