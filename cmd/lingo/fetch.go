package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tturner/lingo/internal/errors"
)

type fetchFlags struct {
	method string
	data   []string
	statsFlags
}

func newFetchCmd(g *globalFlags) *cobra.Command {
	flags := &fetchFlags{}
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Call an application endpoint and check the reply for error pages",
		Long: `Send one request the way the wizard does and print the response body.
Relative URLs are resolved against base_url and the application context.
Error pages (expired session, missing resource, server exception) are
reported as errors even when the server answers 200.`,
		Example: `  lingo fetch /users/ajax_usertable
  lingo fetch /users/check --data user_name=rods
  lingo fetch /users/add --method post --data user_name=rods --data zone=tempZone`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if len(args) == 0 {
				return missingArgError(cmd, "<url>")
			}
			return runFetch(cmd, g, flags, args[0])
		},
	}
	cmd.Flags().StringVar(&flags.method, "method", http.MethodGet, "HTTP method")
	cmd.Flags().StringArrayVar(&flags.data, "data", nil, "Form value name=value (repeatable)")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "Print request statistics to stderr")
	cmd.Flags().StringVar(&flags.metricsCSV, "metrics-csv", "", "Write per-request metrics to a CSV file")
	return cmd
}

func runFetch(cmd *cobra.Command, g *globalFlags, flags *fetchFlags, ref string) error {
	env, err := loadEnv(g, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer env.close()

	values := url.Values{}
	for _, d := range flags.data {
		name, value, err := parseAssignment(d)
		if err != nil {
			return err
		}
		values.Add(name, value)
	}

	client, err := env.client()
	if err != nil {
		return err
	}
	method := strings.ToUpper(flags.method)
	body, err := client.Do(cmd.Context(), method, ref, values)
	if rerr := env.report(cmd.ErrOrStderr(), flags.statsFlags); rerr != nil {
		return rerr
	}
	if err != nil {
		target, rerr := client.Resolve(ref)
		if rerr != nil {
			target = ref
		}
		return errors.WrapRemoteError(err, method, target)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(body), "\n"))
	return nil
}
