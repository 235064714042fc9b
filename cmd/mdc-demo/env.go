package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zeplinko/mdcext/merr"
)

// bindEnv sets every flag of the command which hasn't been given on the
// command-line from the environment variable of the same name, upper-cased
// and prefixed.
func bindEnv(prefix string, cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if err != nil || flag.Changed {
			return
		}
		envName := prefix + strings.ReplaceAll(strings.ToUpper(flag.Name), "-", "_")
		value, ok := os.LookupEnv(envName)
		if !ok {
			return
		}
		if setErr := flag.Value.Set(value); setErr != nil {
			err = merr.WithValue(setErr, "env", envName, true)
		}
	})
	return err
}
