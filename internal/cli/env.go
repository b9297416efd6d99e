package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// EnvCmd prints the environment variables read by subcityctl and the API server.
func EnvCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List configuration environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.EnvHelp == "" {
				return errNoBackend
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), env.EnvHelp)
			return err
		},
	}
}
