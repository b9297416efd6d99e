package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"subcity/internal/repository"
	"subcity/internal/service"
)

func StatsCmd(env Env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), env, func(store repository.Store) error {
				stats, err := service.NewStatsService(store).Stats(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to load stats: %w", err)
				}
				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(stats)
				}
				label := color.New(color.Bold).SprintFunc()
				fmt.Fprintf(out, "%s %d\n", label("Employees:  "), stats.Employees)
				fmt.Fprintf(out, "%s %d\n", label("Documents:  "), stats.Documents)
				fmt.Fprintf(out, "%s %d\n", label("Investments:"), stats.Investments)
				fmt.Fprintf(out, "%s %d\n", label("Population: "), stats.Population)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
