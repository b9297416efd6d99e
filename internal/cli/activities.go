package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"subcity/internal/model"
	"subcity/internal/repository"
)

func ActivitiesCmd(env Env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "Show recent activity, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return withStore(cmd.Context(), env, func(store repository.Store) error {
				entries, err := store.RecentActivities(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("failed to fetch activities: %w", err)
				}
				printActivities(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", repository.DefaultRecentActivities, "number of entries")
	return cmd
}

func printActivities(w io.Writer, entries []model.Activity) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity recorded.")
		return
	}
	actor := color.New(color.FgCyan).SprintFunc()
	for _, a := range entries {
		fmt.Fprintf(w, "%s  %-12s %s\n", a.Timestamp.Format("2006-01-02 15:04:05"), actor(a.Actor), a.Action)
	}
}
