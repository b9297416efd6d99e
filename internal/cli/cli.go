package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"subcity/internal/repository"
)

// Env supplies the backends a command runs against.
type Env struct {
	// OpenStore connects to the record store. The returned func releases it.
	OpenStore func(ctx context.Context) (repository.Store, func(), error)
	// Migrate applies pending schema migrations.
	Migrate func(ctx context.Context) error
	// EnvHelp describes the environment variables the binaries read.
	EnvHelp string
}

var errNoBackend = errors.New("no backend configured")

// NewRootCmd assembles subcityctl.
func NewRootCmd(env Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "subcityctl",
		Short: "Operate the sub-city record store",
		Long: `subcityctl runs maintenance tasks against the sub-city database:
schema migrations, dashboard counters, the activity log and user provisioning.`,
		SilenceUsage: true,
	}
	root.AddCommand(MigrateCmd(env))
	root.AddCommand(StatsCmd(env))
	root.AddCommand(ActivitiesCmd(env))
	root.AddCommand(CreateUserCmd(env))
	root.AddCommand(EnvCmd(env))
	return root
}

// withStore opens the store, runs fn and releases the store.
func withStore(ctx context.Context, env Env, fn func(repository.Store) error) error {
	if env.OpenStore == nil {
		return errNoBackend
	}
	store, release, err := env.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(store)
}
