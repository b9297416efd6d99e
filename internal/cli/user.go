package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"subcity/internal/model"
	"subcity/internal/repository"
)

// SystemActor attributes CLI changes in the activity log.
const SystemActor = "System"

func CreateUserCmd(env Env) *cobra.Command {
	var in model.NewUser
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an administrative user",
		Long:  "Create a user with a bcrypt-hashed password. Fails when the username is taken.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Username = strings.TrimSpace(in.Username)
			if err := validator.New().Struct(in); err != nil {
				return fmt.Errorf("invalid user: %w", err)
			}
			ctx := repository.WithActor(cmd.Context(), SystemActor)
			return withStore(ctx, env, func(store repository.Store) error {
				_, err := store.GetUserByUsername(ctx, in.Username)
				switch {
				case err == nil:
					return fmt.Errorf("user %q already exists", in.Username)
				case !errors.Is(err, repository.ErrNotFound):
					return fmt.Errorf("failed to look up user: %w", err)
				}

				hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
				if err != nil {
					return fmt.Errorf("hash password: %w", err)
				}
				u, err := store.CreateUser(ctx, model.NewUser{
					Username: in.Username,
					Password: string(hash),
					Role:     in.Role,
				})
				if err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s created user %s (id %d, role %s)\n",
					color.New(color.FgGreen).Sprint("✓"), u.Username, u.ID, u.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "plain-text password, stored hashed")
	cmd.Flags().StringVar(&in.Role, "role", model.DefaultRole, "user role")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
