package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"lu-estilo/internal/domain"
	"lu-estilo/internal/middleware"
	"lu-estilo/internal/repository"
	"lu-estilo/internal/service"
	"lu-estilo/internal/transport"

	"github.com/spf13/cobra"
)

// openStore returns the store create-admin writes to. Tests replace it.
var openStore = func() (repository.Store, io.Closer, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, nil, err
	}
	return repository.NewStore(db.DB()), db, nil
}

func newCreateAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create a user with the admin role. Use it once to bootstrap a fresh
database, then manage further accounts through the API.

Example:
  salesctl create-admin --username admin --email admin@luestilo.com --password s3cret!`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := transport.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
				Role:     domain.RoleAdmin,
			}
			if err := middleware.ValidateRequest(&req); err != nil {
				for _, ve := range middleware.FormatValidationErrors(err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "--%s: %s\n", ve.Field, ve.Message)
				}
				return fmt.Errorf("invalid administrator data")
			}

			store, closer, err := openStore()
			if err != nil {
				return err
			}
			defer closeQuietly(closer, newLogger())

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			users := service.NewUserService(store, "", 0)
			user, err := users.Register(ctx, service.RegisterInput{
				Username: req.Username,
				Email:    req.Email,
				Password: req.Password,
				Role:     req.Role,
			})
			if err != nil {
				return fmt.Errorf("failed to create administrator: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q with id %d\n", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Administrator username")
	cmd.Flags().StringVar(&email, "email", "", "Administrator e-mail")
	cmd.Flags().StringVar(&password, "password", "", "Administrator password")
	return cmd
}
