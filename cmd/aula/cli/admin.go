package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/ranger"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrators",
	}

	cmd.AddCommand(newAdminCreateCmd())
	cmd.AddCommand(newAdminPromoteCmd())

	return cmd
}

func newAdminCreateCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create an administrator",
		Example: `  aula admin create --email profe@example.com --password 'una-clave-larga'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			u, err := b.auth.Create(cmd.Context(), email, password, aula.RoleAdmin)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s\n", u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address (required)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password, at least 8 characters (required)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func newAdminPromoteCmd() *cobra.Command {
	var fromEnv bool

	cmd := &cobra.Command{
		Use:   "promote [email...]",
		Short: "Grant the admin role to existing users",
		Example: `  aula admin promote profe@example.com
  ADMIN_EMAILS=a@example.com,b@example.com aula admin promote --from-env`,
		RunE: func(cmd *cobra.Command, args []string) error {
			emails := args
			if fromEnv {
				emails = append(emails, aula.EnvVarOrStrings(ranger.AdminEmailsEnvVar, nil)...)
			}

			if len(emails) == 0 {
				return fmt.Errorf("%w: name at least one email or pass --from-env", aula.ErrMissingData)
			}

			b, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			var errs []error
			for _, email := range emails {
				u, err := b.auth.Promote(cmd.Context(), email)
				if err != nil {
					errs = append(errs, fmt.Errorf("promote %s: %w", email, err))
					continue
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s\n", u.Email)
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&fromEnv, "from-env", false, "Also promote every address in "+ranger.AdminEmailsEnvVar)

	return cmd
}
