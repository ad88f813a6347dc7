// Package cli holds the aula command tree.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/castellanoconmh/aula"
	"github.com/castellanoconmh/aula/ranger"
)

// envName holds the --env persistent flag.
var envName string

// Execute builds the command tree and runs it.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aula",
		Short: "Course site with access codes",
		Long: `aula serves the course site: students redeem access codes to unlock
videos and exams, and admins manage both from a live panel.

Configuration comes from the environment and an optional .env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&envName, "env", "", "environment, overriding "+ranger.EnvironmentEnvVar)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newCodesCmd())

	return cmd
}

// environment resolves --env, falling back to ENVIRONMENT and then Development.
func environment() (aula.Environment, error) {
	if envName == "" {
		return aula.EnvVarOrEnv(ranger.EnvironmentEnvVar, aula.Development), nil
	}

	env := aula.Environment(strings.ToUpper(envName))
	if err := env.Valid(); err != nil {
		return "", err
	}

	return env, nil
}
