package cli

import (
	"github.com/spf13/cobra"

	"github.com/castellanoconmh/aula/ranger"
	"github.com/castellanoconmh/aula/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := environment()
			if err != nil {
				return err
			}

			rng, err := ranger.New(
				ranger.WithContext(cmd.Context()),
				ranger.WithEnv(env.String()),
				ranger.WithTemplates(web.Templates()),
			)
			if err != nil {
				return err
			}

			h := web.New(rng)
			defer h.Close()
			h.Routes(rng)

			return rng.Guide()
		},
	}
}
