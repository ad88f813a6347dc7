package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castellanoconmh/aula"
)

func newCodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Manage access codes",
	}

	cmd.AddCommand(newCodesGenerateCmd())
	cmd.AddCommand(newCodesListCmd())

	return cmd
}

func newCodesGenerateCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate new access codes, one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("%w: -n must be at least 1", aula.ErrNotValid)
			}

			b, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			for i := 0; i < n; i++ {
				ac, err := b.codes.Generate(cmd.Context())
				if err != nil {
					return fmt.Errorf("generate code %d of %d: %w", i+1, n, err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), ac.Code)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "count", "n", 1, "How many codes to generate")

	return cmd
}

func newCodesListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every access code, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.close()

			codes, err := b.codes.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list codes: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(codes)
			}

			if len(codes) == 0 {
				fmt.Fprintln(out, "No access codes yet. Use 'aula codes generate' to create one.")
				return nil
			}

			fmt.Fprintf(out, "%-12s %-7s %-32s %s\n", "CODE", "STATUS", "EMAIL", "CREATED")
			for _, ac := range codes {
				fmt.Fprintf(out, "%-12s %-7s %-32s %s\n", ac.Code, ac.Status, ac.Email, ac.CreatedAtISO())
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
