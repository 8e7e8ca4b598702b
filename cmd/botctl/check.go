package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eliseohh/helpdeskbot/internal/app"
	"github.com/eliseohh/helpdeskbot/internal/config"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the environment before starting the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			failed := 0
			for _, r := range app.Check(cmd.Context(), cfg) {
				switch {
				case r.Skipped:
					fmt.Fprintln(out, formatMuted("- "+r.Name+" (not configured)"))
				case r.Err != nil:
					failed++
					fmt.Fprintln(out, formatError(r.Name+": "+r.Err.Error()))
				default:
					fmt.Fprintln(out, formatSuccess(r.Name))
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}
}
