package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eliseohh/helpdeskbot/internal/config"
	"github.com/eliseohh/helpdeskbot/internal/daemon"
)

func newLogsCmd(opts *rootOptions) *cobra.Command {
	var (
		lines  int
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the last lines of the bot log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			tail, err := daemon.Tail(cfg.LogFile, lines)
			if os.IsNotExist(err) {
				fmt.Fprintln(out, formatInfo("No logs yet"))
				return nil
			}
			if err != nil {
				return err
			}
			for _, l := range tail {
				fmt.Fprintln(out, l)
			}

			if !follow {
				return nil
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return daemon.Follow(ctx, cfg.LogFile, out)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing new log lines")
	return cmd
}
