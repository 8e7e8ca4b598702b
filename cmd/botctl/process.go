package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eliseohh/helpdeskbot/internal/app"
	"github.com/eliseohh/helpdeskbot/internal/config"
	"github.com/eliseohh/helpdeskbot/internal/daemon"
	"github.com/eliseohh/helpdeskbot/internal/logging"
)

const stopTimeout = 20 * time.Second

func newStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the bot in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startBot(cmd, opts)
		},
	}
}

func newStopCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the background bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return stopBot(cmd, opts)
		},
	}
}

func newRestartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Stop, then start the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stopBot(cmd, opts); err != nil {
				return err
			}
			return startBot(cmd, opts)
		},
	}
}

// run is what start executes in the detached child.
func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:    "run",
		Short:  "Run the bot in the foreground",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogFile, cfg.Debug)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer daemon.RemoveIfOwned(cfg.PIDFile, os.Getpid())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx, cfg, logger)
		},
	}
}

func startBot(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(out, formatError("Bot is not configured"))
		fmt.Fprintln(out, formatMuted(err.Error()))
		fmt.Fprintln(out, formatMuted("Use: botctl config set <key> <value>"))
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return err
	}
	pid, err := daemon.Start(cfg.PIDFile, exe, "--config", opts.configPath, "run")
	if errors.Is(err, daemon.ErrAlreadyRunning) {
		fmt.Fprintln(out, formatWarning("Bot is already running (pid file "+cfg.PIDFile+")"))
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, formatSuccess(fmt.Sprintf("Bot started, pid %d", pid)))
	fmt.Fprintln(out, formatMuted("Logs: "+cfg.LogFile))
	return nil
}

// stopBot treats "not running" as success so restart works from any state.
func stopBot(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	pid, err := daemon.Stop(cfg.PIDFile)
	switch {
	case errors.Is(err, daemon.ErrNotRunning):
		fmt.Fprintln(out, formatInfo("Bot is not running"))
		return nil
	case errors.Is(err, daemon.ErrProcessGone):
		fmt.Fprintln(out, formatWarning(fmt.Sprintf("Process %d no longer exists, pid file removed", pid)))
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintln(out, formatInfo(fmt.Sprintf("Stopping process %d", pid)))
	if !daemon.WaitExit(pid, stopTimeout) {
		return fmt.Errorf("process %d did not exit within %s", pid, stopTimeout)
	}
	fmt.Fprintln(out, formatSuccess("Bot stopped"))
	return nil
}
