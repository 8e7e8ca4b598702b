package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eliseohh/helpdeskbot/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}
	cmd.AddCommand(newConfigShowCmd(opts), newConfigSetCmd(opts))
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings, environment overrides included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleTitle.Render("Settings")+" "+formatMuted(opts.configPath))
			for _, kv := range settingRows(cfg) {
				fmt.Fprintln(out, renderKeyValue(kv[0], kv[1]))
			}
			return nil
		},
	}
}

func newConfigSetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.ReadFile(opts.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Save(opts.configPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatSuccess(args[0]+" updated"))
			return nil
		},
	}
	// Group chat ids are negative; stop flag parsing at the key so the
	// value is never read as a shorthand flag.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func settingRows(cfg *config.Config) [][2]string {
	return [][2]string{
		{"bot_token", maskToken(cfg.BotToken)},
		{"work_chat_id", strconv.FormatInt(cfg.WorkChatID, 10)},
		{"db_path", cfg.DBPath},
		{"cooldown_seconds", strconv.Itoa(cfg.CooldownSeconds)},
		{"media_group_window_ms", strconv.Itoa(cfg.MediaGroupWindowMS)},
		{"per_page", strconv.Itoa(cfg.PerPage)},
		{"timezone", cfg.Timezone},
		{"redis.addr", orNone(cfg.Redis.Addr)},
		{"redis.db", strconv.Itoa(cfg.Redis.DB)},
		{"http_addr", orNone(cfg.HTTPAddr)},
		{"http_allowed_origins", orNone(strings.Join(cfg.HTTPAllowedOrigins, ","))},
		{"log_file", cfg.LogFile},
		{"pid_file", cfg.PIDFile},
		{"debug", strconv.FormatBool(cfg.Debug)},
	}
}

func maskToken(tok string) string {
	if tok == "" {
		return "(not set)"
	}
	if len(tok) <= 8 {
		return "****"
	}
	return tok[:4] + "****" + tok[len(tok)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
