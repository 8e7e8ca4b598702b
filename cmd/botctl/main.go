package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eliseohh/helpdeskbot/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "botctl",
		Short: "Manage the helpdesk bot",
		Long: styleTitle.Render("botctl") + " - helpdesk bot control\n\n" +
			"Edit settings, start and stop the bot in the background, and read its logs.",
		SilenceUsage: true,
	}

	defaultPath := os.Getenv("BOT_CONFIG")
	if defaultPath == "" {
		defaultPath = config.DefaultPath
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultPath, "path to the YAML config file")

	root.AddCommand(
		newConfigCmd(opts),
		newStartCmd(opts),
		newStopCmd(opts),
		newRestartCmd(opts),
		newRunCmd(opts),
		newLogsCmd(opts),
		newCheckCmd(opts),
	)
	return root
}
