package main

import (
	"strings"

	"github.com/spf13/cobra"

	"meetingscribe/internal/config"
)

// commandContext carries the persistent flag values and resolves the API
// client lazily, after flag parsing.
type commandContext struct {
	apiFlag    *string
	tokenFlag  *string
	configFlag *string
}

// resolve builds the client from flags, falling back to the config file for
// anything not given on the command line.
func (c *commandContext) resolve() *client {
	cfg, _, _ := config.Load(*c.configFlag)

	bind := strings.TrimSpace(*c.apiFlag)
	if bind == "" {
		bind = cfg.Daemon.APIBind
	}
	token := strings.TrimSpace(*c.tokenFlag)
	if token == "" {
		token = cfg.Daemon.APIToken
	}
	return newClient(bind, token)
}

func (c *commandContext) configPath() string {
	return *c.configFlag
}

func newRootCommand() *cobra.Command {
	var apiFlag string
	var tokenFlag string
	var configFlag string

	ctx := &commandContext{apiFlag: &apiFlag, tokenFlag: &tokenFlag, configFlag: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "meetingscribe",
		Short:         "Meeting transcription CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiFlag, "api", "", "Daemon API address (host:port)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "API bearer token")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newDatesCommand(ctx))
	rootCmd.AddCommand(newMeetingsCommand(ctx))
	rootCmd.AddCommand(newTranscribeCommand(ctx))
	rootCmd.AddCommand(newTranscribeStatusCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newTranscriptsCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newDefaultsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
