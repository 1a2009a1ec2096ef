package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"meetingscribe/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand(ctx))

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the daemon's active configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.resolve().Config(cmd.Context())
			if err != nil {
				return err
			}
			payload, err := toml.Marshal(&cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			cmd.OutOrStdout().Write(payload)
			return nil
		},
	}
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <section.key> <value>",
		Short: "Update one configuration value on the daemon",
		Long: `Update one configuration value on the running daemon and persist it.

Keys use TOML addressing, for example:
  meetingscribe config set pipeline.language en
  meetingscribe config set pipeline.include_timestamps true
  meetingscribe config set storage.bucket meeting-audio`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := ctx.resolve()
			cfg, err := cli.Config(cmd.Context())
			if err != nil {
				return err
			}
			if err := applyConfigValue(&cfg, args[0], args[1]); err != nil {
				return err
			}
			if _, err := cli.SetConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

// applyConfigValue updates cfg in place by round-tripping through the TOML
// representation, so key names match the config file exactly.
func applyConfigValue(cfg *config.Config, key, value string) error {
	section, field, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || section == "" || field == "" {
		return fmt.Errorf("key must be of the form section.key, got %q", key)
	}

	encoded, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var tree map[string]map[string]any
	if err := toml.Unmarshal(encoded, &tree); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	fields, ok := tree[section]
	if !ok {
		return fmt.Errorf("unknown config section %q", section)
	}
	current, ok := fields[field]
	if !ok {
		return fmt.Errorf("unknown config key %q in section %q", field, section)
	}

	switch current.(type) {
	case bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false", key)
		}
		fields[field] = parsed
	case string:
		fields[field] = value
	default:
		return fmt.Errorf("config key %q cannot be set from the command line", key)
	}

	reencoded, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("re-encode config: %w", err)
	}
	return toml.Unmarshal(reencoded, cfg)
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(ctx.configPath())
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				path = defaultPath
			} else {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				path = expanded
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(ctx.configPath())
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}

			cfg := config.Default()
			if err := config.Write(target, &cfg); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote default configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the [storage] section to point at your object store before transcribing.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}
