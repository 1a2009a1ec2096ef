package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, storage, and tool status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ctx.resolve().Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			fmt.Fprintf(out, "meetingscribe daemon %s\n", status.Version)

			if status.Storage.Reachable {
				fmt.Fprintln(out, renderStatusLine("Object store", statusOK, "reachable", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Object store", statusError, status.Storage.Reason, colorize))
			}

			for _, dep := range status.Deps {
				kind := statusError
				detail := dep.Detail
				if dep.Available {
					kind = statusOK
					detail = dep.Command
				}
				fmt.Fprintln(out, renderStatusLine(dep.Name, kind, detail, colorize))
			}

			if status.Job != nil {
				detail := fmt.Sprintf("%s (%s)", status.Job.State, status.Job.MeetingID)
				if status.Job.Total > 0 {
					detail = fmt.Sprintf("%s, %d/%d tracks", detail, status.Job.Completed, status.Job.Total)
				}
				fmt.Fprintln(out, renderStatusLine("Active job", statusInfo, detail, colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("Active job", statusInfo, "none", colorize))
			}
			return nil
		},
	}
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check object-store connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := ctx.resolve().Health(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if health.Reachable {
				fmt.Fprintln(out, "Object store is reachable.")
				return nil
			}
			return fmt.Errorf("object store unreachable: %s", health.Reason)
		},
	}
}

func newDefaultsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Show probed default tool locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := ctx.resolve().Defaults(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			print := func(label, value string) {
				if value == "" {
					value = "(not found)"
				}
				fmt.Fprintf(out, "%-16s %s\n", label+":", value)
			}
			print("whisper binary", defaults.WhisperBinary)
			print("ffmpeg binary", defaults.FFmpegBinary)
			print("output dir", defaults.OutputDir)
			print("model root", defaults.ModelRoot)
			return nil
		},
	}
}
