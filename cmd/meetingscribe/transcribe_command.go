package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"meetingscribe/internal/jobs"
)

const waitPollInterval = 2 * time.Second

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "transcribe <meeting-id>",
		Short: "Start a transcription job for a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := ctx.resolve()
			jobID, err := cli.StartTranscribe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %s started.\n", jobID)
			if !wait {
				fmt.Fprintf(out, "Poll with: meetingscribe transcribe-status %s\n", jobID)
				return nil
			}

			lastState := jobs.State("")
			for {
				snap, err := cli.JobStatus(cmd.Context(), jobID)
				if err != nil {
					return err
				}
				if snap.State != lastState {
					lastState = snap.State
					fmt.Fprintf(out, "state: %s", snap.State)
					if snap.Total > 0 {
						fmt.Fprintf(out, " (%d/%d tracks)", snap.Completed, snap.Total)
					}
					fmt.Fprintln(out)
				}
				if snap.State.Terminal() {
					if snap.State == jobs.StateFailed {
						return fmt.Errorf("transcription failed: %s", snap.Error)
					}
					fmt.Fprintf(out, "Transcript written to %s\n", snap.OutputPath)
					return nil
				}

				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(waitPollInterval):
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the job reaches a terminal state")
	return cmd
}

func newTranscribeStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe-status <job-id>",
		Short: "Show the status of a transcription job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := ctx.resolve().JobStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "job:     %s\n", snap.JobID)
			fmt.Fprintf(out, "meeting: %s\n", snap.MeetingID)
			fmt.Fprintf(out, "state:   %s\n", snap.State)
			if snap.Total > 0 {
				fmt.Fprintf(out, "tracks:  %d/%d\n", snap.Completed, snap.Total)
			}
			if snap.OutputPath != "" {
				fmt.Fprintf(out, "output:  %s\n", snap.OutputPath)
			}
			if snap.Error != "" {
				fmt.Fprintf(out, "error:   %s\n", snap.Error)
			}
			if snap.Log != "" {
				fmt.Fprintln(out, "log:")
				fmt.Fprintln(out, snap.Log)
			}
			return nil
		},
	}
}
