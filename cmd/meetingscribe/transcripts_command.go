package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newTranscriptsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transcripts",
		Short: "List completed transcripts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.resolve().Transcripts(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(resp.Transcripts) == 0 {
				fmt.Fprintln(out, "No transcripts recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(resp.Transcripts))
			for _, entry := range resp.Transcripts {
				recorded := ""
				if !entry.RecordedAt.IsZero() {
					recorded = entry.RecordedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{recorded, entry.MeetingID, entry.OutputPath})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Recorded", "Meeting", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
