package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newDatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "List recording dates, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := ctx.resolve().Dates(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(dates) == 0 {
				fmt.Fprintln(out, "No recordings found.")
				return nil
			}
			for _, date := range dates {
				fmt.Fprintln(out, date)
			}
			return nil
		},
	}
}

func newMeetingsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "meetings <date>",
		Short: "List the meetings recorded on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.resolve().Meetings(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(resp.Meetings) == 0 {
				fmt.Fprintf(out, "No meetings recorded on %s.\n", resp.Date)
				return nil
			}

			rows := make([][]string, 0, len(resp.Meetings))
			for _, meeting := range resp.Meetings {
				rows = append(rows, []string{
					meeting.MeetingTime,
					meeting.RoomLabel,
					strconv.Itoa(meeting.SpeakerCount),
					strconv.Itoa(meeting.TrackCount),
					meeting.ID,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Time", "Room", "Speakers", "Tracks", "Meeting ID"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}
