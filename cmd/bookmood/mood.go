package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/bookmood/internal/domain"
	"github.com/fjod/bookmood/internal/mood"
	"github.com/spf13/cobra"
)

func moodCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Record moods and show the daily trend",
	}
	cmd.AddCommand(moodRecordCmd(flags), moodTrendCmd(flags))
	return cmd
}

func moodRecordCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "record <1-5> [note...]",
		Short: "Record how you feel right now",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid mood %q", args[0])
			}

			a, err := newApp(cmd.Context(), flags.loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			entry, err := a.moods.Record(cmd.Context(), score, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d (%s) at %s\n",
				entry.Mood, domain.MoodLabel(entry.Mood), entry.Timestamp.Format(time.RFC3339))
			return nil
		},
	}
}

func moodTrendCmd(flags *globalFlags) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Print the average mood per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), flags.loadConfig())
			if err != nil {
				return err
			}
			defer a.Close()

			buckets, err := a.moods.TrailingDailyAverages(cmd.Context(), days, time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, b := range buckets {
				if !b.HasData() {
					fmt.Fprintf(out, "%s  -\n", b.Date)
					continue
				}
				fmt.Fprintf(out, "%s  %.2f  %s (%d)\n", b.Date, *b.Average,
					domain.MoodLabel(domain.NearestMood(*b.Average)), b.Count)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", mood.DefaultWindowDays, "number of days to show")
	return cmd
}
