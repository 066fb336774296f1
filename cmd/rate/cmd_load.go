package main

import (
	"fmt"
	"time"

	"github.com/okian/cricscore/internal/client"
	"github.com/spf13/cobra"
)

func newLoadCommand() *cobra.Command {
	var (
		server string
		cfg    client.LoadConfig
	)
	cmd := &cobra.Command{
		Use:   "load <scorecard.json>",
		Short: "Submit a scorecard repeatedly to a rating server",
		Long: `Submit the same scorecard many times through the queued rating
endpoint, wait for every accepted job and report throughput.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readScorecard(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			stats, err := client.New(server).Load(cmd.Context(), raw, cfg)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "submitted: %d\n", stats.Submitted)
			fmt.Fprintf(out, "accepted:  %d\n", stats.Accepted)
			fmt.Fprintf(out, "rejected:  %d\n", stats.Rejected)
			fmt.Fprintf(out, "errors:    %d\n", stats.Errors)
			fmt.Fprintf(out, "completed: %d\n", stats.Completed)
			fmt.Fprintf(out, "failed:    %d\n", stats.Failed)
			fmt.Fprintf(out, "duration:  %s (%.1f jobs/s)\n", stats.Duration.Round(time.Millisecond), stats.JobsPerSecond())
			return err
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:9080", "Rating server base URL")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 100, "Number of submissions")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 0, "Concurrent submitters (default: number of CPUs)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", time.Minute, "Bound on the whole run")
	cmd.Flags().DurationVar(&cfg.PollInterval, "poll", 50*time.Millisecond, "Delay between result polls")

	return cmd
}
