package main

import (
	"errors"

	"github.com/okian/cricscore/pkg/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

// errInvalidInput marks a scorecard that could not be rated.
var errInvalidInput = errors.New("invalid scorecard")

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Rate every player of a T20 match",
		Long: `rate turns a T20 scorecard into per-player ratings on a 0-10 scale
and names the match MVP.

Scorecards are rated in-process unless --server points at a running
rating server.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	logFormat := cmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := logger.SetFormat(*logFormat); err != nil {
			return err
		}
		logger.SetOutput(cmd.ErrOrStderr())
		if err := logger.Init(); err != nil {
			return err
		}
		if *debugLogging {
			return logger.SetLevelString("debug")
		}
		return logger.SetLevelString("warn")
	}

	cmd.AddCommand(newScoreCommand())
	cmd.AddCommand(newLoadCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
