package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/cricscore/internal/client"
	"github.com/okian/cricscore/internal/domain/rating"
	"github.com/okian/cricscore/internal/domain/scorecard"
	"github.com/spf13/cobra"
)

type scoreOptions struct {
	format  string
	server  string
	details bool
	timeout time.Duration
}

func newScoreCommand() *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score <scorecard.json|->",
		Short: "Rate a scorecard",
		Long: `Rate the players of one scorecard file, or of stdin when the file is "-".

The table format lists every player with component and overall ratings;
--details adds each component's breakdown rows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table or json")
	cmd.Flags().StringVar(&opts.server, "server", "", "Rate on this server instead of in-process, e.g. http://localhost:9080")
	cmd.Flags().BoolVar(&opts.details, "details", false, "Show the breakdown of every component")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Request timeout when using --server")

	return cmd
}

func runScore(ctx context.Context, stdin io.Reader, out io.Writer, path string, opts *scoreOptions) error {
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", opts.format)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	raw, err := readScorecard(stdin, path)
	if err != nil {
		return err
	}

	var res client.Rating
	if opts.server != "" {
		res, err = client.New(opts.server, client.WithTimeout(opts.timeout)).Rate(ctx, raw)
		if errors.Is(err, client.ErrInvalidScorecard) {
			return fmt.Errorf("%w: %w", errInvalidInput, err)
		}
	} else {
		res, err = rateLocal(raw)
	}
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return renderTable(out, res.MatchResult, res.Anomalies, opts.details)
}

func readScorecard(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return raw, nil
}

func rateLocal(raw []byte) (client.Rating, error) {
	m, notes, err := scorecard.Decode(raw)
	if err != nil {
		return client.Rating{}, fmt.Errorf("%w: %w", errInvalidInput, err)
	}
	res, more := rating.RateMatch(m)
	return client.Rating{MatchResult: res, Anomalies: append(notes, more...)}, nil
}
