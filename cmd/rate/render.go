package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/cricscore/internal/domain/model"
)

func renderTable(out io.Writer, res model.MatchResult, anomalies []model.Anomaly, details bool) error {
	info := res.MatchInfo
	fmt.Fprintf(out, "%s %s (%.1f ov) vs %s %s (%.1f ov)\n",
		info.Team1Name, info.Team1Score, info.Team1Overs,
		info.Team2Name, info.Team2Score, info.Team2Overs)
	if info.Winner != "" {
		fmt.Fprintf(out, "Winner: %s\n", info.Winner)
	}
	if info.Venue != "" {
		fmt.Fprintf(out, "Venue: %s\n", info.Venue)
	}
	if res.ResultID != "" {
		fmt.Fprintf(out, "Result: %s\n", res.ResultID)
	}

	for _, team := range []model.TeamRating{res.Team1, res.Team2} {
		fmt.Fprintf(out, "\n%s\n", team.Name)
		if err := renderTeam(out, team.Players); err != nil {
			return err
		}
	}

	if res.MVP != nil {
		fmt.Fprintf(out, "\nMVP: %s (%s) %.1f\n", res.MVP.Name, res.MVP.Team, res.MVP.OverallRating)
	}

	if details {
		for _, p := range res.Players() {
			renderDetails(out, p)
		}
	}

	if len(anomalies) > 0 {
		fmt.Fprintf(out, "\nAnomalies (%d):\n", len(anomalies))
		for _, a := range anomalies {
			line := fmt.Sprintf("  %s at %s", a.Kind, a.Field)
			if a.Detail != "" {
				line += ": " + a.Detail
			}
			fmt.Fprintln(out, line)
		}
	}
	return nil
}

func renderTeam(out io.Writer, players []model.PlayerRating) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tROLE\tBAT\tBOWL\tFIELD\tOVERALL\tCOLOR")
	for _, p := range players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%.1f\t%s\n",
			p.Name, p.Role, optional(p.BattingRating), optional(p.BowlingRating),
			p.FieldingRating, p.OverallRating, p.Color())
	}
	return tw.Flush()
}

func renderDetails(out io.Writer, p model.PlayerRating) {
	fmt.Fprintf(out, "\n%s (%s)\n", p.Name, p.Team)
	section := func(title string, rows []model.BreakdownRow) {
		if len(rows) == 0 {
			return
		}
		fmt.Fprintf(out, "  %s\n", title)
		for _, r := range rows {
			value := r.Value
			if value == "" {
				value = "-"
			}
			fmt.Fprintf(out, "    %-16s %-20s %+.2f\n", r.Label, value, r.Score)
		}
	}
	section("Batting", p.BattingDetails.Rows())
	section("Bowling", p.BowlingDetails.Rows())
	if p.FieldingDetails.HasEvents {
		labels := make([]string, 0, len(p.FieldingDetails.Events))
		for _, e := range p.FieldingDetails.Events {
			labels = append(labels, e.Label)
		}
		fmt.Fprintf(out, "  Fielding\n    %s\n", strings.Join(labels, ", "))
	}
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
