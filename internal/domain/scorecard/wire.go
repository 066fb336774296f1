package scorecard

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// number is a lenient numeric field: it accepts JSON numbers and numeric
// strings and remembers anything else as invalid instead of failing.
type number struct {
	value   float64
	present bool
	invalid bool
	raw     string
}

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	n.present = true
	n.raw = string(b)

	str := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			n.invalid = true
			return nil
		}
		str = strings.TrimSpace(s)
		n.raw = s
		if str == "" {
			n.present = false
			return nil
		}
	}
	v, ok := parseNumber(str)
	if !ok {
		n.invalid = true
		return nil
	}
	n.value = v
	return nil
}

// parseNumber reads a finite decimal number.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// text is a lenient string field. Other scalars keep their JSON text and set
// scalar, so the converter can record them instead of rejecting the document.
type text struct {
	value  string
	scalar bool
}

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &t.value)
	}
	t.value = string(b)
	t.scalar = true
	return nil
}

// dismissedList is the dismissed-batter runs, sent either as a
// comma-separated string or as an array. Blank slots are dropped.
type dismissedList []string

func (d *dismissedList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				*d = append(*d, p)
			}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return nil
		}
		for _, it := range items {
			var s string
			if json.Unmarshal(it, &s) == nil {
				s = strings.TrimSpace(s)
			} else {
				s = strings.TrimSpace(string(it))
			}
			if s != "" && s != "null" {
				*d = append(*d, s)
			}
		}
	default:
		*d = append(*d, string(b))
	}
	return nil
}

type wireMatch struct {
	Team1  text        `json:"team1_name"`
	Team2  text        `json:"team2_name"`
	Winner text        `json:"winner"`
	Venue  text        `json:"venue"`
	First  wireInnings `json:"first_innings"`
	Second wireInnings `json:"second_innings"`
}

type wireInnings struct {
	TotalRuns      number         `json:"total_runs"`
	TotalWickets   number         `json:"total_wickets"`
	TotalOvers     number         `json:"total_overs"`
	Batting        []wireBatting  `json:"batting"`
	Bowling        []wireBowling  `json:"bowling"`
	FieldingEvents []wireFielding `json:"fielding_events"`
}

type wireBatting struct {
	Name      text   `json:"name"`
	Role      text   `json:"role"`
	Runs      number `json:"runs"`
	Balls     number `json:"balls"`
	Fours     number `json:"fours"`
	Sixes     number `json:"sixes"`
	Dismissal text   `json:"dismissal"`
}

type wireBowling struct {
	Name          text          `json:"name"`
	Role          text          `json:"role"`
	Overs         number        `json:"overs"`
	Maidens       number        `json:"maidens"`
	RunsConceded  number        `json:"runs_conceded"`
	Wickets       number        `json:"wickets"`
	Wides         number        `json:"wides"`
	NoBalls       number        `json:"no_balls"`
	DismissedRuns dismissedList `json:"dismissed_batsmen_runs"`
}

type wireFielding struct {
	Player text `json:"player_name"`
	Kind   text `json:"event_type"`
}
