package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/verte-zerg/quiver/internal/model"
)

var csvHeader = []string{
	"Practice",
	"Date",
	"Total Score",
	"Ends",
	"Avg per End",
	"Best End",
	"Avg Precision",
	"Notes",
}

// WriteCSV writes one row per summary after a header row.
func WriteCSV(w io.Writer, summaries []model.RoundSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, s := range summaries {
		row := []string{
			strconv.Itoa(s.Number),
			s.Date.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(s.TotalScore),
			strconv.Itoa(s.EndCount),
			strconv.FormatFloat(s.AvgPerEnd, 'f', 2, 64),
			strconv.Itoa(s.BestEnd),
			strconv.FormatFloat(s.AvgPrecision, 'f', 2, 64),
			s.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// archiveVersion is bumped when the JSON layout changes incompatibly.
const archiveVersion = 1

// Archive is the JSON export of a user's rounds.
type Archive struct {
	Version    int           `json:"version"`
	User       string        `json:"user"`
	ExportedAt time.Time     `json:"exportedAt"`
	Rounds     []model.Round `json:"rounds"`
}

// WriteJSON writes rounds as an indented Archive.
func WriteJSON(w io.Writer, user string, at time.Time, rounds []model.Round) error {
	if rounds == nil {
		rounds = []model.Round{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Archive{Version: archiveVersion, User: user, ExportedAt: at, Rounds: rounds}); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}

// ReadJSON reads rounds from an Archive. Derived fields in the file are not
// trusted and are recomputed from the shots.
func ReadJSON(r io.Reader) ([]model.Round, error) {
	var a Archive
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	if a.Version != archiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d", a.Version)
	}
	out := make([]model.Round, len(a.Rounds))
	for i, round := range a.Rounds {
		if err := ValidateRound(round); err != nil {
			return nil, fmt.Errorf("invalid round %d (%s): %w", i+1, round.ID, err)
		}
		out[i] = Recompute(round)
	}
	return out, nil
}
