package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/wheelscreener/screener/internal/models"
)

// Sort orders records for rendering: PASS before NEAR, then DiffPct
// ascending. The sort is stable, so exact ties keep discovery order and
// re-rendering the same input is byte-identical.
func Sort(records []models.ResultRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Status != records[j].Status {
			return records[i].Status == models.StatusPass
		}
		return records[i].DiffPct < records[j].DiffPct
	})
}

// Render writes the fixed-column result table. Records are rendered in the
// order given; call Sort first for report ordering.
func Render(w io.Writer, records []models.ResultRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No stocks matched the screening criteria.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Symbol\tName\tStatus\tPrice\tEMA50\tDiffPct\tADX\tRSI\tRVI\tMACD\tFailed Criterion")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			r.Symbol, r.Name, r.Status, r.Price, r.EMA50, r.DiffPct, r.ADX, r.RSI, r.RVI, r.MACD, r.FailedCriterion)
	}
	return tw.Flush()
}

// BuildSnapshot assembles the persisted run artifact.
func BuildSnapshot(totalTickers, candidates int, records []models.ResultRecord, now time.Time) models.RunSnapshot {
	snap := models.RunSnapshot{
		Timestamp:                now,
		TotalTickersAnalyzed:     totalTickers,
		CandidatesAfterPrefilter: candidates,
		Results:                  records,
	}
	for _, r := range records {
		switch r.Status {
		case models.StatusPass:
			snap.PassedAllCriteria++
		case models.StatusNear:
			snap.NearMisses++
		}
	}
	return snap
}

// WriteSnapshot persists the run snapshot as JSON; it is the sole artifact
// the decoupled display step reads.
func WriteSnapshot(path string, snap models.RunSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// LoadSnapshot reads a snapshot persisted by WriteSnapshot.
func LoadSnapshot(path string) (models.RunSnapshot, error) {
	var snap models.RunSnapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return snap, nil
}
