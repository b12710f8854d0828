package report

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/wheelscreener/screener/internal/models"
)

func sampleRecords() []models.ResultRecord {
	return []models.ResultRecord{
		{Symbol: "NEAR2", Status: models.StatusNear, DiffPct: -3.1, FailedCriterion: "ADX < 30"},
		{Symbol: "PASS2", Status: models.StatusPass, DiffPct: 8.4},
		{Symbol: "PASS1", Status: models.StatusPass, DiffPct: 1.2},
		{Symbol: "NEAR1", Status: models.StatusNear, DiffPct: -7.7, FailedCriterion: "Price > EMA50"},
	}
}

func TestSortPassBeforeNearThenDiffPct(t *testing.T) {
	records := sampleRecords()
	Sort(records)

	var symbols []string
	for _, r := range records {
		symbols = append(symbols, r.Symbol)
	}
	want := []string{"PASS1", "PASS2", "NEAR1", "NEAR2"}
	if !reflect.DeepEqual(symbols, want) {
		t.Errorf("sorted order = %v, want %v", symbols, want)
	}
}

func TestSortStableOnTies(t *testing.T) {
	records := []models.ResultRecord{
		{Symbol: "FIRST", Status: models.StatusPass, DiffPct: 2.0},
		{Symbol: "SECOND", Status: models.StatusPass, DiffPct: 2.0},
	}
	Sort(records)
	if records[0].Symbol != "FIRST" || records[1].Symbol != "SECOND" {
		t.Errorf("tie must preserve discovery order, got %s, %s", records[0].Symbol, records[1].Symbol)
	}
}

func TestRenderDeterministic(t *testing.T) {
	records := sampleRecords()
	Sort(records)

	var first, second bytes.Buffer
	if err := Render(&first, records); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := Render(&second, records); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("re-rendering the same records must be byte-identical")
	}
}

func TestRenderColumnsAndFailedCriterion(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleRecords()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	header := []string{"Symbol", "Name", "Status", "Price", "EMA50", "DiffPct", "ADX", "RSI", "RVI", "MACD", "Failed Criterion"}
	for _, col := range header {
		if !strings.Contains(out, col) {
			t.Errorf("header missing column %q", col)
		}
	}
	if !strings.Contains(out, "ADX < 30") {
		t.Error("failed criterion name should appear verbatim in the table")
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "No stocks matched") {
		t.Errorf("unexpected empty-report output: %q", buf.String())
	}
}

func TestBuildSnapshotCounts(t *testing.T) {
	snap := BuildSnapshot(500, 42, sampleRecords(), time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC))

	if snap.TotalTickersAnalyzed != 500 {
		t.Errorf("TotalTickersAnalyzed = %d", snap.TotalTickersAnalyzed)
	}
	if snap.CandidatesAfterPrefilter != 42 {
		t.Errorf("CandidatesAfterPrefilter = %d", snap.CandidatesAfterPrefilter)
	}
	if snap.PassedAllCriteria != 2 || snap.NearMisses != 2 {
		t.Errorf("counts = %d passed / %d near, want 2 / 2", snap.PassedAllCriteria, snap.NearMisses)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis_results.json")
	snap := BuildSnapshot(3, 2, sampleRecords(), time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC))

	if err := WriteSnapshot(path, snap); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if !loaded.Timestamp.Equal(snap.Timestamp) {
		t.Errorf("timestamp = %v, want %v", loaded.Timestamp, snap.Timestamp)
	}
	if !reflect.DeepEqual(loaded.Results, snap.Results) {
		t.Errorf("results differ after round trip:\ngot  %+v\nwant %+v", loaded.Results, snap.Results)
	}
}

func TestClassificationPartition(t *testing.T) {
	for _, r := range sampleRecords() {
		switch r.Status {
		case models.StatusPass:
			if r.FailedCriterion != "" {
				t.Errorf("%s: PASS record must have empty failed criterion", r.Symbol)
			}
		case models.StatusNear:
			if r.FailedCriterion == "" {
				t.Errorf("%s: NEAR record must name its failed criterion", r.Symbol)
			}
		default:
			t.Errorf("%s: unexpected status %q", r.Symbol, r.Status)
		}
	}
}
