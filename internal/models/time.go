package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FlexTime is a bar date that providers serialize either as an ISO date
// string or as Unix epoch seconds. Both forms decode to the same instant,
// so normalizing a series is idempotent regardless of the wire format.
type FlexTime struct {
	time.Time
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts a JSON number (epoch seconds) or a date string.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if !strings.HasPrefix(s, `"`) {
		sec, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parsing epoch date %q: %w", s, err)
		}
		t.Time = time.Unix(int64(sec), 0).UTC()
		return nil
	}

	s = strings.Trim(s, `"`)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized date format %q", s)
}

// MarshalJSON always writes the ISO form.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// NormalizeBars sorts bars ascending by date and drops duplicate dates,
// keeping the latest occurrence. Providers return series unsorted and with
// mixed date representations; indicator math requires strictly increasing
// dates. Applying it twice yields the same sequence as applying it once.
func NormalizeBars(bars []Bar) []Bar {
	if len(bars) == 0 {
		return bars
	}

	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})

	out := sorted[:0]
	for _, b := range sorted {
		if len(out) > 0 && out[len(out)-1].Date.Equal(b.Date.Time) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// Closes extracts the close series from a bar sequence.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
