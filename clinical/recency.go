package clinical

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aouyang1/go-stepfeatures/feature"
	"github.com/aouyang1/go-stepfeatures/timestamp"
)

// Recency returns the number of days since the most recent event on or before each day.
// Days before the first event hold feature.RecencySentinel and event days hold 0.
func Recency(t []time.Time, events []Event) (*feature.Set, error) {
	eventDays := make([]timestamp.Timestamp, 0, len(events))
	for idx, e := range events {
		if e.Start.IsZero() {
			slog.Warn("skipping event without a start date", "index", idx)
			continue
		}
		day, err := e.Start.Normalize(timestamp.Reference).Day()
		if err != nil {
			return nil, fmt.Errorf("unable to derive day of event %d, %w", idx, err)
		}
		eventDays = append(eventDays, normalizedDay(day))
	}
	slices.SortFunc(eventDays, func(a, b timestamp.Timestamp) int {
		return a.T.Compare(b.T)
	})

	days := Days(t)
	col := make([]float64, len(days))

	var last *timestamp.Timestamp
	j := 0
	for i, d := range days {
		for j < len(eventDays) {
			cmp, err := timestamp.Compare(eventDays[j], d)
			if err != nil {
				return nil, fmt.Errorf("unable to compare event against day, %w", err)
			}
			if cmp > 0 {
				break
			}
			last = &eventDays[j]
			j++
		}
		if last == nil {
			col[i] = feature.RecencySentinel
			continue
		}
		col[i] = float64(timestamp.DaysBetween(last.T, d.T))
	}

	fs := feature.NewSet()
	fs.Set(feature.NewRecency(feature.EntityEvent), col)
	return fs, nil
}
