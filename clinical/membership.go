package clinical

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-stepfeatures/feature"
	"github.com/aouyang1/go-stepfeatures/timestamp"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrMissingStart   = errors.New("interval has no start date")
	ErrInvertedBounds = errors.New("interval ends before it starts")
)

// Days wraps each timeline date as a normalized timestamp so it can be compared against
// clinical records.
func Days(t []time.Time) []timestamp.Timestamp {
	days := make([]timestamp.Timestamp, len(t))
	for i, d := range t {
		days[i] = normalizedDay(d)
	}
	return days
}

func normalizedDay(t time.Time) timestamp.Timestamp {
	return timestamp.FromTime(timestamp.Day(t)).Normalize(timestamp.Reference)
}

// DayBounds resolves the inclusive first and last calendar day of the interval. An open
// interval ends on last.
func (iv Interval) DayBounds(last time.Time) (timestamp.Timestamp, timestamp.Timestamp, error) {
	if iv.Start.IsZero() {
		return timestamp.Timestamp{}, timestamp.Timestamp{}, ErrMissingStart
	}
	n := iv.Normalize(timestamp.Reference)
	startDay, err := n.Start.Day()
	if err != nil {
		return timestamp.Timestamp{}, timestamp.Timestamp{}, err
	}
	start := normalizedDay(startDay)

	end := normalizedDay(last)
	if n.End != nil && !n.End.IsZero() {
		endDay, err := n.End.Day()
		if err != nil {
			return timestamp.Timestamp{}, timestamp.Timestamp{}, err
		}
		end = normalizedDay(endDay)
	}

	cmp, err := timestamp.Compare(end, start)
	if err != nil {
		return timestamp.Timestamp{}, timestamp.Timestamp{}, err
	}
	if cmp < 0 {
		return start, end, ErrInvertedBounds
	}
	return start, end, nil
}

// Active returns 1 for every day within [start, end] inclusive and 0 otherwise. days must be
// ascending. Every timestamp has to be normalized to the same zone.
func Active(days []timestamp.Timestamp, start, end timestamp.Timestamp) ([]float64, error) {
	col := make([]float64, len(days))
	for i, d := range days {
		afterStart, err := timestamp.Compare(d, start)
		if err != nil {
			return nil, fmt.Errorf("unable to compare day against interval start, %w", err)
		}
		if afterStart < 0 {
			continue
		}
		beforeEnd, err := timestamp.Compare(d, end)
		if err != nil {
			return nil, fmt.Errorf("unable to compare day against interval end, %w", err)
		}
		if beforeEnd > 0 {
			break
		}
		col[i] = 1
	}
	return col, nil
}

// IntervalMembership builds one indicator column per interval instance, the number of
// concurrently active instances per day and the average instance duration in days. Intervals
// without an id are named <kind>_<index>. Repeated ids are suffixed with _<index>, and with a
// further counter if that name is taken as well. Instances without a start or ending before
// they start get an all zero column and are excluded from the average duration.
func IntervalMembership(t []time.Time, kind feature.EntityKind, intervals []Interval) (*feature.Set, error) {
	n := len(t)
	countFeat := feature.NewClinical(kind, feature.ClinicalStatActiveCount)
	durationFeat := feature.NewClinical(kind, feature.ClinicalStatAvgDuration)

	fs := feature.NewSet()
	fs.Set(countFeat, make([]float64, n))
	if n == 0 {
		fs.Set(durationFeat, nil)
		return fs, nil
	}

	days := Days(t)
	last := t[n-1]
	count := make([]float64, n)
	var durations []float64
	seen := make(map[string]struct{})

	for idx, iv := range intervals {
		id := iv.ID
		if id == "" {
			id = fmt.Sprintf("%s_%d", kind, idx)
		}
		if _, exists := seen[id]; exists {
			next := fmt.Sprintf("%s_%d", id, idx)
			for k := 1; ; k++ {
				if _, taken := seen[next]; !taken {
					break
				}
				next = fmt.Sprintf("%s_%d_%d", id, idx, k)
			}
			slog.Warn("duplicate clinical record id, disambiguating", "kind", string(kind), "id", id, "column_id", next)
			id = next
		}
		seen[id] = struct{}{}

		col := make([]float64, n)
		start, end, err := iv.DayBounds(last)
		switch {
		case errors.Is(err, ErrMissingStart) || errors.Is(err, ErrInvertedBounds):
			slog.Warn("skipping invalid clinical interval", "kind", string(kind), "id", id, "error", err)
		case err != nil:
			return nil, fmt.Errorf("unable to resolve %s interval %q, %w", kind, id, err)
		default:
			col, err = Active(days, start, end)
			if err != nil {
				return nil, fmt.Errorf("unable to derive membership of %s interval %q, %w", kind, id, err)
			}
			durations = append(durations, float64(timestamp.DaysBetween(start.T, end.T)))
		}

		fs.Set(feature.NewMembership(kind, id), col)
		floats.Add(count, col)
	}
	fs.Set(countFeat, count)

	avgDuration := 0.0
	if len(durations) > 0 {
		avgDuration = stat.Mean(durations, nil)
	}
	fs.Set(durationFeat, constant(n, avgDuration))

	if len(intervals) > 0 {
		slog.Debug("derived interval membership", "kind", string(kind), "instances", len(intervals), "max_concurrent", floats.Max(count))
	}
	return fs, nil
}

func constant(n int, val float64) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = val
	}
	return col
}
