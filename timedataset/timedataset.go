package timedataset

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aouyang1/go-stepfeatures/timestamp"
)

var (
	ErrNoData             = errors.New("no data to derive a date range from")
	ErrNonContiguous      = errors.New("timeline is not contiguous by calendar day")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
)

// RawInterval is a single measured burst from a wearable, e.g. a step count bucket.
type RawInterval struct {
	Metric string              `json:"metric"`
	Count  float64             `json:"count"`
	Start  timestamp.Timestamp `json:"start"`
	End    timestamp.Timestamp `json:"end"`
}

// Normalize returns a copy of the interval with start and end pinned to ref.
func (r RawInterval) Normalize(ref *time.Location) RawInterval {
	r.Start = r.Start.Normalize(ref)
	r.End = r.End.Normalize(ref)
	return r
}

// DailyRecord is the aggregated value of a single calendar day.
type DailyRecord struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// FilterMetric keeps the intervals matching metric. An empty metric keeps everything. The
// number of dropped intervals is returned alongside.
func FilterMetric(raw []RawInterval, metric string) ([]RawInterval, int) {
	if metric == "" {
		return raw, 0
	}
	kept := make([]RawInterval, 0, len(raw))
	for _, r := range raw {
		if r.Metric != metric {
			continue
		}
		kept = append(kept, r)
	}
	return kept, len(raw) - len(kept)
}

// AggregateDaily sums interval counts per calendar day. The day is taken from the normalized
// start of the interval only, so an interval spanning midnight counts towards its start day.
// Intervals that are not normalized yet are pinned to timestamp.Reference. The result is
// ordered by date.
func AggregateDaily(raw []RawInterval) ([]DailyRecord, error) {
	if len(raw) == 0 {
		return nil, ErrNoData
	}

	sums := make(map[int64]float64)
	for _, r := range raw {
		start := r.Start
		if !start.Normalized() {
			start = start.Normalize(timestamp.Reference)
		}
		day, err := start.Day()
		if err != nil {
			return nil, fmt.Errorf("unable to derive day of interval, %w", err)
		}
		sums[day.Unix()] += r.Count
	}

	days := make([]int64, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	slices.Sort(days)

	records := make([]DailyRecord, 0, len(days))
	for _, day := range days {
		records = append(records, DailyRecord{
			Date:  time.Unix(day, 0).In(timestamp.Reference),
			Value: sums[day],
		})
	}
	return records, nil
}

// Densify expands daily records into a contiguous daily timeline from the earliest to the
// latest date inclusive. Days without a record are filled with 0, meaning no measured
// activity. Runs in time proportional to the span of the timeline.
func Densify(records []DailyRecord) (*TimeDataset, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	minDate := timestamp.Day(records[0].Date)
	maxDate := minDate
	for _, rec := range records[1:] {
		day := timestamp.Day(rec.Date)
		if day.Before(minDate) {
			minDate = day
		}
		if day.After(maxDate) {
			maxDate = day
		}
	}

	n := timestamp.DaysBetween(minDate, maxDate) + 1
	t := make([]time.Time, n)
	y := make([]float64, n)
	present := make([]bool, n)
	for i := 0; i < n; i++ {
		t[i] = minDate.AddDate(0, 0, i)
	}
	for _, rec := range records {
		idx := timestamp.DaysBetween(minDate, rec.Date)
		y[idx] += rec.Value
		present[idx] = true
	}

	var missing int
	for _, p := range present {
		if !p {
			missing++
		}
	}
	if missing > 0 {
		slog.Warn("found missing days in timeline, filling with 0", "missing_days", missing)
	}

	return &TimeDataset{T: t, Y: y}, nil
}

// TimeDataset is a dense daily timeline: T holds one midnight per calendar day, strictly
// increasing by exactly one day, and Y the value of each day. Both must be of the same length.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewDailyDataset validates that t is a gap free daily sequence and returns a copy of the
// input as a TimeDataset.
func NewDailyDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}
	for i := 1; i < len(t); i++ {
		if diff := timestamp.DaysBetween(t[i-1], t[i]); diff != 1 {
			return nil, fmt.Errorf("day step of %d at %d, %w", diff, i, ErrNonContiguous)
		}
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	for i := range t {
		tSeries[i] = timestamp.Day(t[i])
	}
	copy(ySeries, y)
	return &TimeDataset{T: tSeries, Y: ySeries}, nil
}

func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// Len returns the number of days in the timeline.
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}
