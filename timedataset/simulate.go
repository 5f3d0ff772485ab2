package timedataset

import (
	"math"
	"math/rand"
	"time"

	"github.com/aouyang1/go-stepfeatures/timestamp"
	"gonum.org/v1/gonum/floats"
)

// GenerateDays returns n consecutive calendar days ending the day before nowFunc.
func GenerateDays(n int, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := timestamp.Day(nowFunc().UTC()).AddDate(0, 0, -n)
	for i := 0; i < n; i++ {
		t = append(t, ct.AddDate(0, 0, i))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// SetConst sets every day in [start, end) to val.
func (s Series) SetConst(t []time.Time, val float64, start, end time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if (t[i].After(start) || t[i].Equal(start)) && t[i].Before(end) {
			s[i] = val
		}
	}
	return s
}

func (s Series) MaskWithWeekend(t []time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		switch t[i].Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			s[i] = 0.0
		}
	}
	return s
}

// ClampMin raises every value below floor up to floor. Step counts are never negative.
func (s Series) ClampMin(floor float64) Series {
	for i := range s {
		if s[i] < floor {
			s[i] = floor
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateWaveY generates a sine wave with a period expressed in days.
func GenerateWaveY(t []time.Time, amp, periodDays, order, dayOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		day := float64(t[i].Unix()) / 86400.0
		val := amp * math.Sin(2.0*math.Pi*order/periodDays*(day+dayOffset))
		y = append(y, val)
	}
	return Series(y)
}

func GenerateNoise(n int, noiseScale float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rand.NormFloat64()*noiseScale)
	}
	return Series(y)
}

// GenerateIntervals splits each daily total into bucketsPerDay raw step intervals spread
// evenly across the waking hours of the day and expressed in loc. Days with a total of zero
// produce no intervals, like a wearable that was not worn.
func GenerateIntervals(t []time.Time, y []float64, bucketsPerDay int, loc *time.Location) []RawInterval {
	if bucketsPerDay < 1 {
		bucketsPerDay = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	spacing := 14 * time.Hour / time.Duration(bucketsPerDay)

	raw := make([]RawInterval, 0, len(t)*bucketsPerDay)
	for i, day := range t {
		if y[i] == 0 {
			continue
		}
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 7, 0, 0, 0, loc)
		perBucket := y[i] / float64(bucketsPerDay)
		for b := 0; b < bucketsPerDay; b++ {
			start := dayStart.Add(time.Duration(b) * spacing)
			raw = append(raw, RawInterval{
				Metric: "STEPS",
				Count:  perBucket,
				Start:  timestamp.FromTime(start),
				End:    timestamp.FromTime(start.Add(5 * time.Minute)),
			})
		}
	}
	return raw
}
