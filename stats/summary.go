package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a daily series.
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Zeros    int     `json:"zeros"`
	Outliers int     `json:"outliers"`
}

// Summarize computes the summary statistics of y. Outliers are values beyond 1.5 times the
// interquartile range.
func Summarize(y []float64) Summary {
	if len(y) == 0 {
		return Summary{}
	}

	s := Summary{
		Count: len(y),
		Min:   floats.Min(y),
		Max:   floats.Max(y),
	}
	if len(y) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(y, nil)
	} else {
		s.Mean = y[0]
	}
	for _, v := range y {
		if v == 0 {
			s.Zeros++
		}
	}
	s.Outliers = len(DetectOutliers(y, 0.25, 0.75, 1.5))
	return s
}
