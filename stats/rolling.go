package stats

import (
	"gonum.org/v1/gonum/stat"
)

// Rolling returns the trailing mean and sample standard deviation of y over the last window
// values including the current one. The first rows use however many values are available.
// The standard deviation of a single value is 0.
func Rolling(y []float64, window int) ([]float64, []float64) {
	avg := make([]float64, len(y))
	std := make([]float64, len(y))
	if window < 1 {
		return avg, std
	}

	for i := range y {
		start := max(0, i-window+1)
		vals := y[start : i+1]
		if len(vals) < 2 {
			avg[i] = vals[0]
			continue
		}
		avg[i], std[i] = stat.MeanStdDev(vals, nil)
	}
	return avg, std
}
