package stepfeatures

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aouyang1/go-stepfeatures/feature"
	fmat "github.com/aouyang1/go-stepfeatures/mat"
	"github.com/aouyang1/go-stepfeatures/stats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoTarget          = errors.New("feature table has no target column")
	ErrNoFeatures        = errors.New("no informative feature columns")
	ErrNoCompleteRows    = errors.New("no rows without missing values")
	ErrInvalidTrainRatio = errors.New("train ratio must be within (0, 1]")
)

// DesignOptions configures how a feature table is turned into model inputs.
type DesignOptions struct {
	// TrainRatio is the leading share of complete rows used for training. The remaining rows are
	// held out in chronological order.
	TrainRatio float64 `json:"train_ratio"`
}

func NewDefaultDesignOptions() *DesignOptions {
	return &DesignOptions{
		TrainRatio: 0.8,
	}
}

// Design holds the model inputs of a feature table split chronologically into a training and
// a test window.
type Design struct {
	Labels  *feature.Labels
	Dropped []string
	Counts  map[string]int

	TrainDates []time.Time
	TrainX     *mat.Dense
	TrainY     []float64

	TestDates []time.Time
	TestX     *mat.Dense
	TestY     []float64
}

// informative reports whether a column has at least two distinct non NaN values.
func informative(data []float64) bool {
	first := math.NaN()
	for _, v := range data {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(first) {
			first = v
			continue
		}
		if v != first {
			return true
		}
	}
	return false
}

// Design excludes the target, drops columns that are entirely NaN or constant, drops rows with
// any NaN left and splits the remaining rows chronologically.
func (t *Table) Design(opt *DesignOptions) (*Design, error) {
	if opt == nil {
		opt = NewDefaultDesignOptions()
	}
	if opt.TrainRatio <= 0 || opt.TrainRatio > 1 {
		return nil, fmt.Errorf("train ratio of %.3f, %w", opt.TrainRatio, ErrInvalidTrainRatio)
	}
	target := t.Target()
	if target == nil {
		return nil, ErrNoTarget
	}

	fs := t.Features.Copy()
	var dropped []string
	for _, label := range fs.Labels().Labels() {
		if label.Type() == feature.FeatureTypeTarget {
			fs.Del(label)
			continue
		}
		data, _ := fs.Get(label)
		if !informative(data) {
			dropped = append(dropped, label.String())
			fs.Del(label)
		}
	}
	if fs.Len() == 0 {
		return nil, ErrNoFeatures
	}
	labels := fs.Labels()

	var (
		rows  []int
		dates []time.Time
		y     []float64
	)
	for i := range t.Dates {
		complete := !math.IsNaN(target[i])
		for _, label := range labels.Labels() {
			data, _ := fs.Get(label)
			if math.IsNaN(data[i]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		rows = append(rows, i)
		dates = append(dates, t.Dates[i])
		y = append(y, target[i])
	}
	if len(rows) == 0 {
		return nil, ErrNoCompleteRows
	}

	kept := feature.NewSet()
	counts := make(map[string]int)
	for _, label := range labels.Labels() {
		data, _ := fs.Get(label)
		col := make([]float64, len(rows))
		for j, i := range rows {
			col[j] = data[i]
		}
		kept.Set(label, col)
		counts[label.Type().String()]++
	}
	x := kept.Matrix(false)

	split := int(float64(len(rows)) * opt.TrainRatio)
	trainX, testX, err := fmat.SplitRows(x, split)
	if err != nil {
		return nil, fmt.Errorf("unable to split design matrix, %w", err)
	}

	d := &Design{
		Labels:     labels,
		Dropped:    dropped,
		Counts:     counts,
		TrainDates: dates[:split],
		TrainX:     trainX,
		TrainY:     y[:split],
		TestDates:  dates[split:],
		TestX:      testX,
		TestY:      y[split:],
	}
	slog.Info("prepared design matrix",
		"features", labels.Len(),
		"dropped", len(dropped),
		"complete_rows", len(rows),
		"train", len(d.TrainY),
		"test", len(d.TestY),
	)
	return d, nil
}

// Collinearity returns the variance inflation factor of every feature over the training rows.
func (d *Design) Collinearity() (map[string]float64, error) {
	if d.TrainX == nil {
		return nil, ErrNoCompleteRows
	}
	features := make(map[string][]float64)
	for _, label := range d.Labels.Labels() {
		features[label.String()], _ = d.TrainColumn(label)
	}
	return stats.VarianceInflationFactor(features)
}

// TrainColumn returns the training values of a feature kept in the design.
func (d *Design) TrainColumn(f feature.Feature) ([]float64, bool) {
	j, exists := d.Labels.Index(f)
	if !exists || d.TrainX == nil {
		return nil, false
	}
	return mat.Col(nil, j, d.TrainX), true
}
