// Package stepfeatures turns raw wearable step intervals and a patient's clinical history into a
// gap free daily feature table ready to be handed to a forecasting model.
package stepfeatures

import (
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-stepfeatures/clinical"
	"github.com/aouyang1/go-stepfeatures/feature"
	"github.com/aouyang1/go-stepfeatures/stats"
	"github.com/aouyang1/go-stepfeatures/temporal"
	"github.com/aouyang1/go-stepfeatures/timedataset"
	"github.com/aouyang1/go-stepfeatures/timestamp"
	"golang.org/x/sync/errgroup"
)

// Pipeline normalizes, aggregates and densifies raw intervals into a daily timeline and derives
// the clinical and temporal features of every day.
type Pipeline struct {
	opt *Options
}

// New creates a pipeline using the provided options. If no options are provided a default is
// used.
func New(opt *Options) (*Pipeline, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	next := *opt
	if next.ClinicalOptions == nil {
		next.ClinicalOptions = clinical.NewDefaultOptions()
	}
	if next.TemporalOptions == nil {
		next.TemporalOptions = temporal.NewDefaultOptions()
	}
	temporalOpt, err := next.TemporalOptions.Validate()
	if err != nil {
		return nil, fmt.Errorf("unable to initialize pipeline, %w", err)
	}
	next.TemporalOptions = temporalOpt
	return &Pipeline{opt: &next}, nil
}

// Options returns the validated options of the pipeline.
func (p *Pipeline) Options() *Options {
	return p.opt
}

// Preprocess filters, normalizes and aggregates raw intervals to daily totals and fills every
// missing day between the first and last day with 0.
func (p *Pipeline) Preprocess(raw []timedataset.RawInterval) (*timedataset.TimeDataset, error) {
	filtered, dropped := timedataset.FilterMetric(raw, p.opt.Metric)
	if dropped > 0 {
		slog.Warn("dropped intervals of other metrics", "metric", p.opt.Metric, "dropped", dropped, "kept", len(filtered))
	}

	normalized := make([]timedataset.RawInterval, len(filtered))
	for i, r := range filtered {
		normalized[i] = r.Normalize(timestamp.Reference)
	}

	records, err := timedataset.AggregateDaily(normalized)
	if err != nil {
		return nil, fmt.Errorf("unable to aggregate daily totals, %w", err)
	}

	tl, err := timedataset.Densify(records)
	if err != nil {
		return nil, fmt.Errorf("unable to densify daily timeline, %w", err)
	}

	summary := stats.Summarize(tl.Y)
	days := timedataset.TimeSlice(tl.T)
	slog.Info("preprocessed daily timeline",
		"intervals", len(normalized),
		"start", days.StartTime().Format("2006-01-02"),
		"end", days.EndTime().Format("2006-01-02"),
		"days", days.SpanDays(),
		"filled_days", tl.Len()-len(records),
		"mean_steps", summary.Mean,
		"min_steps", summary.Min,
		"max_steps", summary.Max,
	)
	return tl, nil
}

// Run preprocesses the raw intervals and derives the feature table.
func (p *Pipeline) Run(raw []timedataset.RawInterval, data *clinical.Data) (*Table, error) {
	tl, err := p.Preprocess(raw)
	if err != nil {
		return nil, err
	}
	return p.Derive(tl, data)
}

// Derive builds the feature table of an existing dense timeline. The target column comes first,
// followed by the clinical and then the temporal features.
func (p *Pipeline) Derive(tl *timedataset.TimeDataset, data *clinical.Data) (*Table, error) {
	if tl.Len() == 0 {
		return nil, fmt.Errorf("unable to derive features, %w", timedataset.ErrNoData)
	}
	tl = tl.Copy()

	var (
		clinicalSet *feature.Set
		warnings    []clinical.MissingEntityWarning
		temporalSet *feature.Set
	)
	deriveClinical := func() error {
		var err error
		clinicalSet, warnings, err = clinical.Derive(tl, data, p.opt.ClinicalOptions)
		if err != nil {
			return fmt.Errorf("unable to derive clinical features, %w", err)
		}
		return nil
	}
	deriveTemporal := func() error {
		var err error
		temporalSet, err = temporal.Derive(tl, p.opt.TemporalOptions)
		if err != nil {
			return fmt.Errorf("unable to derive temporal features, %w", err)
		}
		return nil
	}

	if p.opt.Parallel {
		var g errgroup.Group
		g.Go(deriveClinical)
		g.Go(deriveTemporal)
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		if err := deriveClinical(); err != nil {
			return nil, err
		}
		if err := deriveTemporal(); err != nil {
			return nil, err
		}
	}

	fs := feature.NewSet()
	fs.Set(feature.DailySteps(), tl.Y)
	fs.Update(clinicalSet)
	fs.Update(temporalSet)

	table := &Table{
		Dates:    tl.T,
		Features: fs,
		Warnings: warnings,
		Summary:  stats.Summarize(tl.Y),
	}
	slog.Info("built feature table", "rows", table.Len(), "columns", fs.Len(), "warnings", len(warnings))
	return table, nil
}
