package stepfeatures

import (
	"fmt"
	"io"

	"github.com/aouyang1/go-stepfeatures/clinical"
	"github.com/aouyang1/go-stepfeatures/temporal"
)

// Options configures every stage of the feature pipeline.
type Options struct {
	// Metric keeps only raw intervals of this metric. Empty keeps everything.
	Metric string `json:"metric"`

	ClinicalOptions *clinical.Options `json:"clinical_options"`
	TemporalOptions *temporal.Options `json:"temporal_options"`

	// Parallel derives clinical and temporal features concurrently.
	Parallel bool `json:"parallel"`
}

// NewDefaultOptions generates options keeping every metric with lags of 1, 7 and 30 days and
// rolling windows of 7 and 30 days.
func NewDefaultOptions() *Options {
	return &Options{
		ClinicalOptions: clinical.NewDefaultOptions(),
		TemporalOptions: temporal.NewDefaultOptions(),
	}
}

func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	metric := o.Metric
	if metric == "" {
		metric = "all"
	}
	if _, err := fmt.Fprintf(w, "%s%sMetric: %s\n", prefix, IndentExpand(indent, indentGrowth), metric); err != nil {
		return err
	}
	if o.TemporalOptions != nil {
		if _, err := fmt.Fprintf(w, "%s%sLags: %v    Rolling Windows: %v    Holidays: %t\n",
			prefix, IndentExpand(indent, indentGrowth),
			o.TemporalOptions.Lags,
			o.TemporalOptions.RollingWindows,
			o.TemporalOptions.HolidayOptions.Enabled,
		); err != nil {
			return err
		}
	}
	if o.ClinicalOptions != nil && !o.ClinicalOptions.AsOf.IsZero() {
		if _, err := fmt.Fprintf(w, "%s%sAge As Of: %s\n", prefix, IndentExpand(indent, indentGrowth), o.ClinicalOptions.AsOf.Format("2006-01-02")); err != nil {
			return err
		}
	}
	return nil
}
