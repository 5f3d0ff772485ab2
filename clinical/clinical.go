package clinical

import (
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-stepfeatures/feature"
	"github.com/aouyang1/go-stepfeatures/timedataset"
)

// Derive builds every clinical feature for the timeline. Collections without records still
// produce their columns with neutral values and are reported as warnings. Neither the
// timeline nor the clinical data is modified.
func Derive(tl *timedataset.TimeDataset, data *Data, opt *Options) (*feature.Set, []MissingEntityWarning, error) {
	if tl.Len() == 0 {
		return nil, nil, fmt.Errorf("unable to derive clinical features, %w", timedataset.ErrNoData)
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if data == nil {
		data = &Data{}
	}

	n := tl.Len()
	var warnings []MissingEntityWarning

	fs := feature.NewSet()
	fs.Update(DemographicColumns(n, data.Demographics, opt.Schema, opt.asOf()))

	if len(data.Therapies) == 0 {
		warnings = append(warnings, missing(feature.EntityTherapy))
	}
	set, err := IntervalMembership(tl.T, feature.EntityTherapy, data.Therapies)
	if err != nil {
		return nil, nil, err
	}
	fs.Update(set)

	if len(data.SideEffects) == 0 {
		warnings = append(warnings, missing(feature.EntitySideEffect))
	}
	set, err = SideEffects(tl.T, data.SideEffects)
	if err != nil {
		return nil, nil, err
	}
	fs.Update(set)

	if len(data.Diagnoses) == 0 {
		warnings = append(warnings, missing(feature.EntityDiagnosis))
	}
	set, err = IntervalMembership(tl.T, feature.EntityDiagnosis, data.Diagnoses)
	if err != nil {
		return nil, nil, err
	}
	fs.Update(set)

	if len(data.Events) == 0 {
		warnings = append(warnings, missing(feature.EntityEvent))
	}
	set, err = Recency(tl.T, data.Events)
	if err != nil {
		return nil, nil, err
	}
	fs.Update(set)

	slog.Info("derived clinical features",
		"columns", fs.Len(),
		"therapies", len(data.Therapies),
		"diagnoses", len(data.Diagnoses),
		"side_effects", len(data.SideEffects),
		"events", len(data.Events),
	)
	return fs, warnings, nil
}
