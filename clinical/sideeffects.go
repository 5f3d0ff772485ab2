package clinical

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-stepfeatures/feature"
)

// SideEffects counts the side effects active on each day with their maximum and average
// intensity. The average is 0 on days without an active side effect.
func SideEffects(t []time.Time, effects []IntensityInterval) (*feature.Set, error) {
	n := len(t)
	count := make([]float64, n)
	maxIntensity := make([]float64, n)
	avgIntensity := make([]float64, n)

	if n > 0 && len(effects) > 0 {
		days := Days(t)
		last := t[n-1]
		total := make([]float64, n)

		for idx, se := range effects {
			start, end, err := se.DayBounds(last)
			if errors.Is(err, ErrMissingStart) || errors.Is(err, ErrInvertedBounds) {
				slog.Warn("skipping invalid side effect", "index", idx, "error", err)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("unable to resolve side effect %d, %w", idx, err)
			}
			active, err := Active(days, start, end)
			if err != nil {
				return nil, fmt.Errorf("unable to derive activity of side effect %d, %w", idx, err)
			}
			for i, on := range active {
				if on == 0 {
					continue
				}
				count[i]++
				total[i] += se.Intensity
				if se.Intensity > maxIntensity[i] {
					maxIntensity[i] = se.Intensity
				}
			}
		}

		for i := range avgIntensity {
			if count[i] > 0 {
				avgIntensity[i] = total[i] / count[i]
			}
		}
	}

	fs := feature.NewSet()
	fs.Set(feature.NewClinical(feature.EntitySideEffect, feature.ClinicalStatActiveCount), count)
	fs.Set(feature.NewClinical(feature.EntitySideEffect, feature.ClinicalStatMaxIntensity), maxIntensity)
	fs.Set(feature.NewClinical(feature.EntitySideEffect, feature.ClinicalStatAvgIntensity), avgIntensity)
	return fs, nil
}
