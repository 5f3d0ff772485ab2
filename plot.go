package stepfeatures

import (
	"io"

	"github.com/aouyang1/go-stepfeatures/feature"
	"github.com/go-echarts/go-echarts/v2/components"
)

// PlotTimeline uses the Apache Echarts library to render an html page with the daily step count
// and its rolling averages, the clinical activity counts and the event recency.
func (t *Table) PlotTimeline(w io.Writer) error {
	if t.Len() == 0 {
		return ErrEmptyTable
	}

	var (
		stepNames, clinicalNames, recencyNames []string
		stepY, clinicalY, recencyY             [][]float64
	)
	for _, label := range t.Labels().Labels() {
		data, _ := t.Features.Get(label)
		switch f := label.(type) {
		case *feature.Target:
			stepNames = append(stepNames, f.String())
			stepY = append(stepY, data)
		case *feature.Rolling:
			if f.Stat != feature.RollingStatAvg {
				continue
			}
			stepNames = append(stepNames, f.String())
			stepY = append(stepY, data)
		case *feature.Clinical:
			if f.Stat != feature.ClinicalStatActiveCount && f.Stat != feature.ClinicalStatMaxIntensity {
				continue
			}
			clinicalNames = append(clinicalNames, f.String())
			clinicalY = append(clinicalY, data)
		case *feature.Recency:
			recencyNames = append(recencyNames, f.String())
			recencyY = append(recencyY, data)
		}
	}

	page := components.NewPage()
	page.AddCharts(LineTSeries("Daily Steps", stepNames, t.Dates, stepY))
	if len(clinicalNames) > 0 {
		page.AddCharts(LineTSeries("Clinical Activity", clinicalNames, t.Dates, clinicalY))
	}
	if len(recencyNames) > 0 {
		page.AddCharts(LineTSeries("Event Recency", recencyNames, t.Dates, recencyY))
	}
	return page.Render(w)
}
