// Package loader reads the raw step intervals and the clinical history of a patient from a
// data directory.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/aouyang1/go-stepfeatures/clinical"
	"github.com/aouyang1/go-stepfeatures/timedataset"
	"github.com/goccy/go-json"
)

const (
	TimeseriesFile = "timeseries-data.json"
	ClinicalFile   = "categorical-data.json"

	// MetricSteps is the metric every raw interval is expected to carry.
	MetricSteps = "STEPS"
)

var ErrMissingFiles = errors.New("required data files not found")

// TimeseriesPath returns the location of the raw intervals within dir.
func TimeseriesPath(dir string) string {
	return filepath.Join(dir, TimeseriesFile)
}

// ClinicalPath returns the location of the clinical history within dir.
func ClinicalPath(dir string) string {
	return filepath.Join(dir, ClinicalFile)
}

func decodeFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("unable to decode %s, %w", path, err)
	}
	return nil
}

// LoadTimeseries reads the array of raw intervals from the timeseries file of dir.
func LoadTimeseries(dir string) ([]timedataset.RawInterval, error) {
	path := TimeseriesPath(dir)
	slog.Info("loading timeseries data", "path", path)

	var raw []timedataset.RawInterval
	if err := decodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("unable to load timeseries data, %w", err)
	}

	metrics := UniqueMetrics(raw)
	start, end := intervalRange(raw)
	slog.Info("loaded timeseries data",
		"records", len(raw),
		"start", start,
		"end", end,
		"metrics", metrics,
	)
	if len(metrics) == 1 && metrics[0] == MetricSteps {
		slog.Info("metric validation passed, all records are STEPS")
	} else if len(raw) > 0 {
		slog.Warn("timeseries data carries metrics other than STEPS", "metrics", metrics)
	}
	return raw, nil
}

// UniqueMetrics returns the sorted distinct metrics of the raw intervals.
func UniqueMetrics(raw []timedataset.RawInterval) []string {
	var metrics []string
	for _, r := range raw {
		if !slices.Contains(metrics, r.Metric) {
			metrics = append(metrics, r.Metric)
		}
	}
	slices.Sort(metrics)
	return metrics
}

func intervalRange(raw []timedataset.RawInterval) (string, string) {
	var start, end time.Time
	for i, r := range raw {
		if i == 0 || r.Start.T.Before(start) {
			start = r.Start.T
		}
		if i == 0 || r.End.T.After(end) {
			end = r.End.T
		}
	}
	if len(raw) == 0 {
		return "", ""
	}
	return start.Format(time.RFC3339), end.Format(time.RFC3339)
}

// LoadClinical reads the clinical history of the patient from the categorical file of dir.
func LoadClinical(dir string) (*clinical.Data, error) {
	path := ClinicalPath(dir)
	slog.Info("loading clinical data", "path", path)

	data := new(clinical.Data)
	if err := decodeFile(path, data); err != nil {
		return nil, fmt.Errorf("unable to load clinical data, %w", err)
	}

	slog.Info("loaded clinical data",
		"gender", data.Gender,
		"birth_year", data.BirthYear,
		"disease", data.Disease,
		"therapies", len(data.Therapies),
		"side_effects", len(data.SideEffects),
		"diagnoses", len(data.Diagnoses),
		"events", len(data.Events),
	)
	return data, nil
}

// LoadAll reads both the raw intervals and the clinical history of dir.
func LoadAll(dir string) ([]timedataset.RawInterval, *clinical.Data, error) {
	raw, err := LoadTimeseries(dir)
	if err != nil {
		return nil, nil, err
	}
	data, err := LoadClinical(dir)
	if err != nil {
		return nil, nil, err
	}
	return raw, data, nil
}

// FilesExist checks that both data files are present in dir, logging every missing file.
// ErrMissingFiles is returned if any is absent.
func FilesExist(dir string) error {
	var missing []string
	for _, path := range []string{TimeseriesPath(dir), ClinicalPath(dir)} {
		if _, err := os.Stat(path); err != nil {
			slog.Error("data file not found", "path", path, "error", err)
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%v, %w", missing, ErrMissingFiles)
	}
	return nil
}
