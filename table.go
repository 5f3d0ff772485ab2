package stepfeatures

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-stepfeatures/clinical"
	"github.com/aouyang1/go-stepfeatures/feature"
	"github.com/aouyang1/go-stepfeatures/stats"
	"github.com/aouyang1/go-stepfeatures/timedataset"
	"github.com/aouyang1/go-stepfeatures/timestamp"
	"github.com/goccy/go-json"
)

var (
	ErrEmptyTable     = errors.New("feature table has no rows")
	ErrRowLenMismatch = errors.New("row has a different number of values than the schema")
)

// Table is the merged daily feature table. Row i of every feature column belongs to Dates[i].
// Lag and rolling columns hold NaN where not enough history exists.
type Table struct {
	Dates    []time.Time
	Features *feature.Set
	Warnings []clinical.MissingEntityWarning
	Summary  stats.Summary
}

// Len returns the number of days in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Dates)
}

// Range returns the first and last day of the table.
func (t *Table) Range() (time.Time, time.Time) {
	if t == nil {
		return time.Time{}, time.Time{}
	}
	dates := timedataset.TimeSlice(t.Dates)
	return dates.StartTime(), dates.EndTime()
}

// Labels returns the feature columns in order.
func (t *Table) Labels() *feature.Labels {
	return t.Features.Labels()
}

// Column returns the values of a feature column by name.
func (t *Table) Column(name string) ([]float64, bool) {
	_, data, exists := t.Features.GetByName(name)
	return data, exists
}

// Target returns the daily step counts.
func (t *Table) Target() []float64 {
	data, _ := t.Features.Get(feature.DailySteps())
	return data
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes the table with a Date column followed by every feature column. NaN values are
// written as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	labels := t.Labels().Labels()
	cols := make([][]float64, len(labels))
	header := make([]string, 0, len(labels)+1)
	header = append(header, "Date")
	for i, label := range labels {
		header = append(header, label.String())
		cols[i], _ = t.Features.Get(label)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("unable to write csv header, %w", err)
	}
	record := make([]string, len(header))
	for i, d := range t.Dates {
		record[0] = d.Format(time.DateOnly)
		for j, col := range cols {
			record[j+1] = formatValue(col[i])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("unable to write csv row %d, %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type tableRowJSON struct {
	Date   string     `json:"date"`
	Values []*float64 `json:"values"`
}

type tableJSON struct {
	Schema          []feature.Descriptor `json:"schema"`
	Rows            []tableRowJSON       `json:"rows"`
	MissingEntities []feature.EntityKind `json:"missing_entities,omitempty"`
}

// MarshalJSON writes the column schema and one value array per day in schema order. NaN values
// are written as null.
func (t *Table) MarshalJSON() ([]byte, error) {
	labels := t.Labels()
	out := tableJSON{
		Schema: labels.Schema(),
		Rows:   make([]tableRowJSON, len(t.Dates)),
	}
	if out.Schema == nil {
		out.Schema = []feature.Descriptor{}
	}
	for _, w := range t.Warnings {
		out.MissingEntities = append(out.MissingEntities, w.Kind)
	}

	cols := make([][]float64, labels.Len())
	for i, label := range labels.Labels() {
		cols[i], _ = t.Features.Get(label)
	}
	for i, d := range t.Dates {
		values := make([]*float64, len(cols))
		for j, col := range cols {
			if math.IsNaN(col[i]) {
				continue
			}
			v := col[i]
			values[j] = &v
		}
		out.Rows[i] = tableRowJSON{Date: d.Format(time.DateOnly), Values: values}
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds a table written by MarshalJSON, reconstructing every typed feature from
// the schema.
func (t *Table) UnmarshalJSON(b []byte) error {
	var in tableJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	labels := make([]feature.Feature, len(in.Schema))
	for i, d := range in.Schema {
		f, err := d.Feature()
		if err != nil {
			return fmt.Errorf("unable to load column %d of schema, %w", i, err)
		}
		labels[i] = f
	}

	dates := make([]time.Time, len(in.Rows))
	cols := make([][]float64, len(labels))
	for j := range cols {
		cols[j] = make([]float64, len(in.Rows))
	}
	for i, row := range in.Rows {
		d, err := time.ParseInLocation(time.DateOnly, row.Date, timestamp.Reference)
		if err != nil {
			return fmt.Errorf("unable to parse date of row %d, %w", i, err)
		}
		dates[i] = d
		if len(row.Values) != len(labels) {
			return fmt.Errorf("row %d has %d values for %d columns, %w", i, len(row.Values), len(labels), ErrRowLenMismatch)
		}
		for j, v := range row.Values {
			if v == nil {
				cols[j][i] = math.NaN()
				continue
			}
			cols[j][i] = *v
		}
	}

	fs := feature.NewSet()
	for j, label := range labels {
		fs.Set(label, cols[j])
	}

	next := Table{
		Dates:    dates,
		Features: fs,
	}
	for _, kind := range in.MissingEntities {
		next.Warnings = append(next.Warnings, clinical.MissingEntityWarning{Kind: kind})
	}
	if target := next.Target(); target != nil {
		next.Summary = stats.Summarize(target)
	}
	*t = next
	return nil
}

// columnStats returns the min, max and mean of the non NaN values and the number of NaN values.
func columnStats(data []float64) (float64, float64, float64, int) {
	minVal, maxVal, sum := math.Inf(1), math.Inf(-1), 0.0
	var nan, n int
	for _, v := range data {
		if math.IsNaN(v) {
			nan++
			continue
		}
		n++
		sum += v
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if n == 0 {
		return math.NaN(), math.NaN(), math.NaN(), nan
	}
	return minVal, maxVal, sum / float64(n), nan
}

// TablePrint writes a human readable summary of the table and every column.
func (t *Table) TablePrint(w io.Writer, prefix, indent string) error {
	if t.Len() == 0 {
		return ErrEmptyTable
	}
	start, end := t.Range()

	if _, err := fmt.Fprintf(w, "%s%sFeature Table:\n", prefix, IndentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sRange: %s to %s (%d days)\n",
		prefix, IndentExpand(indent, 1),
		start.Format(time.DateOnly), end.Format(time.DateOnly), t.Len()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sDaily Steps: Mean: %.1f    Min: %.0f    Max: %.0f    Zero Days: %d    Outliers: %d\n",
		prefix, IndentExpand(indent, 1),
		t.Summary.Mean, t.Summary.Min, t.Summary.Max, t.Summary.Zeros, t.Summary.Outliers); err != nil {
		return err
	}

	missing := " None"
	if len(t.Warnings) > 0 {
		missing = ""
		for _, warning := range t.Warnings {
			missing += " " + string(warning.Kind)
		}
	}
	if _, err := fmt.Fprintf(w, "%s%sMissing Entities:%s\n", prefix, IndentExpand(indent, 1), missing); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sColumns:\n", prefix, IndentExpand(indent, 1)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "%s%sName\tType\tMin\tMax\tMean\tNaN\t\n", prefix, IndentExpand(indent, 2))
	for _, label := range t.Labels().Labels() {
		data, _ := t.Features.Get(label)
		minVal, maxVal, mean, nan := columnStats(data)
		fmt.Fprintf(tbl, "%s%s%s\t%s\t%.3f\t%.3f\t%.3f\t%d\t\n",
			prefix, IndentExpand(indent, 2),
			label.String(), label.Type(), minVal, maxVal, mean, nan)
	}
	return tbl.Flush()
}
