// Package timestamp normalizes raw timestamps that may or may not carry timezone information
// into a single reference zone so they can be compared against a daily timeline.
package timestamp

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

var (
	ErrEmptyTimestamp       = errors.New("empty timestamp")
	ErrUnparseableTimestamp = errors.New("unparseable timestamp")
	ErrTimezoneMismatch     = errors.New("timestamps must be normalized to the same zone before comparing")
)

// Reference is the zone every timestamp is pinned to before it is compared against a timeline.
var Reference = time.UTC

// Origin records whether a timestamp arrived with zone information and whether it has
// already been pinned to a reference zone.
type Origin int

const (
	OriginNaive Origin = iota
	OriginAware
	OriginNormalized
)

func (o Origin) String() string {
	switch o {
	case OriginNaive:
		return "naive"
	case OriginAware:
		return "aware"
	case OriginNormalized:
		return "normalized"
	}
	return fmt.Sprintf("origin(%d)", int(o))
}

var (
	awareLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05.999999999Z0700",
		"2006-01-02T15:04Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		time.DateOnly,
	}
)

// Timestamp is a point in time along with where its zone information came from. Naive
// timestamps hold their wall clock in T with an unspecified location.
type Timestamp struct {
	T      time.Time
	Origin Origin
}

// Parse reads a timestamp string. Strings carrying an offset or a Z suffix are aware, all
// others are naive.
func Parse(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, ErrEmptyTimestamp
	}
	for _, layout := range awareLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{T: t, Origin: OriginAware}, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{T: t, Origin: OriginNaive}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("%q, %w", s, ErrUnparseableTimestamp)
}

// MustParse is like Parse but panics on error. Intended for tests and static fixtures.
func MustParse(s string) Timestamp {
	ts, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// FromTime wraps a zone aware time value.
func FromTime(t time.Time) Timestamp {
	return Timestamp{T: t, Origin: OriginAware}
}

// Naive wraps a time value whose wall clock should be interpreted without its location.
func Naive(t time.Time) Timestamp {
	return Timestamp{T: t, Origin: OriginNaive}
}

// IsZero reports whether the timestamp was never set.
func (ts Timestamp) IsZero() bool {
	return ts.T.IsZero()
}

// Normalized reports whether the timestamp has been pinned to a reference zone.
func (ts Timestamp) Normalized() bool {
	return ts.Origin == OriginNormalized
}

// Normalize pins the timestamp to ref. A naive timestamp keeps its wall clock and has ref
// attached, an aware timestamp is shifted into ref. A nil ref uses Reference.
func (ts Timestamp) Normalize(ref *time.Location) Timestamp {
	if ref == nil {
		ref = Reference
	}
	if ts.Origin == OriginNaive {
		y, m, d := ts.T.Date()
		hh, mm, ss := ts.T.Clock()
		return Timestamp{
			T:      time.Date(y, m, d, hh, mm, ss, ts.T.Nanosecond(), ref),
			Origin: OriginNormalized,
		}
	}
	return Timestamp{T: ts.T.In(ref), Origin: OriginNormalized}
}

// Day returns the calendar date of a normalized timestamp as midnight in its zone.
func (ts Timestamp) Day() (time.Time, error) {
	if !ts.Normalized() {
		return time.Time{}, &TimezoneMismatchError{Left: ts.Origin, Right: OriginNormalized}
	}
	return Day(ts.T), nil
}

func (ts Timestamp) String() string {
	switch ts.Origin {
	case OriginNaive:
		return ts.T.Format("2006-01-02T15:04:05.999999999")
	default:
		return ts.T.Format(time.RFC3339Nano)
	}
}

// MarshalJSON writes the timestamp in the same layout it was read with.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

// UnmarshalJSON reads a timestamp string. A JSON null or an empty string leaves the timestamp
// unset.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := Parse(*s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// TimezoneMismatchError is returned when a comparison is attempted between timestamps that
// are not both normalized to the same zone.
type TimezoneMismatchError struct {
	Left  Origin
	Right Origin
}

func (e *TimezoneMismatchError) Error() string {
	return fmt.Sprintf("cannot compare %s timestamp with %s timestamp, %s", e.Left, e.Right, ErrTimezoneMismatch)
}

func (e *TimezoneMismatchError) Unwrap() error {
	return ErrTimezoneMismatch
}

// Compare returns -1, 0 or 1 if a is before, equal to or after b. Both timestamps must be
// normalized to the same zone.
func Compare(a, b Timestamp) (int, error) {
	if !a.Normalized() || !b.Normalized() {
		return 0, &TimezoneMismatchError{Left: a.Origin, Right: b.Origin}
	}
	if a.T.Location().String() != b.T.Location().String() {
		return 0, &TimezoneMismatchError{Left: a.Origin, Right: b.Origin}
	}
	return a.T.Compare(b.T), nil
}

// Day truncates t to midnight of its calendar date in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b. Negative if b is before a.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Day(b).Sub(Day(a)).Hours() / 24.0))
}
