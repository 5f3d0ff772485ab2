package timestamp

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testData := map[string]struct {
		input    string
		expected Timestamp
		err      error
	}{
		"empty": {
			input: "  ",
			err:   ErrEmptyTimestamp,
		},
		"garbage": {
			input: "yesterday",
			err:   ErrUnparseableTimestamp,
		},
		"utc suffix": {
			input:    "2024-01-01T10:00:00Z",
			expected: Timestamp{T: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), Origin: OriginAware},
		},
		"offset with fraction": {
			input: "2024-01-01T10:00:00.250+02:00",
			expected: Timestamp{
				T:      time.Date(2024, 1, 1, 10, 0, 0, 250000000, time.FixedZone("", 2*60*60)),
				Origin: OriginAware,
			},
		},
		"naive date time": {
			input:    "2024-01-01T10:00:00",
			expected: Timestamp{T: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), Origin: OriginNaive},
		},
		"naive with space": {
			input:    "2024-01-01 23:59:59",
			expected: Timestamp{T: time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC), Origin: OriginNaive},
		},
		"date only": {
			input:    "2024-03-05",
			expected: Timestamp{T: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Origin: OriginNaive},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ts, err := Parse(td.input)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected.Origin, ts.Origin)
			assert.True(t, td.expected.T.Equal(ts.T), "expected %s, got %s", td.expected.T, ts.T)
		})
	}
}

func TestNormalize(t *testing.T) {
	testData := map[string]struct {
		input    string
		expected time.Time
	}{
		"naive keeps wall clock": {
			input:    "2024-01-01T23:30:00",
			expected: time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC),
		},
		"aware shifts into reference": {
			input:    "2024-01-01T23:30:00-05:00",
			expected: time.Date(2024, 1, 2, 4, 30, 0, 0, time.UTC),
		},
		"aware already utc": {
			input:    "2024-01-01T23:30:00Z",
			expected: time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ts := MustParse(td.input).Normalize(nil)
			assert.Equal(t, OriginNormalized, ts.Origin)
			assert.Equal(t, td.expected, ts.T)
			assert.Equal(t, time.UTC, ts.T.Location())
		})
	}
}

func TestNormalizeNaiveIgnoresParsedLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	ts := Naive(time.Date(2024, 6, 1, 8, 0, 0, 0, loc)).Normalize(time.UTC)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), ts.T)
}

func TestCompare(t *testing.T) {
	early := MustParse("2024-01-01T00:00:00Z").Normalize(nil)
	late := MustParse("2024-01-01T01:00:00").Normalize(nil)

	cmp, err := Compare(early, late)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = Compare(late, early)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)

	cmp, err = Compare(early, early)
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestCompareMismatch(t *testing.T) {
	testData := map[string]struct {
		a Timestamp
		b Timestamp
	}{
		"naive against normalized": {
			a: MustParse("2024-01-01T00:00:00"),
			b: MustParse("2024-01-01T00:00:00Z").Normalize(nil),
		},
		"aware against naive": {
			a: MustParse("2024-01-01T00:00:00Z"),
			b: MustParse("2024-01-01T00:00:00"),
		},
		"different reference zones": {
			a: MustParse("2024-01-01T00:00:00Z").Normalize(time.UTC),
			b: MustParse("2024-01-01T00:00:00Z").Normalize(time.FixedZone("UTC-8", -8*60*60)),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := Compare(td.a, td.b)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTimezoneMismatch)

			var mismatch *TimezoneMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, td.a.Origin, mismatch.Left)
		})
	}
}

func TestTimestampDay(t *testing.T) {
	_, err := MustParse("2024-01-01T10:00:00").Day()
	assert.ErrorIs(t, err, ErrTimezoneMismatch)

	day, err := MustParse("2024-01-01T22:00:00-04:00").Normalize(nil).Day()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), day)
}

func TestDaysBetween(t *testing.T) {
	testData := map[string]struct {
		a        time.Time
		b        time.Time
		expected int
	}{
		"same day": {
			a:        time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
			b:        time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC),
			expected: 0,
		},
		"leap year span": {
			a:        time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
			b:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			expected: 2,
		},
		"backwards": {
			a:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			b:        time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
			expected: -7,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, DaysBetween(td.a, td.b))
		})
	}
}

func TestTimestampJSON(t *testing.T) {
	var out struct {
		Start Timestamp  `json:"start"`
		End   *Timestamp `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-01-01T10:00:00+01:00","end":null}`), &out))
	assert.Equal(t, OriginAware, out.Start.Origin)
	assert.Nil(t, out.End)

	b, err := json.Marshal(out.Start.Normalize(nil))
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-01T09:00:00Z"`, string(b))

	var empty Timestamp
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.True(t, empty.IsZero())

	var bad Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"not a time"`), &bad))
}
