package feature

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Set holds the data of each feature keyed by the string representation of the feature. Features
// keep the order they were first added in, which is the column order of the feature table.
// Every column has the same number of rows, shorter columns are padded with NaN.
type Set struct {
	m      int
	set    map[string][]float64
	labels []Feature
}

func NewSet() *Set {
	return &Set{
		set: make(map[string][]float64),
	}
}

// Set stores a copy of data for the feature, replacing the data of an existing feature in
// place.
func (s *Set) Set(f Feature, data []float64) *Set {
	if s.set == nil {
		s.set = make(map[string][]float64)
	}

	col := make([]float64, len(data))
	copy(col, data)

	if len(col) > s.m {
		for name, existing := range s.set {
			s.set[name] = padNaN(existing, len(col))
		}
		s.m = len(col)
	}
	col = padNaN(col, s.m)

	name := f.String()
	if _, exists := s.set[name]; !exists {
		s.labels = append(s.labels, f)
	}
	s.set[name] = col
	return s
}

func padNaN(data []float64, m int) []float64 {
	for len(data) < m {
		data = append(data, math.NaN())
	}
	return data
}

// Get returns the data of a feature. The returned slice is owned by the set and must not be
// modified.
func (s *Set) Get(f Feature) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	data, exists := s.set[f.String()]
	return data, exists
}

// GetByName looks up a feature and its data by column name.
func (s *Set) GetByName(name string) (Feature, []float64, bool) {
	if s == nil {
		return nil, nil, false
	}
	data, exists := s.set[name]
	if !exists {
		return nil, nil, false
	}
	for _, label := range s.labels {
		if label.String() == name {
			return label, data, true
		}
	}
	return nil, nil, false
}

func (s *Set) Del(f Feature) *Set {
	name := f.String()
	if _, exists := s.set[name]; !exists {
		return s
	}
	delete(s.set, name)
	s.labels = slices.DeleteFunc(s.labels, func(label Feature) bool {
		return label.String() == name
	})
	if len(s.labels) == 0 {
		s.labels = nil
		s.m = 0
	}
	return s
}

// Update adds or replaces every feature of other in the order of other.
func (s *Set) Update(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, label := range other.labels {
		s.Set(label, other.set[label.String()])
	}
	return s
}

// Copy returns a deep copy of the set.
func (s *Set) Copy() *Set {
	next := NewSet()
	if s == nil {
		return next
	}
	return next.Update(s)
}

// Len returns the number of features.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// Rows returns the number of observations of every feature.
func (s *Set) Rows() int {
	if s == nil {
		return 0
	}
	return s.m
}

// Labels returns the features in column order.
func (s *Set) Labels() *Labels {
	if s == nil {
		return nil
	}
	labels := make([]Feature, len(s.labels))
	copy(labels, s.labels)
	return NewLabels(labels)
}

// Matrix returns a matrix representation of the Set to be used with matrix methods.
// The matrix has m rows representing the number of observations and n columns representing
// the number of features in column order, optionally preceded by an intercept column of ones.
func (s *Set) Matrix(intercept bool) *mat.Dense {
	if s == nil || len(s.labels) == 0 || s.m == 0 {
		return nil
	}

	m := s.m
	n := len(s.labels)
	if intercept {
		n += 1
	}

	obs := make([]float64, m*n)

	featNum := 0
	if intercept {
		for i := 0; i < m; i++ {
			idx := n * i
			obs[idx] = 1.0
		}
		featNum += 1
	}

	for _, label := range s.labels {
		feature := s.set[label.String()]
		for i := 0; i < len(feature); i++ {
			idx := n*i + featNum
			obs[idx] = feature[i]
		}
		featNum += 1
	}
	return mat.NewDense(m, n, obs)
}
