package feature

// Labels tracks a slice of features and their index locations that match up
// with the column ordering of a feature table.
type Labels struct {
	idx    map[string]int
	labels []Feature
}

func NewLabels(labels []Feature) *Labels {
	idx := make(map[string]int)
	for i := 0; i < len(labels); i++ {
		idx[labels[i].String()] = i
	}
	fl := &Labels{
		labels: labels,
		idx:    idx,
	}
	return fl
}

func (f *Labels) Len() int {
	if f == nil {
		return 0
	}
	return len(f.labels)
}

func (f *Labels) Labels() []Feature {
	if f == nil {
		return nil
	}
	labels := make([]Feature, len(f.labels))
	copy(labels, f.labels)
	return labels
}

// Names returns the column names in order.
func (f *Labels) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, len(f.labels))
	for i, label := range f.labels {
		names[i] = label.String()
	}
	return names
}

func (f *Labels) Index(label Feature) (int, bool) {
	if f == nil {
		return -1, false
	}
	if idx, exists := f.idx[label.String()]; exists {
		return idx, exists
	}
	return -1, false
}

// Schema describes every label in order.
func (f *Labels) Schema() []Descriptor {
	if f == nil {
		return nil
	}
	schema := make([]Descriptor, len(f.labels))
	for i, label := range f.labels {
		schema[i] = Describe(label)
	}
	return schema
}
