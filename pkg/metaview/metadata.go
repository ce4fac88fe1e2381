package metaview

import "sort"

// tagSet is a Metadata backed by plain maps; both backends fill one.
type tagSet struct {
	keys   map[Family][]string
	labels map[string]string
	values map[string]string
	raw    map[string]string
}

func newTagSet() *tagSet {
	return &tagSet{
		keys:   map[Family][]string{},
		labels: map[string]string{},
		values: map[string]string{},
		raw:    map[string]string{},
	}
}

// add records a tag. raw may equal value when the backend has no separate raw form.
func (ts *tagSet) add(f Family, key, label, value, raw string) {
	if _, ok := ts.values[key]; !ok {
		ts.keys[f] = append(ts.keys[f], key)
	}
	if label == "" {
		label = humanize(tagName(key))
	}
	ts.labels[key] = label
	ts.values[key] = value
	ts.raw[key] = raw
}

// sort orders keys within each family; backends report tags from unordered maps.
func (ts *tagSet) sort() {
	for _, ks := range ts.keys {
		sort.Strings(ks)
	}
}

func (ts *tagSet) Keys(f Family) ([]string, error) {
	return ts.keys[f], nil
}

func (ts *tagSet) Label(key string) string {
	return ts.labels[key]
}

func (ts *tagSet) Value(key string) string {
	return ts.values[key]
}

func (ts *tagSet) Raw(key string) string {
	return ts.raw[key]
}
