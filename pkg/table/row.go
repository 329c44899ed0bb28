package table

import "fmt"

// Row is one fixed-width tuple of cell values. The label list is shared
// with the owning table; rows are immutable after construction.
type Row struct {
	labels []string
	index  map[string]int
	values []Value
}

// Get returns the value of the named column.
func (r Row) Get(label string) (Value, error) {
	i, ok := r.index[label]
	if !ok {
		return Value{}, fmt.Errorf("%w: the label %q is invalid", ErrLookup, label)
	}
	return r.values[i], nil
}

// Labels returns the column labels in order.
func (r Row) Labels() []string {
	labels := make([]string, len(r.labels))
	copy(labels, r.labels)
	return labels
}

// Values returns the cell values in column order.
func (r Row) Values() []Value {
	values := make([]Value, len(r.values))
	copy(values, r.values)
	return values
}

// Any returns the cells as plain Go values in column order.
func (r Row) Any() []any {
	out := make([]any, len(r.values))
	for i, v := range r.values {
		out[i] = v.Any()
	}
	return out
}

// String renders the row like Row(a=1, b=2).
func (r Row) String() string {
	s := "Row("
	for i, label := range r.labels {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%s", label, r.values[i])
	}
	return s + ")"
}
