package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fjkz/inline-table/pkg/expr"
)

// Table is an immutable in-memory relation: an ordered label sequence, a
// parallel column type sequence, and an ordered row sequence. Labels and
// types are fixed at creation; rows are appended during compilation and
// never mutated afterwards.
type Table struct {
	labels []string
	index  map[string]int
	types  []ColumnType
	rows   [][]Value
}

// New creates an empty table with the given labels and column types.
func New(labels []string, types []ColumnType) (*Table, error) {
	if len(labels) != len(types) {
		return nil, fmt.Errorf("%w: %d labels but %d column types", ErrSchema, len(labels), len(types))
	}
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := index[l]; dup {
			return nil, fmt.Errorf("%w: the label %q appears twice", ErrMarkup, l)
		}
		index[l] = i
	}
	return &Table{
		labels: append([]string(nil), labels...),
		index:  index,
		types:  append([]ColumnType(nil), types...),
	}, nil
}

// Insert appends one row of cell values.
func (t *Table) Insert(cells []Value) error {
	if len(cells) != len(t.labels) {
		return fmt.Errorf("%w: expected %d values, got %d", ErrSchema, len(t.labels), len(cells))
	}
	t.rows = append(t.rows, append([]Value(nil), cells...))
	return nil
}

// Labels returns the column labels in order.
func (t *Table) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Types returns the column types in order.
func (t *Table) Types() []ColumnType {
	return append([]ColumnType(nil), t.types...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// queryEntry is one condition pair resolved to a column index.
type queryEntry struct {
	idx   int
	value Value
}

// resolveCondition converts a label->value condition into column indexes
// and typed query values.
func (t *Table) resolveCondition(cond map[string]any) ([]queryEntry, error) {
	entries := make([]queryEntry, 0, len(cond))
	for label, v := range cond {
		i, ok := t.index[label]
		if !ok {
			return nil, fmt.Errorf("%w: the label %q is invalid", ErrLookup, label)
		}
		qv, err := t.queryValue(i, v)
		if err != nil {
			return nil, err
		}
		entries = append(entries, queryEntry{idx: i, value: qv})
	}
	return entries, nil
}

// queryValue converts a caller-supplied query value for the i-th column.
// String columns compare verbatim strings; every other type compares
// evaluated literals. A non-string query on a string column stays a
// literal: it can never equal a verbatim string cell, so it is a
// non-match rather than an error, though it still matches a wildcard.
func (t *Table) queryValue(i int, v any) (Value, error) {
	if qv, ok := v.(Value); ok {
		return qv, nil
	}
	if t.types[i] == TypeString {
		switch s := v.(type) {
		case string:
			return Str(s), nil
		case expr.Value:
			if s.Type == expr.TypeStr {
				return Str(s.Str), nil
			}
		}
	}
	ev, err := expr.FromGo(v)
	if err != nil {
		return Value{}, fmt.Errorf("%w: the column %q: %v", ErrLookup, t.labels[i], err)
	}
	return Lit(ev), nil
}

// rowMatches reports whether a stored row satisfies every condition entry.
func (t *Table) rowMatches(row []Value, entries []queryEntry) (bool, error) {
	for _, e := range entries {
		ok, err := t.types[e.idx].Match(row[e.idx], e.value)
		if err != nil {
			return false, fmt.Errorf("column %q: %w", t.labels[e.idx], err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func rowHasNA(row []Value) bool {
	for _, v := range row {
		if v.Kind == KindNotApplicable {
			return true
		}
	}
	return false
}

// resolve builds the result row for a match: the stored row with every
// queried column overwritten by the literal query value, which turns a
// wildcard cell into the concrete value the caller asked for.
func (t *Table) resolve(row []Value, entries []queryEntry) Row {
	values := append([]Value(nil), row...)
	for _, e := range entries {
		values[e.idx] = e.value
	}
	return Row{labels: t.labels, index: t.index, values: values}
}

// Select returns the first row matching the condition, with the queried
// columns resolved to the query values. The condition must be non-empty
// and reference only existing labels. A matching row that contains the
// not-applicable value is an error, not a skip.
func (t *Table) Select(cond map[string]any) (Row, error) {
	if len(cond) == 0 {
		return Row{}, fmt.Errorf("%w: the condition is empty", ErrLookup)
	}
	entries, err := t.resolveCondition(cond)
	if err != nil {
		return Row{}, err
	}
	for _, row := range t.rows {
		ok, err := t.rowMatches(row, entries)
		if err != nil {
			return Row{}, err
		}
		if !ok {
			continue
		}
		if rowHasNA(row) {
			return Row{}, fmt.Errorf("%w: the result is not applicable: %s", ErrLookup, condString(cond))
		}
		return t.resolve(row, entries), nil
	}
	return Row{}, fmt.Errorf("%w: no row is found for the condition: %s", ErrLookup, condString(cond))
}

// SelectAll returns every row matching the condition in insertion order.
// An empty (or nil) condition returns all rows as stored. With a non-empty
// condition, matching rows that contain the not-applicable value are
// silently skipped.
func (t *Table) SelectAll(cond map[string]any) ([]Row, error) {
	entries, err := t.resolveCondition(cond)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(t.rows))
	for _, row := range t.rows {
		if len(entries) == 0 {
			rows = append(rows, Row{labels: t.labels, index: t.index, values: row})
			continue
		}
		ok, err := t.rowMatches(row, entries)
		if err != nil {
			return nil, err
		}
		if !ok || rowHasNA(row) {
			continue
		}
		rows = append(rows, t.resolve(row, entries))
	}
	return rows, nil
}

// RowIter is a cursor over a table's rows. Each call to Iter returns a
// fresh iterator; no cursor state lives on the table.
type RowIter struct {
	table *Table
	next  int
}

// Iter returns a fresh iterator over all rows as stored, wildcard and
// not-applicable cells included.
func (t *Table) Iter() *RowIter {
	return &RowIter{table: t}
}

// Next returns the next row. The second return is false when the rows are
// exhausted.
func (it *RowIter) Next() (Row, bool) {
	if it.next >= len(it.table.rows) {
		return Row{}, false
	}
	row := Row{labels: it.table.labels, index: it.table.index, values: it.table.rows[it.next]}
	it.next++
	return row, true
}

// Row returns the i-th row. A row holding a sentinel is not addressable
// as concrete data.
func (t *Table) Row(i int) (Row, error) {
	if i < 0 || i >= len(t.rows) {
		return Row{}, fmt.Errorf("%w: the row index %d is out of range", ErrLookup, i)
	}
	for _, v := range t.rows[i] {
		if v.IsSentinel() {
			return Row{}, fmt.Errorf("%w: the %d-th row is not applicable", ErrLookup, i)
		}
	}
	return Row{labels: t.labels, index: t.index, values: t.rows[i]}, nil
}

// Contains reports whether the values are retrievable with Select. The
// argument is either a label->value mapping or a positional sequence
// covering every column.
func (t *Table) Contains(values any) bool {
	var cond map[string]any
	switch v := values.(type) {
	case map[string]any:
		cond = v
	case []any:
		if len(v) != len(t.labels) {
			return false
		}
		cond = make(map[string]any, len(v))
		for i, e := range v {
			cond[t.labels[i]] = e
		}
	default:
		return false
	}
	_, err := t.Select(cond)
	return err == nil
}

// Union returns a new table holding this table's rows followed by the
// other's. Both tables must have the same width, label sequence, and
// column type sequence.
func (t *Table) Union(o *Table) (*Table, error) {
	if len(t.labels) != len(o.labels) {
		return nil, fmt.Errorf("%w: the numbers of columns are different: %d != %d",
			ErrSchema, len(t.labels), len(o.labels))
	}
	for i := range t.labels {
		if t.labels[i] != o.labels[i] {
			return nil, fmt.Errorf("%w: the labels are different: %v != %v",
				ErrSchema, t.labels, o.labels)
		}
	}
	for i := range t.types {
		if t.types[i] != o.types[i] {
			return nil, fmt.Errorf("%w: the column types are different: %v != %v",
				ErrSchema, t.types, o.types)
		}
	}
	u, err := New(t.labels, t.types)
	if err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		u.rows = append(u.rows, append([]Value(nil), row...))
	}
	for _, row := range o.rows {
		u.rows = append(u.rows, append([]Value(nil), row...))
	}
	return u, nil
}

// String returns the table as tab separated values: the labels, the
// column directives, then one line per row.
func (t *Table) String() string {
	var lines []string
	lines = append(lines, strings.Join(t.labels, "\t"))
	dirs := make([]string, len(t.types))
	for i, typ := range t.types {
		dirs[i] = typ.String()
	}
	lines = append(lines, strings.Join(dirs, "\t"))
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return strings.Join(lines, "\n")
}

func condString(cond map[string]any) string {
	keys := make([]string, 0, len(cond))
	for k := range cond {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, cond[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
