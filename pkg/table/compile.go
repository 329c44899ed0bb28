package table

import (
	"fmt"

	"github.com/fjkz/inline-table/pkg/expr"
	"github.com/fjkz/inline-table/pkg/format"
)

// Compile turns an ASCII table text into a Table. The text must be a
// reStructuredText simple table, a reStructuredText grid table, or a
// Markdown table. The vars map supplies the only names visible to the
// literal expressions in the cells.
func Compile(text string, vars map[string]any) (*Table, error) {
	lines, err := format.Normalize(text)
	if err != nil {
		return nil, err
	}
	rawLabels, rawRows, err := format.Parse(lines)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(rawLabels))
	types := make([]ColumnType, len(rawLabels))
	for i, raw := range rawLabels {
		label, directive := splitLabel(raw)
		typ, err := ResolveDirective(directive)
		if err != nil {
			return nil, err
		}
		labels[i] = label
		types[i] = typ
	}

	t, err := New(labels, types)
	if err != nil {
		return nil, err
	}

	env, err := expr.NewEnv(vars)
	if err != nil {
		return nil, err
	}

	for _, raw := range rawRows {
		if len(raw) != len(labels) {
			return nil, fmt.Errorf("%w: the row %v has %d cells, the table has %d columns",
				ErrMarkup, raw, len(raw), len(labels))
		}
		cells := make([]Value, len(raw))
		for i, cell := range raw {
			v, err := types[i].Evaluate(cell, env, labels[i])
			if err != nil {
				return nil, err
			}
			cells[i] = v
		}
		if err := t.Insert(cells); err != nil {
			return nil, err
		}
	}
	return t, nil
}
