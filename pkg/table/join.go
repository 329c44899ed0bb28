package table

import (
	"fmt"

	"github.com/fjkz/inline-table/pkg/expr"
)

// Join computes the natural inner join of two tables, generalized to the
// full label union. Shared columns are intersected cell by cell; a column
// absent from one side contributes the wildcard for every row of that
// side. Set-typed cells (conditions, regexes, collections) act as virtual
// multi-valued columns: intersecting one with a concrete value filters,
// and intersecting two of them produces a predicate requiring both.
//
// Row order is row-major over the cross product: all pairings with the
// first left row come before any with the second, and within one left row
// the right rows keep their order. Incompatible pairs are dropped without
// error.
func (t *Table) Join(o *Table) (*Table, error) {
	cols := joinColumns(t, o)

	labels := make([]string, len(cols))
	types := make([]ColumnType, len(cols))
	for i, c := range cols {
		labels[i] = c.label
		types[i] = c.typ
	}
	j, err := New(labels, types)
	if err != nil {
		return nil, err
	}

	for _, lrow := range t.rows {
		for _, rrow := range o.rows {
			cells, ok, err := combineRows(cols, lrow, rrow)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			j.rows = append(j.rows, cells)
		}
	}
	return j, nil
}

// joinColumn is one column of the join schema: its position on each side
// (-1 when absent) and the combined column type.
type joinColumn struct {
	label string
	typ   ColumnType
	lIdx  int
	rIdx  int
	lTyp  ColumnType
	rTyp  ColumnType
}

// joinColumns computes the label union, ordered as all left labels in
// left order followed by the right-only labels in right order, and the
// combined column type for each.
func joinColumns(l, r *Table) []joinColumn {
	var cols []joinColumn
	for i, label := range l.labels {
		c := joinColumn{label: label, lIdx: i, rIdx: -1, lTyp: l.types[i]}
		if j, ok := r.index[label]; ok {
			c.rIdx = j
			c.rTyp = r.types[j]
		}
		cols = append(cols, c)
	}
	for j, label := range r.labels {
		if _, ok := l.index[label]; ok {
			continue
		}
		cols = append(cols, joinColumn{label: label, lIdx: -1, rIdx: j, rTyp: r.types[j]})
	}
	for i := range cols {
		cols[i].typ = combinedType(cols[i])
	}
	return cols
}

// combinedType derives the column type of a joined column. A column
// present on one side keeps that side's type. For shared columns the
// value side wins, so a concrete column filtered by a condition stays
// concrete; two set types of the same flavor keep it, and mixed set
// types become conditions, matching the predicate cells the join builds.
func combinedType(c joinColumn) ColumnType {
	switch {
	case c.lIdx == -1:
		return c.rTyp
	case c.rIdx == -1:
		return c.lTyp
	case !c.lTyp.IsSet() && !c.rTyp.IsSet():
		return c.lTyp
	case !c.lTyp.IsSet():
		return c.lTyp
	case !c.rTyp.IsSet():
		return c.rTyp
	case c.lTyp == c.rTyp:
		return c.lTyp
	default:
		return TypeCondition
	}
}

// combineRows intersects one left row with one right row position by
// position. The second return is false when any position has no
// intersection, which drops the pair.
func combineRows(cols []joinColumn, lrow, rrow []Value) ([]Value, bool, error) {
	cells := make([]Value, len(cols))
	for i, c := range cols {
		lv, rv := Wild(), Wild()
		if c.lIdx >= 0 {
			lv = lrow[c.lIdx]
		}
		if c.rIdx >= 0 {
			rv = rrow[c.rIdx]
		}
		v, ok, err := intersect(lv, rv)
		if err != nil {
			return nil, false, fmt.Errorf("column %q: %w", c.label, err)
		}
		if !ok {
			return nil, false, nil
		}
		cells[i] = v
	}
	return cells, true, nil
}

// intersect combines one left cell with one right cell. The wildcard rule
// applies first: wildcard with wildcard is wildcard, wildcard with
// anything else is that value. Two not-applicable cells stay not
// applicable; a not-applicable cell against anything concrete has no
// intersection. After the sentinels, the case split is on whether each
// side is a scalar or a set value.
func intersect(l, r Value) (Value, bool, error) {
	if l.Kind == KindWildcard {
		return r, true, nil
	}
	if r.Kind == KindWildcard {
		return l, true, nil
	}
	if l.Kind == KindNotApplicable && r.Kind == KindNotApplicable {
		return NA(), true, nil
	}
	if l.Kind == KindNotApplicable || r.Kind == KindNotApplicable {
		return Value{}, false, nil
	}

	switch {
	case l.isScalar() && r.isScalar():
		// Both concrete: they must agree; keep the left value.
		q, _ := r.concrete()
		ok, err := l.matches(q)
		if err != nil || !ok {
			return Value{}, false, err
		}
		return l, true, nil

	case l.isScalar():
		// The set side filters; keep the concrete value.
		q, _ := l.concrete()
		ok, err := r.matches(q)
		if err != nil || !ok {
			return Value{}, false, err
		}
		return l, true, nil

	case r.isScalar():
		q, _ := r.concrete()
		ok, err := l.matches(q)
		if err != nil || !ok {
			return Value{}, false, err
		}
		return r, true, nil

	default:
		// Two set values: a new predicate requiring both.
		lv, rv := l, r
		pred := func(x expr.Value) (bool, error) {
			ok, err := lv.matches(x)
			if err != nil || !ok {
				return false, err
			}
			return rv.matches(x)
		}
		return Predicate(pred, "("+lv.String()+" and "+rv.String()+")"), true, nil
	}
}
