package table

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fjkz/inline-table/pkg/expr"
)

func mustCompile(t *testing.T, text string, vars map[string]any) *Table {
	t.Helper()
	tbl, err := Compile(text, vars)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return tbl
}

// TestCompileDialectEquivalence verifies that the same logical table
// expressed as a reStructuredText simple table, a grid table, and a
// Markdown table compiles to identical labels, types, and rows.
func TestCompileDialectEquivalence(t *testing.T) {
	simple := `
		====== ======
		state  event
		====== ======
		'stop' 'go'
		'run'  'halt'
		====== ======
	`
	grid := `
		+--------+--------+
		| state  | event  |
		+========+========+
		| 'stop' | 'go'   |
		+--------+--------+
		| 'run'  | 'halt' |
		+--------+--------+
	`
	markdown := `
		| state  | event  |
		|--------|--------|
		| 'stop' | 'go'   |
		| 'run'  | 'halt' |
	`

	ref := mustCompile(t, simple, nil)
	for _, tt := range []struct {
		name string
		text string
	}{
		{"grid", grid},
		{"markdown", markdown},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tbl := mustCompile(t, tt.text, nil)
			if !reflect.DeepEqual(tbl.Labels(), ref.Labels()) {
				t.Errorf("labels = %v, expected %v", tbl.Labels(), ref.Labels())
			}
			if !reflect.DeepEqual(tbl.Types(), ref.Types()) {
				t.Errorf("types = %v, expected %v", tbl.Types(), ref.Types())
			}
			if tbl.Len() != ref.Len() {
				t.Fatalf("Len = %d, expected %d", tbl.Len(), ref.Len())
			}
			for i := 0; i < ref.Len(); i++ {
				want, _ := ref.Row(i)
				got, _ := tbl.Row(i)
				if !reflect.DeepEqual(got.Any(), want.Any()) {
					t.Errorf("row %d = %v, expected %v", i, got.Any(), want.Any())
				}
			}
		})
	}
}

// TestCompileDirectives verifies the directive tokens and their column
// types, including the directive on its own sub-line of a simple table.
func TestCompileDirectives(t *testing.T) {
	text := `
		| a | b (value) | c (cond) | d (str) | e (re) | f (coll) |
		|---|-----------|----------|---------|--------|----------|
		| 1 | 2         | c > 0    | hi      | 'h.'   | [1, 2]   |
	`
	tbl := mustCompile(t, text, nil)
	wantTypes := []ColumnType{TypeValue, TypeValue, TypeCondition, TypeString, TypeRegex, TypeCollection}
	if !reflect.DeepEqual(tbl.Types(), wantTypes) {
		t.Errorf("types = %v, expected %v", tbl.Types(), wantTypes)
	}
	wantLabels := []string{"a", "b", "c", "d", "e", "f"}
	if !reflect.DeepEqual(tbl.Labels(), wantLabels) {
		t.Errorf("labels = %v, expected %v", tbl.Labels(), wantLabels)
	}

	sub := `
		===== =====
		  a     b
		(str) (val)
		===== =====
		 x     1
		===== =====
	`
	tbl = mustCompile(t, sub, nil)
	wantTypes = []ColumnType{TypeString, TypeValue}
	if !reflect.DeepEqual(tbl.Types(), wantTypes) {
		t.Errorf("sub-line types = %v, expected %v", tbl.Types(), wantTypes)
	}
}

// TestCompileVariables verifies that cells see the caller's variables and
// nothing else.
func TestCompileVariables(t *testing.T) {
	text := `
		| a     | b         |
		|-------|-----------|
		| n + 1 | n * scale |
	`
	tbl := mustCompile(t, text, map[string]any{"n": 2, "scale": 10})
	row, err := tbl.Row(0)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if got := row.Any(); !reflect.DeepEqual(got, []any{int64(3), int64(20)}) {
		t.Errorf("row = %v, expected [3 20]", got)
	}

	if _, err := Compile(text, nil); !errors.Is(err, expr.ErrUndefinedName) {
		t.Errorf("Compile without vars = %v, expected ErrUndefinedName", err)
	}
}

// TestCompileSentinels verifies that '*' and 'N/A' compile to sentinels in
// every column type except string columns, which keep them verbatim.
func TestCompileSentinels(t *testing.T) {
	text := `
		| a | b (cond) | c (str) |
		|---|----------|---------|
		| * | N/A      | N/A     |
	`
	tbl := mustCompile(t, text, nil)
	it := tbl.Iter()
	row, _ := it.Next()
	values := row.Values()
	if values[0].Kind != KindWildcard {
		t.Errorf("a = kind %d, expected wildcard", values[0].Kind)
	}
	if values[1].Kind != KindNotApplicable {
		t.Errorf("b = kind %d, expected not applicable", values[1].Kind)
	}
	if values[2].Kind != KindStr || values[2].Str != "N/A" {
		t.Errorf("c = %v, expected the verbatim string", values[2])
	}
}

// TestCompileErrors verifies the markup failure modes.
func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{
			name: "unknown directive",
			text: `
				| a (huh) |
				|---------|
				| 1       |
			`,
			want: ErrMarkup,
		},
		{
			name: "duplicate label",
			text: `
				| a | a |
				|---|---|
				| 1 | 2 |
			`,
			want: ErrMarkup,
		},
		{
			name: "empty text",
			text: "\n\n",
			want: ErrMarkup,
		},
		{
			name: "not a table",
			text: "once\nupon\na time",
			want: ErrMarkup,
		},
		{
			name: "unparsable cell",
			text: `
				| a     |
				|-------|
				| 1 + * |
			`,
			want: nil, // any error is acceptable, markup or expression
		},
		{
			name: "unterminated string cell",
			text: `
				| a    |
				|------|
				| 'abc |
			`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.text, nil)
			if err == nil {
				t.Fatal("Compile succeeded, expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Compile = %v, expected %v", err, tt.want)
			}
		})
	}
}
