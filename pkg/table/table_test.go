package table

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/fjkz/inline-table/pkg/expr"
)

// TestSelect verifies first-match lookup with resolution substitution.
func TestSelect(t *testing.T) {
	tbl := mustCompile(t, `
		| state  | event  | next   |
		|--------|--------|--------|
		| 'stop' | 'go'   | 'run'  |
		| 'run'  | 'halt' | 'stop' |
	`, nil)

	row, err := tbl.Select(map[string]any{"state": "stop", "event": "go"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	next, err := row.Get("next")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if next.Any() != "run" {
		t.Errorf("next = %v, expected run", next.Any())
	}
}

// TestSelectWildcardResolution verifies that a wildcard cell in a matched
// row is replaced by the literal query value.
func TestSelectWildcardResolution(t *testing.T) {
	tbl := mustCompile(t, `
		| A | B |
		|---|---|
		| 1 | 1 |
		| * | 2 |
	`, nil)

	row, err := tbl.Select(map[string]any{"A": 2})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := row.Any(); !reflect.DeepEqual(got, []any{int64(2), int64(2)}) {
		t.Errorf("row = %v, expected [2 2]", got)
	}
}

// TestSelectNotApplicable verifies both halves of the sentinel rule: a
// matched row holding N/A is an error, and an N/A cell in a queried
// column never matches, so such rows are not candidates at all.
func TestSelectNotApplicable(t *testing.T) {
	tbl := mustCompile(t, `
		| A | B   |
		|---|-----|
		| 1 | N/A |
	`, nil)
	if _, err := tbl.Select(map[string]any{"A": 1}); !errors.Is(err, ErrLookup) {
		t.Errorf("Select = %v, expected ErrLookup", err)
	}

	tbl = mustCompile(t, `
		| A   | B |
		|-----|---|
		| N/A | 1 |
		| 1   | 2 |
	`, nil)
	row, err := tbl.Select(map[string]any{"A": 1})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := row.Any(); !reflect.DeepEqual(got, []any{int64(1), int64(2)}) {
		t.Errorf("row = %v, expected [1 2]", got)
	}
}

// TestSelectErrors verifies the lookup failure modes.
func TestSelectErrors(t *testing.T) {
	tbl := mustCompile(t, `
		| A | B |
		|---|---|
		| 1 | 2 |
	`, nil)

	tests := []struct {
		name string
		cond map[string]any
	}{
		{"empty condition", map[string]any{}},
		{"invalid label", map[string]any{"C": 1}},
		{"no matching row", map[string]any{"A": 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tbl.Select(tt.cond); !errors.Is(err, ErrLookup) {
				t.Errorf("Select = %v, expected ErrLookup", err)
			}
		})
	}
}

// TestSelectIdempotence verifies that repeating a query gives equal
// results with no state carried between calls.
func TestSelectIdempotence(t *testing.T) {
	tbl := mustCompile(t, `
		| A | B |
		|---|---|
		| 1 | 2 |
		| 1 | 3 |
	`, nil)
	first, err := tbl.Select(map[string]any{"A": 1})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	second, err := tbl.Select(map[string]any{"A": 1})
	if err != nil {
		t.Fatalf("Select again: %v", err)
	}
	if !reflect.DeepEqual(first.Any(), second.Any()) {
		t.Errorf("results differ: %v vs %v", first.Any(), second.Any())
	}
	if !reflect.DeepEqual(first.Any(), []any{int64(1), int64(2)}) {
		t.Errorf("result = %v, expected the first matching row", first.Any())
	}
}

// TestSelectCondition verifies condition columns: the cell is a predicate
// whose parameter is the first character of the label.
func TestSelectCondition(t *testing.T) {
	tbl := mustCompile(t, `
		| n (cond)   | parity |
		|------------|--------|
		| n % 2 == 0 | 'even' |
		| n % 2 == 1 | 'odd'  |
	`, nil)

	for _, tt := range []struct {
		n    int
		want string
	}{
		{4, "even"},
		{7, "odd"},
	} {
		row, err := tbl.Select(map[string]any{"n": tt.n})
		if err != nil {
			t.Fatalf("Select(n=%d): %v", tt.n, err)
		}
		parity, _ := row.Get("parity")
		if parity.Any() != tt.want {
			t.Errorf("parity(%d) = %v, expected %s", tt.n, parity.Any(), tt.want)
		}
		n, _ := row.Get("n")
		if !expr.Equal(n.Lit, expr.NewInt(int64(tt.n))) {
			t.Errorf("n = %v, expected the query value %d", n, tt.n)
		}
	}
}

// TestSelectRegex verifies regular expression columns.
func TestSelectRegex(t *testing.T) {
	tbl := mustCompile(t, `
		| path (re)  | handler |
		|------------|---------|
		| '/api/.*'  | 'api'   |
		| '/static/' | 'files' |
	`, nil)
	row, err := tbl.Select(map[string]any{"path": "/api/users"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	h, _ := row.Get("handler")
	if h.Any() != "api" {
		t.Errorf("handler = %v, expected api", h.Any())
	}
}

// TestSelectCollection verifies membership columns.
func TestSelectCollection(t *testing.T) {
	tbl := mustCompile(t, `
		| code (coll)     | class   |
		|-----------------|---------|
		| [200, 201, 204] | 'ok'    |
		| [301, 302]      | 'moved' |
	`, nil)
	row, err := tbl.Select(map[string]any{"code": 302})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	c, _ := row.Get("class")
	if c.Any() != "moved" {
		t.Errorf("class = %v, expected moved", c.Any())
	}
	if _, err := tbl.Select(map[string]any{"code": 500}); !errors.Is(err, ErrLookup) {
		t.Errorf("Select(500) = %v, expected ErrLookup", err)
	}
}

// TestSelectString verifies that string columns compare verbatim, with no
// quoting and no sentinel interpretation.
func TestSelectString(t *testing.T) {
	tbl := mustCompile(t, `
		| key (str) | v |
		|-----------|---|
		| N/A       | 1 |
		| plain     | 2 |
	`, nil)
	row, err := tbl.Select(map[string]any{"key": "N/A"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	v, _ := row.Get("v")
	if v.Any() != int64(1) {
		t.Errorf("v = %v, expected 1", v.Any())
	}

	// A non-string query value never equals a verbatim string cell; it
	// is a plain non-match, not a failure.
	rows, err := tbl.SelectAll(map[string]any{"key": 1})
	if err != nil {
		t.Fatalf("SelectAll(key=1): %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("len = %d, expected no matches", len(rows))
	}
	if tbl.Contains(map[string]any{"key": 1}) {
		t.Error("Contains(key=1) = true, expected false")
	}
}

// TestSelectAll verifies multi-row lookup: the empty condition returns
// every row as stored, and a non-empty condition skips rows holding N/A.
func TestSelectAll(t *testing.T) {
	tbl := mustCompile(t, `
		| A | B   |
		|---|-----|
		| 1 | 10  |
		| 1 | N/A |
		| 2 | 30  |
	`, nil)

	all, err := tbl.SelectAll(nil)
	if err != nil {
		t.Fatalf("SelectAll(nil): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, expected all 3 rows including the N/A row", len(all))
	}
	b, _ := all[1].Get("B")
	if b.Kind != KindNotApplicable {
		t.Errorf("row 1 B = %v, expected the stored sentinel", b)
	}

	matched, err := tbl.SelectAll(map[string]any{"A": 1})
	if err != nil {
		t.Fatalf("SelectAll(A=1): %v", err)
	}
	if len(matched) != 1 {
		t.Fatalf("len = %d, expected the N/A row to be skipped", len(matched))
	}
	if got := matched[0].Any(); !reflect.DeepEqual(got, []any{int64(1), int64(10)}) {
		t.Errorf("row = %v, expected [1 10]", got)
	}

	if _, err := tbl.SelectAll(map[string]any{"C": 1}); !errors.Is(err, ErrLookup) {
		t.Errorf("SelectAll(C=1) = %v, expected ErrLookup", err)
	}
}

// TestIter verifies restartable iteration in insertion order.
func TestIter(t *testing.T) {
	tbl := mustCompile(t, `
		| A |
		|---|
		| 1 |
		| 2 |
		| 3 |
	`, nil)

	collect := func() []any {
		var got []any
		it := tbl.Iter()
		for {
			row, ok := it.Next()
			if !ok {
				break
			}
			got = append(got, row.Any()[0])
		}
		return got
	}

	first := collect()
	if !reflect.DeepEqual(first, []any{int64(1), int64(2), int64(3)}) {
		t.Errorf("iteration = %v, expected [1 2 3]", first)
	}
	if second := collect(); !reflect.DeepEqual(first, second) {
		t.Errorf("second iteration = %v, differs from the first %v", second, first)
	}

	// A half-consumed iterator does not affect a fresh one.
	it := tbl.Iter()
	it.Next()
	if again := collect(); !reflect.DeepEqual(first, again) {
		t.Errorf("iteration after partial consumption = %v, expected %v", again, first)
	}
}

// TestRowIndex verifies positional access and the sentinel restriction.
func TestRowIndex(t *testing.T) {
	tbl := mustCompile(t, `
		| A | B   |
		|---|-----|
		| 1 | 2   |
		| * | N/A |
	`, nil)

	row, err := tbl.Row(0)
	if err != nil {
		t.Fatalf("Row(0): %v", err)
	}
	if got := row.Any(); !reflect.DeepEqual(got, []any{int64(1), int64(2)}) {
		t.Errorf("row = %v, expected [1 2]", got)
	}
	if _, err := tbl.Row(1); !errors.Is(err, ErrLookup) {
		t.Errorf("Row(1) = %v, expected ErrLookup for a sentinel row", err)
	}
	if _, err := tbl.Row(5); !errors.Is(err, ErrLookup) {
		t.Errorf("Row(5) = %v, expected ErrLookup", err)
	}
}

// TestContains verifies retrievability checks by mapping and by position.
func TestContains(t *testing.T) {
	tbl := mustCompile(t, `
		| A | B |
		|---|---|
		| 1 | 2 |
		| * | 3 |
	`, nil)

	tests := []struct {
		name   string
		values any
		want   bool
	}{
		{"mapping hit", map[string]any{"A": 1, "B": 2}, true},
		{"mapping via wildcard", map[string]any{"A": 99, "B": 3}, true},
		{"mapping miss", map[string]any{"A": 1, "B": 9}, false},
		{"positional hit", []any{1, 2}, true},
		{"positional miss", []any{2, 2}, false},
		{"positional wrong width", []any{1}, false},
		{"unsupported argument", 42, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tbl.Contains(tt.values); got != tt.want {
				t.Errorf("Contains(%v) = %v, expected %v", tt.values, got, tt.want)
			}
		})
	}
}

// TestUnion verifies concatenation and the schema checks.
func TestUnion(t *testing.T) {
	a := mustCompile(t, `
		| A | B |
		|---|---|
		| 1 | 2 |
	`, nil)
	b := mustCompile(t, `
		| A | B |
		|---|---|
		| 3 | 4 |
	`, nil)

	u, err := a.Union(b)
	if err != nil {
		t.Fatalf("Union: %v", err)
	}
	if u.Len() != 2 {
		t.Fatalf("Len = %d, expected 2", u.Len())
	}
	row, _ := u.Row(1)
	if got := row.Any(); !reflect.DeepEqual(got, []any{int64(3), int64(4)}) {
		t.Errorf("row 1 = %v, expected [3 4]", got)
	}
	// The operands are untouched.
	if a.Len() != 1 || b.Len() != 1 {
		t.Errorf("operand lengths changed: %d, %d", a.Len(), b.Len())
	}
}

func TestUnionSchemaErrors(t *testing.T) {
	two := mustCompile(t, `
		| A | B |
		|---|---|
		| 1 | 2 |
	`, nil)
	three := mustCompile(t, `
		| A | B | C |
		|---|---|---|
		| 1 | 2 | 3 |
	`, nil)
	renamed := mustCompile(t, `
		| A | X |
		|---|---|
		| 1 | 2 |
	`, nil)
	retyped := mustCompile(t, `
		| A | B (str) |
		|---|---------|
		| 1 | two     |
	`, nil)

	_, err := two.Union(three)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("Union = %v, expected ErrSchema", err)
	}
	if !strings.Contains(err.Error(), "2 != 3") {
		t.Errorf("error %q does not carry both widths", err)
	}
	if _, err := two.Union(renamed); !errors.Is(err, ErrSchema) {
		t.Errorf("Union with renamed labels = %v, expected ErrSchema", err)
	}
	if _, err := two.Union(retyped); !errors.Is(err, ErrSchema) {
		t.Errorf("Union with retyped column = %v, expected ErrSchema", err)
	}
}

// TestTableString verifies the tab separated rendering.
func TestTableString(t *testing.T) {
	tbl := mustCompile(t, `
		| A | B (str) |
		|---|---------|
		| 1 | x       |
		| * | N/A     |
	`, nil)
	want := "A\tB\n(value)\t(string)\n1\tx\n*\tN/A"
	if got := tbl.String(); got != want {
		t.Errorf("String = %q, expected %q", got, want)
	}
}

// TestRowAccessors verifies the Row views are defensive copies.
func TestRowAccessors(t *testing.T) {
	tbl := mustCompile(t, `
		| A | B |
		|---|---|
		| 1 | 2 |
	`, nil)
	row, _ := tbl.Row(0)

	labels := row.Labels()
	labels[0] = "mutated"
	if tbl.Labels()[0] != "A" {
		t.Error("mutating the returned labels changed the table")
	}
	if _, err := row.Get("nope"); !errors.Is(err, ErrLookup) {
		t.Errorf("Get(nope) = %v, expected ErrLookup", err)
	}
	if got := row.String(); got != "Row(A=1, B=2)" {
		t.Errorf("String = %q", got)
	}
}
