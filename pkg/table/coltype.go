package table

import (
	"fmt"
	"regexp"

	"github.com/fjkz/inline-table/pkg/expr"
)

// ColumnType governs how the cells of a column are evaluated at compile
// time and matched at query time.
type ColumnType int

const (
	// TypeValue cells are evaluated as literal expressions and compared
	// by equality. This is the default when no directive is given.
	TypeValue ColumnType = iota

	// TypeCondition cells become unary predicates over the query value.
	TypeCondition

	// TypeString cells are taken verbatim, sentinels included.
	TypeString

	// TypeRegex cells become compiled regular expressions.
	TypeRegex

	// TypeCollection cells become containers tested by membership.
	TypeCollection
)

// directives maps each column type to the directive tokens that select it.
// Resolution tries the types in this fixed order.
var directives = []struct {
	typ    ColumnType
	tokens []string
}{
	{TypeValue, []string{"", "(value)", "(val)"}},
	{TypeCondition, []string{"(condition)", "(cond)"}},
	{TypeString, []string{"(string)", "(str)"}},
	{TypeRegex, []string{"(regex)", "(re)"}},
	{TypeCollection, []string{"(collection)", "(coll)"}},
}

// ResolveDirective maps a directive token to a column type. An
// unrecognized token is a markup error.
func ResolveDirective(token string) (ColumnType, error) {
	for _, d := range directives {
		for _, t := range d.tokens {
			if token == t {
				return d.typ, nil
			}
		}
	}
	return TypeValue, fmt.Errorf("%w: unknown directive %q", ErrMarkup, token)
}

// String returns the canonical directive of the column type.
func (t ColumnType) String() string {
	switch t {
	case TypeValue:
		return "(value)"
	case TypeCondition:
		return "(condition)"
	case TypeString:
		return "(string)"
	case TypeRegex:
		return "(regex)"
	case TypeCollection:
		return "(collection)"
	default:
		return "(unknown)"
	}
}

// IsSet reports whether a cell of this type stands for a set of
// acceptable values rather than one scalar.
func (t ColumnType) IsSet() bool {
	switch t {
	case TypeCondition, TypeRegex, TypeCollection:
		return true
	default:
		return false
	}
}

// labelPattern splits a header label into the plain label and an optional
// trailing parenthesized directive.
var labelPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*) *(\([A-Za-z0-9_]*\))$`)

// splitLabel separates a header label from its directive. A label with no
// embedded directive yields an empty directive string.
func splitLabel(s string) (label, directive string) {
	if m := labelPattern.FindStringSubmatch(s); m != nil {
		return m[1], m[2]
	}
	return s, ""
}

// Evaluate turns one raw cell text into a cell value. The environment
// carries the caller-supplied variables; the label names the column, which
// conditions use for their parameter name.
func (t ColumnType) Evaluate(cell string, env *expr.Env, label string) (Value, error) {
	// Strings take the cell verbatim; every other type recognizes the
	// sentinel symbols first.
	if t == TypeString {
		return Str(cell), nil
	}
	switch cell {
	case wildcardSymbol:
		return Wild(), nil
	case notApplicableSymbol:
		return NA(), nil
	}

	switch t {
	case TypeValue:
		v, err := expr.Eval(cell, env)
		if err != nil {
			return Value{}, fmt.Errorf("column %q: %w", label, err)
		}
		return Lit(v), nil

	case TypeCondition:
		if label == "" {
			return Value{}, fmt.Errorf("%w: a condition column needs a label", ErrMarkup)
		}
		// The first character of the label is the parameter name.
		param := label[:1]
		compiled, err := expr.Compile(cell)
		if err != nil {
			return Value{}, fmt.Errorf("column %q: %w", label, err)
		}
		pred := func(x expr.Value) (bool, error) {
			v, err := compiled.Eval(env.Bind(param, x))
			if err != nil {
				return false, err
			}
			return v.Truthy(), nil
		}
		return Predicate(pred, cell), nil

	case TypeRegex:
		v, err := expr.Eval(cell, env)
		if err != nil {
			return Value{}, fmt.Errorf("column %q: %w", label, err)
		}
		if v.Type != expr.TypeStr {
			return Value{}, fmt.Errorf("%w: column %q: a regex cell needs a string, got %s",
				ErrValue, label, v.Type)
		}
		re, err := regexp.Compile(v.Str)
		if err != nil {
			return Value{}, fmt.Errorf("%w: column %q: %v", ErrValue, label, err)
		}
		return Pattern(re, cell), nil

	case TypeCollection:
		v, err := expr.Eval(cell, env)
		if err != nil {
			return Value{}, fmt.Errorf("column %q: %w", label, err)
		}
		if !v.SupportsMembership() {
			return Value{}, fmt.Errorf("%w: column %q: %s does not support membership testing",
				ErrValue, label, v.Type)
		}
		return Collection(v), nil

	default:
		return Value{}, fmt.Errorf("unknown column type %d", t)
	}
}

// Match reports whether a stored cell value accepts a query value.
func (t ColumnType) Match(stored, query Value) (bool, error) {
	q, ok := query.concrete()
	if !ok {
		// Sentinels queried literally: the wildcard cell accepts anything,
		// including another sentinel; nothing else does.
		return stored.Kind == KindWildcard, nil
	}
	return stored.matches(q)
}
