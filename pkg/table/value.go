// Package table compiles ASCII table texts into queryable in-memory tables.
//
// A table text written in reStructuredText simple/grid or Markdown syntax
// is compiled once with Compile and then queried through Select, SelectAll,
// Iter, Contains, Union and Join. Cells may hold literal values, verbatim
// strings, predicates, regular expressions or collections, plus the two
// sentinels: the wildcard '*' that matches everything and 'N/A' that
// matches nothing.
package table

import (
	"regexp"

	"github.com/fjkz/inline-table/pkg/expr"
)

// Kind tags the variant held by a cell Value.
type Kind int

const (
	KindLiteral Kind = iota
	KindStr
	KindPredicate
	KindPattern
	KindCollection
	KindWildcard
	KindNotApplicable
)

const (
	wildcardSymbol      = "*"
	notApplicableSymbol = "N/A"
)

// Value is one table cell. It is a closed tagged union; the Kind tag
// selects which field is meaningful.
type Value struct {
	Kind    Kind
	Lit     expr.Value                    // KindLiteral, KindCollection
	Str     string                        // KindStr
	Pred    func(expr.Value) (bool, error) // KindPredicate
	Pattern *regexp.Regexp                // KindPattern

	// src is the cell text a predicate or pattern was compiled from,
	// kept for rendering.
	src string
}

// Wild returns the wildcard sentinel, which matches any query value.
func Wild() Value {
	return Value{Kind: KindWildcard}
}

// NA returns the not-applicable sentinel, which matches no query value.
func NA() Value {
	return Value{Kind: KindNotApplicable}
}

// Lit wraps an evaluated literal.
func Lit(v expr.Value) Value {
	return Value{Kind: KindLiteral, Lit: v}
}

// Str wraps a verbatim string.
func Str(s string) Value {
	return Value{Kind: KindStr, Str: s}
}

// Predicate wraps a compiled unary predicate.
func Predicate(pred func(expr.Value) (bool, error), src string) Value {
	return Value{Kind: KindPredicate, Pred: pred, src: src}
}

// Pattern wraps a compiled regular expression.
func Pattern(re *regexp.Regexp, src string) Value {
	return Value{Kind: KindPattern, Pattern: re, src: src}
}

// Collection wraps an evaluated literal that supports membership testing.
func Collection(v expr.Value) Value {
	return Value{Kind: KindCollection, Lit: v}
}

// IsSentinel reports whether the value is the wildcard or not-applicable.
func (v Value) IsSentinel() bool {
	return v.Kind == KindWildcard || v.Kind == KindNotApplicable
}

// isScalar reports whether the value stands for a single concrete value
// rather than a set of acceptable values.
func (v Value) isScalar() bool {
	return v.Kind == KindLiteral || v.Kind == KindStr
}

// concrete returns the value as an expr.Value for matching. The second
// return is false for sentinels and set-kind values.
func (v Value) concrete() (expr.Value, bool) {
	switch v.Kind {
	case KindLiteral:
		return v.Lit, true
	case KindStr:
		return expr.NewStr(v.Str), true
	default:
		return expr.Value{}, false
	}
}

// Any returns the cell as a plain Go value. Sentinels render as their
// table-text symbols.
func (v Value) Any() any {
	switch v.Kind {
	case KindLiteral, KindCollection:
		return v.Lit.Any()
	case KindStr:
		return v.Str
	default:
		return v.String()
	}
}

// String returns the cell as it would be written in a table text.
func (v Value) String() string {
	switch v.Kind {
	case KindWildcard:
		return wildcardSymbol
	case KindNotApplicable:
		return notApplicableSymbol
	case KindLiteral, KindCollection:
		return v.Lit.String()
	case KindStr:
		return v.Str
	case KindPredicate, KindPattern:
		return v.src
	default:
		return "?"
	}
}

// matches reports whether a concrete query value is acceptable to the
// stored cell. The sentinel rules come first; otherwise the test depends
// on the stored kind: equality for scalars, a predicate call, a regexp
// match, or a membership test.
func (v Value) matches(q expr.Value) (bool, error) {
	switch v.Kind {
	case KindWildcard:
		return true, nil
	case KindNotApplicable:
		return false, nil
	case KindLiteral:
		return expr.Equal(v.Lit, q), nil
	case KindStr:
		return q.Type == expr.TypeStr && v.Str == q.Str, nil
	case KindPredicate:
		return v.Pred(q)
	case KindPattern:
		if q.Type != expr.TypeStr {
			return false, nil
		}
		return v.Pattern.MatchString(q.Str), nil
	case KindCollection:
		return v.Lit.Contains(q)
	default:
		return false, nil
	}
}
