// Package expr provides a small sandboxed expression engine for table cells.
//
// Expressions are evaluated against an explicit name->value environment.
// Referencing a name that is not in the environment is an error; there is
// no ambient scope to fall back to.
package expr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Type represents the runtime type of an evaluated value.
type Type int

const (
	TypeNone Type = iota
	TypeInt
	TypeFloat
	TypeStr
	TypeBool
	TypeList
	TypeSet
)

// String returns the name of the type.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeStr:
		return "string"
	case TypeBool:
		return "bool"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	default:
		return "unknown"
	}
}

// Value represents an evaluated literal value.
type Value struct {
	Type  Type
	Int   int64
	Float float64
	Str   string
	Bool  bool
	List  []Value // elements for TypeList and TypeSet
}

// NewInt creates an int value.
func NewInt(v int64) Value {
	return Value{Type: TypeInt, Int: v}
}

// NewFloat creates a float value.
func NewFloat(v float64) Value {
	return Value{Type: TypeFloat, Float: v}
}

// NewStr creates a string value.
func NewStr(v string) Value {
	return Value{Type: TypeStr, Str: v}
}

// NewBool creates a bool value.
func NewBool(v bool) Value {
	return Value{Type: TypeBool, Bool: v}
}

// NewList creates a list value.
func NewList(elems []Value) Value {
	return Value{Type: TypeList, List: elems}
}

// NewSet creates a set value.
func NewSet(elems []Value) Value {
	return Value{Type: TypeSet, List: elems}
}

// None is the null value.
func None() Value {
	return Value{Type: TypeNone}
}

// FromGo converts a Go value supplied by the caller into a Value.
func FromGo(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return None(), nil
	case int:
		return NewInt(int64(x)), nil
	case int32:
		return NewInt(int64(x)), nil
	case int64:
		return NewInt(x), nil
	case float32:
		return NewFloat(float64(x)), nil
	case float64:
		return NewFloat(x), nil
	case string:
		return NewStr(x), nil
	case bool:
		return NewBool(x), nil
	case Value:
		return x, nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := FromGo(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return NewList(elems), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// Any returns the value as a plain Go value.
func (v Value) Any() any {
	switch v.Type {
	case TypeNone:
		return nil
	case TypeInt:
		return v.Int
	case TypeFloat:
		return v.Float
	case TypeStr:
		return v.Str
	case TypeBool:
		return v.Bool
	case TypeList, TypeSet:
		elems := make([]any, len(v.List))
		for i, e := range v.List {
			elems[i] = e.Any()
		}
		return elems
	default:
		return nil
	}
}

// IsNumber reports whether the value is an int or a float.
func (v Value) IsNumber() bool {
	return v.Type == TypeInt || v.Type == TypeFloat
}

// AsFloat returns the numeric value as a float64.
func (v Value) AsFloat() float64 {
	if v.Type == TypeInt {
		return float64(v.Int)
	}
	return v.Float
}

// Truthy reports whether the value counts as true in a boolean context.
func (v Value) Truthy() bool {
	switch v.Type {
	case TypeNone:
		return false
	case TypeInt:
		return v.Int != 0
	case TypeFloat:
		return v.Float != 0
	case TypeStr:
		return v.Str != ""
	case TypeBool:
		return v.Bool
	case TypeList, TypeSet:
		return len(v.List) > 0
	default:
		return false
	}
}

// Equal reports whether two values are equal. Ints and floats compare
// numerically across types. Lists compare element-wise in order; sets
// compare order-insensitively.
func Equal(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		if a.Type == TypeInt && b.Type == TypeInt {
			return a.Int == b.Int
		}
		return a.AsFloat() == b.AsFloat()
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNone:
		return true
	case TypeStr:
		return a.Str == b.Str
	case TypeBool:
		return a.Bool == b.Bool
	case TypeList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case TypeSet:
		if len(a.List) != len(b.List) {
			return false
		}
		for _, e := range a.List {
			if !setContains(b.List, e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func setContains(elems []Value, v Value) bool {
	for _, e := range elems {
		if Equal(e, v) {
			return true
		}
	}
	return false
}

// SupportsMembership reports whether `x in v` is defined for the value.
func (v Value) SupportsMembership() bool {
	switch v.Type {
	case TypeList, TypeSet, TypeStr:
		return true
	default:
		return false
	}
}

// Contains reports whether the value contains x. For strings this is a
// substring test; x must be a string.
func (v Value) Contains(x Value) (bool, error) {
	switch v.Type {
	case TypeList, TypeSet:
		return setContains(v.List, x), nil
	case TypeStr:
		if x.Type != TypeStr {
			return false, fmt.Errorf("membership in a string requires a string, got %s", x.Type)
		}
		return strings.Contains(v.Str, x.Str), nil
	default:
		return false, fmt.Errorf("type %s does not support membership", v.Type)
	}
}

// String returns a source-like representation of the value.
func (v Value) String() string {
	switch v.Type {
	case TypeNone:
		return "none"
	case TypeInt:
		return strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case TypeStr:
		return strconv.Quote(v.Str)
	case TypeBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case TypeList:
		return "[" + joinValues(v.List) + "]"
	case TypeSet:
		elems := make([]Value, len(v.List))
		copy(elems, v.List)
		sort.Slice(elems, func(i, j int) bool { return elems[i].String() < elems[j].String() })
		return "{" + joinValues(elems) + "}"
	default:
		return "?"
	}
}

func joinValues(elems []Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
