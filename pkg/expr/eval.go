package expr

import (
	"errors"
	"fmt"
)

// ErrUndefinedName is returned when an expression references a name that is
// not present in the environment.
var ErrUndefinedName = errors.New("undefined name")

// Env is the set of names visible to an expression. It is the only scope;
// there are no ambient globals or builtins beyond literal syntax.
type Env struct {
	vars map[string]Value
}

// NewEnv builds an environment from caller-supplied Go values.
func NewEnv(vars map[string]any) (*Env, error) {
	env := &Env{vars: make(map[string]Value, len(vars))}
	for name, v := range vars {
		val, err := FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		env.vars[name] = val
	}
	return env, nil
}

// Bind returns a new Env with one extra binding layered on top. The
// receiver is not modified.
func (e *Env) Bind(name string, v Value) *Env {
	vars := make(map[string]Value, len(e.vars)+1)
	for k, val := range e.vars {
		vars[k] = val
	}
	vars[name] = v
	return &Env{vars: vars}
}

// Lookup resolves a name in the environment.
func (e *Env) Lookup(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Expr is a compiled expression ready for evaluation.
type Expr struct {
	src  string
	root Node
}

// Compile parses the source into an evaluable expression.
func Compile(src string) (*Expr, error) {
	root, err := NewParser(src).Parse()
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q: %w", src, err)
	}
	return &Expr{src: src, root: root}, nil
}

// Source returns the original expression text.
func (x *Expr) Source() string {
	return x.src
}

// Eval evaluates the expression in the given environment.
func (x *Expr) Eval(env *Env) (Value, error) {
	return eval(x.root, env)
}

// Eval is a convenience that compiles and evaluates in one step.
func Eval(src string, env *Env) (Value, error) {
	x, err := Compile(src)
	if err != nil {
		return Value{}, err
	}
	return x.Eval(env)
}

func eval(node Node, env *Env) (Value, error) {
	switch n := node.(type) {
	case *LiteralExpr:
		return n.Value, nil

	case *IdentExpr:
		v, ok := env.Lookup(n.Name)
		if !ok {
			return Value{}, fmt.Errorf("%w: %q", ErrUndefinedName, n.Name)
		}
		return v, nil

	case *UnaryExpr:
		return evalUnary(n, env)

	case *BinaryExpr:
		return evalBinary(n, env)

	case *ListExpr:
		elems, err := evalElems(n.Elems, env)
		if err != nil {
			return Value{}, err
		}
		return NewList(elems), nil

	case *SetExpr:
		elems, err := evalElems(n.Elems, env)
		if err != nil {
			return Value{}, err
		}
		// Deduplicate while keeping first occurrences.
		var uniq []Value
		for _, e := range elems {
			if !setContains(uniq, e) {
				uniq = append(uniq, e)
			}
		}
		return NewSet(uniq), nil

	default:
		return Value{}, fmt.Errorf("unknown expression node %T", node)
	}
}

func evalElems(nodes []Node, env *Env) ([]Value, error) {
	elems := make([]Value, len(nodes))
	for i, n := range nodes {
		v, err := eval(n, env)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return elems, nil
}

func evalUnary(n *UnaryExpr, env *Env) (Value, error) {
	v, err := eval(n.Expr, env)
	if err != nil {
		return Value{}, err
	}
	switch n.Op {
	case TOKEN_MINUS:
		switch v.Type {
		case TypeInt:
			return NewInt(-v.Int), nil
		case TypeFloat:
			return NewFloat(-v.Float), nil
		default:
			return Value{}, fmt.Errorf("cannot negate %s", v.Type)
		}
	case TOKEN_NOT:
		return NewBool(!v.Truthy()), nil
	default:
		return Value{}, fmt.Errorf("unknown unary operator")
	}
}

func evalBinary(n *BinaryExpr, env *Env) (Value, error) {
	// and/or short-circuit before the right side is evaluated.
	if n.Op == TOKEN_AND || n.Op == TOKEN_OR {
		left, err := eval(n.Left, env)
		if err != nil {
			return Value{}, err
		}
		if n.Op == TOKEN_AND && !left.Truthy() {
			return NewBool(false), nil
		}
		if n.Op == TOKEN_OR && left.Truthy() {
			return NewBool(true), nil
		}
		right, err := eval(n.Right, env)
		if err != nil {
			return Value{}, err
		}
		return NewBool(right.Truthy()), nil
	}

	left, err := eval(n.Left, env)
	if err != nil {
		return Value{}, err
	}
	right, err := eval(n.Right, env)
	if err != nil {
		return Value{}, err
	}

	switch n.Op {
	case TOKEN_PLUS, TOKEN_MINUS, TOKEN_STAR, TOKEN_SLASH, TOKEN_PERCENT:
		return evalArith(left, n.Op, right)
	case TOKEN_EQ:
		return NewBool(Equal(left, right)), nil
	case TOKEN_NE:
		return NewBool(!Equal(left, right)), nil
	case TOKEN_LT, TOKEN_LE, TOKEN_GT, TOKEN_GE:
		return evalCompare(left, n.Op, right)
	case TOKEN_IN:
		ok, err := right.Contains(left)
		if err != nil {
			return Value{}, err
		}
		return NewBool(ok), nil
	default:
		return Value{}, fmt.Errorf("unknown binary operator")
	}
}

func evalArith(left Value, op TokenType, right Value) (Value, error) {
	// String and list concatenation with +.
	if op == TOKEN_PLUS {
		if left.Type == TypeStr && right.Type == TypeStr {
			return NewStr(left.Str + right.Str), nil
		}
		if left.Type == TypeList && right.Type == TypeList {
			elems := make([]Value, 0, len(left.List)+len(right.List))
			elems = append(elems, left.List...)
			elems = append(elems, right.List...)
			return NewList(elems), nil
		}
	}

	if !left.IsNumber() || !right.IsNumber() {
		return Value{}, fmt.Errorf("operator %s requires numbers, got %s and %s",
			arithName(op), left.Type, right.Type)
	}

	if left.Type == TypeInt && right.Type == TypeInt {
		a, b := left.Int, right.Int
		switch op {
		case TOKEN_PLUS:
			return NewInt(a + b), nil
		case TOKEN_MINUS:
			return NewInt(a - b), nil
		case TOKEN_STAR:
			return NewInt(a * b), nil
		case TOKEN_SLASH:
			if b == 0 {
				return Value{}, fmt.Errorf("division by zero")
			}
			return NewInt(a / b), nil
		case TOKEN_PERCENT:
			if b == 0 {
				return Value{}, fmt.Errorf("division by zero")
			}
			return NewInt(a % b), nil
		}
	}

	a, b := left.AsFloat(), right.AsFloat()
	switch op {
	case TOKEN_PLUS:
		return NewFloat(a + b), nil
	case TOKEN_MINUS:
		return NewFloat(a - b), nil
	case TOKEN_STAR:
		return NewFloat(a * b), nil
	case TOKEN_SLASH:
		if b == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return NewFloat(a / b), nil
	case TOKEN_PERCENT:
		return Value{}, fmt.Errorf("operator %% requires integers")
	}
	return Value{}, fmt.Errorf("unknown arithmetic operator")
}

func evalCompare(left Value, op TokenType, right Value) (Value, error) {
	var less, equal bool
	switch {
	case left.IsNumber() && right.IsNumber():
		a, b := left.AsFloat(), right.AsFloat()
		less, equal = a < b, a == b
	case left.Type == TypeStr && right.Type == TypeStr:
		less, equal = left.Str < right.Str, left.Str == right.Str
	default:
		return Value{}, fmt.Errorf("cannot order %s and %s", left.Type, right.Type)
	}

	switch op {
	case TOKEN_LT:
		return NewBool(less), nil
	case TOKEN_LE:
		return NewBool(less || equal), nil
	case TOKEN_GT:
		return NewBool(!less && !equal), nil
	case TOKEN_GE:
		return NewBool(!less), nil
	}
	return Value{}, fmt.Errorf("unknown comparison operator")
}

func arithName(op TokenType) string {
	switch op {
	case TOKEN_PLUS:
		return "+"
	case TOKEN_MINUS:
		return "-"
	case TOKEN_STAR:
		return "*"
	case TOKEN_SLASH:
		return "/"
	case TOKEN_PERCENT:
		return "%"
	default:
		return "?"
	}
}
