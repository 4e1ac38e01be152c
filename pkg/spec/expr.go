package spec

import (
	"fmt"
)

// Expr is a dimension expression within a shape specification.  Expressions
// evaluate to either a scalar (e.g. for "i" or "(2*i)") or a tuple (e.g. for
// "(x||y)" or "(x^y)") against a given environment.
type Expr interface {
	// Eval evaluates this expression against the given environment.
	Eval(env Env) (Value, error)
	// Defined determines whether every variable needed by this expression is
	// bound in the given environment.
	Defined(env Env) bool
	// Vars adds the names of all variables in this expression to the given
	// set.
	Vars(out map[string]bool)
	// String returns the canonical textual form of this expression.
	String() string
}

// ============================================================================
// Leaf expressions
// ============================================================================

// Literal is a constant dimension size.
type Literal struct {
	X int
}

// Eval implementation for the Expr interface.
func (e Literal) Eval(env Env) (Value, error) {
	return IntValue(e.X), nil
}

// Defined implementation for the Expr interface.
func (e Literal) Defined(env Env) bool {
	return true
}

// Vars implementation for the Expr interface.
func (e Literal) Vars(out map[string]bool) {}

func (e Literal) String() string {
	return fmt.Sprintf("%d", e.X)
}

// Variable is a named placeholder for a dimension size (or, in variadic
// position, a tuple of dimension sizes).  Only a bare variable can ever bind
// a new value: a variable appearing solely inside a compound expression can
// be checked but never derived.
type Variable struct {
	Name string
}

// Eval implementation for the Expr interface.
func (e Variable) Eval(env Env) (Value, error) {
	if v, ok := env.Lookup(e.Name); ok {
		return v, nil
	}

	return Value{}, &MissingVariableError{Name: e.Name}
}

// Defined implementation for the Expr interface.
func (e Variable) Defined(env Env) bool {
	_, ok := env.Lookup(e.Name)
	return ok
}

// Vars implementation for the Expr interface.
func (e Variable) Vars(out map[string]bool) {
	out[e.Name] = true
}

func (e Variable) String() string {
	return e.Name
}

// Data is the reserved "$" token.  The engine never evaluates it: a wrapping
// collaborator substitutes the flattened field specs of a nested checked
// object in its place before resolution.
type Data struct{}

// Eval implementation for the Expr interface.
func (e Data) Eval(env Env) (Value, error) {
	panic("reserved token $ cannot be evaluated")
}

// Defined implementation for the Expr interface.
func (e Data) Defined(env Env) bool {
	return false
}

// Vars implementation for the Expr interface.
func (e Data) Vars(out map[string]bool) {}

func (e Data) String() string {
	return "$"
}

// ============================================================================
// Binary expressions
// ============================================================================

// Add is the integer sum of two scalar expressions.
type Add struct {
	X, Y Expr
}

// Eval implementation for the Expr interface.
func (e Add) Eval(env Env) (Value, error) {
	return evalScalarOp(e.X, e.Y, env, func(x, y int) int { return x + y })
}

// Defined implementation for the Expr interface.
func (e Add) Defined(env Env) bool {
	return e.X.Defined(env) && e.Y.Defined(env)
}

// Vars implementation for the Expr interface.
func (e Add) Vars(out map[string]bool) {
	e.X.Vars(out)
	e.Y.Vars(out)
}

func (e Add) String() string {
	return fmt.Sprintf("(%s+%s)", e.X, e.Y)
}

// Sub is the integer difference of two scalar expressions.
type Sub struct {
	X, Y Expr
}

// Eval implementation for the Expr interface.
func (e Sub) Eval(env Env) (Value, error) {
	return evalScalarOp(e.X, e.Y, env, func(x, y int) int { return x - y })
}

// Defined implementation for the Expr interface.
func (e Sub) Defined(env Env) bool {
	return e.X.Defined(env) && e.Y.Defined(env)
}

// Vars implementation for the Expr interface.
func (e Sub) Vars(out map[string]bool) {
	e.X.Vars(out)
	e.Y.Vars(out)
}

func (e Sub) String() string {
	return fmt.Sprintf("(%s-%s)", e.X, e.Y)
}

// Mul is the integer product of two scalar expressions.
type Mul struct {
	X, Y Expr
}

// Eval implementation for the Expr interface.
func (e Mul) Eval(env Env) (Value, error) {
	return evalScalarOp(e.X, e.Y, env, func(x, y int) int { return x * y })
}

// Defined implementation for the Expr interface.
func (e Mul) Defined(env Env) bool {
	return e.X.Defined(env) && e.Y.Defined(env)
}

// Vars implementation for the Expr interface.
func (e Mul) Vars(out map[string]bool) {
	e.X.Vars(out)
	e.Y.Vars(out)
}

func (e Mul) String() string {
	return fmt.Sprintf("(%s*%s)", e.X, e.Y)
}

// Concat is the positional concatenation of two tuple expressions.
type Concat struct {
	X, Y Expr
}

// Eval implementation for the Expr interface.
func (e Concat) Eval(env Env) (Value, error) {
	x, y, err := evalTupleOperands(e.X, e.Y, env)
	if err != nil {
		return Value{}, err
	}
	//
	return TupleValue(append(append([]int{}, x...), y...)...), nil
}

// Defined implementation for the Expr interface.
func (e Concat) Defined(env Env) bool {
	return e.X.Defined(env) && e.Y.Defined(env)
}

// Vars implementation for the Expr interface.
func (e Concat) Vars(out map[string]bool) {
	e.X.Vars(out)
	e.Y.Vars(out)
}

func (e Concat) String() string {
	return fmt.Sprintf("(%s||%s)", e.X, e.Y)
}

// Broadcast combines two tuple expressions using right-aligned pairwise
// broadcasting: trailing dimensions are matched from the right, missing
// leading positions are treated as size 1, and a size of 1 stretches to
// match the other operand.
type Broadcast struct {
	X, Y Expr
}

// Eval implementation for the Expr interface.
func (e Broadcast) Eval(env Env) (Value, error) {
	x, y, err := evalTupleOperands(e.X, e.Y, env)
	if err != nil {
		return Value{}, err
	}

	out, err := BroadcastDims(x, y)
	if err != nil {
		return Value{}, err
	}
	//
	return TupleValue(out...), nil
}

// Defined implementation for the Expr interface.
func (e Broadcast) Defined(env Env) bool {
	return e.X.Defined(env) && e.Y.Defined(env)
}

// Vars implementation for the Expr interface.
func (e Broadcast) Vars(out map[string]bool) {
	e.X.Vars(out)
	e.Y.Vars(out)
}

func (e Broadcast) String() string {
	return fmt.Sprintf("(%s^%s)", e.X, e.Y)
}

// BroadcastDims broadcasts two dimension tuples, as Broadcast does for
// expressions.  Pairs of sizes must be equal, or exactly one of them must be
// 1 (in which case the result takes the larger).
func BroadcastDims(x []int, y []int) ([]int, error) {
	n := max(len(x), len(y))
	out := make([]int, n)
	//
	for i := 0; i < n; i++ {
		xx, yy := 1, 1

		if j := len(x) - n + i; j >= 0 {
			xx = x[j]
		}

		if j := len(y) - n + i; j >= 0 {
			yy = y[j]
		}
		//
		switch {
		case xx == 1:
			out[i] = yy
		case yy == 1 || xx == yy:
			out[i] = xx
		default:
			return nil, &BroadcastError{X: x, Y: y, Index: i}
		}
	}
	//
	return out, nil
}

// ============================================================================
// Helpers
// ============================================================================

func evalScalarOp(xe Expr, ye Expr, env Env, fn func(int, int) int) (Value, error) {
	x, err := xe.Eval(env)
	if err != nil {
		return Value{}, err
	}

	y, err := ye.Eval(env)
	if err != nil {
		return Value{}, err
	}

	if x.IsTuple() {
		return Value{}, &TypeConflictError{Expr: xe.String(), Got: x, Want: "an integer"}
	} else if y.IsTuple() {
		return Value{}, &TypeConflictError{Expr: ye.String(), Got: y, Want: "an integer"}
	}
	//
	return IntValue(fn(x.Int(), y.Int())), nil
}

func evalTupleOperands(xe Expr, ye Expr, env Env) ([]int, []int, error) {
	x, err := xe.Eval(env)
	if err != nil {
		return nil, nil, err
	}

	y, err := ye.Eval(env)
	if err != nil {
		return nil, nil, err
	}

	if !x.IsTuple() {
		return nil, nil, &TypeConflictError{Expr: xe.String(), Got: x, Want: "a tuple"}
	} else if !y.IsTuple() {
		return nil, nil, &TypeConflictError{Expr: ye.String(), Got: y, Want: "a tuple"}
	}
	//
	return x.Tuple(), y.Tuple(), nil
}
