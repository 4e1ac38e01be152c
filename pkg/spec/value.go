// Package spec provides the shape specification language: a compact textual
// notation for dimension constraints derived from Einstein summation syntax.
// A specification such as "batch t (2*i) ..." is parsed into a ShapeSpec,
// whose dimension expressions can then be evaluated against an environment of
// variable bindings.
package spec

import (
	"fmt"
	"strings"
)

// Value is the value of a shape variable: either a single dimension size, or
// a tuple of dimension sizes (for variadic variables).  Within one resolution
// a given variable is always one or the other, never both.
type Value struct {
	scalar  int
	tuple   []int
	isTuple bool
}

// IntValue constructs a scalar value.
func IntValue(x int) Value {
	return Value{scalar: x}
}

// TupleValue constructs a tuple value from a copy of the given dimensions.
func TupleValue(dims ...int) Value {
	tuple := make([]int, len(dims))
	copy(tuple, dims)
	//
	return Value{tuple: tuple, isTuple: true}
}

// IsTuple determines whether this value is a tuple (rather than a scalar).
func (v Value) IsTuple() bool {
	return v.isTuple
}

// Int returns the scalar held by this value, or panics if it holds a tuple.
func (v Value) Int() int {
	if v.isTuple {
		panic(fmt.Sprintf("value %s is not a scalar", v))
	}

	return v.scalar
}

// Tuple returns the tuple held by this value, or panics if it holds a
// scalar.  The returned slice must not be mutated.
func (v Value) Tuple() []int {
	if !v.isTuple {
		panic(fmt.Sprintf("value %s is not a tuple", v))
	}

	return v.tuple
}

// Equal determines whether two values have the same type and contents.
func (v Value) Equal(o Value) bool {
	if v.isTuple != o.isTuple {
		return false
	} else if !v.isTuple {
		return v.scalar == o.scalar
	} else if len(v.tuple) != len(o.tuple) {
		return false
	}
	//
	for i := range v.tuple {
		if v.tuple[i] != o.tuple[i] {
			return false
		}
	}
	//
	return true
}

func (v Value) String() string {
	if !v.isTuple {
		return fmt.Sprintf("%d", v.scalar)
	}
	//
	items := make([]string, len(v.tuple))
	for i, x := range v.tuple {
		items[i] = fmt.Sprintf("%d", x)
	}
	//
	return "(" + strings.Join(items, ", ") + ")"
}

// Env supplies variable values during expression evaluation.
type Env interface {
	// Lookup the value bound to a given variable, if any.
	Lookup(name string) (Value, bool)
}

// MapEnv is a simple environment backed by a map, useful for tests and for
// one-shot evaluation.
type MapEnv map[string]Value

// Lookup implementation for the Env interface.
func (e MapEnv) Lookup(name string) (Value, bool) {
	v, ok := e[name]
	return v, ok
}
