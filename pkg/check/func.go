package check

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/EPronovost/eincheck/pkg/spec"
)

// FuncSpec associates one parameter (or result) of a function with a shape
// specification.
type FuncSpec struct {
	// Display name used in diagnostics.  Defaults to "arg<N>" for inputs and
	// "output<N>" for outputs.
	Name string
	// Index of the parameter (or result).
	Index int
	// Optional dot path into the value at that index.
	Path string
	// Spec source (string, []any, or spec.ShapeSpec).
	Spec any
}

// In constructs a FuncSpec for the parameter at a given index.
func In(index int, source any) FuncSpec {
	return FuncSpec{Index: index, Spec: source}
}

// Out constructs a FuncSpec for the result at a given index.
func Out(index int, source any) FuncSpec {
	return FuncSpec{Index: index, Spec: source}
}

// Wrap returns a function with the same signature as fn which checks input
// shapes before each call and output shapes after it.  Variables bound by
// the input specs seed the output resolution, so constraints can span the
// call: an input "i j" and an output "j i" share both variables.
//
// A violation panics with the structured resolution error, since the wrapped
// signature has no room for an error return.  When checking is disabled the
// wrapper is a pass-through.
//
// Wrap panics at wrap time if fn is not a function, or if a spec index is
// out of range for its signature.
func Wrap[F any](fn F, inputs []FuncSpec, outputs []FuncSpec) F {
	fnValue := reflect.ValueOf(fn)
	if fnValue.Kind() != reflect.Func {
		panic(fmt.Sprintf("check.Wrap applied to %T, not a function", fn))
	}
	//
	fnType := fnValue.Type()

	for _, in := range inputs {
		if in.Index < 0 || in.Index >= fnType.NumIn() {
			panic(fmt.Sprintf("input spec index %d out of range: %s takes %d parameters",
				in.Index, fnType, fnType.NumIn()))
		}
	}

	for _, out := range outputs {
		if out.Index < 0 || out.Index >= fnType.NumOut() {
			panic(fmt.Sprintf("output spec index %d out of range: %s returns %d values",
				out.Index, fnType, fnType.NumOut()))
		}
	}
	//
	wrapped := reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		if !Enabled() {
			return fnValue.Call(in)
		}

		bound := mustCheck(funcArgs(inputs, in, "arg"), nil)
		out := fnValue.Call(in)
		mustCheck(funcArgs(outputs, out, "output"), bound)
		//
		return out
	})
	//
	return wrapped.Interface().(F)
}

// funcArgs assembles the Shapes arguments for one side of a call.
func funcArgs(specs []FuncSpec, values []reflect.Value, prefix string) []Arg {
	args := make([]Arg, 0, len(specs))
	//
	for _, s := range specs {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("%s%d", prefix, s.Index)
			if s.Path != "" {
				name += "." + s.Path
			}
		}
		//
		value := values[s.Index].Interface()

		if s.Path != "" {
			nested, err := fieldByPath(value, s.Path)
			if err != nil {
				panic(fmt.Sprintf("%s: %v", name, err))
			}

			value = nested
		}

		args = append(args, Arg{Name: name, Value: value, Spec: s.Spec})
	}
	//
	return args
}

func mustCheck(args []Arg, seeds map[string]spec.Value) map[string]spec.Value {
	bound, err := Shapes(args, seeds)
	if err != nil {
		panic(err)
	}
	//
	return bound
}

// ParseFuncSpec parses a combined "inputs -> outputs" spec string, such as
// "i j, j k -> i k", into input and output FuncSpecs by position.  Either
// side may be empty.  Without "->" the whole string describes outputs,
// mirroring a bare output declaration.
func ParseFuncSpec(source string) (inputs []FuncSpec, outputs []FuncSpec) {
	inputStr, outputStr := "", source
	//
	if i := strings.Index(source, "->"); i >= 0 {
		inputStr, outputStr = source[:i], source[i+2:]
	}
	//
	return splitFuncSpecs(inputStr), splitFuncSpecs(outputStr)
}

func splitFuncSpecs(source string) []FuncSpec {
	var out []FuncSpec
	//
	index := 0

	for _, piece := range strings.Split(source, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		out = append(out, FuncSpec{Index: index, Spec: piece})
		index++
	}
	//
	return out
}
