// Package check exposes the public entry points of the shape checker: the
// Shapes resolution call, the process-wide enable/disable toggle, the Wrap
// function wrapper, and field checking for data-carrying structs.
package check

import (
	"fmt"

	"github.com/EPronovost/eincheck/pkg/cache"
	"github.com/EPronovost/eincheck/pkg/shape"
	"github.com/EPronovost/eincheck/pkg/spec"
)

// Arg is one (display name, value, spec source) triple of a Shapes call.
type Arg struct {
	// Display name used in diagnostics.
	Name string
	// Value whose shape is checked.  See ShapeOf for the accepted forms;
	// values without an extractable shape are skipped.
	Value any
	// Spec source: a spec string, a pre-parsed spec.ShapeSpec, or a
	// pre-tokenised []any element list.
	Spec any
}

// DuplicateSpecError indicates one argument was specified through two
// different channels within a single call.
type DuplicateSpecError struct {
	// Name of the argument in question.
	Name string
}

// Error implements the error interface.
func (p *DuplicateSpecError) Error() string {
	return fmt.Sprintf("argument %s specified more than once", p.Name)
}

// Shapes checks the shapes of the given arguments against their
// specifications, reconciled with the given seed values, and returns the
// resolved variable environment.
//
// For example, checking x of shape (3, 4, 5) against "... i j" together with
// y of shape (5, 6) against "... j k" yields {i: 4, j: 5, k: 6}.
//
// When checking is disabled (see Toggle), no parsing or matching happens and
// an empty environment is returned.
func Shapes(args []Arg, seeds map[string]spec.Value) (map[string]spec.Value, error) {
	if !Enabled() {
		return map[string]spec.Value{}, nil
	}
	//
	resolved, err := assembleArguments(args)
	if err != nil {
		return nil, err
	}

	env, err := shape.Resolve(resolved, seeds)
	if err != nil {
		return nil, err
	}
	//
	return env.Map(), nil
}

// assembleArguments extracts a shape for each argument, expanding reserved
// "$" specs into the flattened field specs of a nested checked object.
func assembleArguments(args []Arg) ([]shape.Argument, error) {
	out := make([]shape.Argument, 0, len(args))
	seen := make(map[string]bool)
	//
	for _, arg := range args {
		expanded, err := expandArg(arg)
		if err != nil {
			return nil, err
		}

		for _, a := range expanded {
			if seen[a.Name] {
				return nil, &DuplicateSpecError{Name: a.Name}
			}

			seen[a.Name] = true

			out = append(out, a)
		}
	}
	//
	return out, nil
}

// expandArg turns one caller-supplied argument into zero or more resolver
// arguments: zero when the value has no extractable shape, several when a
// "$" spec expands into nested field specs.
func expandArg(arg Arg) ([]shape.Argument, error) {
	parsed, err := parseSpec(arg.Spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", arg.Name, err)
	}
	//
	if parsed.IsData() {
		fields, ok := arg.Value.(ShapedFields)
		if !ok {
			return nil, fmt.Errorf(
				"%s: spec $ specified, but %T does not declare field specs", arg.Name, arg.Value)
		}

		return expandFields(arg.Name, fields)
	}
	//
	s, ok := ShapeOf(arg.Value)
	if !ok {
		return nil, nil
	}
	//
	return []shape.Argument{{Name: arg.Name, Shape: s, Spec: parsed}}, nil
}

// expandFields flattens the declared field specs of a checked object into
// dot-path arguments, recursing through nested "$" specs.
func expandFields(name string, fields ShapedFields) ([]shape.Argument, error) {
	var out []shape.Argument
	//
	for _, field := range fields.ShapeSpecs() {
		value, err := fieldByPath(fields, field.Field)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, field.Field, err)
		}

		expanded, err := expandArg(Arg{
			Name:  name + "." + field.Field,
			Value: value,
			Spec:  field.Spec,
		})

		if err != nil {
			return nil, err
		}

		out = append(out, expanded...)
	}
	//
	return out, nil
}

// parseSpec converts a generic spec source into a parsed specification.
// String sources go through the process-wide parse cache; element lists are
// rebuilt every call, since their content is usually call-site dynamic.
func parseSpec(source any) (spec.ShapeSpec, error) {
	switch s := source.(type) {
	case spec.ShapeSpec:
		return s, nil
	case string:
		return cache.Parse(s)
	case []any:
		return spec.FromElements(s)
	default:
		return spec.ShapeSpec{}, fmt.Errorf("unexpected spec source of type %T", source)
	}
}
