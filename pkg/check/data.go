package check

import (
	"github.com/EPronovost/eincheck/pkg/spec"
)

// FieldSpec declares the expected shape of one field of a checked object.
// The field is named by a dot path relative to the object (e.g. "Weights" or
// "Layers.0.Bias").
type FieldSpec struct {
	// Dot path naming the field.
	Field string
	// Spec source for that field (string, []any, or spec.ShapeSpec).
	Spec any
}

// ShapedFields is implemented by types which declare shape specifications on
// their fields.  Such a type can be validated on construction with Struct,
// and can appear behind the reserved "$" spec in a Shapes or Wrap call, in
// which case its declared fields are substituted (flattened, dot-path named)
// in its place.
type ShapedFields interface {
	ShapeSpecs() []FieldSpec
}

// Struct validates the declared fields of a checked object against each
// other, returning the resolved variable environment.  Constructors
// typically call this just before returning:
//
//	func NewAttention(q, k, v Tensor) (*Attention, error) {
//	    a := &Attention{Q: q, K: k, V: v}
//	    if _, err := check.Struct(a, nil); err != nil {
//	        return nil, err
//	    }
//	    return a, nil
//	}
func Struct(x ShapedFields, seeds map[string]spec.Value) (map[string]spec.Value, error) {
	if !Enabled() {
		return map[string]spec.Value{}, nil
	}
	//
	args := make([]Arg, 0, len(x.ShapeSpecs()))

	for _, field := range x.ShapeSpecs() {
		value, err := fieldByPath(x, field.Field)
		if err != nil {
			return nil, err
		}

		args = append(args, Arg{Name: field.Field, Value: value, Spec: field.Spec})
	}
	//
	return Shapes(args, seeds)
}
