package check

import (
	"reflect"

	"github.com/EPronovost/eincheck/pkg/shape"
)

// Shaped is the capability interface for array-like values: anything which
// can report its own shape.  Adapters for specific tensor libraries live
// outside the core and implement this single method.
type Shaped interface {
	Shape() shape.Shape
}

// ShapeOf extracts a shape from an arbitrary value.  Accepted forms, in
// order of preference:
//
//   - a Shaped implementation reports its own shape;
//   - a shape.Shape or []shape.Dim is taken as the shape itself;
//   - an []int is taken as a fully-known shape (callers may pass plain
//     dimension sequences directly);
//   - any other slice or array contributes its length as a rank-1 shape.
//
// Everything else has no shape, and is skipped by Shapes.
func ShapeOf(x any) (shape.Shape, bool) {
	switch v := x.(type) {
	case Shaped:
		return v.Shape(), true
	case shape.Shape:
		return v, true
	case []shape.Dim:
		return shape.Shape(v), true
	case []int:
		return shape.Of(v...), true
	case nil:
		return nil, false
	}
	//
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return shape.Of(rv.Len()), true
	}
	//
	return nil, false
}
