// Package shape implements the constraint-resolution engine: aligning
// concrete shapes against parsed specifications, binding variables across
// arguments to a fixed point, and rendering structured failures.
package shape

import (
	"fmt"
	"strings"

	"github.com/EPronovost/eincheck/pkg/util"
)

// Dim is a single dimension size, which may be unknown (e.g. a symbolic
// dimension of a placeholder tensor).  Unknown dimensions match any
// constraint without contributing a binding.
type Dim = util.Option[int]

// KnownDim constructs a dimension of a given size.
func KnownDim(size int) Dim {
	return util.Some(size)
}

// UnknownDim constructs a dimension of unknown size.
func UnknownDim() Dim {
	return util.None[int]()
}

// Shape is an ordered sequence of (possibly unknown) dimension sizes.
type Shape []Dim

// Of constructs a fully known shape from the given dimension sizes.
func Of(dims ...int) Shape {
	out := make(Shape, len(dims))
	for i, d := range dims {
		out[i] = util.Some(d)
	}
	//
	return out
}

// Rank returns the number of dimensions in this shape.
func (s Shape) Rank() int {
	return len(s)
}

// Known returns the dimension sizes of this shape, provided every dimension
// is known.
func (s Shape) Known() ([]int, bool) {
	out := make([]int, len(s))
	//
	for i, d := range s {
		size, ok := d.Get()
		if !ok {
			return nil, false
		}

		out[i] = size
	}
	//
	return out, true
}

func (s Shape) String() string {
	items := make([]string, len(s))
	//
	for i, d := range s {
		if size, ok := d.Get(); ok {
			items[i] = fmt.Sprintf("%d", size)
		} else {
			items[i] = "_"
		}
	}
	//
	return "(" + strings.Join(items, ", ") + ")"
}
