package spec

import (
	"sort"
	"strings"
)

// ShapeSpec is the parsed form of one shape specification: an ordered
// sequence of DimSpecs.  A ShapeSpec is immutable once built, and may be
// cached and shared freely across resolutions.
type ShapeSpec struct {
	dims []DimSpec
}

// NewShapeSpec constructs a specification from a copy of the given dims.
func NewShapeSpec(dims ...DimSpec) ShapeSpec {
	owned := make([]DimSpec, len(dims))
	copy(owned, dims)
	//
	return ShapeSpec{owned}
}

// DataSpec constructs the specification holding only the reserved "$" token.
func DataSpec() ShapeSpec {
	return ShapeSpec{[]DimSpec{{Value: Data{}}}}
}

// Len returns the number of DimSpecs in this specification.
func (s ShapeSpec) Len() int {
	return len(s.dims)
}

// Dim returns the ith DimSpec of this specification.
func (s ShapeSpec) Dim(i int) DimSpec {
	return s.dims[i]
}

// Dims returns the DimSpecs of this specification.  The returned slice must
// not be mutated.
func (s ShapeSpec) Dims() []DimSpec {
	return s.dims
}

// IsData determines whether this is the reserved "$" specification, which
// signals a wrapping collaborator to substitute the flattened field specs of
// a nested checked object.
func (s ShapeSpec) IsData() bool {
	if len(s.dims) != 1 {
		return false
	}

	_, ok := s.dims[0].Value.(Data)
	//
	return ok
}

// UnknownRuns returns the indices of all DimSpecs whose dimension count is
// not fixed under the given environment.
func (s ShapeSpec) UnknownRuns(env Env) []int {
	var out []int
	//
	for i, d := range s.dims {
		if _, ok := d.NDims(env); !ok {
			out = append(out, i)
		}
	}
	//
	return out
}

// MinRank returns the minimum number of dimensions a shape must have to
// match this specification under the given environment.
func (s ShapeSpec) MinRank(env Env) int {
	rank := 0
	//
	for _, d := range s.dims {
		if n, ok := d.NDims(env); ok {
			rank += n
		}
	}
	//
	return rank
}

// Checkable determines whether every DimSpec of this specification can take
// part in a shape check under the given environment.
func (s ShapeSpec) Checkable(env Env) bool {
	if len(s.UnknownRuns(env)) > 1 {
		return false
	}

	for _, d := range s.dims {
		if !d.Checkable(env) {
			return false
		}
	}
	//
	return true
}

// Vars returns the names of all variables in this specification, sorted.
func (s ShapeSpec) Vars() []string {
	set := make(map[string]bool)
	//
	for _, d := range s.dims {
		if d.Value != nil {
			d.Value.Vars(set)
		}
	}
	//
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}

	sort.Strings(out)
	//
	return out
}

// String returns the canonical textual form of this specification, with
// normalised whitespace and parenthesisation.
func (s ShapeSpec) String() string {
	items := make([]string, len(s.dims))
	for i, d := range s.dims {
		items[i] = d.String()
	}
	//
	return "[" + strings.Join(items, " ") + "]"
}

// Equal determines whether two specifications have identical canonical
// forms.
func (s ShapeSpec) Equal(o ShapeSpec) bool {
	return s.String() == o.String()
}
