package shape

import (
	"github.com/EPronovost/eincheck/pkg/spec"
)

// segment records that one DimSpec covers shape entries [start, end).
type segment struct {
	dim   spec.DimSpec
	start int
	end   int
}

// checkRank determines whether the rank of an argument's shape is compatible
// with its specification under the given environment.  When the
// specification contains a node of undetermined run length, the expected
// rank is only a lower bound.
func checkRank(arg Argument, env spec.Env) *RankError {
	minRank := arg.Spec.MinRank(env)
	//
	if len(arg.Spec.UnknownRuns(env)) > 0 {
		if arg.Shape.Rank() < minRank {
			return &RankError{Name: arg.Name, Expected: minRank, AtLeast: true, Shape: arg.Shape}
		}
	} else if arg.Shape.Rank() != minRank {
		return &RankError{Name: arg.Name, Expected: minRank, Shape: arg.Shape}
	}
	//
	return nil
}

// segments aligns an argument's shape entries against its DimSpecs.  The
// caller must have established that the rank is compatible and that at most
// one node has an undetermined run length: that node receives all entries
// not consumed by its neighbours, nodes before it consuming from the front
// and nodes after it from the back.
func segments(arg Argument, env spec.Env) []segment {
	dims := arg.Spec.Dims()
	known := make([]int, len(dims))
	minRank := 0
	unknown := -1
	//
	for i, d := range dims {
		if n, ok := d.NDims(env); ok {
			known[i] = n
			minRank += n
		} else {
			known[i] = -1
			unknown = i
		}
	}
	//
	out := make([]segment, len(dims))
	index := 0

	for i, d := range dims {
		n := known[i]
		if i == unknown {
			n = arg.Shape.Rank() - minRank
		}

		out[i] = segment{d, index, index + n}
		index += n
	}
	//
	return out
}

// bindArg makes every binding the argument allows under current knowledge:
// each unbound bare variable is bound to the known shape entries it aligns
// with.  Unknown entries never contribute a binding.
func bindArg(arg Argument, env *Bindings) {
	for _, seg := range segments(arg, env) {
		v, ok := seg.dim.Value.(spec.Variable)
		if !ok {
			continue
		}

		if _, bound := env.Lookup(v.Name); bound {
			continue
		}
		//
		slice := arg.Shape[seg.start:seg.end]

		switch seg.dim.Kind {
		case spec.Single:
			if size, known := slice[0].Get(); known {
				env.Bind(v.Name, spec.IntValue(size))
			}
		case spec.Variadic:
			if sizes, known := slice.Known(); known {
				env.Bind(v.Name, spec.TupleValue(sizes...))
			}
		case spec.Repeated:
			// Every repetition must agree, so any known entry determines the
			// variable.
			for _, d := range slice {
				if size, known := d.Get(); known {
					env.Bind(v.Name, spec.IntValue(size))
					break
				}
			}
		}
	}
}

// checkArg verifies every constrained position of the argument against the
// environment.  The caller must have established that the argument is
// checkable (all expressions evaluable, at most one undetermined run).
func checkArg(arg Argument, env *Bindings) error {
	for _, seg := range segments(arg, env) {
		if seg.dim.Value == nil {
			continue
		}

		expected, err := seg.dim.Value.Eval(env)
		if err != nil {
			if failure := evalFailure(arg, seg, err); failure != nil {
				return failure
			}

			continue
		}
		// A variadic node must evaluate to a tuple, everything else to an
		// integer.
		if (seg.dim.Kind == spec.Variadic) != expected.IsTuple() {
			want := "an integer"
			if seg.dim.Kind == spec.Variadic {
				want = "a tuple"
			}

			return &spec.TypeConflictError{Expr: seg.dim.String(), Got: expected, Want: want}
		}
		//
		slice := arg.Shape[seg.start:seg.end]

		switch seg.dim.Kind {
		case spec.Single, spec.Repeated:
			for i, d := range slice {
				size, known := d.Get()
				if !known || size == expected.Int() {
					continue
				}

				return &MismatchError{
					Name:     arg.Name,
					Dims:     []int{seg.start + i},
					Expr:     seg.dim.Value.String(),
					Expected: expected,
					Got:      Shape{d},
				}
			}
		case spec.Variadic:
			if err := checkVariadic(arg, seg, slice, expected); err != nil {
				return err
			}
		}
	}
	//
	return nil
}

// checkVariadic compares the run of shape entries collected by a variadic
// node against the tuple its expression evaluated to.
func checkVariadic(arg Argument, seg segment, slice Shape, expected spec.Value) error {
	tuple := expected.Tuple()
	//
	for i, d := range slice {
		size, known := d.Get()
		if !known || size == tuple[i] {
			continue
		}
		//
		dims := make([]int, len(slice))
		for j := range slice {
			dims[j] = seg.start + j
		}
		// A disagreement with a broadcast expression is a broadcast failure.
		if _, isBroadcast := seg.dim.Value.(spec.Broadcast); isBroadcast {
			return &BroadcastError{
				Name:     arg.Name,
				Dims:     dims,
				Expr:     seg.dim.Value.String(),
				Expected: expected,
				Got:      slice,
			}
		}

		return &MismatchError{
			Name:     arg.Name,
			Dims:     dims,
			Expr:     seg.dim.Value.String(),
			Expected: expected,
			Got:      slice,
		}
	}
	//
	return nil
}

// evalFailure maps an expression evaluation error into the failure taxonomy.
// A nil result means the position is vacuously matched.
func evalFailure(arg Argument, seg segment, err error) error {
	switch e := err.(type) {
	case *spec.MissingVariableError:
		// Only reachable for a bare variable whose entries were all unknown:
		// nothing to compare against, so the position is vacuously matched.
		if _, ok := seg.dim.Value.(spec.Variable); ok {
			return nil
		}

		return e
	case *spec.BroadcastError:
		dims := make([]int, seg.end-seg.start)
		for j := range dims {
			dims[j] = seg.start + j
		}

		return &BroadcastError{Name: arg.Name, Dims: dims, Expr: seg.dim.Value.String(), Cause: e}
	default:
		return err
	}
}
