package spec

// DimKind determines how many dimensions a DimSpec matches.
type DimKind uint8

const (
	// Single matches exactly one dimension.
	Single DimKind = iota
	// Repeated matches zero or more dimensions, each checked independently
	// against the same expression.
	Repeated
	// Variadic matches zero or more dimensions, collected into one tuple and
	// compared against the expression as a single value.
	Variadic
)

// DimSpec is one constraint unit within a shape specification.  It can cover
// more than one dimension when its kind is Repeated or Variadic.
type DimSpec struct {
	// Expression for the expected value of this DimSpec.  This evaluates to a
	// single integer (Single, Repeated) or a tuple (Variadic).  A nil value
	// is an unconstrained dimension (i.e. "_" or "...").
	Value Expr
	// How many dimensions this DimSpec matches.
	Kind DimKind
}

// Lit constructs a DimSpec matching a single literal dimension size.
func Lit(x int) DimSpec {
	return DimSpec{Value: Literal{x}}
}

// Var constructs a DimSpec matching a single dimension bound to a variable.
func Var(name string) DimSpec {
	return DimSpec{Value: Variable{name}}
}

// Wildcard constructs a DimSpec matching exactly one dimension of any size,
// without binding anything.
func Wildcard() DimSpec {
	return DimSpec{}
}

// AnyRun constructs a DimSpec matching zero or more dimensions of any size.
// This is the parsed form of "...", "_*" and "*_" alike.
func AnyRun() DimSpec {
	return DimSpec{Kind: Repeated}
}

// MatchesMultiple determines whether this DimSpec can cover other than
// exactly one dimension.
func (d DimSpec) MatchesMultiple() bool {
	return d.Kind != Single
}

// MakeRepeated converts a single-dimension DimSpec into its repeated form.
func (d DimSpec) MakeRepeated() DimSpec {
	if d.Kind != Single {
		panic("cannot repeat a multi-dimension spec")
	}

	return DimSpec{Value: d.Value, Kind: Repeated}
}

// MakeVariadic converts a single-dimension DimSpec into its variadic form.
// A variadic wildcard is normalised to AnyRun, since "*_" and "_*" have
// identical meaning.
func (d DimSpec) MakeVariadic() DimSpec {
	if d.Kind != Single {
		panic("cannot make a multi-dimension spec variadic")
	}
	// Normalise *_ to the canonical any-run form.
	if d.Value == nil {
		return AnyRun()
	}

	return DimSpec{Value: d.Value, Kind: Variadic}
}

// NDims determines the number of dimensions matched by this DimSpec under
// the given environment, if that number is known.
func (d DimSpec) NDims(env Env) (int, bool) {
	switch d.Kind {
	case Single:
		return 1, true
	case Repeated:
		return 0, false
	}
	// Variadic: length known once the expression evaluates to a tuple.
	if d.Value != nil && d.Value.Defined(env) {
		if v, err := d.Value.Eval(env); err == nil && v.IsTuple() {
			return len(v.Tuple()), true
		}
	}
	//
	return 0, false
}

// Checkable determines whether this DimSpec can take part in a shape check
// under the given environment: either its expression is fully defined, or it
// is a bare variable (which a check pass can bind itself).
func (d DimSpec) Checkable(env Env) bool {
	if d.Value == nil {
		return true
	}

	if _, ok := d.Value.(Variable); ok {
		return true
	}
	//
	return d.Value.Defined(env)
}

func (d DimSpec) String() string {
	s := "_"
	if d.Value != nil {
		s = d.Value.String()
	}
	//
	switch d.Kind {
	case Variadic:
		return "*" + s
	case Repeated:
		return s + "*"
	default:
		return s
	}
}
