package shape

import (
	"errors"
	"testing"

	"github.com/EPronovost/eincheck/pkg/spec"
)

// ============================================================================
// Successful resolutions
// ============================================================================

func TestResolve_Exact(t *testing.T) {
	env := checkResolves(t, nil, arg(t, "x", Of(3, 4), "i j"))
	checkBinding(t, env, "i", spec.IntValue(3))
	checkBinding(t, env, "j", spec.IntValue(4))
}

func TestResolve_Literals(t *testing.T) {
	checkResolves(t, nil, arg(t, "x", Of(2, 3, 4), "2 3 4"))
}

func TestResolve_Wildcards(t *testing.T) {
	env := checkResolves(t, nil, arg(t, "x", Of(2, 3, 4), "_ i _"))
	checkBinding(t, env, "i", spec.IntValue(3))

	if env.Len() != 1 {
		t.Errorf("got %d bindings", env.Len())
	}
}

func TestResolve_AnyRun(t *testing.T) {
	env := checkResolves(t, nil, arg(t, "x", Of(9, 9, 4, 5), "... i j"))
	checkBinding(t, env, "i", spec.IntValue(4))
	checkBinding(t, env, "j", spec.IntValue(5))
	// The run may also be empty.
	checkResolves(t, nil, arg(t, "x", Of(4, 5), "... i j"))
}

func TestResolve_Repeated(t *testing.T) {
	// A repeated literal matches zero or more dimensions of that size.
	checkResolves(t, nil, arg(t, "x", Of(4), "3* x"))
	checkResolves(t, nil, arg(t, "x", Of(3, 4), "3* x"))
	checkResolves(t, nil, arg(t, "x", Of(3, 3, 3, 3, 4), "3* x"))
}

func TestResolve_RepeatedVariable(t *testing.T) {
	env := checkResolves(t, nil, arg(t, "x", Of(2, 2, 2, 5), "i* j"))
	checkBinding(t, env, "i", spec.IntValue(2))
	checkBinding(t, env, "j", spec.IntValue(5))
}

func TestResolve_Variadic(t *testing.T) {
	env := checkResolves(t, nil, arg(t, "x", Of(2, 3, 4), "*v i"))
	checkBinding(t, env, "v", spec.TupleValue(2, 3))
	checkBinding(t, env, "i", spec.IntValue(4))
}

func TestResolve_CrossArgument(t *testing.T) {
	env := checkResolves(t, nil,
		arg(t, "x", Of(3, 4, 5), "... i j"),
		arg(t, "y", Of(5, 6), "... j k"))
	//
	checkBinding(t, env, "i", spec.IntValue(4))
	checkBinding(t, env, "j", spec.IntValue(5))
	checkBinding(t, env, "k", spec.IntValue(6))
}

func TestResolve_BroadcastSpec(t *testing.T) {
	env := checkResolves(t, nil,
		arg(t, "x", Of(1, 3), "*x"),
		arg(t, "y", Of(2, 1), "*y"),
		arg(t, "z", Of(2, 3, 4), "*(x^y) z"))
	//
	checkBinding(t, env, "x", spec.TupleValue(1, 3))
	checkBinding(t, env, "y", spec.TupleValue(2, 1))
	checkBinding(t, env, "z", spec.IntValue(4))
}

func TestResolve_ConcatSpec(t *testing.T) {
	checkResolves(t, nil,
		arg(t, "x", Of(2, 3), "*x"),
		arg(t, "y", Of(4, 5), "*y"),
		arg(t, "z", Of(2, 3, 4, 5), "*(x||y)"))
}

func TestResolve_Seeded(t *testing.T) {
	seeds := map[string]spec.Value{"i": spec.IntValue(4)}
	checkResolves(t, seeds, arg(t, "x", Of(5, 3), "(i+1) (i-1)"))
}

func TestResolve_MultiPass(t *testing.T) {
	// The first argument has two runs of undetermined length, so its
	// alignment is deferred until the second argument determines x.
	env := checkResolves(t, nil,
		arg(t, "x", Of(9, 2, 3), "... *x"),
		arg(t, "y", Of(2, 3), "*x"))
	//
	checkBinding(t, env, "x", spec.TupleValue(2, 3))
}

func TestResolve_UnknownEntries(t *testing.T) {
	// Unknown dimensions match any constraint without contributing a binding.
	s := Shape{KnownDim(3), UnknownDim()}
	env := checkResolves(t, nil, arg(t, "x", s, "i j"))
	//
	checkBinding(t, env, "i", spec.IntValue(3))

	if _, ok := env.Lookup("j"); ok {
		t.Errorf("j bound from an unknown entry")
	}
}

func TestResolve_UnknownEntryAgainstLiteral(t *testing.T) {
	s := Shape{UnknownDim(), KnownDim(4)}
	checkResolves(t, nil, arg(t, "x", s, "3 4"))
}

func TestResolve_Idempotent(t *testing.T) {
	args := []Argument{
		arg(t, "x", Of(3, 4, 5), "... i j"),
		arg(t, "y", Of(5, 6), "... j k"),
	}

	env := checkResolves(t, nil, args...)
	again := checkResolves(t, env.Map(), args...)
	//
	for _, name := range env.Names() {
		value, _ := env.Lookup(name)
		checkBinding(t, again, name, value)
	}
}

func TestResolve_Commutative(t *testing.T) {
	x := arg(t, "x", Of(3, 4, 5), "... i j")
	y := arg(t, "y", Of(5, 6), "... j k")
	//
	lhs := checkResolves(t, nil, x, y)
	rhs := checkResolves(t, nil, y, x)
	//
	for _, name := range lhs.Names() {
		value, _ := lhs.Lookup(name)
		checkBinding(t, rhs, name, value)
	}
}

func TestResolve_Empty(t *testing.T) {
	env := checkResolves(t, nil)
	//
	if env.Len() != 0 {
		t.Errorf("got %d bindings", env.Len())
	}
}

// ============================================================================
// Failing resolutions
// ============================================================================

func TestResolve_RankMismatch(t *testing.T) {
	err := checkFails(t, nil, arg(t, "x", Of(3), "i j"))
	//
	var rErr *RankError
	if !errors.As(err, &rErr) {
		t.Fatalf("expected rank error, got %v", err)
	}

	if rErr.Expected != 2 || rErr.AtLeast {
		t.Errorf("got %v", rErr)
	}
}

func TestResolve_RankBelowMinimum(t *testing.T) {
	err := checkFails(t, nil, arg(t, "x", Of(3), "... i j"))
	//
	var rErr *RankError
	if !errors.As(err, &rErr) {
		t.Fatalf("expected rank error, got %v", err)
	}

	if rErr.Expected != 2 || !rErr.AtLeast {
		t.Errorf("got %v", rErr)
	}
}

func TestResolve_DimMismatch(t *testing.T) {
	err := checkFails(t, nil, arg(t, "x", Of(5, 6), "i i"))
	//
	var mErr *MismatchError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected mismatch, got %v", err)
	}

	if len(mErr.Dims) != 1 || mErr.Dims[0] != 1 {
		t.Errorf("got dims %v", mErr.Dims)
	}

	if !mErr.Expected.Equal(spec.IntValue(5)) {
		t.Errorf("got expected %s", mErr.Expected)
	}
}

func TestResolve_RepeatedMismatch(t *testing.T) {
	err := checkFails(t, nil, arg(t, "x", Of(3, 4, 4), "3* x"))
	//
	var mErr *MismatchError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected mismatch, got %v", err)
	}

	if len(mErr.Dims) != 1 || mErr.Dims[0] != 1 {
		t.Errorf("got dims %v", mErr.Dims)
	}
}

func TestResolve_ExpressionMismatch(t *testing.T) {
	seeds := map[string]spec.Value{"i": spec.IntValue(3)}
	err := checkFails(t, seeds, arg(t, "x", Of(5, 3), "(i+1) (i-1)"))
	//
	var mErr *MismatchError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected mismatch, got %v", err)
	}

	if mErr.Expr != "(i+1)" {
		t.Errorf("got expr %q", mErr.Expr)
	}
}

func TestResolve_BroadcastMismatch(t *testing.T) {
	err := checkFails(t, nil,
		arg(t, "x", Of(1, 3), "*x"),
		arg(t, "y", Of(2, 1), "*y"),
		arg(t, "z", Of(2, 4, 4), "*(x^y) z"))
	//
	var bErr *BroadcastError
	if !errors.As(err, &bErr) {
		t.Fatalf("expected broadcast error, got %v", err)
	}

	if bErr.Name != "z" {
		t.Errorf("got name %q", bErr.Name)
	}

	if !bErr.Expected.Equal(spec.TupleValue(2, 3)) {
		t.Errorf("got expected %s", bErr.Expected)
	}

	if bErr.Got.String() != "(2, 4)" {
		t.Errorf("got %s", bErr.Got)
	}
}

func TestResolve_IncompatibleBroadcast(t *testing.T) {
	err := checkFails(t, nil,
		arg(t, "x", Of(2, 3), "*x"),
		arg(t, "y", Of(2, 4), "*y"),
		arg(t, "z", Of(2, 4), "*(x^y)"))
	//
	var bErr *BroadcastError
	if !errors.As(err, &bErr) {
		t.Fatalf("expected broadcast error, got %v", err)
	}

	if bErr.Cause == nil {
		t.Errorf("operand incompatibility not attached")
	}
	// The operand failure is also reachable through the chain.
	var cause *spec.BroadcastError
	if !errors.As(err, &cause) {
		t.Errorf("operand failure not unwrapped")
	}
}

func TestResolve_Ambiguous(t *testing.T) {
	err := checkFails(t, nil, arg(t, "x", Of(2, 3, 4), "... ..."))
	//
	var aErr *AmbiguityError
	if !errors.As(err, &aErr) {
		t.Fatalf("expected ambiguity, got %v", err)
	}

	if len(aErr.Names) != 1 || aErr.Names[0] != "x" {
		t.Errorf("got %v", aErr.Names)
	}
}

func TestResolve_MissingVariable(t *testing.T) {
	err := checkFails(t, nil, arg(t, "x", Of(5, 3), "(i+1) (i-1)"))
	//
	var mErr *MissingVariableError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected missing variable, got %v", err)
	}

	if len(mErr.Args) != 1 || mErr.Args[0] != "x" {
		t.Errorf("got args %v", mErr.Args)
	}

	if len(mErr.Variables) != 1 || mErr.Variables[0] != "i" {
		t.Errorf("got variables %v", mErr.Variables)
	}
}

func TestResolve_KindConflict(t *testing.T) {
	err := checkFails(t, nil,
		arg(t, "x", Of(3), "i"),
		arg(t, "y", Of(2, 3), "*i"))
	//
	var cErr *spec.TypeConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected type conflict, got %v", err)
	}

	if len(cErr.Names) != 1 || cErr.Names[0] != "i" {
		t.Errorf("got %v", cErr.Names)
	}
}

func TestResolve_SeedConflict(t *testing.T) {
	seeds := map[string]spec.Value{"i": spec.TupleValue(2, 3)}
	err := checkFails(t, seeds, arg(t, "x", Of(3), "i"))
	//
	var cErr *spec.TypeConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected type conflict, got %v", err)
	}
}

func TestResolve_SeedMismatch(t *testing.T) {
	seeds := map[string]spec.Value{"i": spec.IntValue(7)}
	err := checkFails(t, seeds, arg(t, "x", Of(3), "i"))
	//
	var mErr *MismatchError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

// ============================================================================
// Diagnostics
// ============================================================================

func TestResolutionError_Rendering(t *testing.T) {
	err := checkFails(t, nil,
		arg(t, "x", Of(3, 4, 5), "... i j"),
		arg(t, "y", Of(6, 6), "... j k"))
	//
	expected := "y dim 0: expected j=5 got 6\n" +
		"  i=4\n" +
		"  j=5\n" +
		"  k=6\n" +
		"  x: got (3, 4, 5) expected [_* i j]\n" +
		"  y: got (6, 6)    expected [_* j k]"

	if err.Error() != expected {
		t.Errorf("got:\n%s\nexpected:\n%s", err.Error(), expected)
	}
}

func TestResolutionError_BindingsInOrder(t *testing.T) {
	err := checkFails(t, nil, arg(t, "x", Of(5, 6, 7, 0), "a b c 1"))
	//
	rErr, ok := err.(*ResolutionError)
	if !ok {
		t.Fatalf("expected resolution error, got %v", err)
	}

	names := rErr.Bindings.Names()
	expected := []string{"a", "b", "c"}

	if len(names) != len(expected) {
		t.Fatalf("got %v", names)
	}

	for i := range names {
		if names[i] != expected[i] {
			t.Fatalf("got %v", names)
		}
	}
}

// ============================================================================
// Helpers
// ============================================================================

func arg(t *testing.T, name string, s Shape, source string) Argument {
	t.Helper()
	//
	parsed, err := spec.Parse(source)
	if err != nil {
		t.Fatalf("parsing %q: %v", source, err)
	}
	//
	return Argument{Name: name, Shape: s, Spec: parsed}
}

func checkResolves(t *testing.T, seeds map[string]spec.Value, args ...Argument) *Bindings {
	t.Helper()
	//
	env, err := Resolve(args, seeds)
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	//
	return env
}

func checkFails(t *testing.T, seeds map[string]spec.Value, args ...Argument) error {
	t.Helper()
	//
	env, err := Resolve(args, seeds)
	if err == nil {
		t.Fatalf("expected failure, resolved %s", env)
	}

	if _, ok := err.(*ResolutionError); !ok {
		t.Fatalf("failure not wrapped: %v", err)
	}
	//
	return err
}

func checkBinding(t *testing.T, env *Bindings, name string, expected spec.Value) {
	t.Helper()
	//
	value, ok := env.Lookup(name)
	if !ok {
		t.Fatalf("%s not bound in %s", name, env)
	}

	if !value.Equal(expected) {
		t.Errorf("%s: got %s, expected %s", name, value, expected)
	}
}
