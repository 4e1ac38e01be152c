package shape

import (
	"fmt"
	"strings"

	"github.com/EPronovost/eincheck/pkg/spec"
	"github.com/EPronovost/eincheck/pkg/util"
)

// Argument is one (display name, shape, spec) triple of a resolution call.
type Argument struct {
	// Display name used in diagnostics.
	Name string
	// Concrete shape being checked.
	Shape Shape
	// Parsed specification to check against.
	Spec spec.ShapeSpec
}

// ============================================================================
// Failure taxonomy
// ============================================================================

// RankError indicates a shape had the wrong number of dimensions for its
// specification.
type RankError struct {
	// Offending argument name.
	Name string
	// Expected rank (a lower bound when AtLeast is set).
	Expected int
	// Whether the specification contains unknown-multiplicity nodes, making
	// Expected a lower bound rather than an exact count.
	AtLeast bool
	// Shape which had the wrong rank.
	Shape Shape
}

// Error implements the error interface.
func (p *RankError) Error() string {
	bound := ""
	if p.AtLeast {
		bound = "at least "
	}

	return fmt.Sprintf("%s: expected rank %s%d, got shape %s", p.Name, bound, p.Expected, p.Shape)
}

// MismatchError indicates a shape entry disagreed with the expected value of
// its dimension specification.
type MismatchError struct {
	// Offending argument name.
	Name string
	// Indices of the mismatched dimensions.
	Dims []int
	// Canonical text of the violated expression.
	Expr string
	// Value the expression evaluated to.
	Expected spec.Value
	// Shape entries found at those dimensions.
	Got Shape
}

// Error implements the error interface.
func (p *MismatchError) Error() string {
	return fmt.Sprintf("%s %s: expected %s=%s got %s",
		p.Name, formatDimIndices(p.Dims), p.Expr, p.Expected, formatGot(p.Got))
}

// BroadcastError indicates a broadcast expression failed: either its
// operands could not be broadcast together, or the resulting tuple disagreed
// with the shape entries it was checked against.
type BroadcastError struct {
	// Offending argument name.
	Name string
	// Indices of the dimensions being checked.
	Dims []int
	// Canonical text of the broadcast expression.
	Expr string
	// Value the expression evaluated to (unset when Cause is set).
	Expected spec.Value
	// Shape entries found at those dimensions.
	Got Shape
	// Underlying operand incompatibility, if that is what failed.
	Cause *spec.BroadcastError
}

// Error implements the error interface.
func (p *BroadcastError) Error() string {
	if p.Cause != nil {
		return fmt.Sprintf("%s %s: %s", p.Name, formatDimIndices(p.Dims), p.Cause)
	}

	return fmt.Sprintf("%s %s: expected %s=%s got %s",
		p.Name, formatDimIndices(p.Dims), p.Expr, p.Expected, formatGot(p.Got))
}

// Unwrap exposes the operand incompatibility, if any.
func (p *BroadcastError) Unwrap() error {
	if p.Cause != nil {
		return p.Cause
	}
	//
	return nil
}

// AmbiguityError indicates one or more arguments still had more than one
// unknown-multiplicity node with an undetermined run length once resolution
// reached its fixed point, so no alignment could be chosen.
type AmbiguityError struct {
	// Names of the unresolved arguments.
	Names []string
}

// Error implements the error interface.
func (p *AmbiguityError) Error() string {
	return fmt.Sprintf("unable to determine bindings for: %s", strings.Join(p.Names, " "))
}

// MissingVariableError indicates some arguments could not be checked because
// their expressions need variables which no argument ever binds.
type MissingVariableError struct {
	// Names of the arguments which could not be checked.
	Args []string
	// Names of the variables which were never bound.
	Variables []string
}

// Error implements the error interface.
func (p *MissingVariableError) Error() string {
	return fmt.Sprintf("unable to check: [%s] missing variables: [%s]",
		strings.Join(p.Args, " "), strings.Join(p.Variables, " "))
}

// ============================================================================
// Diagnostics builder
// ============================================================================

// ResolutionError is the structured failure returned by Resolve.  It wraps
// one of the taxonomy errors above (or an evaluation error from the spec
// package) with the variable bindings known at failure time and the full
// per-argument table, rendering the deterministic three-part diagnostic.
type ResolutionError struct {
	// Underlying failure, whose Error() is the one-line summary.
	Err error
	// Variables bound so far, in binding order.
	Bindings *Bindings
	// Every argument of the failed call.
	Args []Argument
}

// Error implements the error interface.
func (p *ResolutionError) Error() string {
	var builder strings.Builder
	// Part 1: summary
	builder.WriteString(p.Err.Error())
	// Part 2: bindings, in binding order
	for _, name := range p.Bindings.Names() {
		value, _ := p.Bindings.Lookup(name)
		builder.WriteString(fmt.Sprintf("\n  %s=%s", name, value))
	}
	// Part 3: per-argument table
	if len(p.Args) > 0 {
		builder.WriteString("\n")
		builder.WriteString(formatArgTable(p.Args))
	}
	//
	return builder.String()
}

// Unwrap exposes the underlying taxonomy error.
func (p *ResolutionError) Unwrap() error {
	return p.Err
}

// formatArgTable renders the column-aligned got/expected table, one row per
// argument in the call.
func formatArgTable(args []Argument) string {
	table := util.NewTablePrinter(3, uint(len(args)))
	table.SetIndent("  ")
	//
	for i, arg := range args {
		table.SetRow(uint(i), arg.Name+":", "got "+arg.Shape.String(), "expected "+arg.Spec.String())
	}
	//
	return table.Render()
}

func formatDimIndices(dims []int) string {
	if len(dims) == 1 {
		return fmt.Sprintf("dim %d", dims[0])
	}
	//
	items := make([]string, len(dims))
	for i, d := range dims {
		items[i] = fmt.Sprintf("%d", d)
	}
	//
	return "dims (" + strings.Join(items, ", ") + ")"
}

// formatGot renders the offending shape entries: a bare size for a single
// dimension, otherwise a tuple.
func formatGot(got Shape) string {
	if len(got) == 1 {
		if size, ok := got[0].Get(); ok {
			return fmt.Sprintf("%d", size)
		}

		return "_"
	}
	//
	return got.String()
}
