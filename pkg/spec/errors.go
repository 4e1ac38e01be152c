package spec

import (
	"fmt"
	"strings"
)

// Span identifies a range of characters in the source text of a shape
// specification.
type Span struct {
	start int
	end   int
}

// NewSpan constructs a span over the given character range.
func NewSpan(start int, end int) Span {
	return Span{start, end}
}

// Start of this span.
func (s Span) Start() int {
	return s.start
}

// End of this span.
func (s Span) End() int {
	return s.end
}

// SyntaxError is a structured error which retains the index into the original
// string where an error occurred, along with an error message.
type SyntaxError struct {
	// Source text being parsed.
	source string
	// Character range being reported.
	span Span
	// Error message being reported.
	msg string
}

// NewSyntaxError simply constructs a new syntax error.
func NewSyntaxError(source string, span Span, msg string) *SyntaxError {
	return &SyntaxError{source, span, msg}
}

// Source returns the text being parsed when this error arose.
func (p *SyntaxError) Source() string {
	return p.source
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	return fmt.Sprintf("%q:%d:%d: %s", p.source, p.span.Start(), p.span.End(), p.msg)
}

// MissingVariableError indicates an expression was evaluated against an
// environment which does not bind one of its variables.
type MissingVariableError struct {
	// Name of the unbound variable.
	Name string
}

// Error implements the error interface.
func (p *MissingVariableError) Error() string {
	return fmt.Sprintf("variable %s is not bound", p.Name)
}

// TypeConflictError indicates a variable or expression mixed scalar and
// tuple uses: either an operand evaluated to the wrong kind of value, or
// (during resolution) one variable was used in both variadic and
// non-variadic positions.
type TypeConflictError struct {
	// Names of variables used as both scalars and tuples.  Empty when the
	// conflict arose from a single expression operand.
	Names []string
	// Expression whose operand had the wrong type.
	Expr string
	// Value the operand evaluated to.
	Got Value
	// Description of the expected kind ("an integer" or "a tuple").
	Want string
}

// Error implements the error interface.
func (p *TypeConflictError) Error() string {
	if len(p.Names) > 0 {
		return fmt.Sprintf(
			"variables used in both variadic and non-variadic expressions: %s",
			strings.Join(p.Names, " "))
	}

	return fmt.Sprintf("expected %s for %s, got %s", p.Want, p.Expr, p.Got)
}

// BroadcastError indicates two tuples could not be broadcast together
// because a pair of sizes disagreed and neither was 1.
type BroadcastError struct {
	// Operand tuples.
	X, Y []int
	// Index of the mismatched position, in right-aligned result coordinates.
	Index int
}

// Error implements the error interface.
func (p *BroadcastError) Error() string {
	return fmt.Sprintf("cannot broadcast %s with %s: mismatch in dim %d",
		formatDims(p.X), formatDims(p.Y), p.Index)
}

func formatDims(dims []int) string {
	items := make([]string, len(dims))
	for i, d := range dims {
		items[i] = fmt.Sprintf("%d", d)
	}

	return "(" + strings.Join(items, ", ") + ")"
}
