package spec

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse a given string into a ShapeSpec, or return an error if the string is
// malformed.  Parsing is a pure function of the source string; see
// cache.SpecCache for the memoised variant.
func Parse(source string) (ShapeSpec, error) {
	// The reserved "$" token is only valid as an entire specification.
	if strings.TrimSpace(source) == "$" {
		return DataSpec(), nil
	}
	//
	p := &parser{source: source, text: []rune(source)}
	//
	return p.parseShape()
}

// FromElements converts a pre-tokenised list into a ShapeSpec, bypassing the
// string grammar.  Elements may be: a dimension size (int), nil (an
// unconstrained dimension), a bare variable name (string), or an existing
// DimSpec.  No operators or parentheses are permitted on this path.
func FromElements(elems []any) (ShapeSpec, error) {
	dims := make([]DimSpec, len(elems))
	//
	for i, e := range elems {
		switch x := e.(type) {
		case nil:
			dims[i] = Wildcard()
		case int:
			if x < 0 {
				return ShapeSpec{}, elementError(i, fmt.Sprintf("negative dimension %d", x))
			}

			dims[i] = Lit(x)
		case string:
			if !isBareName(x) {
				return ShapeSpec{}, elementError(i, fmt.Sprintf("invalid variable name %q", x))
			}

			dims[i] = Var(x)
		case DimSpec:
			dims[i] = x
		default:
			return ShapeSpec{}, elementError(i, fmt.Sprintf("unexpected element of type %T", e))
		}
	}
	//
	return ShapeSpec{dims}, nil
}

func elementError(index int, msg string) *SyntaxError {
	return NewSyntaxError("", NewSpan(index, index+1), fmt.Sprintf("element %d: %s", index, msg))
}

func isBareName(s string) bool {
	if s == "" {
		return false
	}

	for _, c := range s {
		if !unicode.IsLetter(c) || c > unicode.MaxASCII {
			return false
		}
	}
	//
	return true
}

// ============================================================================
// Parser
// ============================================================================

// Parser represents a parser in the process of parsing a given string into a
// shape specification.
type parser struct {
	// Original source (for error reporting).
	source string
	// Text being parsed.
	text []rune
	// Current position within text.
	index int
}

// Parse the whole input as a whitespace-separated sequence of dim-tokens.
func (p *parser) parseShape() (ShapeSpec, error) {
	var dims []DimSpec
	//
	for {
		p.skipWhitespace()

		if p.index == len(p.text) {
			break
		}
		// Find the end of this dim-token: the next whitespace outside
		// parentheses.
		start := p.index
		end, err := p.findDimEnd()

		if err != nil {
			return ShapeSpec{}, err
		}

		dim, err := p.parseDim(start, end)
		if err != nil {
			return ShapeSpec{}, err
		}

		dims = append(dims, dim)
		p.index = end
	}
	//
	return ShapeSpec{dims}, nil
}

// Scan forward to the end of the current dim-token, checking parentheses
// balance on the way.
func (p *parser) findDimEnd() (int, error) {
	depth := 0
	i := p.index
	//
	for ; i < len(p.text); i++ {
		c := p.text[i]

		switch {
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return 0, p.errorAt(i, i+1, "unbalanced ')'")
			}
		case unicode.IsSpace(c) && depth == 0:
			return i, nil
		}
	}
	//
	if depth != 0 {
		return 0, p.errorAt(i, i+1, "unclosed '('")
	}
	//
	return i, nil
}

// Parse one dim-token occupying text[start:end].
func (p *parser) parseDim(start int, end int) (DimSpec, error) {
	token := string(p.text[start:end])
	//
	switch {
	case token == "...":
		return AnyRun(), nil
	case token == "$":
		return DimSpec{}, p.errorAt(start, end, "reserved token $ must be the entire specification")
	case token[0] == '*':
		// Variadic: "*" followed by an expression.
		inner, err := p.parseBase(start+1, end)
		if err != nil {
			return DimSpec{}, err
		}

		return inner.MakeVariadic(), nil
	case token[len(token)-1] == '*':
		// Repeated: an expression followed by "*".
		inner, err := p.parseBase(start, end-1)
		if err != nil {
			return DimSpec{}, err
		}

		return inner.MakeRepeated(), nil
	default:
		return p.parseBase(start, end)
	}
}

// Parse a single-dimension spec (an underscore or a value expression)
// occupying text[start:end] exactly.
func (p *parser) parseBase(start int, end int) (DimSpec, error) {
	if start == end {
		return DimSpec{}, p.errorAt(start, end+1, "expected an expression")
	}

	if string(p.text[start:end]) == "_" {
		return Wildcard(), nil
	}
	//
	p.index = start

	expr, err := p.parseExpr(end)
	if err != nil {
		return DimSpec{}, err
	}

	if p.index != end {
		return DimSpec{}, p.errorAt(p.index, end, fmt.Sprintf("unexpected %q", string(p.text[p.index:end])))
	}
	//
	return DimSpec{Value: expr}, nil
}

// Parse a value expression: an integer literal, a bare variable, or a fully
// parenthesised compound expression.
func (p *parser) parseExpr(end int) (Expr, error) {
	p.skipWhitespaceUntil(end)

	if p.index == end {
		return nil, p.errorAt(p.index, end+1, "expected an expression")
	}
	//
	c := p.text[p.index]

	switch {
	case c == '(':
		return p.parseParen(end)
	case c >= '0' && c <= '9':
		return p.parseInt(end), nil
	case isLetter(c):
		return p.parseWord(end), nil
	default:
		return nil, p.errorAt(p.index, p.index+1, fmt.Sprintf("unexpected character %q", string(c)))
	}
}

// Parse a parenthesised expression: "(" expr ")" or "(" expr op expr ")".
// Parentheses are mandatory at every composition level, so no precedence is
// needed.
func (p *parser) parseParen(end int) (Expr, error) {
	p.index++ // consume '('

	lhs, err := p.parseExpr(end)
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceUntil(end)

	if p.index == end {
		return nil, p.errorAt(p.index, end+1, "expected ')'")
	}
	// Grouping without an operator
	if p.text[p.index] == ')' {
		p.index++
		return lhs, nil
	}

	op, err := p.parseOperator(end)
	if err != nil {
		return nil, err
	}

	rhs, err := p.parseExpr(end)
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceUntil(end)

	if p.index == end || p.text[p.index] != ')' {
		return nil, p.errorAt(p.index, p.index+1, "expected ')'")
	}

	p.index++ // consume ')'
	//
	switch op {
	case "+":
		return Add{lhs, rhs}, nil
	case "-":
		return Sub{lhs, rhs}, nil
	case "*":
		return Mul{lhs, rhs}, nil
	case "||":
		return Concat{lhs, rhs}, nil
	default:
		return Broadcast{lhs, rhs}, nil
	}
}

func (p *parser) parseOperator(end int) (string, error) {
	c := p.text[p.index]
	//
	switch c {
	case '+', '-', '*', '^':
		p.index++
		return string(c), nil
	case '|':
		if p.index+1 < end && p.text[p.index+1] == '|' {
			p.index += 2
			return "||", nil
		}

		return "", p.errorAt(p.index, p.index+1, "expected '||'")
	default:
		return "", p.errorAt(p.index, p.index+1, fmt.Sprintf("unexpected character %q", string(c)))
	}
}

// Parse an integer literal.
func (p *parser) parseInt(end int) Expr {
	x := 0
	//
	for p.index < end && p.text[p.index] >= '0' && p.text[p.index] <= '9' {
		x = (x * 10) + int(p.text[p.index]-'0')
		p.index++
	}
	//
	return Literal{x}
}

// Parse a bare variable name.
func (p *parser) parseWord(end int) Expr {
	start := p.index
	//
	for p.index < end && isLetter(p.text[p.index]) {
		p.index++
	}
	//
	return Variable{string(p.text[start:p.index])}
}

func (p *parser) skipWhitespace() {
	p.skipWhitespaceUntil(len(p.text))
}

func (p *parser) skipWhitespaceUntil(end int) {
	for p.index < end && unicode.IsSpace(p.text[p.index]) {
		p.index++
	}
}

// Construct a parser error at a given position in the input stream.
func (p *parser) errorAt(start int, end int, msg string) *SyntaxError {
	return NewSyntaxError(p.source, NewSpan(start, end), msg)
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
