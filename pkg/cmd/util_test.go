package cmd

import (
	"testing"

	"github.com/EPronovost/eincheck/pkg/spec"
)

func TestParseShape(t *testing.T) {
	s, err := parseShape("3, 4, _")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.String() != "(3, 4, _)" {
		t.Errorf("got %s", s)
	}
	// Empty input is a rank-0 shape.
	s, err = parseShape("")
	if err != nil || s.Rank() != 0 {
		t.Errorf("got %s, %v", s, err)
	}
	//
	if _, err := parseShape("3,x"); err == nil {
		t.Errorf("invalid dimension accepted")
	}

	if _, err := parseShape("3,-1"); err == nil {
		t.Errorf("negative dimension accepted")
	}
}

func TestParseBinding(t *testing.T) {
	name, value, err := parseBinding("i=3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if name != "i" || !value.Equal(spec.IntValue(3)) {
		t.Errorf("got %s=%s", name, value)
	}
	//
	name, value, err = parseBinding("batch=2,3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if name != "batch" || !value.Equal(spec.TupleValue(2, 3)) {
		t.Errorf("got %s=%s", name, value)
	}
	//
	if _, _, err := parseBinding("i"); err == nil {
		t.Errorf("missing '=' accepted")
	}

	if _, _, err := parseBinding("i=x"); err == nil {
		t.Errorf("invalid value accepted")
	}
}
