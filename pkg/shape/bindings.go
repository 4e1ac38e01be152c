package shape

import (
	"fmt"
	"strings"

	"github.com/EPronovost/eincheck/pkg/spec"
)

// Bindings is the variable environment of one resolution: a write-once
// mapping from variable names to values which remembers binding order.  A
// later Bind of an already bound variable is ignored; comparing against a
// bound value is the matcher's job, not the environment's.
type Bindings struct {
	names  []string
	values map[string]spec.Value
}

// NewBindings constructs an empty environment.
func NewBindings() *Bindings {
	return &Bindings{values: make(map[string]spec.Value)}
}

// Lookup the value bound to a given variable, if any.  This implements
// spec.Env.
func (b *Bindings) Lookup(name string) (spec.Value, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Bind a variable to a value.  Returns true if a new binding was made, or
// false if the variable was already bound (in which case the existing value
// is kept).
func (b *Bindings) Bind(name string, value spec.Value) bool {
	if _, ok := b.values[name]; ok {
		return false
	}

	b.names = append(b.names, name)
	b.values[name] = value
	//
	return true
}

// Len returns the number of bound variables.
func (b *Bindings) Len() int {
	return len(b.names)
}

// Names returns the bound variable names, in binding order.  The returned
// slice must not be mutated.
func (b *Bindings) Names() []string {
	return b.names
}

// Map returns a copy of the bindings as a plain map.
func (b *Bindings) Map() map[string]spec.Value {
	out := make(map[string]spec.Value, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	//
	return out
}

func (b *Bindings) String() string {
	items := make([]string, len(b.names))
	for i, name := range b.names {
		items[i] = fmt.Sprintf("%s=%s", name, b.values[name])
	}
	//
	return strings.Join(items, " ")
}
