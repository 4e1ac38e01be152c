package check

import "sync"

// Toggle is the enable/disable switch for shape checking.  Scopes nest as a
// simple stack: pushing a value overrides the current setting, popping
// restores the previous one.  The stack itself is guarded for memory safety,
// but no attempt is made to isolate scopes across goroutines.
type Toggle struct {
	mu sync.Mutex
	// Default setting when the stack is empty.
	enabled bool
	// Nested overrides, innermost last.
	stack []bool
}

// NewToggle constructs a toggle with the given default setting.
func NewToggle(enabled bool) *Toggle {
	return &Toggle{enabled: enabled}
}

// Enabled reports the innermost setting.
func (t *Toggle) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	//
	if n := len(t.stack); n > 0 {
		return t.stack[n-1]
	}
	//
	return t.enabled
}

// Push a new setting, overriding the current one until the returned restore
// function is called.  Intended for use with defer:
//
//	defer toggle.Push(false)()
func (t *Toggle) Push(enabled bool) func() {
	t.mu.Lock()
	t.stack = append(t.stack, enabled)
	t.mu.Unlock()
	//
	return t.pop
}

func (t *Toggle) pop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	//
	if len(t.stack) == 0 {
		panic("enable/disable scope already exited")
	}

	t.stack = t.stack[:len(t.stack)-1]
}

// defaultToggle is the process-wide switch consulted by Shapes, Wrap and
// Struct.
var defaultToggle = NewToggle(true)

// DefaultToggle returns the process-wide toggle instance.
func DefaultToggle() *Toggle {
	return defaultToggle
}

// Enabled reports whether checking is currently enabled process-wide.
func Enabled() bool {
	return defaultToggle.Enabled()
}

// Enable turns checking on until the returned restore function is called.
//
//	defer check.Enable()()
func Enable() func() {
	return defaultToggle.Push(true)
}

// Disable turns checking off until the returned restore function is called.
//
//	defer check.Disable()()
func Disable() func() {
	return defaultToggle.Push(false)
}
