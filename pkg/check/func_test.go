package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EPronovost/eincheck/pkg/shape"
)

// matmul returns the result shape of multiplying two matrices, standing in
// for the real operation in these tests.
func matmul(x []int, y []int) []int {
	return []int{x[0], y[1]}
}

func TestWrap(t *testing.T) {
	checked := Wrap(matmul,
		[]FuncSpec{In(0, "i j"), In(1, "j k")},
		[]FuncSpec{Out(0, "i k")})
	//
	out := checked([]int{2, 3}, []int{3, 4})
	assert.Equal(t, []int{2, 4}, out)
}

func TestWrap_InputViolation(t *testing.T) {
	checked := Wrap(matmul,
		[]FuncSpec{In(0, "i j"), In(1, "j k")},
		[]FuncSpec{Out(0, "i k")})
	//
	assert.Panics(t, func() { checked([]int{2, 3}, []int{5, 4}) })
}

func TestWrap_OutputViolation(t *testing.T) {
	// The declared output shape disagrees with what the function returns.
	broken := func(x []int) []int { return []int{x[1], x[1]} }

	checked := Wrap(broken,
		[]FuncSpec{In(0, "i j")},
		[]FuncSpec{Out(0, "j i")})
	// Bindings made by the inputs carry over to the outputs.
	assert.NotPanics(t, func() { checked([]int{5, 5}) })
	assert.Panics(t, func() { checked([]int{2, 3}) })
}

func TestWrap_Disabled(t *testing.T) {
	checked := Wrap(matmul,
		[]FuncSpec{In(0, "i j"), In(1, "j k")},
		[]FuncSpec{Out(0, "i k")})
	//
	defer Disable()()
	assert.NotPanics(t, func() { checked([]int{2, 3}, []int{5, 4}) })
}

func TestWrap_NotAFunction(t *testing.T) {
	assert.Panics(t, func() { Wrap(42, nil, nil) })
}

func TestWrap_IndexOutOfRange(t *testing.T) {
	assert.Panics(t, func() {
		Wrap(matmul, []FuncSpec{In(2, "i j")}, nil)
	})

	assert.Panics(t, func() {
		Wrap(matmul, nil, []FuncSpec{Out(1, "i j")})
	})
}

func TestWrap_Paths(t *testing.T) {
	type pair struct {
		X []int
		Y []int
	}

	fn := func(p pair) []int { return p.Y }

	checked := Wrap(fn,
		[]FuncSpec{
			{Index: 0, Path: "X", Spec: "n d"},
			{Index: 0, Path: "Y", Spec: "n"},
		},
		[]FuncSpec{Out(0, "n")})
	//
	assert.NotPanics(t, func() { checked(pair{X: []int{8, 3}, Y: []int{8}}) })
	assert.Panics(t, func() { checked(pair{X: []int{8, 3}, Y: []int{9}}) })
}

func TestWrap_PanicsWithResolutionError(t *testing.T) {
	checked := Wrap(matmul,
		[]FuncSpec{In(0, "i j"), In(1, "j k")},
		[]FuncSpec{Out(0, "i k")})
	//
	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		_, ok := recovered.(*shape.ResolutionError)
		assert.True(t, ok)
	}()

	checked([]int{2, 3}, []int{5, 4})
}

func TestParseFuncSpec(t *testing.T) {
	inputs, outputs := ParseFuncSpec("i j, j k -> i k")
	//
	require.Len(t, inputs, 2)
	require.Len(t, outputs, 1)
	assert.Equal(t, "i j", inputs[0].Spec)
	assert.Equal(t, 0, inputs[0].Index)
	assert.Equal(t, "j k", inputs[1].Spec)
	assert.Equal(t, 1, inputs[1].Index)
	assert.Equal(t, "i k", outputs[0].Spec)
}

func TestParseFuncSpec_OutputsOnly(t *testing.T) {
	// Without an arrow the whole string describes outputs.
	inputs, outputs := ParseFuncSpec("i j")
	assert.Empty(t, inputs)
	require.Len(t, outputs, 1)
	assert.Equal(t, "i j", outputs[0].Spec)
}

func TestParseFuncSpec_EmptySides(t *testing.T) {
	inputs, outputs := ParseFuncSpec("i j ->")
	assert.Len(t, inputs, 1)
	assert.Empty(t, outputs)
	//
	inputs, outputs = ParseFuncSpec("-> i j")
	assert.Empty(t, inputs)
	assert.Len(t, outputs, 1)
}
