package graph

import (
	"testing"

	"github.com/spiyer99/pymc3/types/shapes"
	"github.com/spiyer99/pymc3/types/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalArithmetic(t *testing.T) {
	x := ConstValue([]float64{1, 2, 3})
	y := ConstValue([]float64{10, 20, 30})
	got := Add(x, y).Eval(nil)
	require.Equal(t, []float64{11, 22, 33}, tensors.CopyFlatData[float64](got))

	got = Mul(x, ConstValue(2.0)).Eval(nil)
	require.Equal(t, []float64{2, 4, 6}, tensors.CopyFlatData[float64](got))

	got = Div(Sub(y, x), x).Eval(nil)
	require.Equal(t, []float64{9, 9, 9}, tensors.CopyFlatData[float64](got))
}

func TestBroadcast(t *testing.T) {
	require.Equal(t, []int{2, 3}, BroadcastDimensions([]int{2, 3}, []int{3}))
	require.Equal(t, []int{2, 3}, BroadcastDimensions([]int{2, 1}, []int{3}))
	require.Equal(t, []int{4, 2, 3}, BroadcastDimensions([]int{4, 1, 3}, []int{2, 1}))
	require.Panics(t, func() { BroadcastDimensions([]int{2, 3}, []int{4}) })

	// (2,3) result from a scalar and a (2,3) matrix.
	matrix := ConstValue([][]float64{{1, 2, 3}, {4, 5, 6}})
	got := Mul(ConstValue(10.0), matrix).Eval(nil)
	require.Equal(t, shapes.Make(shapes.Float64, 2, 3), got.Shape())
	require.Equal(t, []float64{10, 20, 30, 40, 50, 60}, tensors.CopyFlatData[float64](got))

	// Row vector broadcast against every row of a matrix.
	row := ConstValue([]float64{1, 10, 100})
	got = Mul(matrix, row).Eval(nil)
	require.Equal(t, []float64{1, 20, 300, 4, 50, 600}, tensors.CopyFlatData[float64](got))
}

func TestParamAndEnv(t *testing.T) {
	beta := Param("beta")
	x := ConstValue([]float64{1, 2, 3})
	mu := Mul(beta, x)

	env := Env{"beta": tensors.FromScalar(2.0)}
	got := mu.Eval(env)
	require.Equal(t, []float64{2, 4, 6}, tensors.CopyFlatData[float64](got))

	require.Panics(t, func() { mu.Eval(nil) })
}

func TestShared(t *testing.T) {
	sv := NewShared("x", tensors.FromValue([]float64{1, 2, 3}))
	node := sv.Node()
	doubled := Mul(node, ConstValue(2.0))
	require.Equal(t, []float64{2, 4, 6}, tensors.CopyFlatData[float64](doubled.Eval(nil)))

	// Mutation is visible on the next evaluation, including a shape change.
	sv.SetValue(tensors.FromValue([]float64{5, 6, 9, 10}))
	require.Equal(t, []float64{10, 12, 18, 20}, tensors.CopyFlatData[float64](doubled.Eval(nil)))
}

func TestAxisSize(t *testing.T) {
	sv := NewShared("intensity", tensors.FromShape(shapes.Make(shapes.Float64, 2, 3)))
	rows := AxisSize(sv.Node(), 0)
	cols := AxisSize(sv.Node(), 1)
	require.Equal(t, int64(2), tensors.ToScalar[int64](rows.Eval(nil)))
	require.Equal(t, int64(3), tensors.ToScalar[int64](cols.Eval(nil)))

	sv.SetValue(tensors.FromShape(shapes.Make(shapes.Float64, 4, 5)))
	require.Equal(t, int64(4), tensors.ToScalar[int64](rows.Eval(nil)))
	require.Equal(t, int64(5), tensors.ToScalar[int64](cols.Eval(nil)))
}

func TestTake(t *testing.T) {
	alpha := ConstValue([]float64{10, 20, 30})
	index := ConstValue([]int32{2, 0, 1, 0, 2})
	got := Take(alpha, index).Eval(nil)
	require.Equal(t, []float64{30, 10, 20, 10, 30}, tensors.CopyFlatData[float64](got))

	require.Panics(t, func() { Take(alpha, ConstValue([]int32{3})).Eval(nil) })
	require.Panics(t, func() { Take(alpha, ConstValue([]float64{0})).Eval(nil) })
}

func TestLeaves(t *testing.T) {
	beta := Param("beta")
	sv := NewShared("x", tensors.FromValue([]float64{1, 2, 3}))
	x := sv.Node()
	mu := Add(Mul(beta, x), beta)
	leaves := mu.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, "beta", leaves[0].Name())
	assert.Equal(t, "x", leaves[1].Name())
}

func TestString(t *testing.T) {
	beta := Param("beta")
	sv := NewShared("x", tensors.FromValue([]float64{1, 2, 3}))
	mu := Mul(beta, sv.Node())
	assert.Equal(t, "f(beta, x)", mu.String())
	assert.Equal(t, "0.1", ConstValue(0.1).String())
	assert.Equal(t, "array[3]", ConstValue([]float64{1, 2, 3}).String())
}
