package shapes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())

	shape0 := Make(Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Len(t, shape0.Dimensions, 0)
	require.Equal(t, 1, shape0.Size())
	require.Equal(t, 8, int(shape0.Memory()))

	shape1 := Make(Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Len(t, shape1.Dimensions, 3)
	require.Equal(t, 4*3*2, shape1.Size())
	require.Equal(t, 4*4*3*2, int(shape1.Memory()))
	require.Equal(t, "(Float32)[4 3 2]", shape1.String())

	require.True(t, shape1.Equal(Make(Float32, 4, 3, 2)))
	require.False(t, shape1.Equal(Make(Float64, 4, 3, 2)))
	require.True(t, shape1.EqualDimensions(Make(Float64, 4, 3, 2)))
	require.False(t, shape1.Equal(Make(Float32, 4, 3)))

	require.Panics(t, func() { Make(Float32, 3, 0) })
}

func TestDim(t *testing.T) {
	shape := Make(Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 3, shape.Dim(1))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 3, shape.Dim(-2))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestDType(t *testing.T) {
	require.Equal(t, Float64, FromGenericsType[float64]())
	require.Equal(t, Int32, FromGenericsType[int32]())
	require.Equal(t, Float64, FromAny(float64(0)))
	require.Equal(t, InvalidDType, FromAny("not a number"))
	require.True(t, Float16.IsFloat())
	require.False(t, Float16.IsInt())
	require.True(t, Int64.IsInt())
	require.Equal(t, 2, Float16.Size())
	require.Equal(t, 8, Float64.Size())
	require.Equal(t, "Float32", Float32.String())

	require.Equal(t, 3.0, ToFloat64(int32(3)))
	require.Equal(t, int64(7), FromFloat64(7.2, Int64))
	require.Equal(t, float32(7.2), FromFloat64(7.2, Float32))
}

func TestAsserts(t *testing.T) {
	shape := Make(Float64, 2, 3)
	require.NotPanics(t, func() { AssertRank(shape, 2) })
	require.Panics(t, func() { AssertRank(shape, 1) })
	require.NotPanics(t, func() { AssertDims(shape, 2, -1) })
	require.Panics(t, func() { AssertDims(shape, 3, -1) })
	require.Panics(t, func() { AssertScalar(shape) })
	require.NotPanics(t, func() { AssertScalar(Make(Float64)) })
}
