package model_test

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/gomlx/exceptions"
	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/model"
	"github.com/spiyer99/pymc3/types/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsRequireModelContext(t *testing.T) {
	err := exceptions.TryCatch[error](func() {
		model.Data("x", []float64{1, 2, 3})
	})
	require.ErrorContains(t, err, "no model on context stack")

	err = exceptions.TryCatch[error](func() {
		model.Normal("beta", 0.0, 1.0)
	})
	require.ErrorContains(t, err, "no model on context stack")
}

func TestNamedModelPrefixesVariables(t *testing.T) {
	m := model.New("named_model")
	var x *model.DataContainer
	var beta *model.RV
	m.Within(func() {
		x = model.Data("x", []float64{1, 2, 3})
		beta = model.Normal("beta", 0.0, 10.0)
	})
	assert.Equal(t, "named_model_x", x.Name())
	assert.Equal(t, "named_model_beta", beta.Name())
	require.NotNil(t, m.FreeRV("named_model_beta"))
	assert.Nil(t, m.FreeRV("beta"))
}

func TestExplicitCoordsGiveStaticDims(t *testing.T) {
	coords := map[string][]any{
		"rows": {"r0", "r1", "r2"},
		"cols": {"c0", "c1"},
	}
	m := model.New("", model.WithCoords(coords))
	m.Within(func() {
		model.Data("mat", [][]float64{{1, 2}, {3, 4}, {5, 6}},
			model.WithDims("rows", "cols"))
	})

	rows := m.DimLengths()["rows"]
	require.NotNil(t, rows)
	assert.True(t, rows.IsStatic())
	assert.Equal(t, 3, rows.Length())
	cols := m.DimLengths()["cols"]
	require.NotNil(t, cols)
	assert.True(t, cols.IsStatic())
	assert.Equal(t, 2, cols.Length())
	assert.Equal(t, []string{"rows", "cols"}, m.RVDims()["mat"])
}

func TestContainerDimsAreSymbolic(t *testing.T) {
	m := model.New("")
	var x *model.DataContainer
	m.Within(func() {
		x = model.Data("x", []float64{1, 2, 3}, model.WithDims("n"))
	})

	n := m.DimLengths()["n"]
	require.NotNil(t, n)
	assert.False(t, n.IsStatic(), "dims declared by a data container must track its live shape")
	assert.Equal(t, 3, n.Length())

	require.NoError(t, x.SetValue([]float64{1, 2, 3, 4, 5}))
	assert.Equal(t, 5, n.Length())
	assert.Equal(t, []int{5}, x.Value().Shape().Dimensions)
}

func TestSetDataUpdatesDependentExpressions(t *testing.T) {
	m := model.New("")
	var y *graph.Node
	m.Within(func() {
		x := model.Data("x", []float64{1, 2, 3})
		y = model.Deterministic("y", graph.Mul(graph.ConstValue(2.0), x.Node()))
	})
	assert.Equal(t, []float64{2, 4, 6}, y.Eval(nil).ConvertToFloat64())

	require.NoError(t, m.SetDataValue("x", []float64{10, 20}))
	assert.Equal(t, []float64{20, 40}, y.Eval(nil).ConvertToFloat64())
}

func TestSetDataKeepsContainerDType(t *testing.T) {
	m := model.New("")
	var idx *model.DataContainer
	m.Within(func() {
		idx = model.Data("idx", []int64{0, 1, 1})
	})
	require.NoError(t, idx.SetValue([]float64{1, 0})) // converted to int64
	assert.Equal(t, []int64{1, 0}, tensors.CopyFlatData[int64](idx.Value()))
}

func TestCannotResizeRVImpliedDim(t *testing.T) {
	m := model.New("")
	var x *model.DataContainer
	m.Within(func() {
		model.Normal("beta", 0.0, 1.0, model.WithSize(3), model.WithDims("n"))
		x = model.Data("x", []float64{1, 2, 3}, model.WithDims("n"))
	})

	n := m.DimLengths()["n"]
	require.NotNil(t, n)
	assert.True(t, n.IsStatic())
	assert.Equal(t, "beta", n.Origin())

	err := x.SetValue([]float64{1, 2, 3, 4})
	require.Error(t, err)
	var shapeErr *model.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.ErrorContains(t, err, `initialized from "beta" which is not a data container`)
	// The container is left untouched.
	assert.Equal(t, []int{3}, x.Value().Shape().Dimensions)
}

func TestCannotResizeCoordsBackedDim(t *testing.T) {
	m := model.New("", model.WithCoords(map[string][]any{"n": {"a", "b", "c"}}))
	var x *model.DataContainer
	m.Within(func() {
		x = model.Data("x", []float64{1, 2, 3}, model.WithDims("n"))
	})

	err := x.SetValue([]float64{1, 2, 3, 4})
	var shapeErr *model.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.ErrorContains(t, err, "fixed by explicit coordinate labels")
}

func TestSetDataOnNonContainerVariable(t *testing.T) {
	m := model.New("")
	m.Within(func() {
		model.Normal("beta", 0.0, 1.0)
	})

	err := m.SetDataValue("beta", 1.5)
	var typeErr *model.VariableTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "beta", typeErr.Variable)
	assert.ErrorContains(t, err, "must be a data container")

	err = m.SetDataValue("nope", 1.5)
	require.Error(t, err)
	assert.NotErrorAs(t, err, &typeErr)
}

func TestSetDataMapIsAtomic(t *testing.T) {
	m := model.New("")
	var x, y *model.DataContainer
	m.Within(func() {
		x = model.Data("x", []float64{1, 2, 3})
		y = model.Data("y", []float64{4, 5, 6})
		model.Normal("beta", 0.0, 1.0)
	})

	err := m.SetDataMap(map[string]any{
		"x":    []float64{7, 8},
		"beta": 0.0,
	})
	require.Error(t, err)
	// x must not have been updated by the failed batch.
	assert.Equal(t, []int{3}, x.Value().Shape().Dimensions)

	require.NoError(t, m.SetDataMap(map[string]any{
		"x": []float64{7, 8},
		"y": []float64{9, 10},
	}))
	assert.Equal(t, []float64{7, 8}, x.Value().ConvertToFloat64())
	assert.Equal(t, []float64{9, 10}, y.Value().ConvertToFloat64())
}

func TestDuplicateNamesPanic(t *testing.T) {
	m := model.New("")
	err := exceptions.TryCatch[error](func() {
		m.Within(func() {
			model.Data("x", 1.0)
			model.Data("x", 2.0)
		})
	})
	require.ErrorContains(t, err, "already registered")

	err = exceptions.TryCatch[error](func() {
		m.Within(func() {
			model.Normal("y", 0.0, 1.0)
			model.Data("y", 1.0)
		})
	})
	require.ErrorContains(t, err, "already registered")

	err = exceptions.TryCatch[error](func() {
		m.Within(func() {
			beta := model.Normal("beta", 0.0, 1.0)
			model.Deterministic("d", graph.Mul(beta.Node(), graph.ConstValue(2.0)))
			model.Deterministic("d", beta.Node())
		})
	})
	require.ErrorContains(t, err, "already registered")

	err = exceptions.TryCatch[error](func() {
		m.Within(func() {
			model.Deterministic("z", graph.ConstValue(1.0))
			model.Data("z", 1.0)
		})
	})
	require.ErrorContains(t, err, "already registered")
}

func TestInitialPointAndLogP(t *testing.T) {
	m := model.New("")
	var mu *model.DataContainer
	m.Within(func() {
		mu = model.Data("mu", 2.0)
		model.Normal("y", mu, 1.0)
	})

	point := m.InitialPoint()
	assert.InDelta(t, 2.0, tensors.ToScalar[float64](point["y"]), 1e-12)
	// Standard normal density at its mode: -log(sqrt(2*pi)).
	assert.InDelta(t, -0.9189385332046727, m.LogP(point), 1e-9)

	require.NoError(t, mu.SetValue(5.0))
	point = m.InitialPoint()
	assert.InDelta(t, 5.0, tensors.ToScalar[float64](point["y"]), 1e-12)
	assert.InDelta(t, -0.9189385332046727, m.LogP(point), 1e-9)
}

func TestObservedLogP(t *testing.T) {
	m := model.New("")
	m.Within(func() {
		x := model.Data("x", []float64{-1, 0, 1})
		model.Normal("obs", x, 1.0, model.WithObserved(x))
	})
	// Each observation sits at its own mean.
	point := m.InitialPoint()
	assert.InDelta(t, 3*-0.9189385332046727, m.LogP(point), 1e-9)
}

func TestObservedShapeTracksContainer(t *testing.T) {
	m := model.New("")
	var y *model.DataContainer
	var obs *model.RV
	m.Within(func() {
		y = model.Data("y", []float64{1, 2, 3})
		obs = model.Normal("obs", 0.0, 1.0, model.WithObserved(y))
	})
	require.True(t, obs.IsObserved())
	assert.Equal(t, []int{3}, obs.SampleDimensions(m.InitialPoint()))

	require.NoError(t, y.SetValue([]float64{1, 2, 3, 4, 5}))
	assert.Equal(t, []int{5}, obs.SampleDimensions(m.InitialPoint()))
}

func TestObservedShapeTracksParams(t *testing.T) {
	m := model.New("")
	var obs *model.RV
	m.Within(func() {
		x := model.Data("x", []float64{1, 2, 3})
		y := model.Data("y", []float64{2, 4, 6})
		beta := model.Normal("beta", 0.0, 10.0)
		obs = model.Normal("obs", graph.Mul(beta.Node(), x.Node()), 0.1,
			model.WithObserved(y))
	})
	assert.Equal(t, []int{3}, obs.SampleDimensions(m.InitialPoint()))

	// Out-of-sample prediction: swap the inputs, the sample shape follows.
	require.NoError(t, m.SetDataMap(map[string]any{
		"x": []float64{1, 2, 3, 4},
		"y": []float64{2, 4, 6, 8},
	}))
	assert.Equal(t, []int{4}, obs.SampleDimensions(m.InitialPoint()))
}

func TestRVWithContainerDims(t *testing.T) {
	m := model.New("")
	var x *model.DataContainer
	var y *model.RV
	m.Within(func() {
		x = model.Data("x", []float64{1, 2, 3}, model.WithDims("n"))
		y = model.Normal("y", x, 1.0, model.WithDims("n"))
	})
	assert.Equal(t, []string{"n"}, y.Dims())
	assert.Equal(t, []int{3}, y.SampleDimensions(m.InitialPoint()))

	require.NoError(t, x.SetValue([]float64{1, 2, 3, 4}))
	assert.Equal(t, []int{4}, y.SampleDimensions(m.InitialPoint()))
}

func TestFromSeriesExportsIndexAsCoords(t *testing.T) {
	ser := series.New([]float64{10, 20, 30}, series.Float, "score")
	m := model.New("")
	m.Within(func() {
		model.FromSeries("score", ser,
			model.WithDims("obs_id"),
			model.ExportIndexAsCoords(),
			model.WithIndex("a", "b", "c"))
	})

	assert.Equal(t, []any{"a", "b", "c"}, m.Coords()["obs_id"])
	dim := m.DimLengths()["obs_id"]
	require.NotNil(t, dim)
	assert.True(t, dim.IsStatic())
	assert.Equal(t, 3, dim.Length())
}

func TestFromSeriesDefaultIndex(t *testing.T) {
	ser := series.New([]float64{1, 2}, series.Float, "v")
	m := model.New("")
	m.Within(func() {
		model.FromSeries("v", ser, model.WithDims("n"), model.ExportIndexAsCoords())
	})
	assert.Equal(t, []any{0, 1}, m.Coords()["n"])
}

func TestFromDataFrameExportsIndexAsCoords(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{1, 4}, series.Float, "x1"),
		series.New([]float64{2, 5}, series.Float, "x2"),
		series.New([]float64{3, 6}, series.Float, "x3"),
	)
	m := model.New("")
	var d *model.DataContainer
	m.Within(func() {
		d = model.FromDataFrame("features", df,
			model.WithDims("rows", "columns"),
			model.ExportIndexAsCoords())
	})

	assert.Equal(t, []int{2, 3}, d.Value().Shape().Dimensions)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, d.Value().ConvertToFloat64())
	assert.Equal(t, []any{0, 1}, m.Coords()["rows"])
	assert.Equal(t, []any{"x1", "x2", "x3"}, m.Coords()["columns"])
	assert.Equal(t, []string{"rows", "columns"}, m.RVDims()["features"])
}

func TestTakeWithContainerIndexes(t *testing.T) {
	m := model.New("")
	var idx *model.DataContainer
	var picked *graph.Node
	m.Within(func() {
		values := model.Data("values", []float64{1.2, 4.3})
		idx = model.Data("idx", []int64{0, 1, 0, 1})
		picked = model.Deterministic("picked", graph.Take(values.Node(), idx.Node()))
	})
	assert.Equal(t, []float64{1.2, 4.3, 1.2, 4.3}, picked.Eval(nil).ConvertToFloat64())

	require.NoError(t, idx.SetValue([]int64{1, 1, 0}))
	assert.Equal(t, []float64{4.3, 4.3, 1.2}, picked.Eval(nil).ConvertToFloat64())
}
