package sampling_test

import (
	"testing"

	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/model"
	"github.com/spiyer99/pymc3/sampling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

// linspace returns n evenly spaced values in [lo, hi].
func linspace(lo, hi float64, n int) []float64 {
	values := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for ii := range values {
		values[ii] = lo + float64(ii)*step
	}
	return values
}

func scale(values []float64, factor float64) []float64 {
	scaled := make([]float64, len(values))
	for ii, v := range values {
		scaled[ii] = factor * v
	}
	return scaled
}

func TestSampleSharedScalarInput(t *testing.T) {
	m := model.New("")
	var shared *model.DataContainer
	var v *model.RV
	m.Within(func() {
		shared = model.Data("shared", 5.0)
		v = model.Normal("v", shared, 1.0)
	})

	idata, err := sampling.Sample(m, 400,
		sampling.WithTune(400), sampling.WithChains(1), sampling.WithSeed(42))
	require.NoError(t, err)
	require.Equal(t, []int{1, 400}, idata.Posterior[v.Name()].Shape().Dimensions)
	draws := idata.Posterior[v.Name()].ConvertToFloat64()
	assert.InDelta(t, 5.0, stat.Mean(draws, nil), 0.5)

	// The prior mean follows the container.
	require.NoError(t, shared.SetValue(4.0))
	idata, err = sampling.Sample(m, 400,
		sampling.WithTune(400), sampling.WithChains(1), sampling.WithSeed(43))
	require.NoError(t, err)
	draws = idata.Posterior[v.Name()].ConvertToFloat64()
	assert.InDelta(t, 4.0, stat.Mean(draws, nil), 0.5)
	assert.NotEmpty(t, idata.RunID)
	assert.Len(t, idata.AcceptRate, 1)
}

func TestSampleSizedVariableWithContainerParam(t *testing.T) {
	m := model.New("")
	var x *model.DataContainer
	var y *model.RV
	m.Within(func() {
		x = model.Data("x", []float64{1, 2, 3})
		y = model.Normal("y", x, 1.0, model.WithSize(2, 3))
	})
	require.Equal(t, []int{2, 3}, y.SampleDimensions(m.InitialPoint()))

	idata, err := sampling.Sample(m, 400,
		sampling.WithTune(400), sampling.WithChains(1), sampling.WithSeed(21))
	require.NoError(t, err)
	require.Equal(t, []int{1, 400, 2, 3}, idata.Posterior[y.Name()].Shape().Dimensions)

	// Each column's prior mean is the corresponding container entry, broadcast
	// over the first axis.
	draws := idata.Posterior[y.Name()].ConvertToFloat64()
	want := []float64{1, 2, 3}
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			var sum float64
			for s := 0; s < 400; s++ {
				sum += draws[s*6+row*3+col]
			}
			assert.InDelta(t, want[col], sum/400, 0.5)
		}
	}

	// A same-shape update keeps the sized shape and moves the means.
	require.NoError(t, x.SetValue([]float64{4, 5, 6}))
	require.Equal(t, []int{2, 3}, y.SampleDimensions(m.InitialPoint()))
	idata, err = sampling.Sample(m, 400,
		sampling.WithTune(400), sampling.WithChains(1), sampling.WithSeed(22))
	require.NoError(t, err)
	require.Equal(t, []int{1, 400, 2, 3}, idata.Posterior[y.Name()].Shape().Dimensions)
	draws = idata.Posterior[y.Name()].ConvertToFloat64()
	want = []float64{4, 5, 6}
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			var sum float64
			for s := 0; s < 400; s++ {
				sum += draws[s*6+row*3+col]
			}
			assert.InDelta(t, want[col], sum/400, 0.5)
		}
	}
}

func TestSamplePosteriorPredictiveAfterSetData(t *testing.T) {
	xValues := linspace(-1, 1, 100)
	yValues := scale(xValues, 0.9)

	m := model.New("")
	var obs, beta *model.RV
	m.Within(func() {
		x := model.Data("x", xValues)
		y := model.Data("y", yValues)
		beta = model.Normal("beta", 0.0, 10.0)
		obs = model.Normal("obs", graph.Mul(beta.Node(), x.Node()), 0.1,
			model.WithObserved(y))
	})

	idata, err := sampling.Sample(m, 250,
		sampling.WithTune(500), sampling.WithChains(2), sampling.WithSeed(7))
	require.NoError(t, err)
	require.Equal(t, 2, idata.Chains)
	require.Equal(t, []int{2, 250}, idata.Posterior[beta.Name()].Shape().Dimensions)
	betaDraws := idata.Posterior[beta.Name()].ConvertToFloat64()
	assert.InDelta(t, 0.9, stat.Mean(betaDraws, nil), 0.05)

	// New inputs: the predictive samples take the new shape and track the
	// regression line.
	xNew := linspace(0, 2, 50)
	yNew := scale(xNew, 0.9)
	require.NoError(t, m.SetDataMap(map[string]any{"x": xNew, "y": yNew}))

	pp, err := sampling.SamplePosteriorPredictive(m, idata, sampling.WithSeed(8))
	require.NoError(t, err)
	predictive := pp.PosteriorPredictive[obs.Name()]
	require.Equal(t, []int{500, 50}, predictive.Shape().Dimensions)

	flat := predictive.ConvertToFloat64()
	for col := 0; col < 50; col++ {
		var sum float64
		for s := 0; s < 500; s++ {
			sum += flat[s*50+col]
		}
		assert.InDelta(t, yNew[col], sum/500, 1e-1)
	}
}

func TestSamplePosteriorPredictiveNamedFreeVariables(t *testing.T) {
	m := model.New("")
	var beta, obs *model.RV
	m.Within(func() {
		x := model.Data("x", []float64{1, 2, 3})
		y := model.Data("y", []float64{1, 2, 3})
		beta = model.Normal("beta", 0.0, 10.0)
		obs = model.Normal("obs", graph.Mul(beta.Node(), x.Node()), 0.1,
			model.WithObserved(y))
	})

	idata, err := sampling.Sample(m, 50,
		sampling.WithTune(100), sampling.WithChains(2), sampling.WithSeed(31))
	require.NoError(t, err)

	pp, err := sampling.SamplePosteriorPredictive(m, idata,
		sampling.WithSeed(32), sampling.WithVarNames(obs.Name(), beta.Name()))
	require.NoError(t, err)
	require.Len(t, pp.PosteriorPredictive, 2)
	require.Contains(t, pp.PosteriorPredictive, obs.Name())

	// The named free variable is the posterior itself, flattened over chains.
	betaPP := pp.PosteriorPredictive[beta.Name()]
	require.Equal(t, []int{100}, betaPP.Shape().Dimensions)
	assert.Equal(t, idata.Posterior[beta.Name()].ConvertToFloat64(), betaPP.ConvertToFloat64())

	// Without WithVarNames only the observed variables are drawn.
	pp, err = sampling.SamplePosteriorPredictive(m, idata, sampling.WithSeed(33))
	require.NoError(t, err)
	require.Len(t, pp.PosteriorPredictive, 1)
	require.Contains(t, pp.PosteriorPredictive, obs.Name())
}

func TestSamplePriorPredictive(t *testing.T) {
	m := model.New("")
	var beta, obs *model.RV
	m.Within(func() {
		x := model.Data("x", []float64{1, 2, 3})
		y := model.Data("y", []float64{1, 2, 3})
		beta = model.Normal("beta", 0.0, 1.0)
		mu := model.Deterministic("mu", graph.Mul(beta.Node(), x.Node()))
		obs = model.Normal("obs", mu, 1.0, model.WithObserved(y))
	})

	idata, err := sampling.SamplePriorPredictive(m, 500, sampling.WithSeed(11))
	require.NoError(t, err)
	require.Equal(t, []int{500}, idata.PriorPredictive[beta.Name()].Shape().Dimensions)
	require.Equal(t, []int{500, 3}, idata.PriorPredictive[obs.Name()].Shape().Dimensions)
	require.Equal(t, []int{500, 3}, idata.PriorPredictive["mu"].Shape().Dimensions)

	betaDraws := idata.PriorPredictive[beta.Name()].ConvertToFloat64()
	assert.InDelta(t, 0.0, stat.Mean(betaDraws, nil), 0.15)
	assert.InDelta(t, 1.0, stat.StdDev(betaDraws, nil), 0.15)

	filtered, err := sampling.SamplePriorPredictive(m, 10,
		sampling.WithSeed(12), sampling.WithVarNames(obs.Name()))
	require.NoError(t, err)
	assert.Len(t, filtered.PriorPredictive, 1)
	require.Contains(t, filtered.PriorPredictive, obs.Name())
}

func TestSampleErrors(t *testing.T) {
	m := model.New("")
	m.Within(func() {
		model.Data("x", []float64{1, 2, 3})
	})
	_, err := sampling.Sample(m, 10)
	require.ErrorContains(t, err, "no free variables")

	m2 := model.New("")
	m2.Within(func() {
		model.Normal("v", 0.0, 1.0)
	})
	_, err = sampling.Sample(m2, 0)
	require.ErrorContains(t, err, "draws must be positive")

	_, err = sampling.SamplePosteriorPredictive(m2, nil)
	require.ErrorContains(t, err, "no posterior samples")

	idata, err := sampling.Sample(m2, 10, sampling.WithTune(10), sampling.WithChains(1))
	require.NoError(t, err)
	_, err = sampling.SamplePosteriorPredictive(m2, idata)
	require.ErrorContains(t, err, "no observed variables")
}
