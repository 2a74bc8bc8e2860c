package sampling

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/model"
	"github.com/spiyer99/pymc3/types/shapes"
	"github.com/spiyer99/pymc3/types/tensors"
	"k8s.io/klog/v2"
)

// SamplePriorPredictive draws samples from the model's joint prior: the free
// variables from their prior distributions, the observed variables and the
// named deterministics from the implied predictive distribution.
//
// The returned InferenceData holds one tensor per variable, shaped
// (samples, sample dimensions...).
func SamplePriorPredictive(m *model.Model, samples int, opts ...Option) (*InferenceData, error) {
	cfg := newConfig(opts)
	if samples <= 0 {
		return nil, errors.Errorf("samples must be positive, got %d", samples)
	}

	start := time.Now()
	idata := newInferenceData()
	idata.PriorPredictive = make(map[string]*tensors.Tensor)
	rng := cfg.rng(0)

	collected := make(map[string][]float64)
	var collectedDims map[string][]int
	for s := 0; s < samples; s++ {
		env := make(graph.Env)
		draws := make(map[string]*tensors.Tensor)
		for _, rv := range m.FreeRVs() {
			// Free variables are always drawn: later variables may depend on them.
			draw := rv.Dist().Sample(rng, env, rv.SampleDimensions(env))
			env[rv.Name()] = draw
			if cfg.wantVar(rv.Name()) {
				draws[rv.Name()] = draw
			}
		}
		for _, rv := range m.ObservedRVs() {
			if cfg.wantVar(rv.Name()) {
				draws[rv.Name()] = rv.Dist().Sample(rng, env, rv.SampleDimensions(env))
			}
		}
		for _, det := range m.Deterministics() {
			if cfg.wantVar(det.Name) {
				draws[det.Name] = det.Node.Eval(env)
			}
		}
		if collectedDims == nil {
			collectedDims = make(map[string][]int, len(draws))
			for name, draw := range draws {
				collectedDims[name] = draw.Shape().Dimensions
			}
		}
		for name, draw := range draws {
			collected[name] = append(collected[name], draw.ConvertToFloat64()...)
		}
	}

	for name, data := range collected {
		dims := append([]int{samples}, collectedDims[name]...)
		idata.PriorPredictive[name] = tensors.FromFloat64AndDimensions(data, shapes.Float64, dims...)
	}
	idata.SamplingTime = time.Since(start)
	klog.V(1).Infof("prior predictive: %d samples of %d variables in %s",
		samples, len(idata.PriorPredictive), idata.SamplingTime)
	return idata, nil
}

// SamplePosteriorPredictive draws predictive samples for the model's observed
// variables, one per posterior draw in idata. The samples are evaluated
// against the current contents of the model's data containers, so replacing a
// container with SetData between Sample and this call yields predictions for
// the new inputs, with shapes to match.
//
// The returned InferenceData holds one tensor per observed variable, shaped
// (samples, sample dimensions...), with samples = chains * draws. Free
// variables named with WithVarNames are copied from the posterior, reshaped
// the same way.
func SamplePosteriorPredictive(m *model.Model, idata *InferenceData, opts ...Option) (*InferenceData, error) {
	cfg := newConfig(opts)
	if idata == nil || len(idata.Posterior) == 0 {
		return nil, errors.New("the inference data holds no posterior samples")
	}
	observed := m.ObservedRVs()
	if len(observed) == 0 {
		return nil, errors.New("the model has no observed variables")
	}

	start := time.Now()
	result := newInferenceData()
	result.Chains, result.Draws = idata.Chains, idata.Draws
	result.PosteriorPredictive = make(map[string]*tensors.Tensor, len(observed))
	rng := cfg.rng(0)
	samples := idata.Chains * idata.Draws

	// Flatten the posterior once; the s-th point of variable name is the slice
	// [s*size, (s+1)*size) of flats[name].
	flats := make(map[string][]float64, len(idata.Posterior))
	pointDims := make(map[string][]int, len(idata.Posterior))
	pointSizes := make(map[string]int, len(idata.Posterior))
	for name, tensor := range idata.Posterior {
		flats[name] = tensor.ConvertToFloat64()
		dims := tensor.Shape().Dimensions[2:]
		pointDims[name] = dims
		pointSizes[name] = sizeOf(dims)
	}

	collected := make(map[string][]float64, len(observed))
	collectedDims := make(map[string][]int, len(observed))
	for s := 0; s < samples; s++ {
		env := make(graph.Env, len(flats))
		for name, flat := range flats {
			size := pointSizes[name]
			env[name] = tensors.FromFloat64AndDimensions(
				flat[s*size:(s+1)*size], shapes.Float64, pointDims[name]...)
		}
		for _, rv := range observed {
			if !cfg.wantVar(rv.Name()) {
				continue
			}
			draw := rv.Dist().Sample(rng, env, rv.SampleDimensions(env))
			collected[rv.Name()] = append(collected[rv.Name()], draw.ConvertToFloat64()...)
			if s == 0 {
				collectedDims[rv.Name()] = draw.Shape().Dimensions
			}
		}
	}

	for name, data := range collected {
		dims := append([]int{samples}, collectedDims[name]...)
		result.PosteriorPredictive[name] = tensors.FromFloat64AndDimensions(data, shapes.Float64, dims...)
	}

	// Posterior tensors are (chains, draws, ...) in sample-major flat order, so
	// the copy only reshapes to (samples, ...).
	for _, name := range cfg.varNames {
		if _, done := result.PosteriorPredictive[name]; done {
			continue
		}
		flat, found := flats[name]
		if !found {
			continue
		}
		dims := append([]int{samples}, pointDims[name]...)
		result.PosteriorPredictive[name] = tensors.FromFloat64AndDimensions(flat, shapes.Float64, dims...)
	}
	result.SamplingTime = time.Since(start)
	klog.V(1).Infof("posterior predictive: %d samples of %d variables in %s",
		samples, len(result.PosteriorPredictive), result.SamplingTime)
	return result, nil
}
