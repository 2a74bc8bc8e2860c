package distributions

import (
	"math"

	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/types/shapes"
	"github.com/spiyer99/pymc3/types/tensors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Normal is the normal (Gaussian) distribution, parameterized by its mean Mu
// and standard deviation Sigma.
type Normal struct {
	Mu, Sigma *graph.Node
}

// NewNormal returns a Normal distribution with the given mean and standard
// deviation nodes.
func NewNormal(mu, sigma *graph.Node) *Normal {
	mu.AssertValid()
	sigma.AssertValid()
	return &Normal{Mu: mu, Sigma: sigma}
}

// Name implements Distribution.
func (n *Normal) Name() string { return "Normal" }

// Params implements Distribution.
func (n *Normal) Params() []Param {
	return []Param{{"mu", n.Mu}, {"sigma", n.Sigma}}
}

// SampleDimensions implements Distribution.
func (n *Normal) SampleDimensions(env graph.Env) []int {
	return paramDims(env, n.Mu, n.Sigma)
}

// LogProb implements Distribution.
func (n *Normal) LogProb(x *tensors.Tensor, env graph.Env) float64 {
	dims := x.Shape().Dimensions
	params := broadcastParams(env, dims, n.Mu, n.Sigma)
	mu, sigma := params[0], params[1]
	values := x.ConvertToFloat64()
	var logProb float64
	for ii, value := range values {
		logProb += distuv.Normal{Mu: mu[ii], Sigma: sigma[ii]}.LogProb(value)
	}
	return logProb
}

// Mean implements Distribution.
func (n *Normal) Mean(env graph.Env, dimensions []int) *tensors.Tensor {
	mu := graph.BroadcastToDimensions(n.Mu.Eval(env), dimensions)
	return tensors.FromFloat64AndDimensions(mu, shapes.Float64, dimensions...)
}

// Sample implements Distribution.
func (n *Normal) Sample(rng *rand.Rand, env graph.Env, dimensions []int) *tensors.Tensor {
	params := broadcastParams(env, dimensions, n.Mu, n.Sigma)
	mu, sigma := params[0], params[1]
	result := make([]float64, sizeOf(dimensions))
	for ii := range result {
		result[ii] = distuv.Normal{Mu: mu[ii], Sigma: sigma[ii], Src: rng}.Rand()
	}
	return tensors.FromFloat64AndDimensions(result, shapes.Float64, dimensions...)
}

// Uniform is the continuous uniform distribution on [Lower, Upper).
type Uniform struct {
	Lower, Upper *graph.Node
}

// NewUniform returns a Uniform distribution on [lower, upper).
func NewUniform(lower, upper *graph.Node) *Uniform {
	lower.AssertValid()
	upper.AssertValid()
	return &Uniform{Lower: lower, Upper: upper}
}

// Name implements Distribution.
func (u *Uniform) Name() string { return "Uniform" }

// Params implements Distribution.
func (u *Uniform) Params() []Param {
	return []Param{{"lower", u.Lower}, {"upper", u.Upper}}
}

// SampleDimensions implements Distribution.
func (u *Uniform) SampleDimensions(env graph.Env) []int {
	return paramDims(env, u.Lower, u.Upper)
}

// LogProb implements Distribution.
func (u *Uniform) LogProb(x *tensors.Tensor, env graph.Env) float64 {
	dims := x.Shape().Dimensions
	params := broadcastParams(env, dims, u.Lower, u.Upper)
	lower, upper := params[0], params[1]
	values := x.ConvertToFloat64()
	var logProb float64
	for ii, value := range values {
		logProb += distuv.Uniform{Min: lower[ii], Max: upper[ii]}.LogProb(value)
	}
	return logProb
}

// Mean implements Distribution.
func (u *Uniform) Mean(env graph.Env, dimensions []int) *tensors.Tensor {
	params := broadcastParams(env, dimensions, u.Lower, u.Upper)
	lower, upper := params[0], params[1]
	result := make([]float64, sizeOf(dimensions))
	for ii := range result {
		result[ii] = 0.5 * (lower[ii] + upper[ii])
	}
	return tensors.FromFloat64AndDimensions(result, shapes.Float64, dimensions...)
}

// Sample implements Distribution.
func (u *Uniform) Sample(rng *rand.Rand, env graph.Env, dimensions []int) *tensors.Tensor {
	params := broadcastParams(env, dimensions, u.Lower, u.Upper)
	lower, upper := params[0], params[1]
	result := make([]float64, sizeOf(dimensions))
	for ii := range result {
		result[ii] = distuv.Uniform{Min: lower[ii], Max: upper[ii], Src: rng}.Rand()
	}
	return tensors.FromFloat64AndDimensions(result, shapes.Float64, dimensions...)
}

// HalfNormal is the half-normal distribution: the absolute value of a
// zero-mean normal with standard deviation Sigma. Commonly used as a prior for
// scale parameters.
type HalfNormal struct {
	Sigma *graph.Node
}

// NewHalfNormal returns a HalfNormal distribution with the given sigma node.
func NewHalfNormal(sigma *graph.Node) *HalfNormal {
	sigma.AssertValid()
	return &HalfNormal{Sigma: sigma}
}

// Name implements Distribution.
func (h *HalfNormal) Name() string { return "HalfNormal" }

// Params implements Distribution.
func (h *HalfNormal) Params() []Param {
	return []Param{{"sigma", h.Sigma}}
}

// SampleDimensions implements Distribution.
func (h *HalfNormal) SampleDimensions(env graph.Env) []int {
	return paramDims(env, h.Sigma)
}

// LogProb implements Distribution.
func (h *HalfNormal) LogProb(x *tensors.Tensor, env graph.Env) float64 {
	dims := x.Shape().Dimensions
	sigma := broadcastParams(env, dims, h.Sigma)[0]
	values := x.ConvertToFloat64()
	var logProb float64
	for ii, value := range values {
		if value < 0 {
			return negInf
		}
		logProb += math.Ln2 + distuv.Normal{Mu: 0, Sigma: sigma[ii]}.LogProb(value)
	}
	return logProb
}

// Mean implements Distribution.
func (h *HalfNormal) Mean(env graph.Env, dimensions []int) *tensors.Tensor {
	sigma := broadcastParams(env, dimensions, h.Sigma)[0]
	result := make([]float64, sizeOf(dimensions))
	scale := math.Sqrt(2 / math.Pi)
	for ii := range result {
		result[ii] = sigma[ii] * scale
	}
	return tensors.FromFloat64AndDimensions(result, shapes.Float64, dimensions...)
}

// Sample implements Distribution.
func (h *HalfNormal) Sample(rng *rand.Rand, env graph.Env, dimensions []int) *tensors.Tensor {
	sigma := broadcastParams(env, dimensions, h.Sigma)[0]
	result := make([]float64, sizeOf(dimensions))
	for ii := range result {
		draw := distuv.Normal{Mu: 0, Sigma: sigma[ii], Src: rng}.Rand()
		if draw < 0 {
			draw = -draw
		}
		result[ii] = draw
	}
	return tensors.FromFloat64AndDimensions(result, shapes.Float64, dimensions...)
}
