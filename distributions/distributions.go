/*
 *	Copyright 2023 The pymc3-go Authors
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package distributions implements the probability distributions random
// variables can be drawn from.
//
// Distribution parameters are expression nodes (see the graph package), so a
// parameter can be a constant, a data container, or an expression over other
// random variables. They are evaluated against the model's live state at every
// LogProb or Sample call, and broadcast element-wise against the value's shape.
//
// The density and sampling code delegates to gonum's stat/distuv.
package distributions

import (
	"math"

	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/types/tensors"
	"golang.org/x/exp/rand"
)

// negInf is returned by LogProb for values outside a distribution's support.
var negInf = math.Inf(-1)

// Param is one named parameter of a distribution, used for density evaluation
// and for model visualization.
type Param struct {
	Name string
	Node *graph.Node
}

// Distribution is implemented by all distributions in this package.
type Distribution interface {
	// Name of the distribution, e.g. "Normal".
	Name() string

	// Params returns the distribution parameters, in canonical order.
	Params() []Param

	// LogProb returns the sum of the element-wise log-densities of x, with the
	// distribution parameters evaluated under env and broadcast against x's shape.
	LogProb(x *tensors.Tensor, env graph.Env) float64

	// Sample draws a tensor with the given dimensions (which must be
	// broadcast-compatible with the parameter shapes; pass the result of
	// SampleDimensions). The parameters are evaluated under env.
	Sample(rng *rand.Rand, env graph.Env, dimensions []int) *tensors.Tensor

	// SampleDimensions returns the natural dimensions of one draw under env:
	// the broadcast of the parameter shapes.
	SampleDimensions(env graph.Env) []int

	// Mean returns the distribution mean, with parameters evaluated under env
	// and broadcast to the given dimensions. Used for initial points.
	Mean(env graph.Env, dimensions []int) *tensors.Tensor
}

// paramDims returns the broadcast dimensions of the given evaluated parameters.
func paramDims(env graph.Env, nodes ...*graph.Node) []int {
	dims := []int{}
	for _, node := range nodes {
		dims = graph.BroadcastDimensions(dims, node.Eval(env).Shape().Dimensions)
	}
	return dims
}

// broadcastParams evaluates each node under env and broadcasts it to dims,
// returning one flat float64 slice per node.
func broadcastParams(env graph.Env, dims []int, nodes ...*graph.Node) [][]float64 {
	result := make([][]float64, len(nodes))
	for ii, node := range nodes {
		result[ii] = graph.BroadcastToDimensions(node.Eval(env), dims)
	}
	return result
}

func sizeOf(dims []int) int {
	size := 1
	for _, dim := range dims {
		size *= dim
	}
	return size
}
