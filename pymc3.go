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

// Package pymc3 implements probabilistic models with named, mutable data
// containers, in the style of the PyMC probabilistic programming library.
//
// It aliases the most used symbols of the sub-packages, so that simple
// programs only need this one import:
//
//	m := pymc3.NewModel("")
//	m.Within(func() {
//		x := pymc3.Data("x", []float64{1, 2, 3})
//		beta := pymc3.Normal("beta", 0.0, 10.0)
//		pymc3.Normal("obs", pymc3.Mul(beta.Node(), x.Node()), 0.1,
//			pymc3.WithObserved([]float64{1, 2, 3}))
//	})
//	idata, err := pymc3.Sample(m, 1000)
//
// The sub-packages hold the full API: model (models, data containers, random
// variables), graph (the expression nodes connecting them), distributions,
// sampling, modelviz (Graphviz rendering) and ui/commandline (posterior
// summaries).
package pymc3

import (
	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/model"
	"github.com/spiyer99/pymc3/modelviz"
	"github.com/spiyer99/pymc3/sampling"
	"github.com/spiyer99/pymc3/types/tensors"
	"github.com/spiyer99/pymc3/ui/commandline"
)

// Aliases to the model package basic types.

type (
	Model = model.Model
	RV    = model.RV
	// DataContainer is the type returned by the Data constructor.
	DataContainer     = model.DataContainer
	Dimension         = model.Dimension
	ShapeError        = model.ShapeError
	VariableTypeError = model.VariableTypeError
	VarOption         = model.VarOption
	Tensor            = tensors.Tensor
	Node              = graph.Node
	Env               = graph.Env
	InferenceData     = sampling.InferenceData
)

// Model construction.
var (
	NewModel   = model.New
	WithCoords = model.WithCoords
	Current    = model.Current

	Data          = model.Data
	FromSeries    = model.FromSeries
	FromDataFrame = model.FromDataFrame
	SetData       = model.SetData

	Normal        = model.Normal
	Uniform       = model.Uniform
	HalfNormal    = model.HalfNormal
	Deterministic = model.Deterministic

	WithDims            = model.WithDims
	WithObserved        = model.WithObserved
	WithSize            = model.WithSize
	ExportIndexAsCoords = model.ExportIndexAsCoords
	WithIndex           = model.WithIndex
)

// Expressions.
var (
	Add        = graph.Add
	Sub        = graph.Sub
	Mul        = graph.Mul
	Div        = graph.Div
	Take       = graph.Take
	ConstValue = graph.ConstValue
)

// Sampling and reporting.
var (
	Sample                    = sampling.Sample
	SamplePriorPredictive     = sampling.SamplePriorPredictive
	SamplePosteriorPredictive = sampling.SamplePosteriorPredictive
	WithTune                  = sampling.WithTune
	WithChains                = sampling.WithChains
	WithSeed                  = sampling.WithSeed
	WithProgressBar           = sampling.WithProgressBar
	WithVarNames              = sampling.WithVarNames

	ModelToGraphviz = modelviz.ModelToGraphviz
	PrintSummary    = commandline.PrintSummary
)
