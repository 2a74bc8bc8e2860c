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

// Package model implements the probabilistic model context: a registry of
// random variables, named data containers and named dimensions/coordinates.
//
// A Model scopes variable registration through a context stack: the package
// level constructors (Data, Normal, Deterministic, ...) register into the
// model currently entered with Model.Within, and panic when no model is
// active. A minimal example:
//
//	m := model.New("")
//	m.Within(func() {
//		x := model.Data("x", []float64{1, 2, 3})
//		beta := model.Normal("beta", 0.0, 10.0)
//		model.Normal("obs", graph.Mul(beta.Node(), x.Node()), 0.1,
//			model.WithObserved([]float64{1, 2, 3}))
//	})
//
// Data containers are the central feature: they are named, mutable tensors
// that random variables can use as inputs or observed values. Replacing their
// contents with SetData (e.g. for out-of-sample prediction) is immediately
// visible to every expression depending on them, without rebuilding the model.
//
// Variable names are prefixed with the model name: a variable "x" inside a
// model named "named_model" is registered as "named_model_x".
//
// Like PyMC's context stack this one is package-level and not goroutine-safe:
// build each model from a single goroutine.
package model

import (
	"github.com/gomlx/exceptions"
	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/types/xslices"
)

// Model holds the variables, data containers and dimension/coordinate
// bookkeeping of one probabilistic model.
type Model struct {
	name string

	coords map[string][]any
	dims   map[string]*Dimension

	// rvDims maps variable name (data containers included) to the ordered dim
	// names bound to its axes.
	rvDims map[string][]string

	dataVars   []*DataContainer
	dataByName map[string]*DataContainer

	freeRVs     []*RV
	observedRVs []*RV
	rvByName    map[string]*RV

	deterministics []NamedNode

	// usedNames holds every full name claimed so far: random variables, data
	// containers and deterministics share one namespace.
	usedNames map[string]bool
}

// NamedNode is a named expression registered in a model -- see Deterministic.
type NamedNode struct {
	Name string
	Node *graph.Node
}

// Option is set at model creation time. See WithCoords.
type Option func(m *Model)

// WithCoords registers coordinate labels at model creation. Dimensions backed
// by explicit coordinate labels have static lengths.
func WithCoords(coords map[string][]any) Option {
	return func(m *Model) {
		for dim, labels := range coords {
			m.coords[dim] = xslices.Copy(labels)
		}
	}
}

// New creates a new, empty model. The name may be empty; when set, it
// prefixes the name of every variable registered in the model.
func New(name string, opts ...Option) *Model {
	m := &Model{
		name:       name,
		coords:     make(map[string][]any),
		dims:       make(map[string]*Dimension),
		rvDims:     make(map[string][]string),
		dataByName: make(map[string]*DataContainer),
		rvByName:   make(map[string]*RV),
		usedNames:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// modelStack is the context stack consulted by the package-level constructors.
var modelStack []*Model

// Within runs fn with m as the active model: the package-level constructors
// (Data, Normal, ...) register into it. Calls can be nested.
func (m *Model) Within(fn func()) {
	modelStack = append(modelStack, m)
	defer func() { modelStack = modelStack[:len(modelStack)-1] }()
	fn()
}

// Current returns the model on top of the context stack. It panics when no
// model is active.
func Current() *Model {
	if len(modelStack) == 0 {
		exceptions.Panicf("no model on context stack")
	}
	return xslices.Last(modelStack)
}

// Name of the model. It may be empty.
func (m *Model) Name() string { return m.name }

// fullName returns name prefixed with the model name, when one is set.
func (m *Model) fullName(name string) string {
	if m.name == "" {
		return name
	}
	return m.name + "_" + name
}

// claimName records the (full) name as taken, panicking if a random variable,
// data container or deterministic already claimed it.
func (m *Model) claimName(name string) {
	if m.usedNames[name] {
		exceptions.Panicf("variable %q already registered in the model", name)
	}
	m.usedNames[name] = true
}

// Coords returns the coordinate labels registry, keyed by dimension name.
// Only dimensions with explicit labels have an entry.
func (m *Model) Coords() map[string][]any { return m.coords }

// DimLengths returns the dimension registry, keyed by dimension name.
func (m *Model) DimLengths() map[string]*Dimension { return m.dims }

// RVDims maps variable names (data containers included) to the ordered
// dimension names bound to their axes.
func (m *Model) RVDims() map[string][]string { return m.rvDims }

// DataContainers returns the data containers, in registration order.
func (m *Model) DataContainers() []*DataContainer { return m.dataVars }

// FreeRVs returns the unobserved random variables, in registration order.
func (m *Model) FreeRVs() []*RV { return m.freeRVs }

// ObservedRVs returns the observed random variables, in registration order.
func (m *Model) ObservedRVs() []*RV { return m.observedRVs }

// Deterministics returns the named deterministic expressions, in registration
// order.
func (m *Model) Deterministics() []NamedNode { return m.deterministics }

// FreeRV returns the free random variable with the given full name, or nil.
func (m *Model) FreeRV(name string) *RV {
	rv := m.rvByName[name]
	if rv == nil || rv.IsObserved() {
		return nil
	}
	return rv
}

// InitialPoint returns an evaluation environment mapping every free variable
// to its initial value (the distribution mean under the current state of the
// model). It is recomputed at every call, so it reflects the containers'
// current values.
func (m *Model) InitialPoint() graph.Env {
	env := make(graph.Env, len(m.freeRVs))
	for _, rv := range m.freeRVs {
		env[rv.Name()] = rv.dist.Mean(env, rv.sampleDimensions(env))
	}
	return env
}

// LogP returns the log-density of the model at the given point: the sum of the
// priors of the free variables evaluated at their value in point, plus the
// likelihood of every observed variable. Data containers enter through their
// current values.
func (m *Model) LogP(point graph.Env) float64 {
	var logP float64
	for _, rv := range m.freeRVs {
		value, found := point[rv.Name()]
		if !found {
			exceptions.Panicf("Model.LogP: point is missing a value for free variable %q", rv.Name())
		}
		logP += rv.dist.LogProb(value, point)
	}
	for _, rv := range m.observedRVs {
		logP += rv.dist.LogProb(rv.observed.Eval(point), point)
	}
	return logP
}
