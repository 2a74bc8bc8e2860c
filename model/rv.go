package model

import (
	"github.com/gomlx/exceptions"
	"github.com/spiyer99/pymc3/distributions"
	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/types/tensors"
)

// RV is a random variable registered in a model: a named distribution, either
// free (a parameter to infer) or observed (a likelihood term).
type RV struct {
	model *Model

	// name is the full name, prefixed with the model name.
	name string

	dist distributions.Distribution

	// node is the expression node referring to the variable's value in an
	// evaluation environment.
	node *graph.Node

	// observed is the observation expression, nil for free variables. When the
	// observation is a data container, observedData is also set and observed
	// follows the container's live contents.
	observed     *graph.Node
	observedData *DataContainer

	dims []string
	size []int

	// observedDims is the shape of the observation at creation time; consulted
	// when the observation extends the parameters' dimensions.
	observedDims []int

	// needsObservedDims records that the variable's shape is wider than what
	// its parameters imply, so sampling must broadcast with the observation's
	// (live) dimensions.
	needsObservedDims bool
}

// toNode converts a value usable as a distribution parameter or expression
// operand into a graph node. It accepts *graph.Node, *DataContainer, *RV,
// *tensors.Tensor, Go scalars and (nested) slices.
func toNode(value any) *graph.Node {
	switch v := value.(type) {
	case *graph.Node:
		return v
	case *DataContainer:
		return v.Node()
	case *RV:
		return v.node
	case *tensors.Tensor:
		return graph.Const(v)
	default:
		return graph.ConstValue(value)
	}
}

// Normal registers a normal random variable in the model on top of the context
// stack. mu and sigma accept anything toNode accepts: *graph.Node, *DataContainer, *RV,
// tensors or plain Go values.
func Normal(name string, mu, sigma any, opts ...VarOption) *RV {
	return Current().Normal(name, mu, sigma, opts...)
}

// Normal registers a normal random variable in the model. See the
// package-level Normal.
func (m *Model) Normal(name string, mu, sigma any, opts ...VarOption) *RV {
	return m.registerRV(name, distributions.NewNormal(toNode(mu), toNode(sigma)), opts)
}

// Uniform registers a uniform random variable on [lower, upper) in the model
// on top of the context stack.
func Uniform(name string, lower, upper any, opts ...VarOption) *RV {
	return Current().Uniform(name, lower, upper, opts...)
}

// Uniform registers a uniform random variable in the model. See the
// package-level Uniform.
func (m *Model) Uniform(name string, lower, upper any, opts ...VarOption) *RV {
	return m.registerRV(name, distributions.NewUniform(toNode(lower), toNode(upper)), opts)
}

// HalfNormal registers a half-normal random variable in the model on top of
// the context stack.
func HalfNormal(name string, sigma any, opts ...VarOption) *RV {
	return Current().HalfNormal(name, sigma, opts...)
}

// HalfNormal registers a half-normal random variable in the model. See the
// package-level HalfNormal.
func (m *Model) HalfNormal(name string, sigma any, opts ...VarOption) *RV {
	return m.registerRV(name, distributions.NewHalfNormal(toNode(sigma)), opts)
}

// Deterministic registers a named deterministic expression in the model on top
// of the context stack and returns its node.
func Deterministic(name string, value any) *graph.Node {
	return Current().Deterministic(name, value)
}

// Deterministic registers a named deterministic expression in the model.
func (m *Model) Deterministic(name string, value any) *graph.Node {
	fullName := m.fullName(name)
	m.claimName(fullName)
	node := toNode(value)
	m.deterministics = append(m.deterministics, NamedNode{Name: fullName, Node: node})
	return node
}

func (m *Model) registerRV(name string, dist distributions.Distribution, opts []VarOption) *RV {
	o := applyOptions(opts)
	if o.exportIndexAsCoords || o.index != nil {
		exceptions.Panicf("variable %q: index options only apply to FromSeries and FromDataFrame", name)
	}
	fullName := m.fullName(name)
	m.claimName(fullName)
	rv := &RV{
		model: m,
		name:  fullName,
		dist:  dist,
		node:  graph.Param(fullName),
		dims:  o.dims,
		size:  o.size,
	}

	// The creation-time environment holds the initial values of the variables
	// registered so far, enough to evaluate this variable's parameters.
	env := m.InitialPoint()
	paramDims := dist.SampleDimensions(env)
	shapeDims := paramDims
	if len(o.size) > 0 {
		shapeDims = o.size
	}

	if o.hasObserved {
		rv.observed = toNode(o.observed)
		if d, ok := o.observed.(*DataContainer); ok {
			rv.observedData = d
		}
		rv.observedDims = rv.observed.Eval(env).Shape().Dimensions
		if len(o.size) == 0 {
			shapeDims = graph.BroadcastDimensions(paramDims, rv.observedDims)
			rv.needsObservedDims = !dimsEqual(shapeDims, paramDims)
		}
	}

	if len(rv.dims) > 0 {
		shapeDims = m.resolveRVDims(rv, shapeDims)
	}
	m.bindDims(fullName, rv.dims, shapeDims, nil)

	if rv.observed != nil {
		m.observedRVs = append(m.observedRVs, rv)
	} else {
		m.freeRVs = append(m.freeRVs, rv)
	}
	m.rvByName[fullName] = rv
	return rv
}

// resolveRVDims returns the variable's shape as implied by its dims: known
// dimensions and coordinates fix the corresponding axes, unknown ones take the
// length the parameters/observation imply.
func (m *Model) resolveRVDims(rv *RV, impliedDims []int) []int {
	shapeDims := make([]int, len(rv.dims))
	for axis, dimName := range rv.dims {
		if dim, found := m.dims[dimName]; found {
			shapeDims[axis] = dim.Length()
			continue
		}
		if labels, found := m.coords[dimName]; found {
			shapeDims[axis] = len(labels)
			continue
		}
		if len(impliedDims) != len(rv.dims) {
			exceptions.Panicf("variable %q: dimension %q is unknown and cannot be inferred: "+
				"the variable has %d axes but %d dims were given", rv.name, dimName, len(impliedDims), len(rv.dims))
		}
		shapeDims[axis] = impliedDims[axis]
	}
	return shapeDims
}

func dimsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for ii := range a {
		if a[ii] != b[ii] {
			return false
		}
	}
	return true
}

// Name returns the full name of the variable, prefixed with the model name.
func (rv *RV) Name() string { return rv.name }

// Node returns the expression node referring to the variable's value in an
// evaluation environment.
func (rv *RV) Node() *graph.Node { return rv.node }

// Dist returns the variable's distribution.
func (rv *RV) Dist() distributions.Distribution { return rv.dist }

// IsObserved returns whether the variable carries an observation.
func (rv *RV) IsObserved() bool { return rv.observed != nil }

// Observed returns the observation expression, or nil for free variables.
func (rv *RV) Observed() *graph.Node { return rv.observed }

// ObservedData returns the data container the observation follows, or nil when
// the variable is free or observed with a fixed value.
func (rv *RV) ObservedData() *DataContainer { return rv.observedData }

// Dims returns the dimension names bound to the variable's axes, or nil.
func (rv *RV) Dims() []string { return rv.dims }

// SampleDimensions returns the dimensions a sample of the variable takes under
// env: the model's current dimension lengths and the live shapes of the data
// containers the variable depends on.
func (rv *RV) SampleDimensions(env graph.Env) []int {
	return rv.sampleDimensions(env)
}

func (rv *RV) sampleDimensions(env graph.Env) []int {
	if len(rv.size) > 0 {
		return rv.size
	}
	if len(rv.dims) > 0 {
		dims := make([]int, len(rv.dims))
		for axis, dimName := range rv.dims {
			dims[axis] = rv.model.dims[dimName].Length()
		}
		return dims
	}
	dims := rv.dist.SampleDimensions(env)
	if rv.needsObservedDims {
		observedDims := rv.observedDims
		if rv.observedData != nil {
			observedDims = rv.observedData.Value().Shape().Dimensions
		}
		dims = graph.BroadcastDimensions(dims, observedDims)
	}
	return dims
}
