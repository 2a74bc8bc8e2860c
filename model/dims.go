package model

import (
	"github.com/gomlx/exceptions"
	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/types/tensors"
)

// Dimension is one named dimension of the model.
//
// A dimension length is either static -- fixed at creation, as happens when
// explicit coordinate labels are given or when the dimension is implied by a
// random variable -- or symbolic, tracking the live shape of the data
// container that declared it.
type Dimension struct {
	name string

	// length is the static length; only meaningful when lengthNode == nil.
	length int

	// lengthNode, when set, is an AxisSize expression evaluating to the live
	// length of the dimension.
	lengthNode *graph.Node

	// origin is the full name of the variable that created the dimension.
	// Empty when the dimension was created from explicit coordinate labels.
	origin string

	// fromData indicates whether origin refers to a data container, which is
	// what makes the dimension resizable.
	fromData bool
}

// Name of the dimension.
func (d *Dimension) Name() string { return d.name }

// IsStatic returns whether the dimension length is fixed. Static dimensions
// come from explicit coordinate labels or from non-container variables;
// symbolic dimensions track the live shape of the data container that
// declared them.
func (d *Dimension) IsStatic() bool { return d.lengthNode == nil }

// Length returns the current length of the dimension. For symbolic dimensions
// this reads the live shape of the underlying data container.
func (d *Dimension) Length() int {
	if d.lengthNode == nil {
		return d.length
	}
	return int(tensors.ToScalar[int64](d.lengthNode.Eval(nil)))
}

// LengthNode returns the expression node tracking the live length, or nil for
// static dimensions.
func (d *Dimension) LengthNode() *graph.Node { return d.lengthNode }

// Origin returns the full name of the variable that created the dimension,
// or "" when it was created from explicit coordinate labels.
func (d *Dimension) Origin() string { return d.origin }

// bindDims associates the axes of a variable shaped shapeDims with the given
// dimension names, creating missing dimensions:
//
//   - a dimension with explicit coordinate labels becomes static, with the
//     labels' length;
//   - a dimension declared by a data container (shared != nil) becomes
//     symbolic, tracking the container's live shape;
//   - a dimension implied by any other variable becomes static, recording the
//     variable as its origin.
//
// Existing dimensions are validated against the variable's shape.
func (m *Model) bindDims(ownerName string, dims []string, shapeDims []int, shared *graph.SharedValue) {
	if len(dims) == 0 {
		return
	}
	if len(dims) != len(shapeDims) {
		exceptions.Panicf("variable %q: %d dims given for a variable with %d axes", ownerName, len(dims), len(shapeDims))
	}
	for axis, dimName := range dims {
		if existing, found := m.dims[dimName]; found {
			if existing.Length() != shapeDims[axis] {
				exceptions.Panicf("variable %q: axis %d has dimension %d, but dimension %q has length %d",
					ownerName, axis, shapeDims[axis], dimName, existing.Length())
			}
			continue
		}
		if labels, found := m.coords[dimName]; found {
			if len(labels) != shapeDims[axis] {
				exceptions.Panicf("variable %q: axis %d has dimension %d, but coordinates %q have %d labels",
					ownerName, axis, shapeDims[axis], dimName, len(labels))
			}
			m.dims[dimName] = &Dimension{name: dimName, length: len(labels)}
			continue
		}
		if shared != nil {
			m.dims[dimName] = &Dimension{
				name:       dimName,
				lengthNode: graph.AxisSize(shared.Node(), axis),
				origin:     ownerName,
				fromData:   true,
			}
			continue
		}
		m.dims[dimName] = &Dimension{
			name:   dimName,
			length: shapeDims[axis],
			origin: ownerName,
		}
	}
	m.rvDims[ownerName] = dims
}
