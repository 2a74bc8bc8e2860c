package model

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/gomlx/exceptions"
	"github.com/spiyer99/pymc3/graph"
	"github.com/spiyer99/pymc3/types/tensors"
)

// DataContainer is a named shared data container: a mutable, named tensor
// registered in a model, usable as input to random variables or as their
// observed value. Create them with Data, FromSeries or FromDataFrame.
//
// Its contents can be replaced after creation with SetValue (or the model's
// SetData), e.g. for out-of-sample prediction; the change is immediately
// visible to every expression depending on the container, without rebuilding
// the model.
type DataContainer struct {
	model *Model

	// name is the full name, prefixed with the model name.
	name string

	// key is the name the container was registered under, without the model
	// prefix; SetData looks containers up by key.
	key string

	shared *graph.SharedValue
	dims   []string
}

// varOptions collects the options of the variable constructors. Not all
// options apply to all constructors.
type varOptions struct {
	dims                []string
	observed            any
	hasObserved         bool
	size                []int
	exportIndexAsCoords bool
	index               []any
}

// VarOption is an option for the variable constructors: Data, FromSeries,
// FromDataFrame and the random variable constructors.
type VarOption func(o *varOptions)

// WithDims binds the variable's axes to the given dimension names, in order.
func WithDims(names ...string) VarOption {
	return func(o *varOptions) { o.dims = names }
}

// WithObserved marks a random variable as observed with the given value. The
// value may be a *DataContainer, in which case the observation follows the
// container's live contents.
func WithObserved(value any) VarOption {
	return func(o *varOptions) {
		o.observed = value
		o.hasObserved = true
	}
}

// WithSize fixes the dimensions of a random variable, broadcasting its
// parameters to them.
func WithSize(dimensions ...int) VarOption {
	return func(o *varOptions) { o.size = dimensions }
}

// ExportIndexAsCoords registers the index labels of a container created with
// FromSeries or FromDataFrame as coordinate labels of its dimensions. Column
// names of a DataFrame label the second dimension; the index (see WithIndex)
// labels the first.
func ExportIndexAsCoords() VarOption {
	return func(o *varOptions) { o.exportIndexAsCoords = true }
}

// WithIndex provides the index labels of a container created with FromSeries
// or FromDataFrame. Without it, ExportIndexAsCoords falls back to positional
// integer labels.
func WithIndex(labels ...any) VarOption {
	return func(o *varOptions) { o.index = labels }
}

func applyOptions(opts []VarOption) *varOptions {
	o := &varOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Data registers a named mutable data container in the model on top of the
// context stack. It panics when no model is active.
//
// value may be a Go scalar, a (nested) slice, or a *tensors.Tensor.
func Data(name string, value any, opts ...VarOption) *DataContainer {
	return Current().Data(name, value, opts...)
}

// Data registers a named mutable data container in the model. See the
// package-level Data.
func (m *Model) Data(name string, value any, opts ...VarOption) *DataContainer {
	o := applyOptions(opts)
	if o.hasObserved || len(o.size) > 0 {
		exceptions.Panicf("Data(%q): the observed and size options do not apply to data containers", name)
	}
	return m.newData(name, tensors.FromAnyValue(value), o)
}

// FromSeries registers a data container holding the values of the gota series.
// With ExportIndexAsCoords, the index labels (WithIndex, or positional
// integers) become the coordinate labels of the container's dimension.
func FromSeries(name string, ser series.Series, opts ...VarOption) *DataContainer {
	return Current().FromSeries(name, ser, opts...)
}

// FromSeries registers a data container holding the values of the gota series.
// See the package-level FromSeries.
func (m *Model) FromSeries(name string, ser series.Series, opts ...VarOption) *DataContainer {
	o := applyOptions(opts)
	value := tensors.FromValue(ser.Float())
	if o.exportIndexAsCoords {
		if len(o.dims) != 1 {
			exceptions.Panicf("FromSeries(%q): ExportIndexAsCoords requires exactly one dimension name", name)
		}
		m.exportCoords(o.dims[0], o.index, ser.Len())
	}
	return m.newData(name, value, o)
}

// FromDataFrame registers a data container holding the values of the gota
// dataframe, shaped (rows, columns). With ExportIndexAsCoords, the dataframe
// column names become the coordinate labels of the second dimension, and the
// index labels (WithIndex, or positional integers) those of the first.
func FromDataFrame(name string, df dataframe.DataFrame, opts ...VarOption) *DataContainer {
	return Current().FromDataFrame(name, df, opts...)
}

// FromDataFrame registers a data container holding the values of the gota
// dataframe. See the package-level FromDataFrame.
func (m *Model) FromDataFrame(name string, df dataframe.DataFrame, opts ...VarOption) *DataContainer {
	o := applyOptions(opts)
	numRows, numCols := df.Nrow(), df.Ncol()
	flat := make([]float64, 0, numRows*numCols)
	for row := 0; row < numRows; row++ {
		for col := 0; col < numCols; col++ {
			flat = append(flat, df.Elem(row, col).Float())
		}
	}
	value := tensors.FromFlatDataAndDimensions(flat, numRows, numCols)
	if o.exportIndexAsCoords {
		if len(o.dims) != 2 {
			exceptions.Panicf("FromDataFrame(%q): ExportIndexAsCoords requires exactly two dimension names", name)
		}
		m.exportCoords(o.dims[0], o.index, numRows)
		columns := make([]any, numCols)
		for ii, colName := range df.Names() {
			columns[ii] = colName
		}
		m.coords[o.dims[1]] = columns
	}
	return m.newData(name, value, o)
}

// exportCoords registers the given index labels (or positional integers when
// nil) as the coordinate labels of dim.
func (m *Model) exportCoords(dim string, index []any, length int) {
	if index == nil {
		index = make([]any, length)
		for ii := range index {
			index[ii] = ii
		}
	}
	if len(index) != length {
		exceptions.Panicf("dimension %q: %d index labels given for %d values", dim, len(index), length)
	}
	m.coords[dim] = index
}

func (m *Model) newData(name string, value *tensors.Tensor, o *varOptions) *DataContainer {
	fullName := m.fullName(name)
	m.claimName(fullName)
	d := &DataContainer{
		model:  m,
		name:   fullName,
		key:    name,
		shared: graph.NewShared(fullName, value),
		dims:   o.dims,
	}
	m.bindDims(fullName, o.dims, value.Shape().Dimensions, d.shared)
	m.dataVars = append(m.dataVars, d)
	m.dataByName[name] = d
	return d
}

// Name returns the full name of the container, prefixed with the model name.
func (d *DataContainer)Name() string { return d.name }

// Node returns the expression node reading the container's live value.
func (d *DataContainer)Node() *graph.Node { return d.shared.Node() }

// Value returns the container's current tensor.
func (d *DataContainer)Value() *tensors.Tensor { return d.shared.Value() }

// Dims returns the dimension names bound to the container's axes, or nil.
func (d *DataContainer)Dims() []string { return d.dims }

// SetValue replaces the container's contents. Equivalent to
// Model.SetDataValue with the container's name.
func (d *DataContainer) SetValue(value any) error {
	return d.model.SetDataValue(d.key, value)
}
