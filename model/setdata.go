package model

import (
	"github.com/pkg/errors"
	"github.com/spiyer99/pymc3/types/tensors"
)

// SetData replaces the contents of the named data containers of the model on
// top of the context stack. It panics when no model is active. See
// Model.SetDataMap.
func SetData(values map[string]any) error {
	return Current().SetDataMap(values)
}

// SetDataMap replaces the contents of the named data containers. Names are the
// ones the containers were registered under, without the model prefix. The
// model is left unchanged when an error is returned.
func (m *Model) SetDataMap(values map[string]any) error {
	type update struct {
		container *DataContainer
		value     *tensors.Tensor
	}
	updates := make([]update, 0, len(values))
	for name, value := range values {
		container, tensor, err := m.checkDataUpdate(name, value)
		if err != nil {
			return err
		}
		updates = append(updates, update{container, tensor})
	}
	for _, u := range updates {
		u.container.shared.SetValue(u.value)
	}
	return nil
}

// SetDataValue replaces the contents of one named data container. The name is
// the one the container was registered under, without the model prefix.
//
// It returns a *VariableTypeError when name refers to a model variable that is
// not a data container, and a *ShapeError when the new value would resize a
// dimension with a fixed length (one backed by explicit coordinate labels, or
// initialized from a variable other than a data container).
func (m *Model) SetDataValue(name string, value any) error {
	container, tensor, err := m.checkDataUpdate(name, value)
	if err != nil {
		return err
	}
	container.shared.SetValue(tensor)
	return nil
}

// checkDataUpdate validates one container update and returns the container and
// the new value converted to the container's dtype.
func (m *Model) checkDataUpdate(name string, value any) (*DataContainer, *tensors.Tensor, error) {
	container, found := m.dataByName[name]
	if !found {
		fullName := m.fullName(name)
		if _, isRV := m.rvByName[fullName]; isRV {
			return nil, nil, &VariableTypeError{Variable: fullName}
		}
		return nil, nil, errors.Errorf("no variable named %q in the model", fullName)
	}

	tensor := tensors.FromAnyValue(value)
	oldShape := container.Value().Shape()
	if dtype := tensor.Shape().DType; dtype != oldShape.DType {
		tensor = tensors.FromFloat64AndDimensions(
			tensor.ConvertToFloat64(), oldShape.DType, tensor.Shape().Dimensions...)
	}

	newDims := tensor.Shape().Dimensions
	if len(container.dims) > 0 && len(newDims) != len(container.dims) {
		return nil, nil, shapeErrorf(
			"container %q has %d named dimensions, new value has rank %d",
			container.name, len(container.dims), len(newDims))
	}
	for axis, dimName := range container.dims {
		dim := m.dims[dimName]
		if newDims[axis] == dim.Length() {
			continue
		}
		if dim.fromData {
			// Symbolic length, tracking a container's live shape: resizable.
			continue
		}
		if dim.origin == "" {
			return nil, nil, shapeErrorf(
				"cannot resize dimension %q from %d to %d: its length is fixed by explicit coordinate labels",
				dimName, dim.Length(), newDims[axis])
		}
		return nil, nil, shapeErrorf(
			"cannot resize dimension %q from %d to %d: it was initialized from %q which is not a data container",
			dimName, dim.Length(), newDims[axis], dim.origin)
	}
	return container, tensor, nil
}
