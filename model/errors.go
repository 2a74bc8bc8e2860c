package model

import "fmt"

// ShapeError is returned when an operation would change the length of a
// dimension that cannot be resized -- e.g. a dimension implied by a random
// variable that is not a data container.
type ShapeError struct {
	msg string
}

func shapeErrorf(format string, args ...any) *ShapeError {
	return &ShapeError{msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ShapeError) Error() string { return e.msg }

// VariableTypeError is returned when a mutation targets a model variable that
// is not a data container.
type VariableTypeError struct {
	// Variable is the full name of the offending variable.
	Variable string
}

// Error implements the error interface.
func (e *VariableTypeError) Error() string {
	return fmt.Sprintf("the variable %q must be a data container (created with Data) to be set", e.Variable)
}
