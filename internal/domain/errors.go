package domain

import "fmt"

// EncodingError indicates malformed QUBO, Hamiltonian, or circuit input:
// non-contiguous variable indices, duplicate declarations, qubit indices
// out of range.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: %s", e.Reason)
}

// NewEncodingError creates an EncodingError with a formatted reason.
func NewEncodingError(format string, args ...interface{}) *EncodingError {
	return &EncodingError{Reason: fmt.Sprintf(format, args...)}
}

// CapacityError indicates a requested qubit count over the simulator limit.
// Returned up front, before any state vector is allocated.
type CapacityError struct {
	Requested int
	Limit     int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %d qubits requested, simulator limit is %d", e.Requested, e.Limit)
}

// UnsupportedGateError indicates a gate kind the simulator cannot apply.
type UnsupportedGateError struct {
	Kind string
}

func (e *UnsupportedGateError) Error() string {
	return fmt.Sprintf("unsupported gate: %q", e.Kind)
}

// InvalidArgumentError indicates a malformed call argument (non-positive
// shots, mismatched parameter vector, empty circuit).
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

// NewInvalidArgument creates an InvalidArgumentError.
func NewInvalidArgument(field, format string, args ...interface{}) *InvalidArgumentError {
	return &InvalidArgumentError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// BackendExecutionError wraps a failure propagated verbatim from an
// execution backend. The underlying error is preserved for errors.As/Is.
type BackendExecutionError struct {
	Backend string
	Err     error
}

func (e *BackendExecutionError) Error() string {
	return fmt.Sprintf("backend %s execution failed: %v", e.Backend, e.Err)
}

func (e *BackendExecutionError) Unwrap() error {
	return e.Err
}
