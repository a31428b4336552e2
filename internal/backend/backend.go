// Package backend abstracts circuit execution. A backend is described by a
// Capabilities value rather than an identity enum, so new providers are new
// data instances. Vendor adapters that translate the neutral gate list to
// wire formats live behind this interface, outside the core.
package backend

import (
	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/circuit"
	"github.com/aristath/quantum-solver/internal/modules/simulator"
)

// Backend executes gate-list circuits and reports what it can do.
type Backend interface {
	Name() string
	Capabilities() domain.Capabilities
	// Execute runs the circuit for the given shot count. A non-nil seed
	// requests a bit-for-bit reproducible run where the backend supports it.
	Execute(c *circuit.Circuit, shots int, seed *int64) (*simulator.ExecutionResult, error)
}
