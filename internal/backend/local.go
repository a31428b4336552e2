package backend

import (
	"github.com/rs/zerolog"

	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/circuit"
	"github.com/aristath/quantum-solver/internal/modules/simulator"
)

// Local executes circuits on the in-process state-vector simulator. Errors
// from the engine propagate unchanged; nothing is substituted or relabeled.
type Local struct {
	engine *simulator.Engine
	log    zerolog.Logger
}

// NewLocal creates the local simulator backend.
func NewLocal(engine *simulator.Engine, log zerolog.Logger) *Local {
	return &Local{
		engine: engine,
		log:    log.With().Str("backend", "local").Logger(),
	}
}

// Name identifies the backend in results and logs.
func (b *Local) Name() string { return "local_statevector" }

// Capabilities describes the simulator: full gate set, all-to-all
// connectivity, capacity from the engine's configured ceiling.
func (b *Local) Capabilities() domain.Capabilities {
	return domain.Capabilities{
		MaxQubits: b.engine.MaxQubits(),
		GateSet:   circuit.KnownGates(),
		Simulator: true,
	}
}

// Execute runs the circuit on the engine.
func (b *Local) Execute(c *circuit.Circuit, shots int, seed *int64) (*simulator.ExecutionResult, error) {
	return b.engine.Execute(c, shots, seed)
}
