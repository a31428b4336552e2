// Package circuit defines the neutral gate-list structure executed by the
// simulator and handed to execution backends. The structure is deliberately
// decoupled from any vendor wire format; adapters at the backend boundary
// translate it. It serializes cleanly to JSON and msgpack for storage and
// interchange.
package circuit

import "github.com/aristath/quantum-solver/internal/domain"

// GateKind is the tagged-union discriminator for gate operations. The
// simulator matches on it exhaustively, with unknown kinds surfacing as
// UnsupportedGateError rather than open-ended dispatch.
type GateKind string

const (
	GateH    GateKind = "h"
	GateX    GateKind = "x"
	GateY    GateKind = "y"
	GateZ    GateKind = "z"
	GateS    GateKind = "s"
	GateT    GateKind = "t"
	GateRX   GateKind = "rx"
	GateRY   GateKind = "ry"
	GateRZ   GateKind = "rz"
	GateCX   GateKind = "cx"
	GateCZ   GateKind = "cz"
	GateSWAP GateKind = "swap"
	GateCCX  GateKind = "ccx"
)

// KnownGates lists every gate kind the neutral structure can carry, in a
// stable order. Used to build backend capability descriptions.
func KnownGates() []string {
	return []string{"h", "x", "y", "z", "s", "t", "rx", "ry", "rz", "cx", "cz", "swap", "ccx"}
}

// Gate is one operation: a kind, its target qubit(s), and an optional
// rotation angle. Two-qubit gates list control before target; ccx lists
// both controls before the target.
type Gate struct {
	Kind   GateKind `json:"kind" msgpack:"kind"`
	Qubits []int    `json:"qubits" msgpack:"qubits"`
	Angle  float64  `json:"angle,omitempty" msgpack:"angle,omitempty"`
}

// Circuit is an ordered gate sequence over a fixed qubit register.
type Circuit struct {
	NumQubits int    `json:"num_qubits" msgpack:"num_qubits"`
	Gates     []Gate `json:"gates" msgpack:"gates"`
}

// Clone returns a deep copy of the circuit.
func (c *Circuit) Clone() *Circuit {
	gates := make([]Gate, len(c.Gates))
	for i, g := range c.Gates {
		qubits := make([]int, len(g.Qubits))
		copy(qubits, g.Qubits)
		gates[i] = Gate{Kind: g.Kind, Qubits: qubits, Angle: g.Angle}
	}
	return &Circuit{NumQubits: c.NumQubits, Gates: gates}
}

// Parameters is the variational parameter vector of a QAOA ansatz: one
// (gamma, beta) pair per layer.
type Parameters struct {
	Gamma []float64 `json:"gamma" msgpack:"gamma"`
	Beta  []float64 `json:"beta" msgpack:"beta"`
}

// Layers returns the number of QAOA layers.
func (p Parameters) Layers() int { return len(p.Gamma) }

// Validate checks the parameter vector shape.
func (p Parameters) Validate() error {
	if len(p.Gamma) == 0 {
		return domain.NewInvalidArgument("params", "at least one (gamma, beta) layer required")
	}
	if len(p.Gamma) != len(p.Beta) {
		return domain.NewInvalidArgument("params", "gamma has %d entries, beta has %d", len(p.Gamma), len(p.Beta))
	}
	return nil
}

// Vector flattens the parameters to the interleaved optimizer layout
// (gamma_1, beta_1, gamma_2, beta_2, ...).
func (p Parameters) Vector() []float64 {
	x := make([]float64, 0, 2*len(p.Gamma))
	for i := range p.Gamma {
		x = append(x, p.Gamma[i], p.Beta[i])
	}
	return x
}

// ParametersFromVector rebuilds layered parameters from the interleaved
// optimizer layout.
func ParametersFromVector(x []float64) (Parameters, error) {
	if len(x) == 0 || len(x)%2 != 0 {
		return Parameters{}, domain.NewInvalidArgument("params", "vector length %d is not a positive even number", len(x))
	}
	p := Parameters{
		Gamma: make([]float64, len(x)/2),
		Beta:  make([]float64, len(x)/2),
	}
	for i := 0; i < len(x)/2; i++ {
		p.Gamma[i] = x[2*i]
		p.Beta[i] = x[2*i+1]
	}
	return p, nil
}
