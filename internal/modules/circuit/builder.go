package circuit

import (
	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/hamiltonian"
)

// Build compiles the QAOA ansatz: a Hadamard wall preparing the uniform
// superposition, then for each layer a cost sublayer driven by gamma and a
// mixer sublayer driven by beta. Pure function: identical inputs produce
// identical circuits, and the result is never mutated after return.
func Build(problem *hamiltonian.Problem, mixer hamiltonian.Mixer, params Parameters) (*Circuit, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	n := problem.NumQubits
	if n <= 0 {
		return nil, domain.NewEncodingError("problem Hamiltonian has %d qubits", n)
	}
	if mixer.NumQubits != n {
		return nil, domain.NewEncodingError("mixer spans %d qubits, problem spans %d", mixer.NumQubits, n)
	}
	for _, term := range problem.Terms {
		for _, q := range term.Qubits {
			if q < 0 || q >= n {
				return nil, domain.NewEncodingError("term qubit %d outside register of %d qubits", q, n)
			}
		}
	}

	c := &Circuit{NumQubits: n}

	// State preparation: uniform superposition over all basis states.
	for q := 0; q < n; q++ {
		c.Gates = append(c.Gates, Gate{Kind: GateH, Qubits: []int{q}})
	}

	for layer := 0; layer < params.Layers(); layer++ {
		gamma := params.Gamma[layer]
		beta := params.Beta[layer]

		// Cost sublayer: e^{-i*gamma*H_C} term by term.
		for _, term := range problem.Terms {
			angle := 2 * gamma * term.Coefficient
			switch term.Kind {
			case hamiltonian.KindZ:
				c.Gates = append(c.Gates, Gate{Kind: GateRZ, Qubits: []int{term.Qubits[0]}, Angle: angle})
			case hamiltonian.KindZZ:
				// Canonical two-qubit phase rotation: CX, RZ on target, CX.
				a, b := term.Qubits[0], term.Qubits[1]
				c.Gates = append(c.Gates,
					Gate{Kind: GateCX, Qubits: []int{a, b}},
					Gate{Kind: GateRZ, Qubits: []int{b}, Angle: angle},
					Gate{Kind: GateCX, Qubits: []int{a, b}},
				)
			default:
				return nil, domain.NewEncodingError("problem Hamiltonian has unknown term kind %q", term.Kind)
			}
		}

		// Mixer sublayer: e^{-i*beta*H_M} is an RX wall.
		for q := 0; q < n; q++ {
			c.Gates = append(c.Gates, Gate{Kind: GateRX, Qubits: []int{q}, Angle: 2 * beta})
		}
	}

	return c, nil
}
