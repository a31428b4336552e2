package simulator

import (
	"math"
	"math/cmplx"

	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/circuit"
)

// applyGate dispatches on the gate kind and updates the state in place.
// The match is exhaustive over the supported set; anything else is an
// UnsupportedGateError.
func applyGate(state []complex128, numQubits int, g circuit.Gate) error {
	if err := checkQubits(g, numQubits); err != nil {
		return err
	}

	switch g.Kind {
	case circuit.GateH:
		f := complex(1/math.Sqrt2, 0)
		applyMatrix2(state, g.Qubits[0], f, f, f, -f)
	case circuit.GateX:
		q := g.Qubits[0]
		forEachPair(state, q, func(i0, i1 int) {
			state[i0], state[i1] = state[i1], state[i0]
		})
	case circuit.GateY:
		q := g.Qubits[0]
		forEachPair(state, q, func(i0, i1 int) {
			a0, a1 := state[i0], state[i1]
			state[i0] = -1i * a1
			state[i1] = 1i * a0
		})
	case circuit.GateZ:
		phaseIfSet(state, g.Qubits[0], -1)
	case circuit.GateS:
		phaseIfSet(state, g.Qubits[0], 1i)
	case circuit.GateT:
		phaseIfSet(state, g.Qubits[0], cmplx.Exp(complex(0, math.Pi/4)))
	case circuit.GateRX:
		c := complex(math.Cos(g.Angle/2), 0)
		js := complex(0, -math.Sin(g.Angle/2))
		applyMatrix2(state, g.Qubits[0], c, js, js, c)
	case circuit.GateRY:
		c := complex(math.Cos(g.Angle/2), 0)
		s := complex(math.Sin(g.Angle/2), 0)
		applyMatrix2(state, g.Qubits[0], c, -s, s, c)
	case circuit.GateRZ:
		q := g.Qubits[0]
		phaseNeg := cmplx.Exp(complex(0, -g.Angle/2))
		phasePos := cmplx.Exp(complex(0, g.Angle/2))
		forEachPair(state, q, func(i0, i1 int) {
			state[i0] *= phaseNeg
			state[i1] *= phasePos
		})
	case circuit.GateCX:
		control, target := g.Qubits[0], g.Qubits[1]
		cBit, tBit := 1<<control, 1<<target
		for i := range state {
			if i&cBit != 0 && i&tBit == 0 {
				state[i], state[i|tBit] = state[i|tBit], state[i]
			}
		}
	case circuit.GateCZ:
		aBit, bBit := 1<<g.Qubits[0], 1<<g.Qubits[1]
		for i := range state {
			if i&aBit != 0 && i&bBit != 0 {
				state[i] = -state[i]
			}
		}
	case circuit.GateSWAP:
		aBit, bBit := 1<<g.Qubits[0], 1<<g.Qubits[1]
		for i := range state {
			if i&aBit != 0 && i&bBit == 0 {
				j := (i ^ aBit) | bBit
				state[i], state[j] = state[j], state[i]
			}
		}
	case circuit.GateCCX:
		c1Bit, c2Bit, tBit := 1<<g.Qubits[0], 1<<g.Qubits[1], 1<<g.Qubits[2]
		for i := range state {
			if i&c1Bit != 0 && i&c2Bit != 0 && i&tBit == 0 {
				state[i], state[i|tBit] = state[i|tBit], state[i]
			}
		}
	default:
		return &domain.UnsupportedGateError{Kind: string(g.Kind)}
	}
	return nil
}

// gateArity maps each supported kind to its required qubit count.
var gateArity = map[circuit.GateKind]int{
	circuit.GateH: 1, circuit.GateX: 1, circuit.GateY: 1, circuit.GateZ: 1,
	circuit.GateS: 1, circuit.GateT: 1,
	circuit.GateRX: 1, circuit.GateRY: 1, circuit.GateRZ: 1,
	circuit.GateCX: 2, circuit.GateCZ: 2, circuit.GateSWAP: 2,
	circuit.GateCCX: 3,
}

func checkQubits(g circuit.Gate, numQubits int) error {
	arity, ok := gateArity[g.Kind]
	if !ok {
		return &domain.UnsupportedGateError{Kind: string(g.Kind)}
	}
	if len(g.Qubits) != arity {
		return domain.NewEncodingError("gate %q needs %d qubits, got %d", g.Kind, arity, len(g.Qubits))
	}
	for i, q := range g.Qubits {
		if q < 0 || q >= numQubits {
			return domain.NewEncodingError("gate %q qubit %d outside register of %d qubits", g.Kind, q, numQubits)
		}
		for _, prev := range g.Qubits[:i] {
			if q == prev {
				return domain.NewEncodingError("gate %q lists qubit %d twice", g.Kind, q)
			}
		}
	}
	return nil
}

// forEachPair visits every amplitude index pair differing only in qubit q,
// with the q bit clear in i0 and set in i1.
func forEachPair(state []complex128, q int, fn func(i0, i1 int)) {
	bit := 1 << q
	for i := range state {
		if i&bit == 0 {
			fn(i, i|bit)
		}
	}
}

// applyMatrix2 applies an arbitrary 2x2 unitary to qubit q in place.
func applyMatrix2(state []complex128, q int, m00, m01, m10, m11 complex128) {
	forEachPair(state, q, func(i0, i1 int) {
		a0, a1 := state[i0], state[i1]
		state[i0] = m00*a0 + m01*a1
		state[i1] = m10*a0 + m11*a1
	})
}

// phaseIfSet multiplies every amplitude with qubit q set by factor.
func phaseIfSet(state []complex128, q int, factor complex128) {
	bit := 1 << q
	for i := range state {
		if i&bit != 0 {
			state[i] *= factor
		}
	}
}
