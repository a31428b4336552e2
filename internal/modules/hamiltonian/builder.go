// Package hamiltonian rewrites QUBO cost functions into Ising form: a
// weighted sum of Pauli-Z and Z⊗Z terms obtained through the binary-to-spin
// substitution x = (1 - s) / 2, plus the fixed transverse-field mixer.
package hamiltonian

import (
	"sort"

	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/qubo"
)

// TermKind distinguishes single-qubit Z terms from Z⊗Z couplings.
type TermKind string

const (
	KindZ  TermKind = "z"
	KindZZ TermKind = "zz"
)

// Term is one weighted Pauli term of the problem Hamiltonian.
type Term struct {
	Coefficient float64  `json:"coefficient"`
	Qubits      []int    `json:"qubits"`
	Kind        TermKind `json:"kind"`
}

// Problem is the cost Hamiltonian in Ising form. Terms are ordered: all
// single-Z terms by qubit, then all Z⊗Z terms by qubit pair.
type Problem struct {
	NumQubits int     `json:"num_qubits"`
	Terms     []Term  `json:"terms"`
	Offset    float64 `json:"offset"`
}

// Mixer is the transverse-field mixer: one unit-weight X per qubit. It has
// no encoded state beyond the qubit count.
type Mixer struct {
	NumQubits int `json:"num_qubits"`
}

// BuildMixer returns the mixer Hamiltonian for n qubits.
func BuildMixer(n int) Mixer {
	return Mixer{NumQubits: n}
}

// BuildProblem applies x_i = (1 - s_i) / 2 to every QUBO term. A diagonal
// term becomes a single-qubit Z with a recomputed coefficient; an
// off-diagonal term becomes a Z⊗Z term whose single-qubit corrections are
// folded into the existing Z coefficients rather than emitted separately.
func BuildProblem(model *qubo.Model) *Problem {
	n := model.NumVariables()
	zCoeffs := make(map[int]float64)
	var zzTerms []Term
	offset := model.Offset()

	for _, t := range model.Terms() {
		c := t.Coefficient
		if t.I == t.J {
			// c*x = c/2 - (c/2)*Z
			offset += c / 2
			zCoeffs[t.I] -= c / 2
			continue
		}
		// c*x_i*x_j = c/4 * (1 - Z_i)(1 - Z_j)
		offset += c / 4
		zCoeffs[t.I] -= c / 4
		zCoeffs[t.J] -= c / 4
		zzTerms = append(zzTerms, Term{
			Coefficient: c / 4,
			Qubits:      []int{t.I, t.J},
			Kind:        KindZZ,
		})
	}

	qubits := make([]int, 0, len(zCoeffs))
	for q, c := range zCoeffs {
		if c != 0 {
			qubits = append(qubits, q)
		}
	}
	sort.Ints(qubits)

	terms := make([]Term, 0, len(qubits)+len(zzTerms))
	for _, q := range qubits {
		terms = append(terms, Term{Coefficient: zCoeffs[q], Qubits: []int{q}, Kind: KindZ})
	}
	terms = append(terms, zzTerms...)

	return &Problem{NumQubits: n, Terms: terms, Offset: offset}
}

// basisEnergy evaluates the Hamiltonian on computational basis state z,
// where bit q of z is qubit q and Z|0> = +|0>, Z|1> = -|1>.
func (p *Problem) basisEnergy(z int) float64 {
	spin := func(q int) float64 {
		if z&(1<<q) == 0 {
			return 1
		}
		return -1
	}
	energy := p.Offset
	for _, t := range p.Terms {
		switch t.Kind {
		case KindZ:
			energy += t.Coefficient * spin(t.Qubits[0])
		case KindZZ:
			energy += t.Coefficient * spin(t.Qubits[0]) * spin(t.Qubits[1])
		}
	}
	return energy
}

// BitstringEnergy evaluates the classical cost of a measured bitstring.
// Character i of bits is the state of qubit i. Equal to the QUBO energy of
// the same assignment.
func (p *Problem) BitstringEnergy(bits string) (float64, error) {
	if len(bits) != p.NumQubits {
		return 0, domain.NewInvalidArgument("bits", "length %d does not match %d qubits", len(bits), p.NumQubits)
	}
	z := 0
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
		case '1':
			z |= 1 << i
		default:
			return 0, domain.NewInvalidArgument("bits", "character %q at position %d", bits[i], i)
		}
	}
	return p.basisEnergy(z), nil
}

// Expectation computes the exact energy expectation over basis-state
// probabilities indexed by basis integer (bit q of the index is qubit q).
func (p *Problem) Expectation(probabilities []float64) float64 {
	var energy float64
	for z, prob := range probabilities {
		if prob == 0 {
			continue
		}
		energy += prob * p.basisEnergy(z)
	}
	return energy
}
