package qubo

import (
	"sort"

	"github.com/aristath/quantum-solver/internal/domain"
)

// VarKind identifies how a decision variable is encoded onto qubits.
type VarKind string

const (
	// KindBinary maps 1:1 onto a single qubit.
	KindBinary VarKind = "binary"
	// KindInteger is one-hot encoded over its inclusive [Lower, Upper] range.
	KindInteger VarKind = "integer"
	// KindCategorical is one-hot encoded over its option labels.
	KindCategorical VarKind = "categorical"
)

// Variable is a discrete decision variable of the original problem.
type Variable struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Kind    VarKind  `json:"kind"`
	Lower   int      `json:"lower,omitempty"`   // integer range start
	Upper   int      `json:"upper,omitempty"`   // integer range end (inclusive)
	Options []string `json:"options,omitempty"` // categorical labels
}

// Width returns the number of qubits the variable occupies.
func (v Variable) Width() int {
	switch v.Kind {
	case KindInteger:
		return v.Upper - v.Lower + 1
	case KindCategorical:
		return len(v.Options)
	default:
		return 1
	}
}

// LinearTerm contributes Coefficient to the cost when Variable takes Value.
// For binary variables Value must be 1 (the "set" state); for one-hot
// variables Value selects the option (integer offset or option position).
type LinearTerm struct {
	Variable    int     `json:"variable"`
	Value       int     `json:"value"`
	Coefficient float64 `json:"coefficient"`
}

// QuadraticTerm contributes Coefficient when both selections hold at once.
type QuadraticTerm struct {
	VariableA   int     `json:"variable_a"`
	ValueA      int     `json:"value_a"`
	VariableB   int     `json:"variable_b"`
	ValueB      int     `json:"value_b"`
	Coefficient float64 `json:"coefficient"`
}

// Objective is the quadratic cost to minimize, expressed over variable
// selections rather than raw qubits.
type Objective struct {
	Linear    []LinearTerm    `json:"linear,omitempty"`
	Quadratic []QuadraticTerm `json:"quadratic,omitempty"`
}

// ConstraintOp is the relation of a linear constraint.
type ConstraintOp string

const (
	OpEqual     ConstraintOp = "="
	OpLessEqual ConstraintOp = "<="
)

// ConstraintTerm is one integer-coefficient term of a linear constraint.
type ConstraintTerm struct {
	Variable    int `json:"variable"`
	Value       int `json:"value"`
	Coefficient int `json:"coefficient"`
}

// Constraint is a linear equality or inequality over variable selections.
// Equalities become squared-difference penalties; inequalities get binary
// slack bits and a squared-violation penalty.
type Constraint struct {
	Name  string           `json:"name"`
	Terms []ConstraintTerm `json:"terms"`
	Op    ConstraintOp     `json:"op"`
	Bound int              `json:"bound"`
}

type pairKey struct {
	I, J int
}

// Term is one entry of the QUBO coefficient mapping with I <= J.
// I == J entries are linear, I < J entries are quadratic couplings.
type Term struct {
	I           int     `json:"i"`
	J           int     `json:"j"`
	Coefficient float64 `json:"coefficient"`
}

// Model is an immutable QUBO instance: a mapping from unordered qubit index
// pairs to coefficients, plus the constant offset accumulated by penalty
// expansion. Safe for concurrent reads; built once by the encoder.
type Model struct {
	n      int
	coeffs map[pairKey]float64
	offset float64
}

// NumVariables returns the number of binary variables (qubits).
func (m *Model) NumVariables() int { return m.n }

// Offset returns the constant energy offset.
func (m *Model) Offset() float64 { return m.offset }

// Coefficient returns the coefficient for the unordered pair (i, j), or 0.
func (m *Model) Coefficient(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	return m.coeffs[pairKey{i, j}]
}

// Terms returns all non-zero terms in deterministic (i, j) order.
func (m *Model) Terms() []Term {
	terms := make([]Term, 0, len(m.coeffs))
	for k, c := range m.coeffs {
		if c != 0 {
			terms = append(terms, Term{I: k.I, J: k.J, Coefficient: c})
		}
	}
	sort.Slice(terms, func(a, b int) bool {
		if terms[a].I != terms[b].I {
			return terms[a].I < terms[b].I
		}
		return terms[a].J < terms[b].J
	})
	return terms
}

// Energy evaluates the classical QUBO cost of a bitstring. Character i of
// bits is the state of qubit i ('0' or '1').
func (m *Model) Energy(bits string) (float64, error) {
	if len(bits) != m.n {
		return 0, domain.NewInvalidArgument("bits", "length %d does not match %d variables", len(bits), m.n)
	}
	x := make([]float64, m.n)
	for i := 0; i < m.n; i++ {
		switch bits[i] {
		case '0':
		case '1':
			x[i] = 1
		default:
			return 0, domain.NewInvalidArgument("bits", "character %q at position %d", bits[i], i)
		}
	}
	energy := m.offset
	for k, c := range m.coeffs {
		energy += c * x[k.I] * x[k.J]
	}
	return energy, nil
}

// modelBuilder accumulates coefficients as an explicit fold: duplicate
// contributions to the same pair are summed, never overwritten. Each Encode
// call owns its builder, so independent problems never share state.
type modelBuilder struct {
	n      int
	coeffs map[pairKey]float64
	offset float64
}

func newModelBuilder(n int) *modelBuilder {
	return &modelBuilder{n: n, coeffs: make(map[pairKey]float64)}
}

func (b *modelBuilder) add(i, j int, c float64) {
	if c == 0 {
		return
	}
	if i > j {
		i, j = j, i
	}
	b.coeffs[pairKey{i, j}] += c
}

func (b *modelBuilder) addOffset(c float64) {
	b.offset += c
}

func (b *modelBuilder) build() *Model {
	coeffs := make(map[pairKey]float64, len(b.coeffs))
	for k, c := range b.coeffs {
		if c != 0 {
			coeffs[k] = c
		}
	}
	return &Model{n: b.n, coeffs: coeffs, offset: b.offset}
}
