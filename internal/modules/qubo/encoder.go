package qubo

import (
	"math"

	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/rs/zerolog"
)

// penaltyMargin is added on top of the dominating objective swing so a
// constraint violation is never worth the objective gain it could buy.
const penaltyMargin = 1.0

// Encoder turns discrete variables, a quadratic objective, and linear
// constraints into a QUBO model over qubits.
type Encoder struct {
	log zerolog.Logger
}

// NewEncoder creates a new QUBO encoder.
func NewEncoder(log zerolog.Logger) *Encoder {
	return &Encoder{log: log.With().Str("component", "qubo_encoder").Logger()}
}

// Encoding is the result of encoding one problem: the immutable QUBO model
// plus the qubit layout needed to decode assignments back to domain values.
type Encoding struct {
	Model     *Model
	Variables []Variable
	NumQubits int

	offsets     []int // qubit offset per variable index
	slackQubits int   // auxiliary qubits appended after the variable qubits
}

// Encode builds the QUBO. Binary variables occupy one qubit each; integer
// and categorical variables are one-hot encoded with an exactly-one penalty.
// Equality constraints become squared-difference penalties; inequalities get
// binary slack bits and a squared-violation penalty.
func (e *Encoder) Encode(variables []Variable, objective Objective, constraints []Constraint) (*Encoding, error) {
	if len(variables) == 0 {
		return nil, domain.NewEncodingError("no variables declared")
	}

	// Variable indices must be contiguous 0..n-1 with no duplicates.
	seen := make(map[int]bool, len(variables))
	ordered := make([]Variable, len(variables))
	for _, v := range variables {
		if v.Index < 0 || v.Index >= len(variables) {
			return nil, domain.NewEncodingError("variable %q index %d out of range [0, %d)", v.Name, v.Index, len(variables))
		}
		if seen[v.Index] {
			return nil, domain.NewEncodingError("duplicate variable index %d (%q)", v.Index, v.Name)
		}
		seen[v.Index] = true
		if v.Kind == KindInteger && v.Upper < v.Lower {
			return nil, domain.NewEncodingError("variable %q has empty range [%d, %d]", v.Name, v.Lower, v.Upper)
		}
		if v.Kind == KindCategorical && len(v.Options) == 0 {
			return nil, domain.NewEncodingError("variable %q has no options", v.Name)
		}
		ordered[v.Index] = v
	}

	enc := &Encoding{Variables: ordered, offsets: make([]int, len(ordered))}
	for i, v := range ordered {
		enc.offsets[i] = enc.NumQubits
		enc.NumQubits += v.Width()
	}

	// Slack bits for inequalities are appended after the variable qubits,
	// so their positions must be decided before the model is sized.
	slackOffsets := make([][]int, len(constraints))
	slackCoeffs := make([][]int, len(constraints))
	for ci, c := range constraints {
		if c.Op != OpLessEqual {
			continue
		}
		maxSlack, err := e.slackRange(enc, c)
		if err != nil {
			return nil, err
		}
		coeffs := slackBitCoefficients(maxSlack)
		offsets := make([]int, len(coeffs))
		for k := range coeffs {
			offsets[k] = enc.NumQubits
			enc.NumQubits++
			enc.slackQubits++
		}
		slackOffsets[ci] = offsets
		slackCoeffs[ci] = coeffs
	}

	builder := newModelBuilder(enc.NumQubits)

	// Objective terms map straight onto qubit coefficients.
	objTouch := make([]float64, len(ordered))
	for _, t := range objective.Linear {
		q, err := enc.qubitFor(t.Variable, t.Value)
		if err != nil {
			return nil, err
		}
		builder.add(q, q, t.Coefficient)
		objTouch[t.Variable] += math.Abs(t.Coefficient)
	}
	for _, t := range objective.Quadratic {
		qa, err := enc.qubitFor(t.VariableA, t.ValueA)
		if err != nil {
			return nil, err
		}
		qb, err := enc.qubitFor(t.VariableB, t.ValueB)
		if err != nil {
			return nil, err
		}
		builder.add(qa, qb, t.Coefficient)
		objTouch[t.VariableA] += math.Abs(t.Coefficient)
		objTouch[t.VariableB] += math.Abs(t.Coefficient)
	}

	// Exactly-one penalty per one-hot group: lambda * (sum(x) - 1)^2.
	// A width-1 group degenerates to the linear form lambda * (1 - x),
	// which still pins its single qubit to 1. Plain binary variables are
	// free and get no penalty.
	for vi, v := range ordered {
		if v.Kind == KindBinary {
			continue
		}
		lambda := objTouch[vi] + penaltyMargin
		base := enc.offsets[vi]
		for a := 0; a < v.Width(); a++ {
			builder.add(base+a, base+a, -lambda)
			for b := a + 1; b < v.Width(); b++ {
				builder.add(base+a, base+b, 2*lambda)
			}
		}
		builder.addOffset(lambda)
	}

	for ci, c := range constraints {
		if len(c.Terms) == 0 {
			return nil, domain.NewEncodingError("constraint %q has no terms", c.Name)
		}
		if c.Op != OpEqual && c.Op != OpLessEqual {
			return nil, domain.NewEncodingError("constraint %q has unknown op %q", c.Name, c.Op)
		}

		// Fold duplicate (variable, value) references before expansion.
		perQubit := make(map[int]float64)
		touched := make(map[int]bool)
		for _, t := range c.Terms {
			q, err := enc.qubitFor(t.Variable, t.Value)
			if err != nil {
				return nil, err
			}
			perQubit[q] += float64(t.Coefficient)
			touched[t.Variable] = true
		}
		lambda := penaltyMargin
		for vi := range touched {
			lambda += objTouch[vi]
		}

		for k, coeff := range slackCoeffs[ci] {
			perQubit[slackOffsets[ci][k]] += float64(coeff)
		}

		e.addSquaredPenalty(builder, perQubit, float64(c.Bound), lambda)
	}

	enc.Model = builder.build()

	e.log.Debug().
		Int("variables", len(ordered)).
		Int("qubits", enc.NumQubits).
		Int("slack_qubits", enc.slackQubits).
		Int("terms", len(enc.Model.coeffs)).
		Msg("Encoded QUBO model")

	return enc, nil
}

// addSquaredPenalty expands lambda * (sum(a_q x_q) - bound)^2 into linear
// and quadratic QUBO terms plus a constant offset. Uses x^2 = x for the
// diagonal contributions.
func (e *Encoder) addSquaredPenalty(builder *modelBuilder, perQubit map[int]float64, bound, lambda float64) {
	qubits := make([]int, 0, len(perQubit))
	for q := range perQubit {
		qubits = append(qubits, q)
	}
	for ai, qa := range qubits {
		a := perQubit[qa]
		builder.add(qa, qa, lambda*a*a)
		builder.add(qa, qa, -2*lambda*bound*a)
		for _, qb := range qubits[ai+1:] {
			builder.add(qa, qb, 2*lambda*a*perQubit[qb])
		}
	}
	builder.addOffset(lambda * bound * bound)
}

// slackRange returns the largest slack value an inequality can need:
// bound minus the smallest achievable left-hand side.
func (e *Encoder) slackRange(enc *Encoding, c Constraint) (int, error) {
	minLHS := 0
	for _, t := range c.Terms {
		if _, err := enc.qubitFor(t.Variable, t.Value); err != nil {
			return 0, err
		}
		if t.Coefficient < 0 {
			minLHS += t.Coefficient
		}
	}
	maxSlack := c.Bound - minLHS
	if maxSlack < 0 {
		return 0, domain.NewEncodingError("constraint %q is infeasible: bound %d below minimum left-hand side %d", c.Name, c.Bound, minLHS)
	}
	return maxSlack, nil
}

// slackBitCoefficients returns the binary-expansion coefficients covering
// [0, maxSlack] exactly: powers of two with a bounded final coefficient.
func slackBitCoefficients(maxSlack int) []int {
	if maxSlack <= 0 {
		return nil
	}
	var coeffs []int
	covered := 0
	next := 1
	for covered+next <= maxSlack {
		coeffs = append(coeffs, next)
		covered += next
		next *= 2
	}
	if covered < maxSlack {
		coeffs = append(coeffs, maxSlack-covered)
	}
	return coeffs
}

// qubitFor maps a (variable, value) selection to its qubit index.
func (enc *Encoding) qubitFor(variable, value int) (int, error) {
	if variable < 0 || variable >= len(enc.Variables) {
		return 0, domain.NewEncodingError("reference to unknown variable %d", variable)
	}
	v := enc.Variables[variable]
	switch v.Kind {
	case KindBinary:
		if value != 1 {
			return 0, domain.NewEncodingError("binary variable %q referenced with value %d (must be 1)", v.Name, value)
		}
		return enc.offsets[variable], nil
	case KindInteger:
		if value < v.Lower || value > v.Upper {
			return 0, domain.NewEncodingError("variable %q value %d outside [%d, %d]", v.Name, value, v.Lower, v.Upper)
		}
		return enc.offsets[variable] + (value - v.Lower), nil
	case KindCategorical:
		if value < 0 || value >= len(v.Options) {
			return 0, domain.NewEncodingError("variable %q option %d outside [0, %d)", v.Name, value, len(v.Options))
		}
		return enc.offsets[variable] + value, nil
	default:
		return 0, domain.NewEncodingError("variable %q has unknown kind %q", v.Name, v.Kind)
	}
}
