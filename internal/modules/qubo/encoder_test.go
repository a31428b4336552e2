package qubo

import (
	"testing"

	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEncoder() *Encoder {
	return NewEncoder(zerolog.Nop())
}

func TestEncode_BinaryVariablesMapOneToOne(t *testing.T) {
	enc, err := testEncoder().Encode(
		[]Variable{
			{Index: 0, Name: "a", Kind: KindBinary},
			{Index: 1, Name: "b", Kind: KindBinary},
		},
		Objective{
			Linear:    []LinearTerm{{Variable: 0, Value: 1, Coefficient: 2.0}},
			Quadratic: []QuadraticTerm{{VariableA: 0, ValueA: 1, VariableB: 1, ValueB: 1, Coefficient: -3.0}},
		},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, 2, enc.NumQubits)
	assert.Equal(t, 2.0, enc.Model.Coefficient(0, 0))
	assert.Equal(t, -3.0, enc.Model.Coefficient(0, 1))
	assert.Equal(t, -3.0, enc.Model.Coefficient(1, 0), "pair lookup is unordered")

	energy, err := enc.Model.Energy("11")
	require.NoError(t, err)
	assert.InDelta(t, -1.0, energy, 1e-12)
}

func TestEncode_DuplicateContributionsAreSummed(t *testing.T) {
	enc, err := testEncoder().Encode(
		[]Variable{{Index: 0, Name: "a", Kind: KindBinary}},
		Objective{Linear: []LinearTerm{
			{Variable: 0, Value: 1, Coefficient: 1.5},
			{Variable: 0, Value: 1, Coefficient: 2.5},
		}},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, 4.0, enc.Model.Coefficient(0, 0))
}

func TestEncode_OneHotPenalty(t *testing.T) {
	enc, err := testEncoder().Encode(
		[]Variable{{Index: 0, Name: "color", Kind: KindCategorical, Options: []string{"red", "green", "blue"}}},
		Objective{},
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, 3, enc.NumQubits)

	// No objective: lambda is the bare safety margin, penalty minimum is 0
	// exactly when one bit is set.
	cases := map[string]float64{
		"100": 0,
		"010": 0,
		"001": 0,
		"000": 1,
		"110": 1,
		"111": 4,
	}
	for bits, want := range cases {
		energy, err := enc.Model.Energy(bits)
		require.NoError(t, err)
		assert.InDelta(t, want, energy, 1e-12, "bits %s", bits)
	}
}

func TestEncode_PenaltyDominatesObjectiveSwing(t *testing.T) {
	// A large reward on every option must never make breaking the one-hot
	// constraint worthwhile.
	enc, err := testEncoder().Encode(
		[]Variable{{Index: 0, Name: "pick", Kind: KindCategorical, Options: []string{"x", "y"}}},
		Objective{Linear: []LinearTerm{
			{Variable: 0, Value: 0, Coefficient: -10},
			{Variable: 0, Value: 1, Coefficient: -10},
		}},
		nil,
	)
	require.NoError(t, err)

	bothSet, err := enc.Model.Energy("11")
	require.NoError(t, err)
	validA, err := enc.Model.Energy("10")
	require.NoError(t, err)
	validB, err := enc.Model.Energy("01")
	require.NoError(t, err)

	assert.Greater(t, bothSet, validA)
	assert.Greater(t, bothSet, validB)
}

func TestEncode_EqualityConstraint(t *testing.T) {
	// a + b = 1 over two binary variables.
	enc, err := testEncoder().Encode(
		[]Variable{
			{Index: 0, Name: "a", Kind: KindBinary},
			{Index: 1, Name: "b", Kind: KindBinary},
		},
		Objective{},
		[]Constraint{{
			Name: "pick_one",
			Terms: []ConstraintTerm{
				{Variable: 0, Value: 1, Coefficient: 1},
				{Variable: 1, Value: 1, Coefficient: 1},
			},
			Op:    OpEqual,
			Bound: 1,
		}},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, enc.NumQubits, "equality constraints add no slack qubits")

	for bits, want := range map[string]float64{"10": 0, "01": 0, "00": 1, "11": 1} {
		energy, err := enc.Model.Energy(bits)
		require.NoError(t, err)
		assert.InDelta(t, want, energy, 1e-12, "bits %s", bits)
	}
}

func TestEncode_InequalitySlackBits(t *testing.T) {
	// a + b <= 1: one slack bit covering [0, 1].
	enc, err := testEncoder().Encode(
		[]Variable{
			{Index: 0, Name: "a", Kind: KindBinary},
			{Index: 1, Name: "b", Kind: KindBinary},
		},
		Objective{},
		[]Constraint{{
			Name: "at_most_one",
			Terms: []ConstraintTerm{
				{Variable: 0, Value: 1, Coefficient: 1},
				{Variable: 1, Value: 1, Coefficient: 1},
			},
			Op:    OpLessEqual,
			Bound: 1,
		}},
	)
	require.NoError(t, err)
	require.Equal(t, 3, enc.NumQubits, "one slack qubit appended")

	// Every satisfying assignment has a slack setting with zero energy;
	// the violating assignment has none.
	zeroable := func(prefix string) float64 {
		best := 1e18
		for _, s := range []string{"0", "1"} {
			e, err := enc.Model.Energy(prefix + s)
			require.NoError(t, err)
			if e < best {
				best = e
			}
		}
		return best
	}
	assert.InDelta(t, 0.0, zeroable("00"), 1e-12)
	assert.InDelta(t, 0.0, zeroable("10"), 1e-12)
	assert.InDelta(t, 0.0, zeroable("01"), 1e-12)
	assert.Greater(t, zeroable("11"), 0.5)
}

func TestSlackBitCoefficients(t *testing.T) {
	assert.Nil(t, slackBitCoefficients(0))
	assert.Equal(t, []int{1}, slackBitCoefficients(1))
	assert.Equal(t, []int{1, 2}, slackBitCoefficients(3))
	assert.Equal(t, []int{1, 2, 2}, slackBitCoefficients(5))

	// Coefficients must cover the slack range exactly.
	for maxSlack := 1; maxSlack <= 12; maxSlack++ {
		coeffs := slackBitCoefficients(maxSlack)
		total := 0
		for _, c := range coeffs {
			total += c
		}
		assert.Equal(t, maxSlack, total, "maxSlack %d", maxSlack)
	}
}

func TestEncode_MalformedInput(t *testing.T) {
	testCases := []struct {
		name        string
		variables   []Variable
		objective   Objective
		constraints []Constraint
	}{
		{
			name: "duplicate variable index",
			variables: []Variable{
				{Index: 0, Name: "a", Kind: KindBinary},
				{Index: 0, Name: "b", Kind: KindBinary},
			},
		},
		{
			name: "non-contiguous indices",
			variables: []Variable{
				{Index: 0, Name: "a", Kind: KindBinary},
				{Index: 2, Name: "b", Kind: KindBinary},
			},
		},
		{
			name:      "no variables",
			variables: nil,
		},
		{
			name:      "categorical without options",
			variables: []Variable{{Index: 0, Name: "c", Kind: KindCategorical}},
		},
		{
			name:      "empty integer range",
			variables: []Variable{{Index: 0, Name: "i", Kind: KindInteger, Lower: 3, Upper: 1}},
		},
		{
			name:      "objective references unknown variable",
			variables: []Variable{{Index: 0, Name: "a", Kind: KindBinary}},
			objective: Objective{Linear: []LinearTerm{{Variable: 5, Value: 1, Coefficient: 1}}},
		},
		{
			name:      "binary referenced with non-unit value",
			variables: []Variable{{Index: 0, Name: "a", Kind: KindBinary}},
			objective: Objective{Linear: []LinearTerm{{Variable: 0, Value: 2, Coefficient: 1}}},
		},
		{
			name:      "infeasible inequality",
			variables: []Variable{{Index: 0, Name: "a", Kind: KindBinary}},
			constraints: []Constraint{{
				Name:  "impossible",
				Terms: []ConstraintTerm{{Variable: 0, Value: 1, Coefficient: 1}},
				Op:    OpLessEqual,
				Bound: -1,
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testEncoder().Encode(tc.variables, tc.objective, tc.constraints)
			require.Error(t, err)

			var encErr *domain.EncodingError
			assert.ErrorAs(t, err, &encErr)
		})
	}
}

func TestEncode_SingleOptionGroupIsPinned(t *testing.T) {
	enc, err := testEncoder().Encode(
		[]Variable{{Index: 0, Name: "mode", Kind: KindCategorical, Options: []string{"only"}}},
		Objective{},
		nil,
	)
	require.NoError(t, err)
	require.Equal(t, 1, enc.NumQubits)

	// The degenerate one-hot group keeps its penalty in linear form: the
	// unset qubit costs lambda, the set qubit costs nothing.
	set, err := enc.Model.Energy("1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, set)

	unset, err := enc.Model.Energy("0")
	require.NoError(t, err)
	assert.Greater(t, unset, 0.0)

	values, err := enc.Decode("1")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.False(t, values[0].Invalid)
	assert.Equal(t, "only", values[0].Option)
}
