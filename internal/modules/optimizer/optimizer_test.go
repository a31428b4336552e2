package optimizer

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/quantum-solver/internal/backend"
	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/circuit"
	"github.com/aristath/quantum-solver/internal/modules/hamiltonian"
	"github.com/aristath/quantum-solver/internal/modules/qubo"
	"github.com/aristath/quantum-solver/internal/modules/simulator"
	"github.com/aristath/quantum-solver/pkg/formulas"
)

func localBackend() backend.Backend {
	return backend.NewLocal(simulator.New(simulator.Config{Log: zerolog.Nop()}), zerolog.Nop())
}

// singleBitProblem rewards clearing the bit: minimum energy 0 at "0".
func singleBitProblem(t *testing.T) *hamiltonian.Problem {
	t.Helper()
	enc, err := qubo.NewEncoder(zerolog.Nop()).Encode(
		[]qubo.Variable{{Index: 0, Name: "a", Kind: qubo.KindBinary}},
		qubo.Objective{Linear: []qubo.LinearTerm{{Variable: 0, Value: 1, Coefficient: 1}}},
		nil,
	)
	require.NoError(t, err)
	return hamiltonian.BuildProblem(enc.Model)
}

// oneHotProblem encodes "exactly one of three" with no objective term:
// valid assignments have energy 0, the uniform superposition averages 1.
func oneHotProblem(t *testing.T) (*hamiltonian.Problem, *qubo.Encoding) {
	t.Helper()
	enc, err := qubo.NewEncoder(zerolog.Nop()).Encode(
		[]qubo.Variable{{Index: 0, Name: "pick", Kind: qubo.KindCategorical, Options: []string{"x", "y", "z"}}},
		qubo.Objective{},
		nil,
	)
	require.NoError(t, err)
	return hamiltonian.BuildProblem(enc.Model), enc
}

func TestOptimize_ImprovesOverInitialEnergy(t *testing.T) {
	problem := singleBitProblem(t)
	opt := New(localBackend(), zerolog.Nop())

	trace, err := opt.Optimize(problem, hamiltonian.BuildMixer(1), Config{
		Layers:        1,
		Shots:         1024,
		MaxIterations: 150,
		Starts:        3,
		Seed:          11,
	})
	require.NoError(t, err)
	require.NotEmpty(t, trace.History)

	// The uniform superposition sits at energy 0.5; the search must do
	// better than not searching at all.
	assert.Less(t, trace.BestEnergy, 0.4)
	assert.GreaterOrEqual(t, trace.BestEnergy, 0.0)
	assert.Equal(t, len(trace.History), trace.Evaluations)
	assert.Len(t, trace.BestParams.Gamma, 1)
	assert.Len(t, trace.BestParams.Beta, 1)
}

func TestOptimize_BestSeenEnergyIsNonIncreasing(t *testing.T) {
	problem := singleBitProblem(t)
	opt := New(localBackend(), zerolog.Nop())

	trace, err := opt.Optimize(problem, hamiltonian.BuildMixer(1), Config{
		Layers:        1,
		Shots:         512,
		MaxIterations: 80,
		Starts:        1,
		Seed:          5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, trace.History)

	energies := make([]float64, len(trace.History))
	for i, ev := range trace.History {
		energies[i] = ev.Energy
	}
	bestSeen := formulas.RunningMin(energies)
	for i := 1; i < len(bestSeen); i++ {
		assert.LessOrEqual(t, bestSeen[i], bestSeen[i-1])
	}
	assert.InDelta(t, bestSeen[len(bestSeen)-1], trace.BestEnergy, 1e-9,
		"reported best must match the best evaluation seen")
}

func TestOptimize_Deterministic(t *testing.T) {
	problem := singleBitProblem(t)
	opt := New(localBackend(), zerolog.Nop())
	cfg := Config{Layers: 1, Shots: 256, MaxIterations: 60, Starts: 2, Seed: 99}

	a, err := opt.Optimize(problem, hamiltonian.BuildMixer(1), cfg)
	require.NoError(t, err)
	b, err := opt.Optimize(problem, hamiltonian.BuildMixer(1), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.BestEnergy, b.BestEnergy)
	assert.Equal(t, a.Evaluations, b.Evaluations)
	assert.Equal(t, a.BestParams, b.BestParams)
}

func TestOptimize_OneHotConstraintLandscape(t *testing.T) {
	problem, _ := oneHotProblem(t)
	opt := New(localBackend(), zerolog.Nop())

	trace, err := opt.Optimize(problem, hamiltonian.BuildMixer(3), Config{
		Layers:        1,
		Shots:         2048,
		MaxIterations: 150,
		Starts:        3,
		Seed:          17,
	})
	require.NoError(t, err)

	// Valid one-hot states have energy 0; the uniform average is 1.
	assert.GreaterOrEqual(t, trace.BestEnergy, 0.0)
	assert.Less(t, trace.BestEnergy, 0.9)
}

func TestOptimize_IterationBudgetDistinguishedFromConvergence(t *testing.T) {
	problem := singleBitProblem(t)
	opt := New(localBackend(), zerolog.Nop())

	trace, err := opt.Optimize(problem, hamiltonian.BuildMixer(1), Config{
		Layers:        1,
		Shots:         128,
		MaxIterations: 1,
		Starts:        1,
		Seed:          3,
	})
	require.NoError(t, err)
	assert.False(t, trace.Converged, "a one-iteration budget cannot converge")
}

func TestMeanEnergy_WeightsByFrequency(t *testing.T) {
	problem := singleBitProblem(t)

	// "0" has energy 0, "1" has energy 1.
	energy, err := meanEnergy(problem, map[string]int{"0": 750, "1": 250})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, energy, 1e-12)
}

func TestMeanEnergy_ConvergesToExactExpectation(t *testing.T) {
	problem, _ := oneHotProblem(t)
	engine := simulator.New(simulator.Config{Log: zerolog.Nop()})

	params := circuit.Parameters{Gamma: []float64{0.4}, Beta: []float64{0.3}}
	c, err := circuit.Build(problem, hamiltonian.BuildMixer(3), params)
	require.NoError(t, err)

	state, err := engine.Run(c)
	require.NoError(t, err)
	exact := problem.Expectation(simulator.Probabilities(state))

	seed := int64(2024)
	result, err := engine.Execute(c, 200000, &seed)
	require.NoError(t, err)
	sampled, err := meanEnergy(problem, result.Counts)
	require.NoError(t, err)

	assert.InDelta(t, exact, sampled, 0.02,
		"sample mean must approach the state-vector expectation as shots grow")
}

type failingBackend struct{}

func (f *failingBackend) Name() string { return "failing" }

func (f *failingBackend) Capabilities() domain.Capabilities {
	return domain.Capabilities{MaxQubits: 4, GateSet: circuit.KnownGates(), Simulator: true}
}

func (f *failingBackend) Execute(c *circuit.Circuit, shots int, seed *int64) (*simulator.ExecutionResult, error) {
	return nil, &domain.BackendExecutionError{Backend: "failing", Err: errors.New("connection reset")}
}

func TestOptimize_BackendFailureSurfacesVerbatim(t *testing.T) {
	problem := singleBitProblem(t)
	opt := New(&failingBackend{}, zerolog.Nop())

	trace, err := opt.Optimize(problem, hamiltonian.BuildMixer(1), Config{
		Layers: 1,
		Shots:  64,
		Starts: 2,
		Seed:   1,
	})
	require.Error(t, err)
	assert.Nil(t, trace, "no synthetic result may stand in for a failed run")

	var backendErr *domain.BackendExecutionError
	assert.ErrorAs(t, err, &backendErr)
}
