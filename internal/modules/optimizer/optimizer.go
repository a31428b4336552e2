// Package optimizer searches the QAOA parameter space with derivative-free
// Nelder-Mead simplex descent over a sampled, noisy energy objective.
package optimizer

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/optimize"

	"github.com/aristath/quantum-solver/internal/backend"
	"github.com/aristath/quantum-solver/internal/modules/circuit"
	"github.com/aristath/quantum-solver/internal/modules/hamiltonian"
	"github.com/aristath/quantum-solver/pkg/formulas"
)

// Optimizer minimizes the sampled expected QUBO cost over the (gamma, beta)
// space, calling the backend for every objective evaluation.
type Optimizer struct {
	backend backend.Backend
	log     zerolog.Logger
}

// New creates an optimizer bound to an execution backend.
func New(b backend.Backend, log zerolog.Logger) *Optimizer {
	return &Optimizer{
		backend: b,
		log:     log.With().Str("component", "optimizer").Logger(),
	}
}

// Optimize runs a multi-start Nelder-Mead search and returns the best
// trace. Starts run in parallel goroutines, each with its own derived seed
// and generator; results merge only after every start completes. A backend
// failure in any evaluation aborts the call and surfaces the underlying
// error: no synthetic energy ever stands in for a failed execution.
func (o *Optimizer) Optimize(problem *hamiltonian.Problem, mixer hamiltonian.Mixer, cfg Config) (*Trace, error) {
	cfg = cfg.withDefaults()
	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	o.log.Info().
		Int("layers", cfg.Layers).
		Int("starts", cfg.Starts).
		Int("shots", cfg.Shots).
		Int("max_iterations", cfg.MaxIterations).
		Msg("Starting parameter search")

	runs := make([]*searchRun, cfg.Starts)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Starts; i++ {
		runs[i] = &searchRun{
			optimizer: o,
			problem:   problem,
			mixer:     mixer,
			cfg:       cfg,
			seed:      baseSeed + int64(i)*1_000_003,
			index:     i,
		}
		wg.Add(1)
		go func(r *searchRun) {
			defer wg.Done()
			r.search()
		}(runs[i])
	}
	wg.Wait()

	// Surface the first failure deterministically by start index.
	for _, r := range runs {
		if r.err != nil {
			return nil, r.err
		}
	}

	trace := &Trace{BestEnergy: math.Inf(1)}
	for _, r := range runs {
		trace.Evaluations += len(r.history)
		trace.History = append(trace.History, r.history...)
		if r.bestEnergy < trace.BestEnergy {
			trace.BestEnergy = r.bestEnergy
			trace.BestParams = r.bestParams
			trace.Converged = r.converged
		}
	}

	o.log.Info().
		Float64("best_energy", trace.BestEnergy).
		Bool("converged", trace.Converged).
		Int("evaluations", trace.Evaluations).
		Msg("Parameter search finished")

	return trace, nil
}

// searchRun is one independent Nelder-Mead descent with its own seed chain.
type searchRun struct {
	optimizer *Optimizer
	problem   *hamiltonian.Problem
	mixer     hamiltonian.Mixer
	cfg       Config
	seed      int64
	index     int

	history    []Evaluation
	err        error
	bestEnergy float64
	bestParams circuit.Parameters
	converged  bool
}

func (r *searchRun) search() {
	x0 := r.initialPoint()

	settings := &optimize.Settings{
		MajorIterations: r.cfg.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   r.cfg.Tolerance,
			Iterations: 20,
		},
	}

	result, err := optimize.Minimize(optimize.Problem{Func: r.objective}, x0, settings, &optimize.NelderMead{})
	if r.err != nil {
		// A backend failure during an evaluation takes precedence over
		// whatever the solver made of the +Inf values it saw afterwards.
		return
	}
	if err != nil {
		r.err = fmt.Errorf("nelder-mead run %d failed: %w", r.index, err)
		return
	}

	params, perr := circuit.ParametersFromVector(result.X)
	if perr != nil {
		r.err = perr
		return
	}

	r.bestEnergy = result.F
	r.bestParams = params
	r.converged = result.Status == optimize.FunctionConvergence || result.Status == optimize.Success
}

// objective builds the ansatz for a candidate vector, executes it, and
// returns the frequency-weighted mean classical cost of the histogram.
func (r *searchRun) objective(x []float64) float64 {
	if r.err != nil {
		// Short-circuit every evaluation after the first failure.
		return math.Inf(1)
	}

	params, err := circuit.ParametersFromVector(x)
	if err != nil {
		r.err = err
		return math.Inf(1)
	}
	c, err := circuit.Build(r.problem, r.mixer, params)
	if err != nil {
		r.err = err
		return math.Inf(1)
	}

	evalSeed := r.seed + int64(len(r.history)) + 1
	result, err := r.optimizer.backend.Execute(c, r.cfg.Shots, &evalSeed)
	if err != nil {
		r.err = err
		return math.Inf(1)
	}

	energy, err := meanEnergy(r.problem, result.Counts)
	if err != nil {
		r.err = err
		return math.Inf(1)
	}

	r.history = append(r.history, Evaluation{Params: append([]float64(nil), x...), Energy: energy})
	return energy
}

// initialPoint picks the start vector: the canonical linear-ramp schedule
// first, a flat two-local pattern second, uniform random after that.
func (r *searchRun) initialPoint() []float64 {
	p := r.cfg.Layers
	params := circuit.Parameters{
		Gamma: make([]float64, p),
		Beta:  make([]float64, p),
	}

	switch r.index {
	case 0:
		// Linear ramp: gamma grows, beta shrinks across layers.
		for k := 0; k < p; k++ {
			t := float64(k+1) / float64(p)
			params.Gamma[k] = 0.5 * t
			params.Beta[k] = 0.5 * (1 - t)
		}
	case 1:
		for k := 0; k < p; k++ {
			params.Gamma[k] = 0.25
			params.Beta[k] = 0.25
		}
	default:
		rng := rand.New(rand.NewSource(r.seed))
		for k := 0; k < p; k++ {
			params.Gamma[k] = rng.Float64() * math.Pi
			params.Beta[k] = rng.Float64() * math.Pi / 2
		}
	}
	return params.Vector()
}

// meanEnergy computes the sample-mean classical QUBO cost of a measurement
// histogram: each distinct bitstring's cost weighted by observed frequency.
// Bitstrings are visited in sorted order so the floating-point sum is
// reproducible for a fixed histogram.
func meanEnergy(problem *hamiltonian.Problem, counts map[string]int) (float64, error) {
	bitstrings := make([]string, 0, len(counts))
	for bits := range counts {
		bitstrings = append(bitstrings, bits)
	}
	sort.Strings(bitstrings)

	energies := make([]float64, len(bitstrings))
	weights := make([]float64, len(bitstrings))
	for i, bits := range bitstrings {
		energy, err := problem.BitstringEnergy(bits)
		if err != nil {
			return 0, err
		}
		energies[i] = energy
		weights[i] = float64(counts[bits])
	}
	return formulas.WeightedMean(energies, weights), nil
}
