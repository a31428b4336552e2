// Package solver orchestrates the full pipeline: QUBO encoding, Hamiltonian
// construction, QAOA parameter search, final sampling, and decoding, with
// every run persisted for later retrieval.
package solver

import (
	"time"

	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/optimizer"
	"github.com/aristath/quantum-solver/internal/modules/qubo"
)

const (
	// DefaultSampleShots is the final sampling budget, deliberately larger
	// than the search-time shot count: the returned histogram is the
	// user-facing answer and deserves the extra resolution.
	DefaultSampleShots = 2048

	// DefaultTopK bounds the number of ranked solutions in a result.
	DefaultTopK = 10

	// DefaultClassicalLimit caps the exhaustive fallback: past the
	// simulator ceiling, problems up to this many qubits are enumerated
	// classically instead of rejected outright.
	DefaultClassicalLimit = 22
)

// Config controls one solve call. Zero values take defaults.
type Config struct {
	Layers        int     `json:"layers"`
	Shots         int     `json:"shots"`
	SampleShots   int     `json:"sample_shots"`
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
	Starts        int     `json:"starts"`
	Seed          int64   `json:"seed"`
	TopK          int     `json:"top_k"`
}

// withDefaults resolves a request config against the service-level defaults
// (typically sourced from the environment), falling through to the package
// constants for anything still unset. Request values always win.
func (c Config) withDefaults(d Config) Config {
	c.Layers = firstPositive(c.Layers, d.Layers, 1)
	c.Shots = firstPositive(c.Shots, d.Shots, optimizer.DefaultShots)
	c.SampleShots = firstPositive(c.SampleShots, d.SampleShots, DefaultSampleShots)
	c.MaxIterations = firstPositive(c.MaxIterations, d.MaxIterations, optimizer.DefaultMaxIterations)
	c.Starts = firstPositive(c.Starts, d.Starts, optimizer.DefaultStarts)
	c.TopK = firstPositive(c.TopK, d.TopK, DefaultTopK)
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.Tolerance <= 0 {
		c.Tolerance = optimizer.DefaultTolerance
	}
	return c
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// Request is a full problem statement: variables, objective, constraints,
// and the solve configuration.
type Request struct {
	Variables   []qubo.Variable   `json:"variables"`
	Objective   qubo.Objective    `json:"objective"`
	Constraints []qubo.Constraint `json:"constraints,omitempty"`
	Config      Config            `json:"config"`
}

// Solution is one candidate assignment. Count is the observed sampling
// frequency and is zero for classically enumerated solutions; ranking is
// always by Energy, never by Count.
type Solution struct {
	Bitstring string             `json:"bitstring" msgpack:"bitstring"`
	Energy    float64            `json:"energy" msgpack:"energy"`
	Count     int                `json:"count" msgpack:"count"`
	Valid     bool               `json:"valid" msgpack:"valid"`
	Values    []qubo.DecodedValue `json:"values" msgpack:"values"`
}

// Result is the outcome of one solve run. Method states what actually
// executed; a classical fallback is never presented as a simulator result.
type Result struct {
	ID          string           `json:"id" msgpack:"id"`
	Method      domain.Method    `json:"method" msgpack:"method"`
	Backend     string           `json:"backend,omitempty" msgpack:"backend"`
	NumQubits   int              `json:"num_qubits" msgpack:"num_qubits"`
	Solutions   []Solution       `json:"solutions" msgpack:"solutions"`
	BestValid   *Solution        `json:"best_valid,omitempty" msgpack:"best_valid"`
	BestOverall *Solution        `json:"best_overall" msgpack:"best_overall"`
	Trace       *optimizer.Trace `json:"trace,omitempty" msgpack:"trace"`
	DurationMS  int64            `json:"duration_ms" msgpack:"duration_ms"`
	CreatedAt   time.Time        `json:"created_at" msgpack:"created_at"`
}

// RunStatus is the lifecycle state of a persisted run.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Run is the persisted summary row of a solve call. The full Result lives
// in the msgpack payload column and is loaded on demand.
type Run struct {
	ID          string     `json:"id"`
	Status      RunStatus  `json:"status"`
	Method      string     `json:"method,omitempty"`
	NumQubits   int        `json:"num_qubits"`
	BestEnergy  *float64   `json:"best_energy,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
