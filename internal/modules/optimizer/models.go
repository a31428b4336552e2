package optimizer

import (
	"github.com/aristath/quantum-solver/internal/modules/circuit"
)

// Default search budget. Shots are kept moderate during the search: the
// objective only needs enough resolution to rank simplex vertices.
const (
	DefaultShots         = 512
	DefaultMaxIterations = 200
	DefaultTolerance     = 1e-3
	DefaultStarts        = 3
)

// Config controls one optimization call.
type Config struct {
	Layers        int     `json:"layers"`
	Shots         int     `json:"shots"`
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
	Starts        int     `json:"starts"`
	Seed          int64   `json:"seed"` // 0 draws a time-based seed
}

func (c Config) withDefaults() Config {
	if c.Layers <= 0 {
		c.Layers = 1
	}
	if c.Shots <= 0 {
		c.Shots = DefaultShots
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.Starts <= 0 {
		c.Starts = DefaultStarts
	}
	return c
}

// Evaluation is one objective measurement: a candidate parameter vector in
// interleaved (gamma, beta) layout and its sampled mean energy.
type Evaluation struct {
	Params []float64 `json:"params" msgpack:"params"`
	Energy float64   `json:"energy" msgpack:"energy"`
}

// Trace is the outcome of one optimization call: the best parameters found,
// their energy, whether the search converged before exhausting its
// iteration budget, the total evaluation count, and the evaluation history
// across all starts.
type Trace struct {
	BestParams  circuit.Parameters `json:"best_params" msgpack:"best_params"`
	BestEnergy  float64            `json:"best_energy" msgpack:"best_energy"`
	Converged   bool               `json:"converged" msgpack:"converged"`
	Evaluations int                `json:"evaluations" msgpack:"evaluations"`
	History     []Evaluation       `json:"history" msgpack:"history"`
}
