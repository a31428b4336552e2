// Package simulator executes gate-list circuits against a classical complex
// amplitude vector of length 2^n and samples measurement outcomes. Gate
// application walks the amplitude pairs that differ only in the target qubit
// bits and updates them in place with the gate's small unitary; the full
// 2^n x 2^n operator is never materialized, so each gate costs O(2^n).
package simulator

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/circuit"
)

// DefaultMaxQubits is the hard capacity ceiling: 2^16 amplitudes (1 MiB of
// complex128) per execution. Requests above the configured limit fail fast
// with a CapacityError instead of an uncontrolled allocation.
const DefaultMaxQubits = 16

// Config holds simulator configuration.
type Config struct {
	MaxQubits int
	Log       zerolog.Logger
}

// Engine is the state-vector simulator. Stateless between calls: every
// execution allocates a fresh state vector, so one engine may be shared by
// concurrent callers as long as each call owns its own seed.
type Engine struct {
	maxQubits int
	log       zerolog.Logger
}

// New creates a simulator engine.
func New(cfg Config) *Engine {
	maxQubits := cfg.MaxQubits
	if maxQubits <= 0 {
		maxQubits = DefaultMaxQubits
	}
	return &Engine{
		maxQubits: maxQubits,
		log:       cfg.Log.With().Str("component", "simulator").Logger(),
	}
}

// MaxQubits returns the configured capacity ceiling.
func (e *Engine) MaxQubits() int { return e.maxQubits }

// ExecutionResult is the measurement histogram of one execution. The counts
// always sum to the requested shot count.
type ExecutionResult struct {
	Counts    map[string]int `json:"counts" msgpack:"counts"`
	Shots     int            `json:"shots" msgpack:"shots"`
	NumQubits int            `json:"num_qubits" msgpack:"num_qubits"`
	Duration  time.Duration  `json:"duration" msgpack:"duration"`
}

// Execute runs the circuit and samples shots measurement outcomes. The
// input circuit is never mutated. A non-nil seed makes the run reproducible
// bit for bit.
func (e *Engine) Execute(c *circuit.Circuit, shots int, seed *int64) (*ExecutionResult, error) {
	start := time.Now()
	if shots <= 0 {
		return nil, domain.NewInvalidArgument("shots", "must be positive, got %d", shots)
	}

	state, err := e.Run(c)
	if err != nil {
		return nil, err
	}

	seedValue := time.Now().UnixNano()
	if seed != nil {
		seedValue = *seed
	}
	rng := rand.New(rand.NewSource(seedValue))

	counts := sampleCounts(Probabilities(state), shots, rng, c.NumQubits)

	result := &ExecutionResult{
		Counts:    counts,
		Shots:     shots,
		NumQubits: c.NumQubits,
		Duration:  time.Since(start),
	}

	e.log.Debug().
		Int("qubits", c.NumQubits).
		Int("gates", len(c.Gates)).
		Int("shots", shots).
		Dur("duration", result.Duration).
		Msg("Executed circuit")

	return result, nil
}

// Run executes the circuit and returns the final state vector. Used for
// exact expectation values and diagnostics; Execute builds on it.
func (e *Engine) Run(c *circuit.Circuit) ([]complex128, error) {
	if c == nil || c.NumQubits <= 0 {
		return nil, domain.NewInvalidArgument("circuit", "missing or empty qubit register")
	}
	if c.NumQubits > e.maxQubits {
		return nil, &domain.CapacityError{Requested: c.NumQubits, Limit: e.maxQubits}
	}

	state := make([]complex128, 1<<c.NumQubits)
	state[0] = 1

	for _, g := range c.Gates {
		if err := applyGate(state, c.NumQubits, g); err != nil {
			return nil, err
		}
	}

	if norm := floats.Sum(Probabilities(state)); norm < 1-1e-9 || norm > 1+1e-9 {
		// Every supported gate is unitary, so drift here means a kernel bug.
		e.log.Warn().Float64("norm", norm).Msg("State vector norm drifted")
	}

	return state, nil
}

// Probabilities returns the Born-rule probability of each basis state:
// the squared amplitude magnitude, indexed by basis integer.
func Probabilities(state []complex128) []float64 {
	probs := make([]float64, len(state))
	for i, amp := range state {
		re, im := real(amp), imag(amp)
		probs[i] = re*re + im*im
	}
	return probs
}
