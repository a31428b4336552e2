package solver

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/quantum-solver/internal/backend"
	"github.com/aristath/quantum-solver/internal/domain"
	"github.com/aristath/quantum-solver/internal/modules/circuit"
	"github.com/aristath/quantum-solver/internal/modules/hamiltonian"
	"github.com/aristath/quantum-solver/internal/modules/optimizer"
	"github.com/aristath/quantum-solver/internal/modules/qubo"
	"github.com/aristath/quantum-solver/internal/modules/simulator"
)

// Service runs the full solve pipeline against an execution backend.
type Service struct {
	encoder        *qubo.Encoder
	backend        backend.Backend
	optimizer      *optimizer.Optimizer
	repo           *Repository // nil disables persistence
	defaults       Config
	classicalLimit int
	log            zerolog.Logger
}

// NewService creates the solver service. defaults fills request fields left
// zero, typically from the environment configuration. repo may be nil, in
// which case runs are not persisted.
func NewService(enc *qubo.Encoder, b backend.Backend, opt *optimizer.Optimizer, repo *Repository, defaults Config, log zerolog.Logger) *Service {
	return &Service{
		encoder:        enc,
		backend:        b,
		optimizer:      opt,
		repo:           repo,
		defaults:       defaults,
		classicalLimit: DefaultClassicalLimit,
		log:            log.With().Str("component", "solver").Logger(),
	}
}

// Solve encodes the problem, picks the execution method, searches, samples,
// and decodes. The returned Result states which method actually ran; a
// problem past the simulator ceiling is enumerated classically and labeled
// as such, never passed off as a simulator run.
func (s *Service) Solve(req Request) (*Result, error) {
	started := time.Now()
	cfg := req.Config.withDefaults(s.defaults)

	enc, err := s.encoder.Encode(req.Variables, req.Objective, req.Constraints)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if s.repo != nil {
		if err := s.repo.Insert(id, enc.NumQubits); err != nil {
			s.log.Warn().Err(err).Str("run_id", id).Msg("Failed to persist run start")
		}
	}

	result, err := s.execute(id, enc, cfg)
	if err != nil {
		s.recordFailure(id, err)
		return nil, err
	}

	result.DurationMS = time.Since(started).Milliseconds()
	result.CreatedAt = started.UTC()

	if s.repo != nil {
		if err := s.repo.Complete(result); err != nil {
			s.log.Warn().Err(err).Str("run_id", id).Msg("Failed to persist run result")
		}
	}

	s.log.Info().
		Str("run_id", id).
		Str("method", string(result.Method)).
		Int("num_qubits", result.NumQubits).
		Float64("best_energy", result.BestOverall.Energy).
		Int64("duration_ms", result.DurationMS).
		Msg("Solve completed")

	return result, nil
}

func (s *Service) execute(id string, enc *qubo.Encoding, cfg Config) (*Result, error) {
	caps := s.backend.Capabilities()

	switch {
	case enc.NumQubits <= caps.MaxQubits:
		return s.solveQuantum(id, enc, cfg)
	case enc.NumQubits <= s.classicalLimit:
		s.log.Warn().
			Int("num_qubits", enc.NumQubits).
			Int("backend_limit", caps.MaxQubits).
			Msg("Problem exceeds backend capacity, falling back to exhaustive search")
		return s.solveClassical(id, enc, cfg)
	default:
		return nil, &domain.CapacityError{Requested: enc.NumQubits, Limit: s.classicalLimit}
	}
}

// solveQuantum runs the QAOA search, re-samples at the final parameters,
// and ranks the sampled assignments by classical cost.
func (s *Service) solveQuantum(id string, enc *qubo.Encoding, cfg Config) (*Result, error) {
	problem := hamiltonian.BuildProblem(enc.Model)
	mixer := hamiltonian.BuildMixer(enc.NumQubits)

	trace, err := s.optimizer.Optimize(problem, mixer, optimizer.Config{
		Layers:        cfg.Layers,
		Shots:         cfg.Shots,
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
		Starts:        cfg.Starts,
		Seed:          cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	final, err := circuit.Build(problem, mixer, trace.BestParams)
	if err != nil {
		return nil, err
	}

	var sampleSeed *int64
	if cfg.Seed != 0 {
		seed := cfg.Seed*31 + 17
		sampleSeed = &seed
	}
	execution, err := s.backend.Execute(final, cfg.SampleShots, sampleSeed)
	if err != nil {
		return nil, err
	}

	solutions, err := s.rankCounts(enc, execution.Counts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:        id,
		Method:    domain.MethodQuantumSimulator,
		Backend:   s.backend.Name(),
		NumQubits: enc.NumQubits,
		Trace:     trace,
	}
	s.attachSolutions(result, solutions, cfg.TopK)
	return result, nil
}

// solveClassical enumerates every assignment. Counts stay zero: nothing
// was sampled.
func (s *Service) solveClassical(id string, enc *qubo.Encoding, cfg Config) (*Result, error) {
	total := 1 << enc.NumQubits
	solutions := make([]Solution, 0, total)
	for z := 0; z < total; z++ {
		bits := simulator.FormatBasisState(z, enc.NumQubits)
		energy, err := enc.Model.Energy(bits)
		if err != nil {
			return nil, err
		}
		values, err := enc.Decode(bits)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, Solution{
			Bitstring: bits,
			Energy:    energy,
			Valid:     qubo.AllValid(values),
			Values:    values,
		})
	}

	sortSolutions(solutions)

	result := &Result{
		ID:        id,
		Method:    domain.MethodClassicalFallback,
		NumQubits: enc.NumQubits,
	}
	s.attachSolutions(result, solutions, cfg.TopK)
	return result, nil
}

// rankCounts decodes every distinct sampled bitstring and orders the
// candidates by energy. Frequency only breaks ties.
func (s *Service) rankCounts(enc *qubo.Encoding, counts map[string]int) ([]Solution, error) {
	solutions := make([]Solution, 0, len(counts))
	for bits, count := range counts {
		energy, err := enc.Model.Energy(bits)
		if err != nil {
			return nil, err
		}
		values, err := enc.Decode(bits)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, Solution{
			Bitstring: bits,
			Energy:    energy,
			Count:     count,
			Valid:     qubo.AllValid(values),
			Values:    values,
		})
	}
	sortSolutions(solutions)
	return solutions, nil
}

func sortSolutions(solutions []Solution) {
	sort.Slice(solutions, func(a, b int) bool {
		if solutions[a].Energy != solutions[b].Energy {
			return solutions[a].Energy < solutions[b].Energy
		}
		if solutions[a].Count != solutions[b].Count {
			return solutions[a].Count > solutions[b].Count
		}
		return solutions[a].Bitstring < solutions[b].Bitstring
	})
}

// attachSolutions fills the best pointers from the full ranking, then
// truncates the stored list to the configured size.
func (s *Service) attachSolutions(result *Result, solutions []Solution, topK int) {
	if len(solutions) == 0 {
		return
	}

	best := solutions[0]
	result.BestOverall = &best

	for _, sol := range solutions {
		if sol.Valid {
			copied := sol
			result.BestValid = &copied
			break
		}
	}

	if len(solutions) > topK {
		solutions = solutions[:topK]
	}
	result.Solutions = solutions
}

func (s *Service) recordFailure(id string, cause error) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Fail(id, cause); err != nil {
		s.log.Warn().Err(err).Str("run_id", id).Msg("Failed to persist run failure")
	}
}
