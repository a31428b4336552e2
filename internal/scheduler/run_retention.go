package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/quantum-solver/internal/database"
	"github.com/aristath/quantum-solver/internal/modules/solver"
)

// RunRetentionJob prunes finished solve runs past the retention window.
// Running rows are never pruned, whatever their age.
type RunRetentionJob struct {
	repo          *solver.Repository
	db            *database.DB // nil skips post-prune maintenance
	retentionDays int
	log           zerolog.Logger
}

// NewRunRetentionJob creates the retention job. db is vacuumed after a pass
// that pruned rows, reclaiming the space of dropped result payloads.
func NewRunRetentionJob(repo *solver.Repository, db *database.DB, retentionDays int, log zerolog.Logger) *RunRetentionJob {
	return &RunRetentionJob{
		repo:          repo,
		db:            db,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "run_retention").Logger(),
	}
}

// Name returns the job name for the scheduler.
func (j *RunRetentionJob) Name() string {
	return "run_retention"
}

// Run executes one retention pass.
func (j *RunRetentionJob) Run() error {
	if j.retentionDays <= 0 {
		j.log.Debug().Msg("Retention disabled")
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
	pruned, err := j.repo.DeleteFinishedBefore(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune runs: %w", err)
	}

	if pruned > 0 {
		j.log.Info().
			Int64("pruned", pruned).
			Time("cutoff", cutoff).
			Msg("Pruned old solve runs")

		if j.db != nil {
			if err := j.db.Vacuum(); err != nil {
				j.log.Warn().Err(err).Msg("Vacuum after pruning failed")
			}
		}
	}
	return nil
}
