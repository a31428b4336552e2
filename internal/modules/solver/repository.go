package solver

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Repository persists solve runs. Summary columns support listing and
// retention queries; the full Result is stored as a msgpack payload.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new runs repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "runs").Logger(),
	}
}

// Insert records a newly started run.
func (r *Repository) Insert(id string, numQubits int) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (id, status, num_qubits, created_at)
		VALUES (?, ?, ?, ?)
	`, id, StatusRunning, numQubits, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", id, err)
	}
	return nil
}

// Complete stores the finished result against its run row.
func (r *Repository) Complete(result *Result) error {
	payload, err := msgpack.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result %s: %w", result.ID, err)
	}

	var bestEnergy interface{}
	if result.BestOverall != nil {
		bestEnergy = result.BestOverall.Energy
	}

	_, err = r.db.Exec(`
		UPDATE runs
		SET status = ?, method = ?, best_energy = ?, payload = ?, completed_at = ?
		WHERE id = ?
	`, StatusCompleted, string(result.Method), bestEnergy, payload, time.Now().Unix(), result.ID)
	if err != nil {
		return fmt.Errorf("failed to complete run %s: %w", result.ID, err)
	}
	return nil
}

// Fail marks a run as failed with its error message.
func (r *Repository) Fail(id string, cause error) error {
	_, err := r.db.Exec(`
		UPDATE runs
		SET status = ?, error = ?, completed_at = ?
		WHERE id = ?
	`, StatusFailed, cause.Error(), time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to mark run %s failed: %w", id, err)
	}
	return nil
}

// Get returns the run summary, or nil when the id is unknown.
func (r *Repository) Get(id string) (*Run, error) {
	row := r.db.QueryRow(`
		SELECT id, status, method, num_qubits, best_energy, error, created_at, completed_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// GetResult loads the stored Result payload, or nil when the run has no
// completed payload.
func (r *Repository) GetResult(id string) (*Result, error) {
	var payload []byte
	err := r.db.QueryRow("SELECT payload FROM runs WHERE id = ?", id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load result %s: %w", id, err)
	}
	if len(payload) == 0 {
		return nil, nil
	}

	var result Result
	if err := msgpack.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result %s: %w", id, err)
	}
	return &result, nil
}

// List returns the most recent runs, newest first.
func (r *Repository) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, status, method, num_qubits, best_energy, error, created_at, completed_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan run row")
			continue
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Delete removes a run and reports whether it existed.
func (r *Repository) Delete(id string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

// DeleteFinishedBefore removes completed and failed runs older than the
// cutoff and returns how many were pruned. Running rows are never touched.
func (r *Repository) DeleteFinishedBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM runs
		WHERE status IN (?, ?) AND created_at < ?
	`, StatusCompleted, StatusFailed, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var bestEnergy sql.NullFloat64
	var createdAt int64
	var completedAt sql.NullInt64

	err := row.Scan(&run.ID, &run.Status, &run.Method, &run.NumQubits,
		&bestEnergy, &run.Error, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if bestEnergy.Valid {
		run.BestEnergy = &bestEnergy.Float64
	}
	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	if completedAt.Valid {
		t := time.Unix(completedAt.Int64, 0).UTC()
		run.CompletedAt = &t
	}
	return &run, nil
}
