package solver

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the runs table if it does not exist.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		method TEXT NOT NULL DEFAULT '',
		num_qubits INTEGER NOT NULL,
		best_energy REAL,
		error TEXT NOT NULL DEFAULT '',
		payload BLOB,
		created_at INTEGER NOT NULL,
		completed_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize runs schema: %w", err)
	}
	return nil
}
