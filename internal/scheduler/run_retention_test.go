package scheduler

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/quantum-solver/internal/database"
	"github.com/aristath/quantum-solver/internal/modules/solver"

	_ "modernc.org/sqlite"
)

func retentionRepo(t *testing.T) (*solver.Repository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, solver.InitSchema(db))
	return solver.NewRepository(db, zerolog.Nop()), db
}

func TestRunRetentionJob_Name(t *testing.T) {
	repo, _ := retentionRepo(t)
	job := NewRunRetentionJob(repo, nil, 30, zerolog.Nop())
	assert.Equal(t, "run_retention", job.Name())
}

func TestRunRetentionJob_DisabledWithoutWindow(t *testing.T) {
	repo, db := retentionRepo(t)
	require.NoError(t, repo.Insert("run-1", 2))
	require.NoError(t, repo.Fail("run-1", assert.AnError))

	job := NewRunRetentionJob(repo, nil, 0, zerolog.Nop())
	require.NoError(t, job.Run())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count))
	assert.Equal(t, 1, count, "retention disabled, nothing pruned")
}

func TestRunRetentionJob_PrunesOnlyFinishedRuns(t *testing.T) {
	repo, db := retentionRepo(t)
	require.NoError(t, repo.Insert("failed-run", 2))
	require.NoError(t, repo.Fail("failed-run", assert.AnError))
	require.NoError(t, repo.Insert("running-run", 2))

	// Backdate both rows past a 7-day window.
	_, err := db.Exec("UPDATE runs SET created_at = created_at - 30*86400")
	require.NoError(t, err)

	job := NewRunRetentionJob(repo, nil, 7, zerolog.Nop())
	require.NoError(t, job.Run())

	run, err := repo.Get("failed-run")
	require.NoError(t, err)
	assert.Nil(t, run)

	run, err = repo.Get("running-run")
	require.NoError(t, err)
	assert.NotNil(t, run)
}

func TestRunRetentionJob_VacuumsAfterPruning(t *testing.T) {
	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "runs.db"),
		Profile: database.ProfileStandard,
		Name:    "runs",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, solver.InitSchema(db.Conn()))
	repo := solver.NewRepository(db.Conn(), zerolog.Nop())

	require.NoError(t, repo.Insert("old-run", 2))
	require.NoError(t, repo.Fail("old-run", assert.AnError))
	_, err = db.Exec("UPDATE runs SET created_at = created_at - 30*86400")
	require.NoError(t, err)

	// A file-backed database goes through the full pass: prune, then
	// vacuum to reclaim the dropped payload space.
	job := NewRunRetentionJob(repo, db, 7, zerolog.Nop())
	require.NoError(t, job.Run())

	run, err := repo.Get("old-run")
	require.NoError(t, err)
	assert.Nil(t, run)
}
