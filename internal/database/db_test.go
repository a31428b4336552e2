package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, profile DatabaseProfile) *DB {
	t.Helper()
	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), "runs.db"),
		Profile: profile,
		Name:    "runs",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_CreatesDirectoryAndConnects(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "deeper")
	db, err := New(Config{Path: filepath.Join(dir, "runs.db"), Name: "runs"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, ProfileStandard, db.Profile(), "profile defaults to standard")
	assert.Equal(t, "runs", db.Name())
	assert.True(t, filepath.IsAbs(db.Path()))
}

func TestBuildConnectionString_Profiles(t *testing.T) {
	standard := buildConnectionString("/tmp/x.db", ProfileStandard)
	assert.Contains(t, standard, "journal_mode(WAL)")
	assert.Contains(t, standard, "synchronous(NORMAL)")
	assert.Contains(t, standard, "foreign_keys(1)")

	durable := buildConnectionString("/tmp/x.db", ProfileDurable)
	assert.Contains(t, durable, "synchronous(FULL)")

	cache := buildConnectionString("/tmp/x.db", ProfileCache)
	assert.Contains(t, cache, "synchronous(OFF)")
	assert.Contains(t, cache, "auto_vacuum(FULL)")
	assert.False(t, strings.Contains(cache, "synchronous(NORMAL)"))
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t, ProfileStandard)

	require.NoError(t, db.QuickCheck(context.Background()))
	require.NoError(t, db.HealthCheck(context.Background()))
}

func TestExecAndQuery(t *testing.T) {
	db := openTestDB(t, ProfileDurable)

	_, err := db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO t (v) VALUES (?)", "hello")
	require.NoError(t, err)

	var v string
	require.NoError(t, db.QueryRow("SELECT v FROM t WHERE id = 1").Scan(&v))
	assert.Equal(t, "hello", v)
}

func TestWALCheckpointAndStats(t *testing.T) {
	db := openTestDB(t, ProfileStandard)

	_, err := db.Exec("CREATE TABLE t (id INTEGER)")
	require.NoError(t, err)

	require.NoError(t, db.WALCheckpoint(""))

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
}
