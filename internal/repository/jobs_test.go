package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobsJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	jobs, err := NewJobsRepository(path, slog.Default())
	require.NoError(t, err)
	defer jobs.Close()

	ctx := context.Background()

	okID, err := jobs.Start(ctx, "/m/a.pdf", "a.pdf")
	require.NoError(t, err)
	require.NoError(t, jobs.FinishSuccess(ctx, okID, "test-craft-30", 1))

	failID, err := jobs.Start(ctx, "/m/b.pdf", "b.pdf")
	require.NoError(t, err)
	require.NoError(t, jobs.FinishFailure(ctx, failID, "extracted text below minimum yield"))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var status, yachtID string
	var warnings int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT status, yacht_id, warnings FROM ingest_jobs WHERE id = ?`, okID).
		Scan(&status, &yachtID, &warnings))
	assert.Equal(t, "success", status)
	assert.Equal(t, "test-craft-30", yachtID)
	assert.Equal(t, 1, warnings)

	var cause string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT status, error FROM ingest_jobs WHERE id = ?`, failID).
		Scan(&status, &cause))
	assert.Equal(t, "failed", status)
	assert.Contains(t, cause, "minimum yield")
}
