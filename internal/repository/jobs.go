package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// JobsRepository journals ingestion runs so batch reprocessing can tell
// which files already succeeded and why others failed.
type JobsRepository interface {
	Start(ctx context.Context, filePath, fileName string) (int64, error)
	FinishSuccess(ctx context.Context, jobID int64, yachtID string, warnings int) error
	FinishFailure(ctx context.Context, jobID int64, cause string) error
	Close() error
}

type jobsRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

const jobsSchema = `
CREATE TABLE IF NOT EXISTS ingest_jobs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path   TEXT NOT NULL,
	file_name   TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	yacht_id    TEXT,
	warnings    INTEGER NOT NULL DEFAULT 0,
	error       TEXT,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_ingest_jobs_file_path ON ingest_jobs(file_path);
`

func NewJobsRepository(path string, logger *slog.Logger) (JobsRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if _, err := db.Exec(jobsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &jobsRepo{db: db, logger: logger}, nil
}

func (r *jobsRepo) Start(ctx context.Context, filePath, fileName string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ingest_jobs (file_path, file_name, status, started_at) VALUES (?, ?, 'running', ?)`,
		filePath, fileName, time.Now())
	if err != nil {
		r.logger.Error("jobs.start_failed", "file_path", filePath, "error", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *jobsRepo) FinishSuccess(ctx context.Context, jobID int64, yachtID string, warnings int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE ingest_jobs SET status = 'success', yacht_id = ?, warnings = ?, finished_at = ? WHERE id = ?`,
		yachtID, warnings, time.Now(), jobID)
	if err != nil {
		r.logger.Error("jobs.finish_failed", "job_id", jobID, "error", err)
	}
	return err
}

func (r *jobsRepo) FinishFailure(ctx context.Context, jobID int64, cause string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE ingest_jobs SET status = 'failed', error = ?, finished_at = ? WHERE id = ?`,
		cause, time.Now(), jobID)
	if err != nil {
		r.logger.Error("jobs.finish_failed", "job_id", jobID, "error", err)
	}
	return err
}

func (r *jobsRepo) Close() error {
	return r.db.Close()
}
