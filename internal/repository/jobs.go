package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const jobColumns = `id, job_type, payload, status, priority, attempts, max_attempts,
	error_message, scheduled_at, started_at, completed_at, created_at, updated_at`

func scanJob(row *sql.Row) (Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.JobType, &j.Payload, &j.Status, &j.Priority, &j.Attempts,
		&j.MaxAttempts, &j.ErrorMessage, &j.ScheduledAt, &j.StartedAt,
		&j.CompletedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

// EnqueueJobParams are the parameters for EnqueueJob.
type EnqueueJobParams struct {
	JobType     string
	Payload     json.RawMessage
	Priority    int32
	MaxAttempts int32
	ScheduledAt time.Time
}

const enqueueJob = `
INSERT INTO jobs (job_type, payload, priority, max_attempts, scheduled_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + jobColumns

// EnqueueJob inserts a new pending job.
func (q *Queries) EnqueueJob(ctx context.Context, params EnqueueJobParams) (Job, error) {
	row := q.db.QueryRowContext(ctx, enqueueJob,
		params.JobType, params.Payload, params.Priority, params.MaxAttempts, params.ScheduledAt)
	return scanJob(row)
}

const dequeueJob = `
SELECT ` + jobColumns + `
FROM jobs
WHERE status = 'pending' AND scheduled_at <= now()
ORDER BY priority DESC, scheduled_at ASC
LIMIT 1
FOR UPDATE SKIP LOCKED`

// DequeueJob selects the next runnable job, locking the row so concurrent
// workers skip it. Returns sql.ErrNoRows when the queue is empty. Must be
// called inside a transaction.
func (q *Queries) DequeueJob(ctx context.Context) (Job, error) {
	return scanJob(q.db.QueryRowContext(ctx, dequeueJob))
}

const updateJobStarted = `
UPDATE jobs
SET status = 'running', started_at = now(), attempts = attempts + 1, updated_at = now()
WHERE id = $1`

// UpdateJobStarted marks a job as running and counts the attempt.
func (q *Queries) UpdateJobStarted(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, updateJobStarted, id)
	return err
}

const updateJobCompleted = `
UPDATE jobs
SET status = 'completed', completed_at = now(), updated_at = now()
WHERE id = $1`

// UpdateJobCompleted marks a job as successfully completed.
func (q *Queries) UpdateJobCompleted(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, updateJobCompleted, id)
	return err
}

// UpdateJobFailedParams are the parameters for UpdateJobFailed.
type UpdateJobFailedParams struct {
	ID           uuid.UUID
	ErrorMessage sql.NullString
}

const updateJobFailed = `
UPDATE jobs
SET status = CASE WHEN attempts >= max_attempts THEN 'failed' ELSE 'pending' END,
    scheduled_at = CASE WHEN attempts >= max_attempts THEN scheduled_at
                        ELSE now() + (interval '1 second' * power(2, attempts) * 30) END,
    error_message = $2,
    updated_at = now()
WHERE id = $1`

// UpdateJobFailed records a failure. Jobs with attempts remaining are
// rescheduled with exponential backoff (30s, 60s, 120s, ...); exhausted jobs
// are marked failed.
func (q *Queries) UpdateJobFailed(ctx context.Context, params UpdateJobFailedParams) error {
	_, err := q.db.ExecContext(ctx, updateJobFailed, params.ID, params.ErrorMessage)
	return err
}

const markJobFailedPermanently = `
UPDATE jobs
SET status = 'failed', error_message = $2, updated_at = now()
WHERE id = $1`

// MarkJobFailedPermanently fails a job immediately regardless of remaining
// attempts. Used for errors that a retry cannot fix.
func (q *Queries) MarkJobFailedPermanently(ctx context.Context, params UpdateJobFailedParams) error {
	_, err := q.db.ExecContext(ctx, markJobFailedPermanently, params.ID, params.ErrorMessage)
	return err
}

const recoverStaleJobs = `
UPDATE jobs
SET status = 'pending', updated_at = now()
WHERE status = 'running'
  AND started_at < now() - (interval '1 second' * $1)`

// RecoverStaleJobs resets jobs that have been running longer than the
// threshold, which happens when a worker died mid-job. Returns the number of
// jobs recovered.
func (q *Queries) RecoverStaleJobs(ctx context.Context, thresholdSeconds float64) (int64, error) {
	result, err := q.db.ExecContext(ctx, recoverStaleJobs, thresholdSeconds)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countJobsByStatus = `
SELECT status, count(*) FROM jobs GROUP BY status`

// CountJobsByStatus returns the number of jobs in each status, for metrics.
func (q *Queries) CountJobsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, countJobsByStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
