package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobbook/core/pkg/models"
)

const jobExistsOnSQL = `
SELECT EXISTS (
	SELECT 1 FROM jobs
	WHERE customer_id = $1 AND job_date = $2
)`

// JobExistsOn reports whether the customer already has a job of any status
// and any origin on the given day. A true result suppresses recurrence
// generation for that day.
func (q *Queries) JobExistsOn(ctx context.Context, customerID uuid.UUID, day time.Time) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, jobExistsOnSQL, customerID, day).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing job: %w", err)
	}
	return exists, nil
}

const insertScheduledJobSQL = `
INSERT INTO jobs (id, customer_id, job_date, status, origin)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (customer_id, job_date) WHERE origin = 'recurrence' DO NOTHING`

// InsertScheduledJob writes one recurrence-generated job. A concurrent
// pass that materialized the same (customer, day) first wins the partial
// unique index race; the conflict is absorbed and reported as zero rows,
// not an error.
func (q *Queries) InsertScheduledJob(ctx context.Context, job models.ScheduledJob) (int64, error) {
	tag, err := q.db.Exec(ctx, insertScheduledJobSQL,
		job.ID, job.CustomerID, job.JobDate, string(job.Status), string(job.Origin))
	if err != nil {
		return 0, fmt.Errorf("failed to insert scheduled job: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreateScheduledJobs inserts a batch of recurrence-generated jobs in a
// single transaction and returns the number of rows actually written.
// All-or-nothing: if any statement fails the whole batch rolls back.
func (s *Store) CreateScheduledJobs(ctx context.Context, jobs []models.ScheduledJob) (int64, error) {
	if len(jobs) == 0 {
		return 0, nil
	}

	var created int64
	err := s.ExecTx(ctx, func(q *Queries) error {
		for _, job := range jobs {
			n, err := q.InsertScheduledJob(ctx, job)
			if err != nil {
				return err
			}
			created += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

const listJobsByDateSQL = `
SELECT id, customer_id, job_date, status, origin, completed_at, created_at
FROM jobs
WHERE job_date = $1
ORDER BY created_at`

// ListJobsByDate returns every job on a calendar day.
func (q *Queries) ListJobsByDate(ctx context.Context, day time.Time) ([]models.ScheduledJob, error) {
	rows, err := q.db.Query(ctx, listJobsByDateSQL, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by date: %w", err)
	}
	defer rows.Close()

	var jobs []models.ScheduledJob
	for rows.Next() {
		var j models.ScheduledJob
		var status, origin string
		if err := rows.Scan(&j.ID, &j.CustomerID, &j.JobDate, &status, &origin, &j.CompletedAt, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		j.Status = models.JobStatus(status)
		j.Origin = models.JobOrigin(origin)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
