package jobs

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/jobbook/core/pkg/database"
	"github.com/jobbook/core/pkg/logger"
)

// JobLockManager serializes job execution across service instances. The
// materialization pass checks for existing jobs before inserting, so two
// concurrent passes for the same day would race without this; one instance
// holds the lock, the others skip.
type JobLockManager interface {
	// AcquireLock attempts to acquire a distributed lock for the given job.
	// Returns true if the lock was acquired, false if another instance holds it.
	AcquireLock(ctx context.Context, jobName string) (bool, error)

	// ReleaseLock releases the distributed lock for the given job
	ReleaseLock(ctx context.Context, jobName string) error

	// AcquireLockWithTimeout polls for the lock until acquired or the timeout expires
	AcquireLockWithTimeout(ctx context.Context, jobName string, timeout time.Duration) (bool, error)
}

// PostgresLockManager implements JobLockManager on Postgres advisory locks,
// keyed by a hash of the job name.
type PostgresLockManager struct {
	db     database.DBTX
	logger *logger.Logger
}

func NewPostgresLockManager(db database.DBTX) JobLockManager {
	return &PostgresLockManager{
		db:     db,
		logger: logger.New("job-lock-manager"),
	}
}

// lockID maps a job name onto the int64 key space advisory locks use.
// FNV-1a is stable across instances, which is all that matters here; the
// mask clears the sign bit so keys stay non-negative for every input.
func lockID(jobName string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(jobName))
	return int64(h.Sum64() & math.MaxInt64)
}

func (p *PostgresLockManager) AcquireLock(ctx context.Context, jobName string) (bool, error) {
	id := lockID(jobName)

	var acquired bool
	err := p.db.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", id).Scan(&acquired)
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock for job %s: %w", jobName, err)
	}

	if acquired {
		p.logger.Debug().
			Str("job_name", jobName).
			Int64("lock_id", id).
			Str("action", "lock_acquired").
			Msg("Acquired distributed lock")
	} else {
		p.logger.Debug().
			Str("job_name", jobName).
			Int64("lock_id", id).
			Str("action", "lock_held_elsewhere").
			Msg("Lock held by another instance")
	}

	return acquired, nil
}

func (p *PostgresLockManager) ReleaseLock(ctx context.Context, jobName string) error {
	id := lockID(jobName)

	var released bool
	err := p.db.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", id).Scan(&released)
	if err != nil {
		return fmt.Errorf("failed to release lock for job %s: %w", jobName, err)
	}

	if !released {
		p.logger.Warn().
			Str("job_name", jobName).
			Int64("lock_id", id).
			Str("action", "lock_not_held").
			Msg("Released a lock that was not held")
	}

	return nil
}

func (p *PostgresLockManager) AcquireLockWithTimeout(ctx context.Context, jobName string, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	acquired, err := p.AcquireLock(ctx, jobName)
	if err != nil || acquired {
		return acquired, err
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			acquired, err := p.AcquireLock(ctx, jobName)
			if err != nil {
				return false, err
			}
			if acquired {
				return true, nil
			}
		}
	}
}

// LockGuard pairs an acquire with its release so Execute paths can defer
// the cleanup.
type LockGuard struct {
	lockManager JobLockManager
	jobName     string
	acquired    bool
}

func NewLockGuard(lockManager JobLockManager, jobName string) *LockGuard {
	return &LockGuard{
		lockManager: lockManager,
		jobName:     jobName,
	}
}

func (lg *LockGuard) Acquire(ctx context.Context) (bool, error) {
	acquired, err := lg.lockManager.AcquireLock(ctx, lg.jobName)
	if err != nil {
		return false, err
	}
	lg.acquired = acquired
	return acquired, nil
}

func (lg *LockGuard) AcquireWithTimeout(ctx context.Context, timeout time.Duration) (bool, error) {
	acquired, err := lg.lockManager.AcquireLockWithTimeout(ctx, lg.jobName, timeout)
	if err != nil {
		return false, err
	}
	lg.acquired = acquired
	return acquired, nil
}

func (lg *LockGuard) Release(ctx context.Context) error {
	if !lg.acquired {
		return nil
	}
	if err := lg.lockManager.ReleaseLock(ctx, lg.jobName); err != nil {
		return err
	}
	lg.acquired = false
	return nil
}

func (lg *LockGuard) IsAcquired() bool {
	return lg.acquired
}
