package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jobbook/core/pkg/logger"
)

// ProductionJob wraps a job with distributed locking and optional retry.
// The materialization pass is idempotent, so skipping when another
// instance holds the lock is always safe: whichever instance ran has
// already created the day's jobs.
type ProductionJob struct {
	job         Job
	lockManager JobLockManager
	logger      *logger.Logger

	lockTimeout  time.Duration
	skipIfLocked bool
	retryOnError bool
	maxRetries   int
}

// ProductionJobConfig holds configuration for the production job wrapper
type ProductionJobConfig struct {
	LockTimeout  time.Duration // How long to wait for lock acquisition
	SkipIfLocked bool          // Skip execution if lock can't be acquired
	RetryOnError bool          // Retry job execution on failure
	MaxRetries   int           // Maximum retry attempts
}

// DefaultProductionJobConfig returns sensible defaults for production jobs
func DefaultProductionJobConfig() *ProductionJobConfig {
	return &ProductionJobConfig{
		LockTimeout:  30 * time.Second,
		SkipIfLocked: true,
		RetryOnError: false, // cron reschedules; idempotence makes re-runs free
		MaxRetries:   0,
	}
}

// NewProductionJob creates a production-ready job wrapper
func NewProductionJob(job Job, lockManager JobLockManager, config *ProductionJobConfig) *ProductionJob {
	if config == nil {
		config = DefaultProductionJobConfig()
	}

	return &ProductionJob{
		job:          job,
		lockManager:  lockManager,
		logger:       logger.New("production-job"),
		lockTimeout:  config.LockTimeout,
		skipIfLocked: config.SkipIfLocked,
		retryOnError: config.RetryOnError,
		maxRetries:   config.MaxRetries,
	}
}

func (p *ProductionJob) Name() string {
	return p.job.Name()
}

func (p *ProductionJob) Schedule() string {
	return p.job.Schedule()
}

// Execute runs the job under the distributed lock.
func (p *ProductionJob) Execute(ctx context.Context) error {
	jobName := p.job.Name()
	startTime := time.Now()

	lockGuard := NewLockGuard(p.lockManager, jobName)

	var acquired bool
	var err error
	if p.lockTimeout > 0 {
		acquired, err = lockGuard.AcquireWithTimeout(ctx, p.lockTimeout)
	} else {
		acquired, err = lockGuard.Acquire(ctx)
	}

	if err != nil {
		return fmt.Errorf("failed to acquire lock for job %s: %w", jobName, err)
	}

	if !acquired {
		if p.skipIfLocked {
			p.logger.Info().
				Str("job_name", jobName).
				Str("action", "job_skipped_locked").
				Msg("Job skipped - another instance is running")
			return nil
		}
		return fmt.Errorf("could not acquire lock for job %s within timeout", jobName)
	}

	defer func() {
		if releaseErr := lockGuard.Release(ctx); releaseErr != nil {
			p.logger.Error().
				Err(releaseErr).
				Str("job_name", jobName).
				Str("action", "lock_release_error").
				Msg("Failed to release distributed lock")
		}
	}()

	err = p.executeWithRetry(ctx)

	duration := time.Since(startTime)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("job_name", jobName).
			Str("action", "job_failed").
			Dur("duration", duration).
			Msg("Job execution failed")
		return err
	}

	p.logger.Info().
		Str("job_name", jobName).
		Str("action", "job_completed").
		Dur("duration", duration).
		Msg("Job execution completed")

	return nil
}

func (p *ProductionJob) executeWithRetry(ctx context.Context) error {
	var lastErr error
	maxAttempts := p.maxRetries + 1

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			p.logger.Warn().
				Int("attempt", attempt).
				Int("max_attempts", maxAttempts).
				Err(lastErr).
				Str("job_name", p.job.Name()).
				Str("action", "job_retry").
				Msg("Retrying job execution after failure")

			backoff := time.Duration(1<<uint(attempt-2)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := p.job.Execute(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !p.retryOnError || !shouldRetryError(err) {
			break
		}
	}

	return lastErr
}

func shouldRetryError(err error) bool {
	// Context expiry means the scheduler gave up; everything else is
	// worth another attempt since re-running a pass is free. Services
	// wrap their errors, so unwrap rather than compare.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// JobWithRetry creates a production job with retry enabled
func JobWithRetry(job Job, lockManager JobLockManager, maxRetries int) *ProductionJob {
	config := DefaultProductionJobConfig()
	config.RetryOnError = true
	config.MaxRetries = maxRetries
	return NewProductionJob(job, lockManager, config)
}

// MustAcquireLock creates a production job that fails if the lock cannot be acquired
func MustAcquireLock(job Job, lockManager JobLockManager) *ProductionJob {
	config := DefaultProductionJobConfig()
	config.SkipIfLocked = false
	return NewProductionJob(job, lockManager, config)
}
