package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/jobbook/core/pkg/database"
	"github.com/jobbook/core/pkg/logger"
)

// ProductionJobManager is the job manager used in deployments: every
// registered job is wrapped with distributed locking, and each execution
// carries a request ID through its context for log correlation.
type ProductionJobManager struct {
	cron        *cron.Cron
	jobs        []Job
	logger      *logger.Logger
	lockManager JobLockManager

	enableLocking bool
	defaultConfig *ProductionJobConfig
}

// ProductionJobManagerConfig holds configuration for the production job manager
type ProductionJobManagerConfig struct {
	EnableLocking bool
	DefaultConfig *ProductionJobConfig
}

// NewProductionJobManager creates a production-ready job manager backed by
// Postgres advisory locks.
func NewProductionJobManager(db database.DBTX, config *ProductionJobManagerConfig) JobManager {
	if config == nil {
		config = &ProductionJobManagerConfig{
			EnableLocking: true,
			DefaultConfig: DefaultProductionJobConfig(),
		}
	}

	return &ProductionJobManager{
		cron:          cron.New(cron.WithLocation(time.UTC)),
		jobs:          make([]Job, 0),
		logger:        logger.New("production-job-manager"),
		lockManager:   NewPostgresLockManager(db),
		enableLocking: config.EnableLocking,
		defaultConfig: config.DefaultConfig,
	}
}

// RegisterJob adds a job, wrapping it with locking unless it already is.
func (m *ProductionJobManager) RegisterJob(job Job) error {
	if job == nil {
		return fmt.Errorf("job cannot be nil")
	}

	finalJob := job
	if m.enableLocking {
		if _, isProduction := job.(*ProductionJob); !isProduction {
			finalJob = NewProductionJob(job, m.lockManager, m.defaultConfig)
		}
	}

	m.logger.Info().
		Str("action", "register_job").
		Str("job_name", finalJob.Name()).
		Str("schedule", finalJob.Schedule()).
		Bool("locking_enabled", m.enableLocking).
		Msg("Registering production job")

	_, err := m.cron.AddFunc(finalJob.Schedule(), func() {
		requestID := uuid.New().String()
		jobLogger := m.logger.WithRequestID(requestID).WithJob(finalJob.Name())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		ctx = jobLogger.ToContext(ctx)

		jobLogger.LogJobStart(finalJob.Name(), finalJob.Schedule())
		start := time.Now()

		if err := finalJob.Execute(ctx); err != nil {
			jobLogger.Error().
				Err(err).
				Str("action", "job_failed").
				Dur("duration", time.Since(start)).
				Msg("Production job execution failed")
		} else {
			jobLogger.LogJobComplete(finalJob.Name(), time.Since(start), 0, 0)
		}
	})

	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", finalJob.Name(), err)
	}

	m.jobs = append(m.jobs, finalJob)
	return nil
}

func (m *ProductionJobManager) Start() {
	m.logger.Info().
		Int("job_count", len(m.jobs)).
		Str("action", "manager_start").
		Msg("Starting production job manager")
	m.cron.Start()
}

func (m *ProductionJobManager) Stop() {
	m.logger.Info().Str("action", "manager_stop").Msg("Stopping production job manager")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info().Str("action", "manager_stopped").Msg("Production job manager stopped")
}

func (m *ProductionJobManager) GetJobs() []Job {
	return append([]Job(nil), m.jobs...)
}
