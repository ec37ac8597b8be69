package jobs

import (
	"context"
	"fmt"
	"log"
	"time"
)

// MaterializerService is the catch-up pass this job drives. Only the pass
// entry point is needed here; the service lives in pkg/services.
type MaterializerService interface {
	Materialize(ctx context.Context, targetDate time.Time) (int, error)
}

// MaterializeCatchupJob runs the daily materialization pass for "today".
// It is safe to run redundantly and out of order: the pass is idempotent,
// so a missed schedule is simply made up on the next run.
type MaterializeCatchupJob struct {
	materializer MaterializerService
	schedule     string
}

func NewMaterializeCatchupJob(materializer MaterializerService, schedule string) *MaterializeCatchupJob {
	return &MaterializeCatchupJob{
		materializer: materializer,
		schedule:     schedule,
	}
}

func (j *MaterializeCatchupJob) Name() string {
	return "materialize_catchup"
}

func (j *MaterializeCatchupJob) Schedule() string {
	return j.schedule
}

func (j *MaterializeCatchupJob) Execute(ctx context.Context) error {
	created, err := j.materializer.Materialize(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("materialization pass failed: %w", err)
	}

	log.Printf("Materialize catch-up created %d jobs", created)
	return nil
}
