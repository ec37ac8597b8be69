package jobs

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockMaterializer struct {
	created    int
	err        error
	calls      int
	lastTarget time.Time
}

func (m *mockMaterializer) Materialize(ctx context.Context, targetDate time.Time) (int, error) {
	m.calls++
	m.lastTarget = targetDate
	return m.created, m.err
}

func TestMaterializeCatchupJob_Name(t *testing.T) {
	job := NewMaterializeCatchupJob(&mockMaterializer{}, "10 0 * * *")

	if job.Name() != "materialize_catchup" {
		t.Errorf("Expected name 'materialize_catchup', got '%s'", job.Name())
	}
}

func TestMaterializeCatchupJob_Schedule(t *testing.T) {
	job := NewMaterializeCatchupJob(&mockMaterializer{}, "10 0 * * *")

	if job.Schedule() != "10 0 * * *" {
		t.Errorf("Expected schedule '10 0 * * *', got '%s'", job.Schedule())
	}
}

func TestMaterializeCatchupJob_Execute(t *testing.T) {
	materializer := &mockMaterializer{created: 3}
	job := NewMaterializeCatchupJob(materializer, "10 0 * * *")

	before := time.Now().UTC()
	if err := job.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if materializer.calls != 1 {
		t.Errorf("Materialize called %d times, want 1", materializer.calls)
	}
	// The pass targets "today": the service normalizes, the job just
	// passes the current instant.
	if materializer.lastTarget.Before(before) {
		t.Error("Execute passed a stale target date")
	}
}

func TestMaterializeCatchupJob_ExecuteError(t *testing.T) {
	materializer := &mockMaterializer{err: errors.New("store unavailable")}
	job := NewMaterializeCatchupJob(materializer, "10 0 * * *")

	if err := job.Execute(context.Background()); err == nil {
		t.Fatal("Expected error to surface to the scheduler")
	}
}
