package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MockDB implements database.DBTX with an in-memory advisory lock table.
type MockDB struct {
	locks map[int64]bool
}

func NewMockDB() *MockDB {
	return &MockDB{
		locks: make(map[int64]bool),
	}
}

func (m *MockDB) QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row {
	if len(args) > 0 {
		id := args[0].(int64)

		if query == "SELECT pg_try_advisory_lock($1)" {
			if m.locks[id] {
				return &MockRow{value: false}
			}
			m.locks[id] = true
			return &MockRow{value: true}
		}

		if query == "SELECT pg_advisory_unlock($1)" {
			wasHeld := m.locks[id]
			delete(m.locks, id)
			return &MockRow{value: wasHeld}
		}
	}

	return &MockRow{value: false}
}

func (m *MockDB) Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error) {
	return nil, nil
}

func (m *MockDB) Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

// MockRow implements pgx.Row for testing
type MockRow struct {
	value interface{}
}

func (m *MockRow) Scan(dest ...interface{}) error {
	if len(dest) > 0 {
		if v, ok := dest[0].(*bool); ok {
			*v = m.value.(bool)
		}
	}
	return nil
}

func TestLockManager(t *testing.T) {
	lockManager := NewPostgresLockManager(NewMockDB())
	ctx := context.Background()

	acquired, err := lockManager.AcquireLock(ctx, "test-job")
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	if !acquired {
		t.Fatal("Expected to acquire lock but didn't")
	}

	acquired2, err := lockManager.AcquireLock(ctx, "test-job")
	if err != nil {
		t.Fatalf("Failed to attempt second lock acquisition: %v", err)
	}
	if acquired2 {
		t.Fatal("Expected second lock acquisition to fail but it succeeded")
	}

	if err := lockManager.ReleaseLock(ctx, "test-job"); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}

	acquired3, err := lockManager.AcquireLock(ctx, "test-job")
	if err != nil {
		t.Fatalf("Failed to acquire lock after release: %v", err)
	}
	if !acquired3 {
		t.Fatal("Expected to acquire lock after release but didn't")
	}
}

func TestLockManager_IndependentJobs(t *testing.T) {
	lockManager := NewPostgresLockManager(NewMockDB())
	ctx := context.Background()

	if acquired, _ := lockManager.AcquireLock(ctx, "job-a"); !acquired {
		t.Fatal("Expected to acquire lock for job-a")
	}
	if acquired, _ := lockManager.AcquireLock(ctx, "job-b"); !acquired {
		t.Fatal("Lock for job-a should not block job-b")
	}
}

func TestLockGuard(t *testing.T) {
	lockManager := NewPostgresLockManager(NewMockDB())
	ctx := context.Background()

	guard := NewLockGuard(lockManager, "guard-test-job")

	acquired, err := guard.Acquire(ctx)
	if err != nil {
		t.Fatalf("Failed to acquire lock with guard: %v", err)
	}
	if !acquired {
		t.Fatal("Expected guard to acquire lock but didn't")
	}
	if !guard.IsAcquired() {
		t.Fatal("Guard should report as acquired")
	}

	guard2 := NewLockGuard(lockManager, "guard-test-job")
	if acquired2, _ := guard2.Acquire(ctx); acquired2 {
		t.Fatal("Expected second guard acquisition to fail but it succeeded")
	}

	if err := guard.Release(ctx); err != nil {
		t.Fatalf("Failed to release lock with guard: %v", err)
	}
	if guard.IsAcquired() {
		t.Fatal("Guard should report as not acquired after release")
	}

	if acquired3, _ := guard2.Acquire(ctx); !acquired3 {
		t.Fatal("Expected second guard to acquire lock after first release but didn't")
	}
}

func TestLockTimeout(t *testing.T) {
	lockManager := NewPostgresLockManager(NewMockDB())
	ctx := context.Background()

	acquired, err := lockManager.AcquireLock(ctx, "timeout-test-job")
	if err != nil {
		t.Fatalf("Failed to acquire initial lock: %v", err)
	}
	if !acquired {
		t.Fatal("Expected to acquire initial lock but didn't")
	}

	start := time.Now()
	acquired2, err := lockManager.AcquireLockWithTimeout(ctx, "timeout-test-job", 200*time.Millisecond)
	duration := time.Since(start)

	if err == nil {
		t.Fatal("Expected timeout error but didn't get one")
	}
	if acquired2 {
		t.Fatal("Expected timeout to fail acquisition but it succeeded")
	}
	if duration < 150*time.Millisecond {
		t.Fatalf("Expected to wait for timeout but only waited %v", duration)
	}
}

func TestLockID_Consistent(t *testing.T) {
	a := lockID("materialize_catchup")
	b := lockID("materialize_catchup")
	if a != b {
		t.Errorf("lockID not stable: %d vs %d", a, b)
	}
	if lockID("other-job") == a {
		t.Error("different job names should map to different lock IDs")
	}
}

func TestLockID_NonNegative(t *testing.T) {
	// The sign bit is masked off, so no name may hash to a negative key —
	// including names whose raw FNV hash has the top bit set.
	names := []string{
		"materialize_catchup",
		"",
		"a",
		"job-with-a-much-longer-name-0123456789",
		"Ünïcode jöb",
	}
	for i := 0; i < 1000; i++ {
		names = append(names, string(rune('a'+i%26))+names[i%len(names)])
	}
	for _, name := range names {
		if id := lockID(name); id < 0 {
			t.Fatalf("lockID(%q) = %d, want non-negative", name, id)
		}
	}
}
