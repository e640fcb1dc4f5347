package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"jordanella.com/jianghu-auto/internal/logging"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "runs.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(logging.Discard()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestDatabaseInitialization(t *testing.T) {
	db := openTestDB(t)

	version, err := db.GetVersion()
	if err != nil {
		t.Fatalf("Failed to get version: %v", err)
	}
	if version != LatestVersion() {
		t.Errorf("Expected version %d, got %d", LatestVersion(), version)
	}

	if _, err := os.Stat(db.Path()); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	// Running again is a no-op
	if err := db.RunMigrations(logging.Discard()); err != nil {
		t.Errorf("Second migration run failed: %v", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	db := openTestDB(t)

	runID, err := db.StartRun("daily", 2)
	if err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}
	if len(runID) != 36 {
		t.Errorf("expected uuid run id, got %q", runID)
	}

	if err := db.RecordStep(runID, "task_button", true, ""); err != nil {
		t.Fatalf("RecordStep() failed: %v", err)
	}
	if err := db.RecordStep(runID, "task_interface", false, "not found within 10s"); err != nil {
		t.Fatalf("RecordStep() failed: %v", err)
	}
	if err := db.FinishRun(runID, RunStatusFailed, "stopped at task_interface"); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	run := runs[0]
	if run.Kind != "daily" || run.EmulatorIndex != 2 || run.Status != RunStatusFailed {
		t.Errorf("unexpected run %+v", run)
	}
	if run.FinishedAt == nil || run.Detail == nil || *run.Detail != "stopped at task_interface" {
		t.Errorf("run was not finished properly: %+v", run)
	}
	if run.StepCount != 2 || run.SuccessCount != 1 {
		t.Errorf("expected 2 steps with 1 success, got %d/%d", run.StepCount, run.SuccessCount)
	}

	steps, err := db.GetRunSteps(runID)
	if err != nil {
		t.Fatalf("GetRunSteps() failed: %v", err)
	}
	if len(steps) != 2 || steps[0].Step != "task_button" || !steps[0].Success || steps[0].Detail != nil {
		t.Errorf("unexpected first step %+v", steps[0])
	}
	if steps[1].Success || steps[1].Detail == nil {
		t.Errorf("unexpected second step %+v", steps[1])
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	db := openTestDB(t)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := db.StartRun("login", 0)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
		time.Sleep(5 * time.Millisecond)
	}

	runs, err := db.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != ids[2] || runs[1].ID != ids[1] {
		t.Errorf("runs not newest first: %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[0].Status != RunStatusRunning || runs[0].FinishedAt != nil {
		t.Errorf("unfinished run should be running, got %+v", runs[0])
	}
}

func TestFinishUnknownRun(t *testing.T) {
	db := openTestDB(t)
	if err := db.FinishRun("missing", RunStatusCompleted, ""); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestRecordStepRequiresRun(t *testing.T) {
	db := openTestDB(t)
	if err := db.RecordStep("missing", "qq", true, ""); err == nil {
		t.Error("expected foreign key violation")
	}
}

func TestJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := OpenJournal(path, 1, logging.Discard())
	if err != nil {
		t.Fatalf("OpenJournal() failed: %v", err)
	}
	defer j.Close()

	id, err := j.StartRun("daily")
	if err != nil {
		t.Fatal(err)
	}
	if err := j.RecordStep(id, "claim_reward", true, ""); err != nil {
		t.Fatal(err)
	}
	if err := j.FinishRun(id, RunStatusCompleted, ""); err != nil {
		t.Fatal(err)
	}

	runs, err := j.DB().RecentRuns(5)
	if err != nil || len(runs) != 1 || runs[0].EmulatorIndex != 1 || runs[0].Status != RunStatusCompleted {
		t.Errorf("unexpected runs %v, %v", runs, err)
	}
}
