package database

import "time"

// Run statuses
const (
	RunStatusRunning     = "running"
	RunStatusCompleted   = "completed"
	RunStatusFailed      = "failed"
	RunStatusInterrupted = "interrupted"
)

// Run is one execution of a script (daily pass or login sequence)
type Run struct {
	ID            string     `db:"id"`
	Kind          string     `db:"kind"`
	EmulatorIndex int        `db:"emulator_index"`
	StartedAt     time.Time  `db:"started_at"`
	FinishedAt    *time.Time `db:"finished_at"`
	Status        string     `db:"status"`
	Detail        *string    `db:"detail"`
	StepCount     int        `db:"step_count"`
	SuccessCount  int        `db:"success_count"`
}

// RunStep records the outcome of one script step
type RunStep struct {
	ID         int64     `db:"id"`
	RunID      string    `db:"run_id"`
	Step       string    `db:"step"`
	Success    bool      `db:"success"`
	Detail     *string   `db:"detail"`
	RecordedAt time.Time `db:"recorded_at"`
}
