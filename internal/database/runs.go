package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run history operations

// StartRun creates a run row in the running state and returns its ID
func (db *DB) StartRun(kind string, emulatorIndex int) (string, error) {
	id := uuid.New().String()

	_, err := db.conn.Exec(`
		INSERT INTO runs (id, kind, emulator_index, started_at, status)
		VALUES (?, ?, ?, ?, ?)
	`, id, kind, emulatorIndex, time.Now(), RunStatusRunning)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	return id, nil
}

// RecordStep appends a step outcome to a run
func (db *DB) RecordStep(runID, step string, success bool, detail string) error {
	_, err := db.conn.Exec(`
		INSERT INTO run_steps (run_id, step, success, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, runID, step, success, nullString(detail), time.Now())
	if err != nil {
		return fmt.Errorf("failed to record step %s: %w", step, err)
	}
	return nil
}

// FinishRun closes a run with a final status
func (db *DB) FinishRun(runID, status, detail string) error {
	return db.ExecTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(`
			UPDATE runs
			SET finished_at = ?,
				status = ?,
				detail = ?
			WHERE id = ?
		`, time.Now(), status, nullString(detail), runID)
		if err != nil {
			return fmt.Errorf("failed to finish run: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("run %s not found", runID)
		}
		return nil
	})
}

// RecentRuns returns the newest runs with their step tallies
func (db *DB) RecentRuns(limit int) ([]*Run, error) {
	rows, err := db.conn.Query(`
		SELECT r.id, r.kind, r.emulator_index, r.started_at, r.finished_at, r.status, r.detail,
			(SELECT COUNT(*) FROM run_steps s WHERE s.run_id = r.id),
			(SELECT COUNT(*) FROM run_steps s WHERE s.run_id = r.id AND s.success)
		FROM runs r
		ORDER BY r.started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		err := rows.Scan(
			&run.ID, &run.Kind, &run.EmulatorIndex, &run.StartedAt, &run.FinishedAt,
			&run.Status, &run.Detail, &run.StepCount, &run.SuccessCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRunSteps returns the steps of a run in the order they were recorded
func (db *DB) GetRunSteps(runID string) ([]*RunStep, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, step, success, detail, recorded_at
		FROM run_steps
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run steps: %w", err)
	}
	defer rows.Close()

	var steps []*RunStep
	for rows.Next() {
		step := &RunStep{}
		if err := rows.Scan(&step.ID, &step.RunID, &step.Step, &step.Success, &step.Detail, &step.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run step: %w", err)
		}
		steps = append(steps, step)
	}

	return steps, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
