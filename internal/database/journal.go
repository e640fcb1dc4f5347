package database

import (
	"fmt"

	"jordanella.com/jianghu-auto/internal/logging"
)

// Journal records script runs for one emulator instance
type Journal struct {
	db    *DB
	index int
}

// OpenJournal opens the database at path and brings its schema up to date
func OpenJournal(path string, emulatorIndex int, logger *logging.Logger) (*Journal, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		return nil, err
	}

	version, err := db.GetVersion()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Debug(fmt.Sprintf("Run history at %s (schema v%d)", db.Path(), version))

	return &Journal{db: db, index: emulatorIndex}, nil
}

// StartRun opens a new run of the given kind
func (j *Journal) StartRun(kind string) (string, error) {
	return j.db.StartRun(kind, j.index)
}

func (j *Journal) RecordStep(runID, step string, success bool, detail string) error {
	return j.db.RecordStep(runID, step, success, detail)
}

func (j *Journal) FinishRun(runID, status, detail string) error {
	return j.db.FinishRun(runID, status, detail)
}

// DB exposes the underlying database for queries
func (j *Journal) DB() *DB {
	return j.db
}

// Close closes the database
func (j *Journal) Close() error {
	return j.db.Close()
}
