package bot

// Journal receives an audit trail of script runs. Implementations must not
// be read back by the driver.
type Journal interface {
	StartRun(kind string) (string, error)
	RecordStep(runID, step string, success bool, detail string) error
	FinishRun(runID, status, detail string) error
}

// Run status values written to the journal
const (
	statusCompleted   = "completed"
	statusFailed      = "failed"
	statusInterrupted = "interrupted"
)

type noopJournal struct{}

func (noopJournal) StartRun(string) (string, error) { return "", nil }
func (noopJournal) RecordStep(string, string, bool, string) error { return nil }
func (noopJournal) FinishRun(string, string, string) error { return nil }
