package bot

import "errors"

// Failure classes. Public driver operations never return these; they are
// used to label log lines and journal entries.
var (
	ErrCaptureFailed   = errors.New("screen capture failed")
	ErrTemplateMissing = errors.New("template not loaded")
	ErrNoMatch         = errors.New("no match above threshold")
	ErrActionFailed    = errors.New("input action failed")
)
