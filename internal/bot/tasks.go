package bot

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Template names used by the daily script
const (
	TemplateTaskButton    = "task_button"
	TemplateTaskInterface = "task_interface"
	TemplateDailyTask     = "daily_task"
	TemplateClaimReward   = "claim_reward"
)

// StepResult is the outcome of one script step
type StepResult struct {
	Name    string
	OK      bool
	Skipped bool // an earlier step failed
}

// TaskReport summarises one pass of a script
type TaskReport struct {
	Steps      []StepResult
	BackTapped bool
}

// Completed reports whether every step succeeded
func (r TaskReport) Completed() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return len(r.Steps) > 0
}

// FailedAt returns the first step that did not succeed, or ""
func (r TaskReport) FailedAt() string {
	for _, s := range r.Steps {
		if !s.OK && !s.Skipped {
			return s.Name
		}
	}
	return ""
}

type scriptStep struct {
	name string
	run  func(ctx context.Context) bool
}

// RunDailyTasks opens the task panel, selects the daily tab and claims the
// reward. Each step runs only if the previous one succeeded. The back tap
// at the end always runs.
func (d *Driver) RunDailyTasks(ctx context.Context) TaskReport {
	d.logger.Info("Starting daily tasks")
	runID := d.startRun("daily")

	clickThenPause := func(name, done string) func(ctx context.Context) bool {
		return func(ctx context.Context) bool {
			if !d.ClickTemplate(ctx, name, 0) {
				return false
			}
			d.logger.Info(done)
			d.sleep(ctx, d.settings.StepDelay)
			return true
		}
	}

	steps := []scriptStep{
		{TemplateTaskButton, clickThenPause(TemplateTaskButton, "Clicked task button")},
		{TemplateTaskInterface, func(ctx context.Context) bool {
			return d.WaitForTemplate(ctx, TemplateTaskInterface, d.settings.InterfaceTimeout, d.settings.WaitInterval, 0)
		}},
		{TemplateDailyTask, clickThenPause(TemplateDailyTask, "Selected daily task")},
		{TemplateClaimReward, clickThenPause(TemplateClaimReward, "Claimed task reward")},
	}

	report := TaskReport{}
	failed := false
	for _, step := range steps {
		if failed {
			report.Steps = append(report.Steps, StepResult{Name: step.name, Skipped: true})
			continue
		}

		ok := step.run(ctx)
		report.Steps = append(report.Steps, StepResult{Name: step.name, OK: ok})
		d.recordStep(runID, step.name, ok, "")
		if !ok {
			failed = true
		}
	}

	back := d.settings.BackPoint
	report.BackTapped = d.clickPoint(ctx, back.X, back.Y, d.settings.ClickDelay) == nil
	d.recordStep(runID, "back", report.BackTapped, fmt.Sprintf("(%d, %d)", back.X, back.Y))

	d.finishRun(ctx, runID, report)
	d.logger.Info("Daily tasks finished")
	return report
}

// RunLogin taps through the login templates in order, waiting between
// them. A missing template is logged and the sequence continues. An empty
// sequence has nothing to do and succeeds.
func (d *Driver) RunLogin(ctx context.Context) bool {
	if len(d.settings.LoginTemplates) == 0 {
		d.logger.Info("No login templates configured")
		return true
	}

	d.logger.Info("Starting login sequence")
	runID := d.startRun("login")

	report := TaskReport{}
	for i, name := range d.settings.LoginTemplates {
		if i > 0 {
			if err := d.sleep(ctx, d.settings.LoginWait); err != nil {
				break
			}
		}

		ok := d.ClickTemplate(ctx, name, 0)
		if ok {
			d.logger.Info(fmt.Sprintf("Clicked '%s'", name))
		} else {
			d.logger.Warn(fmt.Sprintf("Did not find '%s'", name))
		}
		report.Steps = append(report.Steps, StepResult{Name: name, OK: ok})
		d.recordStep(runID, name, ok, "")
	}

	d.finishRun(ctx, runID, report)
	return report.Completed() && len(report.Steps) == len(d.settings.LoginTemplates)
}

// MainLoop runs the daily script, sleeps interval and repeats until ctx is
// cancelled. A panic inside a pass ends the loop and is returned as an
// error.
func (d *Driver) MainLoop(ctx context.Context, interval time.Duration) (err error) {
	d.logger.Info("Starting main loop")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("main loop panic: %v", r)
			d.logger.Error("Main loop crashed", err)
		}
		d.logger.Info("Main loop finished")
	}()

	for {
		d.RunDailyTasks(ctx)

		if ctx.Err() == nil {
			d.logger.Info(fmt.Sprintf("Waiting %v before next pass...", interval))
			d.sleep(ctx, interval)
		}

		if ctx.Err() != nil {
			d.logger.Info("Interrupted by user")
			return nil
		}
	}
}

func (d *Driver) startRun(kind string) string {
	runID, err := d.journal.StartRun(kind)
	if err != nil {
		d.logger.Warn(fmt.Sprintf("Journal: could not start %s run: %v", kind, err))
		return ""
	}
	return runID
}

func (d *Driver) recordStep(runID, step string, ok bool, detail string) {
	if runID == "" {
		return
	}
	if err := d.journal.RecordStep(runID, step, ok, detail); err != nil {
		d.logger.Warn(fmt.Sprintf("Journal: could not record step %s: %v", step, err))
	}
}

func (d *Driver) finishRun(ctx context.Context, runID string, report TaskReport) {
	if runID == "" {
		return
	}

	status, detail := statusCompleted, ""
	switch {
	case ctx.Err() != nil:
		status = statusInterrupted
	case !report.Completed():
		status = statusFailed
		var missed []string
		for _, s := range report.Steps {
			if !s.OK && !s.Skipped {
				missed = append(missed, s.Name)
			}
		}
		detail = "missed: " + strings.Join(missed, ", ")
	}

	if err := d.journal.FinishRun(runID, status, detail); err != nil {
		d.logger.Warn(fmt.Sprintf("Journal: could not finish run: %v", err))
	}
}
