package entity

import "fmt"

// TaskStage is the state of a single per-image renovation task.
type TaskStage string

const (
	StagePending            TaskStage = "pending"
	StageFetching           TaskStage = "fetching"
	StageGeneratingPrimary  TaskStage = "generating_primary"
	StageGeneratingFallback TaskStage = "generating_fallback"
	StageSaving             TaskStage = "saving"
	StageSucceeded          TaskStage = "succeeded"
	StageFailed             TaskStage = "failed"
)

// TaskFailure records the stage a task was in when it gave up.
type TaskFailure struct {
	Stage TaskStage
	Err   error
}

func (f *TaskFailure) Error() string {
	return fmt.Sprintf("renovation task failed while %s: %v", f.Stage, f.Err)
}

func (f *TaskFailure) Unwrap() error {
	return f.Err
}

// TaskOutcome is the result of one dispatched image: either URL or Failure is set.
type TaskOutcome struct {
	SourceURL string
	URL       string
	Failure   *TaskFailure
}

func (o TaskOutcome) Succeeded() bool {
	return o.Stage() == StageSucceeded
}

// Stage is the terminal state of the task: succeeded, failed, or pending for
// an outcome that was never run. Failure.Stage says where a failed task stopped.
func (o TaskOutcome) Stage() TaskStage {
	switch {
	case o.Failure != nil:
		return StageFailed
	case o.URL != "":
		return StageSucceeded
	default:
		return StagePending
	}
}
