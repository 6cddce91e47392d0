package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGroupNotFound indicates the group id no longer exists.
var ErrGroupNotFound = errors.New("group not found")

// ErrAssignmentNotFound indicates the assignment id no longer exists.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrTaskNotFound indicates the task was not located.
var ErrTaskNotFound = errors.New("task not found")

// ErrStudentNotFound indicates the roster entry was not located.
var ErrStudentNotFound = errors.New("student not found")

// ErrGraderFailure indicates the upstream AI grader rejected or failed the
// grading request. Nothing is persisted when it is returned.
var ErrGraderFailure = errors.New("grader failure")

// ValidationError reports a caller mistake in a mutating request. It is
// surfaced immediately and never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ResolutionError reports that the assignment or class context required by an
// operation could not be resolved. The operation aborts before any writes.
type ResolutionError struct {
	Context string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve %s: %v", e.Context, e.Err)
	}
	return fmt.Sprintf("cannot resolve %s", e.Context)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// PartialFailure reports a multi-step cascade that failed after some steps
// already succeeded. Nothing is rolled back: the caller must refresh state
// and may re-issue only the remaining steps.
type PartialFailure struct {
	Operation string
	Steps     []CascadeStep
}

func (e *PartialFailure) Error() string {
	failed := make([]string, 0)
	for _, step := range e.Steps {
		if step.Err != nil {
			failed = append(failed, step.Name)
		}
	}
	return fmt.Sprintf("%s: partial failure, failed steps: %s", e.Operation, strings.Join(failed, ", "))
}

// FailedSteps returns the steps that did not complete.
func (e *PartialFailure) FailedSteps() []CascadeStep {
	failed := make([]CascadeStep, 0)
	for _, step := range e.Steps {
		if step.Err != nil {
			failed = append(failed, step)
		}
	}
	return failed
}

// SucceededSteps returns the steps that completed before or after the failure.
func (e *PartialFailure) SucceededSteps() []CascadeStep {
	succeeded := make([]CascadeStep, 0)
	for _, step := range e.Steps {
		if step.Err == nil {
			succeeded = append(succeeded, step)
		}
	}
	return succeeded
}
