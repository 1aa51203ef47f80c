package service

import "fmt"

// ValidationError is a precondition failure raised before any write. It is
// surfaced verbatim to the user and never leaves partial state behind.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Checkout step numbers. The sequence is fixed; later steps reference the
// transaction id produced by step 1.
const (
	StepSaveTransaction = 1
	StepSaveItems       = 2
	StepRecordCashFlow  = 3
	StepUpdateStock     = 4
)

// StepFailure reports which checkout step failed and why. Earlier steps are
// not rolled back; the message carries enough detail for an operator to tell
// which records exist and which do not.
type StepFailure struct {
	Step int
	Name string
	Hint string
	Err  error
}

func (e *StepFailure) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%d. %s: %v. %s", e.Step, e.Name, e.Err, e.Hint)
	}
	return fmt.Sprintf("%d. %s: %v", e.Step, e.Name, e.Err)
}

func (e *StepFailure) Unwrap() error { return e.Err }
