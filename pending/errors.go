package pending

import (
	"errors"
	"fmt"
)

// ErrConditionEvaluation is matched by every ConditionError.
var ErrConditionEvaluation = errors.New("condition evaluation failed")

// ConditionError reports a condition that panicked while being evaluated.
// The action guarded by the condition was neither run nor discarded.
type ConditionError struct {
	// ID of the queued entry, empty when the condition was evaluated by
	// ExecuteOrDefer before anything was queued.
	ID    string
	Value any
}

func (e *ConditionError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%v: %v", ErrConditionEvaluation, e.Value)
	}
	return fmt.Sprintf("%v for pending action %s: %v", ErrConditionEvaluation, e.ID, e.Value)
}

func (e *ConditionError) Is(target error) bool {
	return target == ErrConditionEvaluation
}

// Unwrap exposes the panic value when it was an error.
func (e *ConditionError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
