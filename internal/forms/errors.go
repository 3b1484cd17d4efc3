package forms

import (
	"errors"
	"fmt"
)

var (
	ErrNothingToLog      = errors.New("no complete exercise")
	ErrWeightMissing     = errors.New("weight missing")
	ErrRunningIncomplete = errors.New("running time or distance missing")
	ErrSprintsIncomplete = errors.New("sprints interval or power missing")
	ErrUnknownSection    = errors.New("unknown cardio section")
)

// ValidationError is a filled in value that cannot be logged.
type ValidationError struct {
	// Exercise is empty for the body weight and cardio forms.
	Exercise string
	Field    string
	Value    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Exercise != "" {
		return fmt.Sprintf("Invalid %s for %s: %s", e.Field, e.Exercise, e.Reason)
	}
	return fmt.Sprintf("Invalid %s: %s", e.Field, e.Reason)
}

// UserMessage is the text shown in the form message box for err.
func UserMessage(err error) string {
	var validationErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNothingToLog):
		return "Please fill in all fields for at least one exercise."
	case errors.Is(err, ErrWeightMissing):
		return "Please enter your weight."
	case errors.Is(err, ErrRunningIncomplete):
		return "Please enter both time and distance for running."
	case errors.Is(err, ErrSprintsIncomplete):
		return "Please enter both interval and power for sprints."
	case errors.As(err, &validationErr):
		return validationErr.Error()
	default:
		return err.Error()
	}
}
