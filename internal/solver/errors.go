package solver

import (
	"errors"
	"fmt"
)

// Stage names used in StageError.
const (
	StageConfig = "config"
	StageSolve  = "solve"
	StageOutput = "output"
)

// StageError records which part of a run failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ConfigError marks err as a configuration failure.
func ConfigError(err error) error {
	return &StageError{Stage: StageConfig, Err: err}
}

// OutputError marks err as a failure writing or publishing results.
func OutputError(err error) error {
	return &StageError{Stage: StageOutput, Err: err}
}

// StageOf returns the stage recorded in err's chain, or "" if there is none.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
