package commands

import (
	"errors"
	"fmt"

	"github.com/dyluth/z32/internal/printer"
	"github.com/dyluth/z32/internal/solver"
)

// stageFailure prints a titled error block naming the stage err failed in
// and returns the error Execute hands back to main.
func stageFailure(err error, context map[string]string) error {
	stage := solver.StageOf(err)
	if stage == "" {
		stage = solver.StageSolve
	}
	if context == nil {
		context = make(map[string]string)
	}
	context["Stage"] = stage

	cause := err
	var se *solver.StageError
	if errors.As(err, &se) {
		cause = se.Err
	}

	var suggestions []string
	switch stage {
	case solver.StageConfig:
		suggestions = []string{
			"Fix the configuration file and run again",
			"Generate a fresh one with:\n     z32 config init --path z32.yaml",
		}
	case solver.StageOutput:
		suggestions = []string{
			"Check the output directory exists or can be created and is writable",
			"Choose another location with --out",
		}
	case solver.StageSolve:
		suggestions = []string{"Run again; the search keeps no partial results"}
	}

	return printer.ErrorWithContext(
		fmt.Sprintf("%s stage failed", stage),
		cause.Error(),
		context,
		suggestions,
	)
}
