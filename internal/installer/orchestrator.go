// Package installer runs the CMS installation as an ordered list of steps.
//
// Steps run one at a time in the order given. The first step that reports
// failure stops the run; later steps never start and nothing already done is
// undone.
package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rshade/cmskit/internal/logging"
)

// Exit codes returned by Run.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ErrStepFailed is reported when an action returns false without an error.
var ErrStepFailed = errors.New("installation step failed")

// Action performs one installation step. It returns false or an error to
// stop the run.
type Action func(ctx context.Context) (bool, error)

// Step is one named unit of work.
type Step struct {
	Message string
	Action  Action
}

// Reporter receives progress and the final outcome of a run.
type Reporter interface {
	Info(message string)
	Progress(step, total int, message string)
	Success(message string)
	Failure(message string)
}

// Orchestrator runs steps and reports through Reporter.
type Orchestrator struct {
	Reporter Reporter
	// Name prefixes the start, success and failure messages.
	Name string
}

// New returns an Orchestrator reporting through r.
func New(r Reporter) *Orchestrator {
	return &Orchestrator{Reporter: r, Name: "CMS installation"}
}

// Run executes steps in order and returns ExitSuccess only when all of them
// succeed. A panicking step is reported and treated as a failure.
func (o *Orchestrator) Run(ctx context.Context, steps []Step) int {
	log := logging.FromContext(ctx)
	total := len(steps)

	o.Reporter.Info(fmt.Sprintf("Starting %s...", o.Name))
	for i, step := range steps {
		o.Reporter.Progress(i+1, total, step.Message)

		err := runStep(ctx, step)
		if err == nil {
			log.Debug().
				Ctx(ctx).
				Str("component", "installer").
				Str("operation", "run_step").
				Int("step", i+1).
				Str("message", step.Message).
				Msg("step completed")
			continue
		}

		log.Error().
			Ctx(ctx).
			Str("component", "installer").
			Str("operation", "run_step").
			Int("step", i+1).
			Int("total", total).
			Str("message", step.Message).
			Err(err).
			Msg("installation aborted")
		o.Reporter.Failure(fmt.Sprintf("%s failed: %v", o.Name, err))
		return ExitFailure
	}

	o.Reporter.Success(o.Name + " successful!")
	return ExitSuccess
}

// runStep invokes the action, converting a false result or a panic into an error.
func runStep(ctx context.Context, step Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", step.Message, r)
		}
	}()

	if step.Action == nil {
		return fmt.Errorf("%s: no action", step.Message)
	}

	ok, err := step.Action(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrStepFailed, step.Message)
	}
	return nil
}
