// Package workflow runs composite writes as an ordered list of named steps.
//
// There is no cross-step transaction. A failing step leaves the effects of the
// steps before it in place; the returned *StepError names the failing step and
// lists the committed effects, so the caller can tell a clean failure from a
// partial one that needs manual reconciliation.
package workflow

import (
	"context"
	"log/slog"
	"time"
)

// Compensation declares what happens to a step's effect when a later step fails.
type Compensation string

const (
	// CompensationNone is for steps with no durable effect (reads, checks).
	CompensationNone Compensation = "none"

	// CompensationManual is for steps whose effect stays committed and must be
	// reconciled by an operator if the workflow does not reach Done.
	CompensationManual Compensation = "manual-intervention-required"
)

// Run outcomes reported to the Recorder.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomePartial   = "partial"
)

// Step is one named unit of work.
// Precondition, when set, runs before Effect; a failing precondition fails the
// step without running the effect. Ref, when set, is read after Effect succeeds
// and identifies the durable record the step produced.
type Step struct {
	Name         string
	Precondition func(ctx context.Context) error
	Effect       func(ctx context.Context) error
	Compensation Compensation
	Ref          func() string
}

// Recorder receives one observation per workflow run.
// step is empty for completed runs.
type Recorder interface {
	ObserveWorkflow(workflow, outcome, step string, elapsed time.Duration)
}

// Orchestrator executes steps strictly in declared order.
// It never retries a step and never undoes a committed one.
type Orchestrator struct {
	log *slog.Logger
	rec Recorder
}

// New constructs an Orchestrator. rec may be nil.
func New(log *slog.Logger, rec Recorder) *Orchestrator {
	return &Orchestrator{log: log, rec: rec}
}

// Run executes steps in order and stops at the first failure, returning a
// *StepError. A nil return means every step completed.
//
// Steps run on a context detached from ctx's cancellation: once a workflow has
// started it runs to completion or failure even if the caller goes away.
// Values carried by ctx (request id, trace data) are kept.
func (o *Orchestrator) Run(ctx context.Context, name string, steps ...Step) error {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	var committed []Committed
	for _, st := range steps {
		if err := runStep(ctx, st); err != nil {
			serr := &StepError{Workflow: name, Step: st.Name, Committed: committed, Err: err}
			outcome := OutcomeFailed
			if serr.Partial() {
				outcome = OutcomePartial
			}
			o.log.InfoContext(ctx, "workflow step failed",
				"workflow", name,
				"step", st.Name,
				"outcome", outcome,
				"error", err,
			)
			o.observe(name, outcome, st.Name, time.Since(start))
			return serr
		}

		c := Committed{Step: st.Name, Compensation: st.Compensation}
		if st.Ref != nil {
			c.Ref = st.Ref()
		}
		committed = append(committed, c)
		o.log.DebugContext(ctx, "workflow step completed", "workflow", name, "step", st.Name)
	}

	o.observe(name, OutcomeCompleted, "", time.Since(start))
	return nil
}

func runStep(ctx context.Context, st Step) error {
	if st.Precondition != nil {
		if err := st.Precondition(ctx); err != nil {
			return err
		}
	}
	if st.Effect == nil {
		return nil
	}
	return st.Effect(ctx)
}

func (o *Orchestrator) observe(name, outcome, step string, elapsed time.Duration) {
	if o.rec != nil {
		o.rec.ObserveWorkflow(name, outcome, step, elapsed)
	}
}
