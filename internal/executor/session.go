package executor

import (
	"context"
	"fmt"

	"github.com/handiism/audiobook-tidy/internal/model"
)

// Decision is the operator's answer for one plan.
type Decision int

const (
	DecisionApply Decision = iota
	DecisionSkip
	DecisionQuit
)

// DecideFunc is asked before each plan starts. index is 0-based.
type DecideFunc func(index int, plan *model.BookPlan) Decision

// ApplyAll approves every plan.
func ApplyAll(int, *model.BookPlan) Decision { return DecisionApply }

// SessionSummary counts the outcome of a run.
type SessionSummary struct {
	Applied   int
	Skipped   int
	Errors    int
	Conflicts int // plans that finished with at least one collision

	// Aborted is true when the operator quit or ctx was cancelled before
	// every plan was considered.
	Aborted bool
}

// Run applies plans in order, asking decide before each one.
//
// A DecisionQuit or a cancelled ctx stops new plans from starting; a plan
// already started always runs to the end. A failure in one plan never
// stops the others.
func (e *Engine) Run(ctx context.Context, plans []*model.BookPlan, decide DecideFunc) SessionSummary {
	var sum SessionSummary
	if decide == nil {
		decide = ApplyAll
	}

	if err := e.StartSession(len(plans)); err != nil {
		e.progress(ProgressEvent{Message: fmt.Sprintf("Cannot write audit log: %v", err), Level: LevelWarning})
	}

	for i, plan := range plans {
		if ctx.Err() != nil {
			sum.Aborted = true
			break
		}

		switch decide(i, plan) {
		case DecisionQuit:
			sum.Aborted = true
			return sum
		case DecisionSkip:
			sum.Skipped++
			continue
		}

		sum.Record(e.Apply(ctx, plan))
	}
	return sum
}

// Record counts the outcome of one applied plan.
func (s *SessionSummary) Record(res Result) {
	if !res.OK() {
		s.Errors++
		return
	}
	s.Applied++
	if res.State == StatePartiallyApplied {
		s.Conflicts++
	}
}
