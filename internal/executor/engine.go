package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/handiism/audiobook-tidy/internal/audit"
	ioutils "github.com/handiism/audiobook-tidy/internal/io"
	"github.com/handiism/audiobook-tidy/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an execution progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// State is the lifecycle of one plan's execution.
type State int

const (
	StatePending State = iota
	StateInProgress
	StateApplied
	StatePartiallyApplied
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInProgress:
		return "in progress"
	case StateApplied:
		return "applied"
	case StatePartiallyApplied:
		return "partially applied"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of applying one plan.
type Result struct {
	State State

	// Moved counts files actually moved.
	Moved int

	// Conflicts lists destination names left untouched because a
	// different file already occupied them.
	Conflicts []string

	// Cleaned is true when the emptied source directory was removed.
	Cleaned bool

	// Err is set when State is StateFailed.
	Err error
}

// OK reports whether the plan ran without an unexpected error. Collisions
// do not make a plan fail.
func (r Result) OK() bool {
	return r.State != StateFailed
}

// Appender receives audit events. *audit.Log implements it.
type Appender interface {
	Append(event string) error
}

// Engine applies book plans to the filesystem.
//
// Plans are applied one at a time. A destination that already holds a
// different file is never overwritten: the name is added to the collision
// set and both files are left in place. A destination that already is the
// source file is skipped silently, which makes a repeated run a no-op.
type Engine struct {
	audit      Appender
	collisions *model.CollisionSet
	onProgress func(ProgressEvent)
}

// NewEngine creates an Engine. collisions may be nil, in which case a new
// set is created; onProgress may be nil.
func NewEngine(log Appender, collisions *model.CollisionSet, onProgress func(ProgressEvent)) *Engine {
	if collisions == nil {
		collisions = model.NewCollisionSet()
	}
	return &Engine{
		audit:      log,
		collisions: collisions,
		onProgress: onProgress,
	}
}

// Collisions returns the set of collided destination names.
func (e *Engine) Collisions() *model.CollisionSet {
	return e.collisions
}

// StartSession writes the session delimiter for a run over n plans.
func (e *Engine) StartSession(n int) error {
	return e.audit.Append(audit.SessionStart(n))
}

// Apply executes one plan and reports its outcome.
//
// Errors never escape: they are written to the audit log and reflected in
// the returned Result, so the caller can move on to the next plan.
//
// Cancelling ctx does not interrupt a plan that has started.
func (e *Engine) Apply(ctx context.Context, plan *model.BookPlan) Result {
	ctx = context.WithoutCancel(ctx)
	res := Result{State: StateInProgress}

	if err := e.apply(ctx, plan, &res); err != nil {
		res.State = StateFailed
		res.Err = err
		_ = e.audit.Append(audit.Error(err))
		e.progress(ProgressEvent{Message: fmt.Sprintf("Error applying %s: %v", plan.Title, err), Level: LevelError})
		return res
	}

	if len(res.Conflicts) > 0 {
		res.State = StatePartiallyApplied
		e.progress(ProgressEvent{Message: fmt.Sprintf("Applied %s with %d collision(s)", plan.Title, len(res.Conflicts)), Level: LevelWarning})
	} else {
		res.State = StateApplied
		e.progress(ProgressEvent{Message: fmt.Sprintf("Applied %s", plan.Title), Level: LevelSuccess})
	}
	return res
}

func (e *Engine) apply(ctx context.Context, plan *model.BookPlan, res *Result) error {
	if err := e.audit.Append(audit.StartBook(plan.Title)); err != nil {
		return err
	}
	if err := ioutils.EnsureDir(plan.TargetDir); err != nil {
		return err
	}

	for _, m := range plan.Moves {
		if err := e.move(ctx, m, res); err != nil {
			return err
		}
	}

	empty, err := ioutils.IsEmptyDir(plan.SourceDir)
	if err != nil {
		return err
	}
	if empty {
		if err := os.Remove(plan.SourceDir); err != nil {
			return err
		}
		res.Cleaned = true
		if err := e.audit.Append(audit.Cleanup(filepath.Base(plan.SourceDir))); err != nil {
			return err
		}
		e.progress(ProgressEvent{Message: fmt.Sprintf("Removed empty dir %s", plan.SourceDir), Level: LevelVerbose})
	}
	return nil
}

func (e *Engine) move(ctx context.Context, m model.Move, res *Result) error {
	srcInfo, err := os.Stat(m.Source)
	if err != nil || !srcInfo.Mode().IsRegular() {
		// Already moved or removed by someone else.
		return nil
	}

	if _, err := os.Lstat(m.Dest); err == nil {
		if destInfo, err := os.Stat(m.Dest); err == nil && os.SameFile(srcInfo, destInfo) {
			return nil
		}
		name := filepath.Base(m.Dest)
		e.collisions.Add(name)
		res.Conflicts = append(res.Conflicts, name)
		e.progress(ProgressEvent{Message: fmt.Sprintf("Conflict: %s already exists", name), Level: LevelWarning})
		return e.audit.Append(audit.Conflict(name))
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := ioutils.MoveFile(ctx, m.Source, m.Dest); err != nil {
		return err
	}
	res.Moved++
	oldName, newName := filepath.Base(m.Source), filepath.Base(m.Dest)
	e.progress(ProgressEvent{Message: fmt.Sprintf("Moved %s -> %s", oldName, newName), Level: LevelVerbose})
	return e.audit.Append(audit.Moved(oldName, newName))
}

func (e *Engine) progress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
