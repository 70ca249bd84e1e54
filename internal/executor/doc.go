// Package executor applies approved book plans to the filesystem.
//
// # Engine
//
// The Engine executes one BookPlan at a time:
//
//  1. Log the start of the book to the audit log
//  2. Create the target directory
//  3. Move every file, skipping files already in place and recording
//     collisions instead of overwriting
//  4. Remove the source directory if it ended up empty
//
// # Basic Usage
//
//	log := audit.Open(filepath.Join(root, audit.DefaultFileName))
//	engine := executor.NewEngine(log, nil, func(event executor.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	summary := engine.Run(ctx, plans, executor.ApplyAll)
//	fmt.Println(summary.Applied, engine.Collisions().Sorted())
//
// # States
//
// Each plan goes Pending → InProgress → Applied, PartiallyApplied (some
// destinations were taken) or Failed (an unexpected error, logged with
// its message). There is no retry; a later run picks up whatever is left.
package executor
