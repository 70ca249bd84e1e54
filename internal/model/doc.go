// Package model defines the core data structures used throughout
// audiobook-tidy, and the naming rules that turn a book's metadata into
// its canonical location.
//
// # Record
//
// Record is the normalized metadata of one book. It is produced by the
// metadata package with defaults already applied:
//
//	rec := doc.ToRecord()
//	fmt.Println(rec.Author, rec.Title, rec.Series)
//
// # BookPlan
//
// BookPlan describes how one book directory is reorganized:
//
//	entries, _ := os.ReadDir(dir)
//	plan, ok := model.NewBookPlan(rec, model.PlanConfig{Root: "/lib"}, dir, entries)
//	if ok {
//	    fmt.Println(plan.TargetDir) // "/lib/Frank Herbert/Dune/01 Dune"
//	}
//
// Target layout:
//
//	series:    <root>/<Author>/<Series>/<NN Title>/<Author> - <Series NN> - <Title> - 01.mp3
//	no series: <root>/<Author>/<Title>/<Author> - <Title>.mp3
//
// The " - 01" index is only added when a book has more than one audio file.
// Non-audio files keep their names.
//
// # Statistics and collisions
//
// LibraryStatistics accumulates counters during a scan, and CollisionSet
// collects destination names that were already occupied during execution.
package model
