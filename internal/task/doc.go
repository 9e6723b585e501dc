// Package task implements the task state machine: mutable Task trees
// mirroring immutable definitions, the guarded transition engine applied to
// a task and optionally to its sub-tasks and slave tasks, and the revival
// protocol that reconciles live Task trees from snapshots persisted by a
// prior process invocation.
//
// The package is single-threaded by contract: a Task's fields are mutated
// only by its own methods, cross-task mutation (parent to children, master
// to slaves) is synchronous unguarded recursion, and no internal locking
// exists. Callers must not drive the same Task tree from multiple
// goroutines without external synchronization.
package task
