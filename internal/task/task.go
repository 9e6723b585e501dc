package task

import (
	"time"

	"tasktrack/internal/states"
	"tasktrack/internal/taskdef"
)

// Task is a mutable node mirroring a taskdef.Definition.
//
// Its children always mirror the definition's children 1:1 by name. All
// state changes go through the transition engine (engine.go); a Task is
// never destroyed explicitly, only superseded by a freshly created Task
// during revival.
type Task struct {
	def *taskdef.Definition

	// parent and factory are non-owning back-references; children are owned.
	parent   *Task
	children []*Task
	byName   map[string]*Task
	factory  *Factory

	returnMode ReturnMode

	state states.State

	// attempts is the current attempt count, reset by Reset via revival
	// regression; totalAttempts is monotonic and never reset.
	attempts      int
	totalAttempts int

	began *time.Time
	ended *time.Time
	took  *time.Duration

	result any

	// slaves are not exclusively owned; they may be independently referenced.
	slaves []*Task
}

func newTask(f *Factory, def *taskdef.Definition, parent *Task, mode ReturnMode) *Task {
	t := &Task{
		def:        def,
		parent:     parent,
		factory:    f,
		returnMode: mode,
		state:      states.Unstarted(),
		byName:     map[string]*Task{},
	}
	for _, cd := range def.Children() {
		c := newTask(f, cd, t, mode)
		t.children = append(t.children, c)
		t.byName[c.Name()] = c
	}
	return t
}

// Name returns the task's definition name.
func (t *Task) Name() string { return t.def.Name() }

// Definition returns the immutable blueprint this task was created from.
func (t *Task) Definition() *taskdef.Definition { return t.def }

// Parent returns the owning parent task, or nil for roots.
func (t *Task) Parent() *Task { return t.parent }

// Factory returns the factory that created this task.
func (t *Task) Factory() *Factory { return t.factory }

// ReturnMode returns the task's effective return mode.
func (t *Task) ReturnMode() ReturnMode { return t.returnMode }

// State returns the current state.
func (t *Task) State() states.State { return t.state }

// Attempts returns the current attempt count.
func (t *Task) Attempts() int { return t.attempts }

// TotalAttempts returns the monotonic attempt count.
func (t *Task) TotalAttempts() int { return t.totalAttempts }

// Began returns the start timestamp, or nil.
func (t *Task) Began() *time.Time { return copyTime(t.began) }

// Ended returns the end timestamp, or nil.
func (t *Task) Ended() *time.Time { return copyTime(t.ended) }

// Took returns the locked-in duration, or nil. Whenever both Began and Ended
// are present, Took == Ended - Began.
func (t *Task) Took() *time.Duration {
	if t.took == nil {
		return nil
	}
	d := *t.took
	return &d
}

// Result returns the completion payload, or nil.
func (t *Task) Result() any { return t.result }

// Children returns the sub-tasks in definition order.
func (t *Task) Children() []*Task {
	out := make([]*Task, len(t.children))
	copy(out, t.children)
	return out
}

// Child returns the sub-task with the given name.
func (t *Task) Child(name string) (*Task, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Slaves returns the slave tasks, or nil for non-master tasks.
func (t *Task) Slaves() []*Task {
	if len(t.slaves) == 0 {
		return nil
	}
	out := make([]*Task, len(t.slaves))
	copy(out, t.slaves)
	return out
}

func (t *Task) IsUnstarted() bool { return t.state.IsUnstarted() }
func (t *Task) IsStarted() bool   { return t.state.IsStarted() }
func (t *Task) IsCompleted() bool { return t.state.IsCompleted() }
func (t *Task) IsTimedOut() bool  { return t.state.IsTimedOut() }
func (t *Task) IsFailed() bool    { return t.state.IsFailed() }
func (t *Task) IsRejected() bool  { return t.state.IsRejected() }
func (t *Task) IsDiscarded() bool { return t.state.IsDiscarded() }
func (t *Task) IsAbandoned() bool { return t.state.IsAbandoned() }

// IsFinalized reports whether the task itself is Completed or Rejected.
func (t *Task) IsFinalized() bool { return t.state.IsFinalized() }

// IsFullyFinalized reports whether the task and every descendant is
// finalized, i.e. the whole tree is no longer expected to be retried.
func (t *Task) IsFullyFinalized() bool {
	if !t.state.IsFinalized() {
		return false
	}
	for _, c := range t.children {
		if !c.IsFullyFinalized() {
			return false
		}
	}
	return true
}

// applyDown applies fn to t and, when recursive, to every descendant in DFS
// order (node before children, children left to right). It returns the
// number of nodes for which fn reported a change.
//
// A parent therefore observes a pre-transition snapshot of its children when
// fn runs on it, and a post-transition snapshot when read back afterwards.
func (t *Task) applyDown(recursive bool, fn func(*Task) bool) int {
	n := 0
	if fn(t) {
		n++
	}
	if recursive {
		for _, c := range t.children {
			n += c.applyDown(true, fn)
		}
	}
	return n
}

// transition applies fn to this task tree and fans it out to every slave
// task that is not itself already finalized for this call, recursively down
// each slave's own tree.
func (t *Task) transition(recursive bool, fn func(*Task) bool) int {
	n := t.applyDown(recursive, fn)
	for _, s := range t.slaves {
		if s.state.IsFinalized() {
			continue
		}
		n += s.transition(recursive, fn)
	}
	return n
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
