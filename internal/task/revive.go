package task

import (
	"sort"

	"tasktrack/internal/states"
	"tasktrack/internal/taskdef"
)

// The revival protocol.
//
// A host process that is re-invoked after a partial failure rebuilds its
// live Task trees from the snapshots persisted by the prior invocation:
// per task and per sub-task, retry state is either preserved (Completed,
// Rejected), regressed to a fresh attempt (Failed, TimedOut are mid-retry,
// not final), or treated as permanently abandoned (snapshots whose
// definition is no longer active).

// ReviveOpts customizes ReviveTasks.
type ReviveOpts struct {
	// OnlyRecreateExisting suppresses creation of tasks for active
	// definitions that have no prior snapshot.
	OnlyRecreateExisting bool
}

// ReviveTasks reconstructs live Tasks from the currently active definitions
// and the prior invocation's snapshots-by-name.
//
// Snapshot values are recognized by shape (see AsTaskLike); a malformed
// value is treated as if no prior snapshot existed for that name. Active
// definitions with a matching snapshot are reconciled onto fresh Tasks;
// active definitions without one are created fresh (unless
// OnlyRecreateExisting); snapshots whose name is not among the active
// definitions are recreated as placeholder Tasks and abandoned recursively.
//
// It returns the reconciled/created active tasks (in definition order) and
// the abandoned tasks (sorted by name). Callers are expected to persist
// both lists back into the tasks-by-name store, replacing all previous
// entries for those names.
func (f *Factory) ReviveTasks(defs []*taskdef.Definition, snapshots map[string]any, opts *ReviveOpts) (active, abandoned []*Task, err error) {
	onlyExisting := opts != nil && opts.OnlyRecreateExisting

	recognized := make(map[string]TaskLike, len(snapshots))
	for _, name := range sortedKeys(snapshots) {
		like, ok := AsTaskLike(snapshots[name])
		if !ok {
			continue
		}
		recognized[like.Name] = like
	}

	activeNames := make(map[string]bool, len(defs))
	for _, def := range defs {
		if def == nil {
			return nil, nil, ErrNilDefinition
		}
		activeNames[def.Name()] = true

		if like, matched := recognized[def.Name()]; matched {
			t, rerr := f.ReconcileTask(def, like)
			if rerr != nil {
				return nil, nil, rerr
			}
			active = append(active, t)
			continue
		}
		if onlyExisting {
			continue
		}
		t, cerr := f.CreateTask(def, nil)
		if cerr != nil {
			return nil, nil, cerr
		}
		active = append(active, t)
	}

	names := make([]string, 0, len(recognized))
	for name := range recognized {
		if !activeNames[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		t, rerr := f.recreateAbandoned(recognized[name])
		if rerr != nil {
			return nil, nil, rerr
		}
		abandoned = append(abandoned, t)
	}
	return active, abandoned, nil
}

// ReconcileTask builds a fresh Task from def and reconciles the prior
// snapshot onto it, sub-task by sub-task. It is a pure function of its two
// trees: no factory state is consulted beyond task construction defaults.
func (f *Factory) ReconcileTask(def *taskdef.Definition, snap TaskLike) (*Task, error) {
	t, err := f.CreateTask(def, nil)
	if err != nil {
		return nil, err
	}
	reconcileNode(t, snap)
	return t, nil
}

// reconcileNode copies the snapshot's bookkeeping onto the fresh node and
// re-derives its state, descendants first.
func reconcileNode(t *Task, snap TaskLike) {
	copyBookkeeping(t, snap)

	snapState := snapshotState(snap)
	switch snapState.Kind() {
	case states.KindFailed, states.KindTimedOut:
		// Mid-retry, not final: the new invocation should attempt again.
		t.state = states.Unstarted()
	default:
		t.state = snapState
	}

	byName := subTasksByName(snap)
	for _, c := range t.children {
		if cs, ok := byName[c.Name()]; ok {
			reconcileNode(c, cs)
		}
	}

	// A "done" parent cannot stand over not-actually-finished children:
	// demote a Completed parent whose reconciled descendants are not all
	// finalized. Rejected is terminal and always outranks this check.
	if snapState.IsCompleted() && !t.IsFullyFinalized() {
		t.state = states.Unstarted()
	}
}

// recreateAbandoned rebuilds a Task from a snapshot whose definition is no
// longer active (a placeholder definition is derived from the snapshot's own
// names, with no executable body) and abandons the whole tree.
func (f *Factory) recreateAbandoned(snap TaskLike) (*Task, error) {
	def, err := placeholderDefinition(snap)
	if err != nil {
		return nil, err
	}
	t, err := f.CreateTask(def, nil)
	if err != nil {
		return nil, err
	}
	copyTree(t, snap)
	t.Abandon("task is no longer in the active set of task definitions", nil, true)
	return t, nil
}

func placeholderDefinition(snap TaskLike) (*taskdef.Definition, error) {
	def, err := taskdef.DefinePlaceholderTask(snap.Name)
	if err != nil {
		return nil, err
	}
	if err := placeholderChildren(def, snap); err != nil {
		return nil, err
	}
	return def, nil
}

func placeholderChildren(def *taskdef.Definition, snap TaskLike) error {
	for _, sub := range snap.SubTasks {
		if _, exists := def.Child(sub.Name); exists {
			// Duplicate sub-task names in a snapshot are a shape defect;
			// tolerate by keeping the first occurrence.
			continue
		}
		child, err := def.DefineSubTask(sub.Name)
		if err != nil {
			return err
		}
		if err := placeholderChildren(child, sub); err != nil {
			return err
		}
	}
	return nil
}

// copyTree copies the snapshot's state and bookkeeping verbatim onto the
// node and its sub-tasks by name.
func copyTree(t *Task, snap TaskLike) {
	copyBookkeeping(t, snap)
	t.state = snapshotState(snap)
	byName := subTasksByName(snap)
	for _, c := range t.children {
		if cs, ok := byName[c.Name()]; ok {
			copyTree(c, cs)
		}
	}
}

func copyBookkeeping(t *Task, snap TaskLike) {
	t.attempts = snap.Attempts
	t.totalAttempts = snap.TotalAttempts
	t.began = copyTime(snap.Began)
	t.ended = copyTime(snap.Ended)
	if snap.Took != nil {
		d := *snap.Took
		t.took = &d
	} else {
		t.took = nil
	}
}

func snapshotState(snap TaskLike) states.State {
	if snap.State == nil {
		return states.Unstarted()
	}
	return *snap.State
}

func subTasksByName(snap TaskLike) map[string]TaskLike {
	byName := make(map[string]TaskLike, len(snap.SubTasks))
	for _, sub := range snap.SubTasks {
		if _, exists := byName[sub.Name]; exists {
			continue
		}
		byName[sub.Name] = sub
	}
	return byName
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
