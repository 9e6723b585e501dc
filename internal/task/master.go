package task

import (
	"tasktrack/internal/states"
)

// Master/slave synchronization.
//
// A master Task owns a list of slave Tasks built from the exact same
// definition. State, attempt and timing changes applied to the master fan
// out to every slave that is not already finalized (see Task.transition);
// in the other direction, setting the slaves aggregates their states and
// timing onto a still-unstarted master.

// SetSlaveTasks installs slaves on a master task.
//
// Every slave must share the master's definition by reference, so that the
// slave trees mirror the master tree 1:1 by sub-task name (this holds for
// masters of masters too, since a master's slaves carry its own root
// definition).
//
// If the master's own state is currently Unstarted, its state is recomputed
// as the least advanced state among the slaves (ties broken by the first
// slave encountered), and its began/ended/took are taken from whichever
// slave has the most recent began. A master that has been explicitly driven
// out of Unstarted stays authoritative until reset; slave states never
// override it.
func (t *Task) SetSlaveTasks(slaves []*Task) error {
	for _, s := range slaves {
		if s == nil {
			return errNilSlave
		}
		if s.def != t.def {
			return errSlaveDefinitionMismatch(t, s)
		}
	}
	t.slaves = append([]*Task(nil), slaves...)

	if !t.state.IsUnstarted() || len(slaves) == 0 {
		return nil
	}

	least := slaves[0]
	for _, s := range slaves[1:] {
		if states.CompareKinds(s.state.Kind(), least.state.Kind()) < 0 {
			least = s
		}
	}
	t.state = least.state

	var latest *Task
	for _, s := range slaves {
		if s.began == nil {
			continue
		}
		if latest == nil || s.began.After(*latest.began) {
			latest = s
		}
	}
	if latest != nil {
		t.began = copyTime(latest.began)
		t.ended = copyTime(latest.ended)
		t.took = latest.Took()
	}
	return nil
}
