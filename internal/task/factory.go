package task

import (
	"tasktrack/internal/taskdef"
)

// ReturnMode selects how a caller-supplied execute body's return value is
// normalized into an Outcome. Tasks inherit the factory's mode unless
// overridden per task.
type ReturnMode int

const (
	// ReturnModeNormal treats the body's (value, error) pair directly.
	ReturnModeNormal ReturnMode = iota

	// ReturnModeSuccessOrFailure expects the body to return an already
	// tagged Outcome value.
	ReturnModeSuccessOrFailure

	// ReturnModeDeferred expects the body to return a thunk that yields
	// the eventual (value, error) pair when resolved.
	ReturnModeDeferred
)

// Factory creates Task trees from definitions and revives them from
// persisted snapshots.
type Factory struct {
	returnMode ReturnMode
}

// NewFactory returns a factory whose tasks default to the given return mode.
func NewFactory(mode ReturnMode) *Factory {
	return &Factory{returnMode: mode}
}

// CreateOpts customizes task creation.
type CreateOpts struct {
	// ReturnMode overrides the factory's default mode when non-nil.
	ReturnMode *ReturnMode
}

// CreateTask builds a fresh Unstarted Task tree mirroring def.
func (f *Factory) CreateTask(def *taskdef.Definition, opts *CreateOpts) (*Task, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}
	mode := f.returnMode
	if opts != nil && opts.ReturnMode != nil {
		mode = *opts.ReturnMode
	}
	return newTask(f, def, nil, mode), nil
}

// CreateMasterTask builds a Task over def and installs the given slaves,
// aggregating their state and timing onto the master. Every slave must have
// been built from the same definition.
func (f *Factory) CreateMasterTask(def *taskdef.Definition, slaves []*Task) (*Task, error) {
	master, err := f.CreateTask(def, nil)
	if err != nil {
		return nil, err
	}
	if err := master.SetSlaveTasks(slaves); err != nil {
		return nil, err
	}
	return master, nil
}
