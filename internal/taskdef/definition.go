// Package taskdef defines the immutable blueprint tree that tasks are
// created from.
//
// A definition tree is validated at construction time and never mutated
// afterwards other than by attaching new sub-task definitions, each of which
// is itself validated on attach. Structural errors (blank or duplicate
// sibling names, cycles) are raised synchronously and are always fatal to
// the operation that caused them.
package taskdef

import (
	"context"
	"strings"
)

// ExecuteFn is a caller-supplied task body. The core never invokes it; it is
// carried so that callers can execute their own work against a live task.
type ExecuteFn func(ctx context.Context, input any) (any, error)

// Definition is a named, immutable blueprint for a task and its sub-tasks.
//
// A definition is executable iff it is a root given a callable body, or was
// explicitly marked executable with a body. Sub-task definitions created via
// DefineSubTask are non-executable.
type Definition struct {
	name       string
	executable bool
	execute    ExecuteFn

	// parent is a non-owning back-reference; children are owned.
	parent   *Definition
	children []*Definition
	byName   map[string]*Definition
}

// DefineTask builds a new executable root definition.
//
// The execute body is required: a root without a body is a placeholder, not
// an executable task (see DefinePlaceholderTask).
func DefineTask(name string, execute ExecuteFn) (*Definition, error) {
	d, err := newDefinition(name)
	if err != nil {
		return nil, err
	}
	if execute == nil {
		return nil, invalidf("task %q requires an execute function", d.name)
	}
	d.executable = true
	d.execute = execute
	return d, nil
}

// DefinePlaceholderTask builds a non-executable root definition.
//
// Placeholders stand in for tasks whose definitions are no longer part of
// the running code, so that their persisted snapshots can still be revived
// (and abandoned).
func DefinePlaceholderTask(name string) (*Definition, error) {
	return newDefinition(name)
}

func newDefinition(name string) (*Definition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("task name is required")
	}
	return &Definition{name: name, byName: map[string]*Definition{}}, nil
}

// DefineSubTask attaches a new non-executable sub-task definition.
//
// Sibling names under one parent must be distinct.
func (d *Definition) DefineSubTask(name string) (*Definition, error) {
	return d.attach(name, false, nil)
}

// DefineSubTasks attaches one sub-task definition per name, in order.
func (d *Definition) DefineSubTasks(names ...string) ([]*Definition, error) {
	subs := make([]*Definition, 0, len(names))
	for _, name := range names {
		sub, err := d.DefineSubTask(name)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// DefineExecutableSubTask attaches a sub-task definition explicitly marked
// executable with its own body.
func (d *Definition) DefineExecutableSubTask(name string, execute ExecuteFn) (*Definition, error) {
	if execute == nil {
		return nil, invalidf("executable sub-task %q requires an execute function", name)
	}
	return d.attach(name, true, execute)
}

func (d *Definition) attach(name string, executable bool, execute ExecuteFn) (*Definition, error) {
	sub, err := newDefinition(name)
	if err != nil {
		return nil, err
	}
	if _, exists := d.byName[sub.name]; exists {
		return nil, invalidf("duplicate sub-task name %q under %q", sub.name, d.name)
	}
	sub.executable = executable
	sub.execute = execute
	sub.parent = d
	if err := d.validateNotAncestorOf(sub); err != nil {
		return nil, err
	}
	d.children = append(d.children, sub)
	d.byName[sub.name] = sub
	return sub, nil
}

// validateNotAncestorOf proves that attaching sub under d cannot close a
// cycle, and extracts a deterministic witness path if it would.
//
// The builder only ever attaches freshly created nodes, so this can fail
// only if a caller wires parents by hand; the check keeps the tree invariant
// enforced at construction time either way.
func (d *Definition) validateNotAncestorOf(sub *Definition) error {
	var path []string
	for cur := d; cur != nil; cur = cur.parent {
		path = append(path, cur.name)
		if cur == sub {
			// Reverse into root-to-leaf order and close the loop.
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return cycleError(append(path, sub.name))
		}
	}
	return nil
}

// Name returns the definition's name.
func (d *Definition) Name() string { return d.name }

// Executable reports whether the definition carries a callable body.
func (d *Definition) Executable() bool { return d.executable }

// Execute returns the callable body, or nil for non-executable definitions.
func (d *Definition) Execute() ExecuteFn { return d.execute }

// Parent returns the owning parent definition, or nil for roots.
func (d *Definition) Parent() *Definition { return d.parent }

// Root returns the root of the definition tree d belongs to.
func (d *Definition) Root() *Definition {
	cur := d
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Children returns the sub-task definitions in attachment order.
func (d *Definition) Children() []*Definition {
	out := make([]*Definition, len(d.children))
	copy(out, d.children)
	return out
}

// Child returns the sub-task definition with the given name.
func (d *Definition) Child(name string) (*Definition, bool) {
	c, ok := d.byName[name]
	return c, ok
}
