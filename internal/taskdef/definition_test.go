package taskdef

import (
	"context"
	"errors"
	"testing"
)

func noop(_ context.Context, _ any) (any, error) { return nil, nil }

func TestDefineTask_RootIsExecutable(t *testing.T) {
	d, err := DefineTask("Load", noop)
	if err != nil {
		t.Fatalf("DefineTask: %v", err)
	}
	if !d.Executable() || d.Execute() == nil {
		t.Fatalf("expected executable root with a body")
	}
	if d.Parent() != nil || d.Root() != d {
		t.Fatalf("expected a root definition")
	}
}

func TestDefineTask_RequiresBodyAndName(t *testing.T) {
	if _, err := DefineTask("Load", nil); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition for missing body, got %v", err)
	}
	if _, err := DefineTask("  ", noop); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition for blank name, got %v", err)
	}
}

func TestDefineSubTasks_AttachedInOrderAndNonExecutable(t *testing.T) {
	d, err := DefineTask("Load", noop)
	if err != nil {
		t.Fatalf("DefineTask: %v", err)
	}
	subs, err := d.DefineSubTasks("Fetch", "Transform", "Write")
	if err != nil {
		t.Fatalf("DefineSubTasks: %v", err)
	}
	if len(subs) != 3 {
		t.Fatalf("expected 3 sub-definitions, got %d", len(subs))
	}
	for i, name := range []string{"Fetch", "Transform", "Write"} {
		child := d.Children()[i]
		if child.Name() != name {
			t.Fatalf("child %d: expected %q, got %q", i, name, child.Name())
		}
		if child.Executable() {
			t.Fatalf("sub-task %q should not be executable", name)
		}
		if child.Parent() != d || child.Root() != d {
			t.Fatalf("sub-task %q has wrong parent/root", name)
		}
	}
	if _, ok := d.Child("Transform"); !ok {
		t.Fatalf("expected Child lookup to find Transform")
	}
}

func TestDefineSubTask_DuplicateSiblingNameRejected(t *testing.T) {
	d, err := DefineTask("Load", noop)
	if err != nil {
		t.Fatalf("DefineTask: %v", err)
	}
	if _, err := d.DefineSubTask("Fetch"); err != nil {
		t.Fatalf("DefineSubTask: %v", err)
	}
	if _, err := d.DefineSubTask("Fetch"); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition for duplicate sibling, got %v", err)
	}
	// The same name under a different parent is fine.
	sub, _ := d.Child("Fetch")
	if _, err := sub.DefineSubTask("Fetch"); err != nil {
		t.Fatalf("nested name reuse should be allowed, got %v", err)
	}
}

func TestDefineExecutableSubTask_RequiresBody(t *testing.T) {
	d, err := DefineTask("Load", noop)
	if err != nil {
		t.Fatalf("DefineTask: %v", err)
	}
	if _, err := d.DefineExecutableSubTask("Fetch", nil); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
	sub, err := d.DefineExecutableSubTask("Fetch", noop)
	if err != nil {
		t.Fatalf("DefineExecutableSubTask: %v", err)
	}
	if !sub.Executable() {
		t.Fatalf("expected explicitly executable sub-task")
	}
}

func TestDefinePlaceholderTask_NonExecutable(t *testing.T) {
	d, err := DefinePlaceholderTask("Legacy")
	if err != nil {
		t.Fatalf("DefinePlaceholderTask: %v", err)
	}
	if d.Executable() || d.Execute() != nil {
		t.Fatalf("placeholder must not be executable")
	}
}

func TestRegistry_RegisterLookupAllSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"C", "A", "B"} {
		d, err := DefineTask(name, noop)
		if err != nil {
			t.Fatalf("DefineTask(%s): %v", name, err)
		}
		if err := r.Register(d); err != nil {
			t.Fatalf("Register(%s): %v", name, err)
		}
	}

	if _, ok := r.Lookup("B"); !ok {
		t.Fatalf("expected Lookup to find B")
	}

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(all))
	}
	for i, want := range []string{"A", "B", "C"} {
		if all[i].Name() != want {
			t.Fatalf("All()[%d]: expected %q, got %q", i, want, all[i].Name())
		}
	}
}

func TestRegistry_RejectsDuplicatesAndNonRoots(t *testing.T) {
	r := NewRegistry()
	d, err := DefineTask("Load", noop)
	if err != nil {
		t.Fatalf("DefineTask: %v", err)
	}
	if err := r.Register(d); err != nil {
		t.Fatalf("Register: %v", err)
	}

	dup, _ := DefineTask("Load", noop)
	if err := r.Register(dup); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition for duplicate name, got %v", err)
	}

	sub, err := d.DefineSubTask("Fetch")
	if err != nil {
		t.Fatalf("DefineSubTask: %v", err)
	}
	if err := r.Register(sub); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition for non-root, got %v", err)
	}
}
