package task

import (
	"errors"
	"testing"
	"time"
)

func TestSnapshot_CapturesTreeStateAndBookkeeping(t *testing.T) {
	tk := newTree(t, "Load", "Fetch", "Write")
	tk.Start(time.Unix(100, 0).UTC(), true)
	fetch, _ := tk.Child("Fetch")
	fetch.Fail(errors.New("boom"), false)

	like := tk.Snapshot()
	if like.Name != "Load" || like.State == nil || !like.State.IsStarted() {
		t.Fatalf("unexpected root snapshot: %+v", like)
	}
	if like.Attempts != 1 || like.Began == nil {
		t.Fatalf("unexpected bookkeeping: attempts=%d began=%v", like.Attempts, like.Began)
	}
	if len(like.SubTasks) != 2 {
		t.Fatalf("expected 2 sub-task snapshots, got %d", len(like.SubTasks))
	}
	if sub := like.SubTasks[0]; sub.Name != "Fetch" || !sub.State.IsFailed() {
		t.Fatalf("unexpected sub-task snapshot: %+v", sub)
	}
	if sub := like.SubTasks[0]; sub.State.Err() == nil || sub.State.Err().Message != "boom" {
		t.Fatalf("expected carried error in snapshot, got %+v", sub.State.Err())
	}
}

func TestAsTaskLike_RecognizesTasksAndRejectsWrongShapes(t *testing.T) {
	tk := newTree(t, "Load")
	if like, ok := AsTaskLike(tk); !ok || like.Name != "Load" {
		t.Fatalf("expected live task recognized, got %v %v", like, ok)
	}
	if like, ok := AsTaskLike(tk.Snapshot()); !ok || like.Name != "Load" {
		t.Fatalf("expected TaskLike recognized, got %v %v", like, ok)
	}

	for _, v := range []any{
		nil,
		"Load",
		42,
		map[string]any{"state": map[string]any{"kind": "Failed"}}, // no name
		map[string]any{"name": ""},
		(*Task)(nil),
	} {
		if _, ok := AsTaskLike(v); ok {
			t.Fatalf("expected %#v to be unrecognized", v)
		}
	}
}
