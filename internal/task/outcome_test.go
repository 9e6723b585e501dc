package task

import (
	"errors"
	"testing"
)

func TestNormalizeOutcome_PlainValueAndError(t *testing.T) {
	if o := NormalizeOutcome(ReturnModeNormal, "value", nil); !o.Success || o.Value != "value" {
		t.Fatalf("unexpected outcome: %+v", o)
	}
	boom := errors.New("boom")
	if o := NormalizeOutcome(ReturnModeNormal, nil, boom); o.Success || o.Err != boom {
		t.Fatalf("unexpected outcome: %+v", o)
	}
}

func TestNormalizeOutcome_TaggedSuccessOrFailurePassesThrough(t *testing.T) {
	tagged := Outcome{Success: false, Err: errors.New("boom"), Value: "partial"}
	o := NormalizeOutcome(ReturnModeSuccessOrFailure, tagged, nil)
	if o != tagged {
		t.Fatalf("expected tagged outcome passed through, got %+v", o)
	}
	// A body in this mode that returns a plain value degrades to normal.
	if o := NormalizeOutcome(ReturnModeSuccessOrFailure, "plain", nil); !o.Success || o.Value != "plain" {
		t.Fatalf("unexpected outcome: %+v", o)
	}
}

func TestNormalizeOutcome_DeferredThunkResolved(t *testing.T) {
	thunk := Thunk(func() (any, error) { return 7, nil })
	if o := NormalizeOutcome(ReturnModeDeferred, thunk, nil); !o.Success || o.Value != 7 {
		t.Fatalf("unexpected outcome: %+v", o)
	}
	failing := Thunk(func() (any, error) { return nil, errors.New("boom") })
	if o := NormalizeOutcome(ReturnModeDeferred, failing, nil); o.Success || o.Err == nil {
		t.Fatalf("unexpected outcome: %+v", o)
	}
}
