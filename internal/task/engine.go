package task

import (
	"fmt"
	"time"

	"tasktrack/internal/states"
)

// The transition engine.
//
// Every operation is an idempotent no-op when blocked by its guard and
// returns the count of task nodes (across the node, its descendants when
// recursive, and slave trees) that actually changed. Callers use a zero
// count to detect that nothing happened; a blocked transition is never an
// error. Rejected is terminal: every transition skips a Rejected task; only
// Reset clears the marker.

// CompleteOpts gates Complete and its variants.
type CompleteOpts struct {
	// Result is an optional completion payload stored on the task.
	Result any

	// OverrideTimedOut permits completing a task that has already timed
	// out. Without it the transition is blocked, to avoid silently
	// completing work the caller already gave up on.
	OverrideTimedOut bool
}

// TimeoutOpts gates Timeout and its variants.
type TimeoutOpts struct {
	// OverrideCompleted permits timing out an already completed task.
	OverrideCompleted bool

	// OverrideUnstarted permits timing out a task that never started.
	OverrideUnstarted bool

	// ReverseAttempt uncounts the attempt that timed out: if the task's
	// prior state was Started, its attempt count is decremented so the
	// timeout does not consume retry budget.
	ReverseAttempt bool
}

// Start transitions Unstarted to Started, records began via BeganAt
// semantics and increments both attempt counters. Any other current state is
// a no-op. When recursive, every still-unstarted descendant is started too.
func (t *Task) Start(at time.Time, recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		if !n.state.IsUnstarted() {
			return false
		}
		n.state = states.Started()
		n.beganAt(at)
		n.attempts++
		n.totalAttempts++
		return true
	})
}

// Reset unconditionally returns the task to Unstarted, clearing any failed,
// timed-out, completed or rejected marker without touching attempts or
// timing. Used before a fresh retry.
func (t *Task) Reset(recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		if n.state.IsUnstarted() {
			return false
		}
		n.state = states.Unstarted()
		return true
	})
}

// Complete transitions to the standard Completed state.
func (t *Task) Complete(opts CompleteOpts, recursive bool) int {
	return t.completeAs(states.Completed(), opts, recursive)
}

// CompleteAs transitions to a Completed state with a custom display name.
func (t *Task) CompleteAs(name string, opts CompleteOpts, recursive bool) int {
	return t.completeAs(states.CompletedAs(name), opts, recursive)
}

// Succeed transitions to the Succeeded completed sub-variant.
func (t *Task) Succeed(opts CompleteOpts, recursive bool) int {
	return t.completeAs(states.Succeeded(), opts, recursive)
}

func (t *Task) completeAs(st states.State, opts CompleteOpts, recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		if n.state.IsRejected() {
			return false
		}
		if n.state.IsTimedOut() && !opts.OverrideTimedOut {
			return false
		}
		n.state = st
		if opts.Result != nil {
			n.result = opts.Result
		}
		return true
	})
}

// Timeout transitions to the standard TimedOut state carrying err.
func (t *Task) Timeout(err error, opts TimeoutOpts, recursive bool) int {
	return t.timeoutAs(states.TimedOut(err), opts, recursive)
}

// TimeoutAs transitions to a TimedOut state with a custom display name.
func (t *Task) TimeoutAs(name string, err error, opts TimeoutOpts, recursive bool) int {
	return t.timeoutAs(states.TimedOutAs(name, err), opts, recursive)
}

func (t *Task) timeoutAs(st states.State, opts TimeoutOpts, recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		if n.state.IsRejected() {
			return false
		}
		if n.state.IsCompleted() && !opts.OverrideCompleted {
			return false
		}
		if n.state.IsUnstarted() && !opts.OverrideUnstarted {
			return false
		}
		wasStarted := n.state.IsStarted()
		n.state = st
		if opts.ReverseAttempt && wasStarted && n.attempts > 0 {
			n.attempts--
		}
		return true
	})
}

// Fail transitions to the standard Failed state carrying err. Failure
// overrides every non-terminal state unconditionally; only Rejected blocks.
func (t *Task) Fail(err error, recursive bool) int {
	return t.failAs(states.Failed(err), recursive)
}

// FailAs transitions to a Failed state with a custom display name.
func (t *Task) FailAs(name string, err error, recursive bool) int {
	return t.failAs(states.FailedAs(name, err), recursive)
}

func (t *Task) failAs(st states.State, recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		if n.state.IsRejected() {
			return false
		}
		n.state = st
		return true
	})
}

// Reject transitions unconditionally to the terminal Rejected state for
// every task not already Rejected, and returns the count of tasks actually
// transitioned (already-Rejected tasks are skipped and not counted).
func (t *Task) Reject(reason string, err error, recursive bool) int {
	return t.rejectAs(states.Rejected(reason, err), recursive)
}

// RejectAs rejects with a custom display name.
func (t *Task) RejectAs(name, reason string, err error, recursive bool) int {
	return t.rejectAs(states.RejectedAs(name, reason, err), recursive)
}

// Discard rejects with the Discarded sub-variant, for downstream
// classification of retry-budget exhaustion.
func (t *Task) Discard(reason string, err error, recursive bool) int {
	return t.rejectAs(states.Discarded(reason, err), recursive)
}

// Abandon rejects with the Abandoned sub-variant, for work the current code
// no longer intends to perform.
func (t *Task) Abandon(reason string, err error, recursive bool) int {
	return t.rejectAs(states.Abandoned(reason, err), recursive)
}

func (t *Task) rejectAs(st states.State, recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		if n.state.IsRejected() {
			return false
		}
		n.state = st
		return true
	})
}

// DiscardIfOverAttempted discards every non-finalized task whose attempt
// count exceeds maxAttempts; any other task is a no-op. This is the
// retry-budget enforcement primitive; no retry or backoff logic exists in
// the engine itself.
func (t *Task) DiscardIfOverAttempted(maxAttempts int, recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		if n.state.IsFinalized() {
			return false
		}
		if n.attempts <= maxAttempts {
			return false
		}
		reason := fmt.Sprintf("attempted %d times (max %d)", n.attempts, maxAttempts)
		n.state = states.Discarded(reason, nil)
		return true
	})
}

// IncrementAttempts increments both attempt counters. Finalized tasks do not
// accrue further attempts.
func (t *Task) IncrementAttempts(recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		if n.state.IsFinalized() {
			return false
		}
		n.attempts++
		n.totalAttempts++
		return true
	})
}

// DecrementAttempts decrements the current attempt counter. totalAttempts is
// monotonic and is never decremented. Finalized tasks are no-ops.
func (t *Task) DecrementAttempts(recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		if n.state.IsFinalized() {
			return false
		}
		n.attempts--
		return true
	})
}

// BeganAt records the start timestamp.
//
// If a duration was already locked in (took is set), the previous
// measurement no longer applies to the new start reference: both took and
// ended are cleared. If no duration was locked in but an ended value exists,
// took is computed immediately as ended minus the new began, and ended is
// left untouched. These two cases are the whole contract; do not generalize
// beyond them.
func (t *Task) BeganAt(at time.Time, recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		return n.beganAt(at)
	})
}

// EndedAt records the end timestamp and, only if began is already set, locks
// in took = ended - began.
func (t *Task) EndedAt(at time.Time, recursive bool) int {
	return t.transition(recursive, func(n *Task) bool {
		return n.endedAt(at)
	})
}

func (t *Task) beganAt(at time.Time) bool {
	if t.took != nil {
		t.took = nil
		t.ended = nil
	} else if t.ended != nil {
		d := t.ended.Sub(at)
		t.took = &d
	}
	began := at
	t.began = &began
	return true
}

func (t *Task) endedAt(at time.Time) bool {
	ended := at
	t.ended = &ended
	if t.began != nil {
		d := ended.Sub(*t.began)
		t.took = &d
	}
	return true
}
