// Package states defines the task state model: the StateType ordering used
// for advancement comparisons, and the State tagged union with one
// constructor per kind.
//
// It is intentionally split from the task engine (internal/task), which
// consumes these values but never constructs ad hoc variants of its own.
package states

// Kind is the logical type of a task state.
//
// A fixed ascending advancement order exists over the kinds:
//
//	Unstarted < Started < Failed < TimedOut < Completed < Rejected
//
// The order expresses advancement only, not temporal sequence: Failed can
// occur after Started and remains less advanced than Completed or Rejected,
// meaning either can still override it.
type Kind string

const (
	KindUnstarted Kind = "Unstarted"
	KindStarted   Kind = "Started"
	KindFailed    Kind = "Failed"
	KindTimedOut  Kind = "TimedOut"
	KindCompleted Kind = "Completed"
	KindRejected  Kind = "Rejected"
)

// kindOrder maps each kind to its position in the advancement sequence.
var kindOrder = map[Kind]int{
	KindUnstarted: 0,
	KindStarted:   1,
	KindFailed:    2,
	KindTimedOut:  3,
	KindCompleted: 4,
	KindRejected:  5,
}

// kindPos returns the advancement position of k. Unknown kinds sort before
// every named kind (position -1).
func kindPos(k Kind) int {
	if p, ok := kindOrder[k]; ok {
		return p
	}
	return -1
}

// CompareKinds compares two kinds by advancement.
//
// The result is the difference of the kinds' positions in the fixed
// advancement sequence: negative when a is less advanced than b, zero when
// equal, positive when more advanced. For all pairs,
// CompareKinds(a, b) == -CompareKinds(b, a).
func CompareKinds(a, b Kind) int {
	return kindPos(a) - kindPos(b)
}
