package states

// Standard display names for the state variants. A State may carry a custom
// name instead (via the ...As constructors); its Kind is authoritative for
// all transition decisions.
const (
	NameUnstarted = "Unstarted"
	NameStarted   = "Started"
	NameCompleted = "Completed"
	NameSucceeded = "Succeeded"
	NameTimedOut  = "TimedOut"
	NameFailed    = "Failed"
	NameRejected  = "Rejected"
	NameDiscarded = "Discarded"
	NameAbandoned = "Abandoned"
)

// ErrorInfo is the plain-data form of an error carried by a Failed, TimedOut
// or Rejected state. Carried errors are stored as payload, never thrown.
type ErrorInfo struct {
	Message string `json:"message"`
}

// NewErrorInfo captures err as plain data. Returns nil for a nil error.
func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	return &ErrorInfo{Message: err.Error()}
}

// State is an immutable task state value.
//
// Its zero value has an unknown kind and compares less advanced than every
// named kind; tasks are always initialized to Unstarted() instead.
type State struct {
	name   string
	kind   Kind
	err    *ErrorInfo
	reason string
}

// Unstarted returns the initial state.
func Unstarted() State { return State{name: NameUnstarted, kind: KindUnstarted} }

// Started returns the in-progress state.
func Started() State { return State{name: NameStarted, kind: KindStarted} }

// Completed returns the standard completed state.
func Completed() State { return State{name: NameCompleted, kind: KindCompleted} }

// CompletedAs returns a completed state with a custom display name.
func CompletedAs(name string) State { return State{name: name, kind: KindCompleted} }

// Succeeded returns the Succeeded sub-variant of the completed state.
func Succeeded() State { return CompletedAs(NameSucceeded) }

// TimedOut returns the timed-out state carrying err (which may be nil).
func TimedOut(err error) State { return TimedOutAs(NameTimedOut, err) }

// TimedOutAs returns a timed-out state with a custom display name.
func TimedOutAs(name string, err error) State {
	return State{name: name, kind: KindTimedOut, err: NewErrorInfo(err)}
}

// Failed returns the failed state carrying err (which may be nil).
func Failed(err error) State { return FailedAs(NameFailed, err) }

// FailedAs returns a failed state with a custom display name.
func FailedAs(name string, err error) State {
	return State{name: name, kind: KindFailed, err: NewErrorInfo(err)}
}

// Rejected returns the terminal rejected state with a reason and optional err.
func Rejected(reason string, err error) State { return RejectedAs(NameRejected, reason, err) }

// RejectedAs returns a rejected state with a custom display name.
func RejectedAs(name, reason string, err error) State {
	return State{name: name, kind: KindRejected, err: NewErrorInfo(err), reason: reason}
}

// Discarded returns the Discarded sub-variant of the rejected state, used
// when a task's retry budget is exhausted.
func Discarded(reason string, err error) State { return RejectedAs(NameDiscarded, reason, err) }

// Abandoned returns the Abandoned sub-variant of the rejected state, used
// when a task's definition is no longer part of the active definition set.
func Abandoned(reason string, err error) State { return RejectedAs(NameAbandoned, reason, err) }

// New builds a State from its plain-data parts. Used when reconstituting
// states from snapshots; unknown kinds are preserved as-is.
func New(name string, kind Kind, errInfo *ErrorInfo, reason string) State {
	return State{name: name, kind: kind, err: errInfo, reason: reason}
}

// Name returns the display name.
func (s State) Name() string { return s.name }

// Kind returns the logical state type.
func (s State) Kind() Kind { return s.kind }

// Err returns the carried error payload, or nil.
func (s State) Err() *ErrorInfo { return s.err }

// Reason returns the rejection reason, or "".
func (s State) Reason() string { return s.reason }

func (s State) IsUnstarted() bool { return s.kind == KindUnstarted }
func (s State) IsStarted() bool   { return s.kind == KindStarted }
func (s State) IsCompleted() bool { return s.kind == KindCompleted }
func (s State) IsTimedOut() bool  { return s.kind == KindTimedOut }
func (s State) IsFailed() bool    { return s.kind == KindFailed }
func (s State) IsRejected() bool  { return s.kind == KindRejected }

// IsSucceeded reports whether this is the Succeeded completed sub-variant.
func (s State) IsSucceeded() bool { return s.kind == KindCompleted && s.name == NameSucceeded }

// IsDiscarded reports whether this is the Discarded rejected sub-variant.
func (s State) IsDiscarded() bool { return s.kind == KindRejected && s.name == NameDiscarded }

// IsAbandoned reports whether this is the Abandoned rejected sub-variant.
func (s State) IsAbandoned() bool { return s.kind == KindRejected && s.name == NameAbandoned }

// IsFinalized reports whether the state is Completed or Rejected, i.e. the
// task is no longer expected to be retried.
func (s State) IsFinalized() bool { return s.kind == KindCompleted || s.kind == KindRejected }

// Compare compares the advancement of two states by kind. See CompareKinds.
func (s State) Compare(other State) int { return CompareKinds(s.kind, other.kind) }
