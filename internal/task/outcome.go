package task

// Outcome is the normalized result of invoking a task's execute body: a
// plain value, a tagged success/failure, or a resolved deferred value all
// reduce to this one shape.
type Outcome struct {
	Success bool
	Value   any
	Err     error
}

// Thunk is a deferred execute result, resolved by NormalizeOutcome under
// ReturnModeDeferred.
type Thunk func() (any, error)

// NormalizeOutcome reduces an execute body's (value, error) pair to an
// Outcome according to mode. It is a thin adapter; it never invokes the
// body itself.
func NormalizeOutcome(mode ReturnMode, value any, err error) Outcome {
	switch mode {
	case ReturnModeSuccessOrFailure:
		if o, ok := value.(Outcome); ok {
			return o
		}
	case ReturnModeDeferred:
		if thunk, ok := value.(Thunk); ok && err == nil {
			value, err = thunk()
		}
	}
	if err != nil {
		return Outcome{Success: false, Value: value, Err: err}
	}
	return Outcome{Success: true, Value: value}
}
