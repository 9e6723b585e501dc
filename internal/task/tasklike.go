package task

import (
	"time"

	"tasktrack/internal/states"
)

// TaskLike is the plain, behavior-less snapshot of a Task: the shape that
// round-trips through serialization between process invocations. All fields
// are optional except Name.
type TaskLike struct {
	Name          string         `json:"name"`
	State         *states.State  `json:"state,omitempty"`
	Attempts      int            `json:"attempts"`
	TotalAttempts int            `json:"totalAttempts"`
	Began         *time.Time     `json:"began,omitempty"`
	Ended         *time.Time     `json:"ended,omitempty"`
	Took          *time.Duration `json:"took,omitempty"`
	SubTasks      []TaskLike     `json:"subTasks,omitempty"`
}

// Snapshot captures the task tree as plain data.
func (t *Task) Snapshot() TaskLike {
	st := t.state
	like := TaskLike{
		Name:          t.Name(),
		State:         &st,
		Attempts:      t.attempts,
		TotalAttempts: t.totalAttempts,
		Began:         copyTime(t.began),
		Ended:         copyTime(t.ended),
		Took:          t.Took(),
	}
	for _, c := range t.children {
		like.SubTasks = append(like.SubTasks, c.Snapshot())
	}
	return like
}

// AsTaskLike recognizes v as a task snapshot by shape.
//
// It accepts a TaskLike (or pointer), a live *Task, or a JSON-decoded
// map[string]any. A value of the wrong shape, or one missing a name, is not
// an error: recognition simply fails and the caller treats the snapshot as
// absent.
func AsTaskLike(v any) (TaskLike, bool) {
	switch x := v.(type) {
	case TaskLike:
		return x, x.Name != ""
	case *TaskLike:
		if x == nil {
			return TaskLike{}, false
		}
		return *x, x.Name != ""
	case *Task:
		if x == nil {
			return TaskLike{}, false
		}
		return x.Snapshot(), true
	case map[string]any:
		return taskLikeFromMap(x)
	default:
		return TaskLike{}, false
	}
}

func taskLikeFromMap(m map[string]any) (TaskLike, bool) {
	name, ok := m["name"].(string)
	if !ok || name == "" {
		return TaskLike{}, false
	}
	like := TaskLike{
		Name:          name,
		Attempts:      intField(m, "attempts"),
		TotalAttempts: intField(m, "totalAttempts"),
		Began:         timeField(m, "began"),
		Ended:         timeField(m, "ended"),
		Took:          durationField(m, "took"),
	}
	if sm, ok := m["state"].(map[string]any); ok {
		like.State = stateFromMap(sm)
	}
	if subs, ok := m["subTasks"].([]any); ok {
		for _, sv := range subs {
			if sub, ok := AsTaskLike(sv); ok {
				like.SubTasks = append(like.SubTasks, sub)
			}
		}
	}
	return like, true
}

func stateFromMap(m map[string]any) *states.State {
	name, _ := m["name"].(string)
	kind, _ := m["kind"].(string)
	var errInfo *states.ErrorInfo
	if em, ok := m["error"].(map[string]any); ok {
		msg, _ := em["message"].(string)
		errInfo = &states.ErrorInfo{Message: msg}
	}
	reason, _ := m["reason"].(string)
	st := states.New(name, states.Kind(kind), errInfo, reason)
	return &st
}

// intField reads an integer that may arrive as a float64 (the default JSON
// number decoding) or as a native int.
func intField(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// timeField reads an RFC 3339 timestamp string or a native time.Time.
func timeField(m map[string]any, key string) *time.Time {
	switch v := m[key].(type) {
	case string:
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil
		}
		return &ts
	case time.Time:
		return &v
	default:
		return nil
	}
}

// durationField reads a duration in nanoseconds (time.Duration's JSON form).
func durationField(m map[string]any, key string) *time.Duration {
	switch v := m[key].(type) {
	case float64:
		d := time.Duration(v)
		return &d
	case int:
		d := time.Duration(v)
		return &d
	default:
		return nil
	}
}
