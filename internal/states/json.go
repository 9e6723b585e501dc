package states

import "encoding/json"

// stateJSON is the wire shape of a State inside a task snapshot:
//
//	{ "name": ..., "kind": ..., "error"?: ..., "reason"?: ... }
type stateJSON struct {
	Name   string     `json:"name"`
	Kind   Kind       `json:"kind"`
	Error  *ErrorInfo `json:"error,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

// MarshalJSON serializes the state in its snapshot shape.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{Name: s.name, Kind: s.kind, Error: s.err, Reason: s.reason})
}

// UnmarshalJSON reconstitutes a state from its snapshot shape. Unknown kinds
// are preserved; they compare less advanced than every named kind.
func (s *State) UnmarshalJSON(data []byte) error {
	var w stateJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = State{name: w.Name, kind: w.Kind, err: w.Error, reason: w.Reason}
	return nil
}
