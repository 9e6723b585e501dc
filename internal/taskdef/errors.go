package taskdef

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDefinition = errors.New("invalid task definition")
	ErrCyclicDefinition  = errors.New("cyclic task definition")
)

// DefinitionError wraps deterministic definition validation failures.
type DefinitionError struct {
	Kind error
	Msg  string
}

func (e *DefinitionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *DefinitionError) Unwrap() error { return e.Kind }

func invalidf(format string, args ...any) error {
	return &DefinitionError{Kind: ErrInvalidDefinition, Msg: fmt.Sprintf(format, args...)}
}

func cycleError(path []string) error {
	msg := "cycle"
	if len(path) > 0 {
		msg = "cycle: " + strings.Join(path, " -> ")
	}
	return &DefinitionError{Kind: ErrCyclicDefinition, Msg: msg}
}
