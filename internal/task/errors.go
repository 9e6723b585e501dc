package task

import (
	"errors"
	"fmt"
)

var (
	ErrNilDefinition   = errors.New("nil task definition")
	ErrSlaveDefinition = errors.New("slave task definition mismatch")

	errNilSlave = fmt.Errorf("%w: nil slave task", ErrSlaveDefinition)
)

func errSlaveDefinitionMismatch(master, slave *Task) error {
	return fmt.Errorf("%w: slave %q does not share master %q's definition",
		ErrSlaveDefinition, slave.Name(), master.Name())
}
