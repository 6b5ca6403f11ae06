package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNilBlock is returned when a nil block is written to an appender.
	ErrNilBlock = errors.New("nil block")

	// ErrNilTransform is returned when a mutation carries no transform.
	ErrNilTransform = errors.New("mutation transform is nil")

	// ErrInvalidMutationMode is returned for an unknown mutation mode.
	ErrInvalidMutationMode = errors.New("invalid mutation mode")
)

// ErrBatchCountMismatch indicates a mutation transform that produced a
// different number of output blocks than it was given. This is a defect in
// the collaborator supplying the transform, not a recoverable condition;
// nothing is published when it is returned.
type ErrBatchCountMismatch struct {
	Got  int
	Want int
}

func (e *ErrBatchCountMismatch) Error() string {
	return fmt.Sprintf("mutation transform produced %d blocks, want %d", e.Got, e.Want)
}
