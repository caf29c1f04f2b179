package models

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the pool subsystem. Handlers map these onto
// HTTP statuses; batch operations classify them into result lists instead
// of aborting.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicate          = errors.New("number already exists")
	ErrNotFound           = errors.New("not found")
	ErrStateConflict      = errors.New("illegal status transition")
	ErrNoAvailableNumbers = errors.New("no available numbers")
	ErrProcessing         = errors.New("processing failed")
)

// CannotDeleteError is a deletion-guard veto. It carries the reason so bulk
// reports can show why a number was skipped.
type CannotDeleteError struct {
	Number string
	Reason string
}

func (e *CannotDeleteError) Error() string {
	return fmt.Sprintf("cannot delete %s: %s", e.Number, e.Reason)
}
