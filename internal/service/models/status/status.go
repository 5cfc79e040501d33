package status

import (
	"database/sql/driver"
	"errors"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSubmitted Status = "Submitted"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

var ErrInvalidStatus = errors.New("invalid status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether s -> to is an allowed lifecycle step.
// Cancelling an already cancelled order is allowed (idempotent).
func (s Status) CanTransition(to Status) bool {
	switch to {
	case StatusSubmitted:
		return s == StatusDraft
	case StatusCompleted:
		return s == StatusSubmitted
	case StatusCancelled:
		return s != StatusCompleted
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case StatusDraft.String():
		return StatusDraft, nil
	case StatusSubmitted.String():
		return StatusSubmitted, nil
	case StatusCompleted.String():
		return StatusCompleted, nil
	case StatusCancelled.String():
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}
