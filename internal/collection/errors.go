package collection

import (
	"errors"
)

// Rejection sentinels. Every rejected operation wraps exactly one of these.
var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicatePriority = errors.New("duplicate priority")
	ErrNotFound          = errors.New("task not found")
	ErrIllegalState      = errors.New("illegal state")
)

// Reason is the machine-readable classification of a rejected operation
type Reason string

const (
	ReasonValidation        Reason = "validation_error"
	ReasonDuplicatePriority Reason = "duplicate_priority"
	ReasonNotFound          Reason = "not_found"
	ReasonIllegalState      Reason = "illegal_state"
)

// User-facing messages
const (
	MsgAdded             = "Task added successfully!"
	MsgCompleted         = "Task marked as completed!"
	MsgDeleted           = "Task deleted successfully!"
	MsgDuplicatePriority = "Task with the same priority already exists!"
	MsgNotFound          = "Task ID not found."
	MsgListEmpty         = "Task list is empty."
	MsgNotCompleted      = "Only completed tasks can be deleted."
)

// Rejection carries the classification and message of a rejected operation
type Rejection struct {
	Reason  Reason
	Message string
	err     error
}

func (r *Rejection) Error() string {
	return r.err.Error() + ": " + r.Message
}

func (r *Rejection) Unwrap() error {
	return r.err
}

func reject(sentinel error, reason Reason, message string) error {
	return &Rejection{Reason: reason, Message: message, err: sentinel}
}

func validationError(message string) error {
	return reject(ErrValidation, ReasonValidation, message)
}

func duplicatePriority() error {
	return reject(ErrDuplicatePriority, ReasonDuplicatePriority, MsgDuplicatePriority)
}

func notFound(message string) error {
	return reject(ErrNotFound, ReasonNotFound, message)
}

func notCompleted() error {
	return reject(ErrIllegalState, ReasonIllegalState, MsgNotCompleted)
}

// AsRejection extracts the Rejection from err, if any.
// Errors that are not rejections are backend failures.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// ReasonOf returns the reason code of a rejected operation, or "" for
// anything else (including nil).
func ReasonOf(err error) Reason {
	if r, ok := AsRejection(err); ok {
		return r.Reason
	}
	return ""
}
