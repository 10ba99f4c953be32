package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrPersistence        = errors.New("persistence failed")
	ErrNotification       = errors.New("notification failed")
	ErrExecutionSync      = errors.New("blacklist execution failed")
	ErrArchiveInsert      = errors.New("archive insert failed")
	ErrArchiveDelete      = errors.New("archive delete failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidIntent      = errors.New("invalid blacklist intent")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// ValidationError reports malformed input rejected before persistence.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError is a shorthand for &ValidationError{...}.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is lets both ErrPersistence and the underlying error match.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err unless it already carries a domain meaning.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrPersistence) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// NotificationError means the status change reached the store but the
// customer notification endpoint did not accept it.
type NotificationError struct {
	OrderNumber string
	Status      string
	Err         error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify order %s (%s): %v", e.OrderNumber, e.Status, e.Err)
}

func (e *NotificationError) Is(target error) bool { return target == ErrNotification }

func (e *NotificationError) Unwrap() error { return e.Err }

// ExecutionSyncError means the blacklist was changed locally but the
// execution side effect failed.
type ExecutionSyncError struct {
	Number string
	Intent string
	Err    error
}

func (e *ExecutionSyncError) Error() string {
	return fmt.Sprintf("blacklist %s %s: %v", e.Intent, e.Number, e.Err)
}

func (e *ExecutionSyncError) Is(target error) bool { return target == ErrExecutionSync }

func (e *ExecutionSyncError) Unwrap() error { return e.Err }

// ArchiveStage tells which half of an archive failed.
type ArchiveStage string

const (
	ArchiveStageInsert ArchiveStage = "insert"
	ArchiveStageDelete ArchiveStage = "delete"
)

// ArchiveError is returned by archive when either the copy or the removal fails.
type ArchiveError struct {
	Stage       ArchiveStage
	OrderNumber string
	Err         error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s of order %s: %v", e.Stage, e.OrderNumber, e.Err)
}

func (e *ArchiveError) Is(target error) bool {
	switch e.Stage {
	case ArchiveStageInsert:
		return target == ErrArchiveInsert
	case ArchiveStageDelete:
		return target == ErrArchiveDelete
	}
	return false
}

func (e *ArchiveError) Unwrap() error { return e.Err }
