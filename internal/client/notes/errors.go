package notes

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("note not found")
	ErrRemoteUnavailable = errors.New("remote note store unavailable")
	ErrMalformedImport   = errors.New("malformed import file")
	ErrNothingToExport   = errors.New("nothing to export")
	ErrBackupFailed      = errors.New("backup failed")
	ErrBackupNotAllowed  = errors.New("backup is not allowed for this account")
	ErrGuestSession      = errors.New("not available in a guest session")
	ErrNotLoaded         = errors.New("note store is not loaded")
)

// ValidationError describes a rejected field of a create/update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type MalformedImportError struct {
	Reason string
	Err    error
}

func (e *MalformedImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed import file: %s: %v", e.Reason, e.Err)
	}
	return "malformed import file: " + e.Reason
}

func (e *MalformedImportError) Is(target error) bool { return target == ErrMalformedImport }

func (e *MalformedImportError) Unwrap() error { return e.Err }

// BackupStep names the remote call a backup failed at.
type BackupStep string

const (
	BackupStepDelete BackupStep = "delete"
	BackupStepInsert BackupStep = "insert"
)

type BackupError struct {
	Step BackupStep
	Err  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup failed at %s step: %v", e.Step, e.Err)
}

func (e *BackupError) Is(target error) bool { return target == ErrBackupFailed }

func (e *BackupError) Unwrap() error { return e.Err }
