package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors. The transport layer maps these to HTTP status codes in one
// place; services never reference status codes.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrUserNotFound       = errors.New("user not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubtaskNotFound    = errors.New("subtask not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrMemberNotFound     = errors.New("member not found in this project")

	ErrNotProjectMember = errors.New("you are not a member of this project")
	ErrNotProjectOwner  = errors.New("only the project owner can perform this action")
	ErrInsufficientRole = errors.New("you don't have permission to perform this action")

	ErrUserExists      = errors.New("user already exists")
	ErrAlreadyMember   = errors.New("user is already a member of this project")
	ErrVersionConflict = errors.New("entity was modified concurrently")
)

// ValidationError carries a human-readable message and matches ErrValidation
// under errors.Is.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
