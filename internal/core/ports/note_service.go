package ports

import (
	"context"

	"github.com/taskhive/taskhive/internal/core/domain"
)

// CreateNoteInput carries the fields for creating a note.
type CreateNoteInput struct {
	ProjectID string
	ActorID   string
	Title     string
	Content   string
}

// UpdateNoteInput is a partial patch; nil fields are left unchanged.
type UpdateNoteInput struct {
	ProjectID string
	NoteID    string
	ActorID   string
	Title     *string
	Content   *string
}

// NoteService defines use-case operations for notes. Reads require
// membership; mutations require the admin role strictly.
type NoteService interface {
	Create(ctx context.Context, input CreateNoteInput) (*domain.Note, error)
	List(ctx context.Context, projectID, actorID string) ([]*domain.Note, error)
	Get(ctx context.Context, projectID, noteID, actorID string) (*domain.Note, error)
	Update(ctx context.Context, input UpdateNoteInput) (*domain.Note, error)
	Delete(ctx context.Context, projectID, noteID, actorID string) error
}
