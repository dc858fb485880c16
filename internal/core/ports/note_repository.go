package ports

import (
	"context"

	"github.com/taskhive/taskhive/internal/core/domain"
)

// NoteRepository defines persistence for notes. FindByID looks the note up by
// id alone; the service verifies the project reference afterwards.
type NoteRepository interface {
	Create(ctx context.Context, n *domain.Note) (*domain.Note, error)
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Note, error)
	Update(ctx context.Context, n *domain.Note) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}
