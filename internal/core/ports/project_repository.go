package ports

import (
	"context"

	"github.com/taskhive/taskhive/internal/core/domain"
)

// ProjectRepository defines persistence for project aggregates, including the
// embedded roster.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// ListByMember returns every project whose roster contains userID,
	// newest-created first.
	ListByMember(ctx context.Context, userID string) ([]*domain.Project, error)
	// Update persists name, description and roster of a loaded project. The
	// write is guarded by the loaded version; a concurrent writer surfaces as
	// domain.ErrVersionConflict.
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}
