package ports

import (
	"context"

	"github.com/taskhive/taskhive/internal/core/domain"
)

// CreateProjectInput carries the fields for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	ActorID     string
}

// UpdateProjectInput is a partial patch; nil fields are left unchanged.
type UpdateProjectInput struct {
	ProjectID   string
	ActorID     string
	Name        *string
	Description *string
}

// ProjectSummary is a project annotated with its roster size, used in
// list-for-user responses.
type ProjectSummary struct {
	Project     *domain.Project
	MemberCount int
}

// AddMemberInput identifies the invitee by email. Role defaults to member
// when empty.
type AddMemberInput struct {
	ProjectID string
	ActorID   string
	Email     string
	Role      domain.Role
}

// UpdateMemberRoleInput changes the role of an existing roster entry.
type UpdateMemberRoleInput struct {
	ProjectID string
	ActorID   string
	UserID    string
	Role      domain.Role
}

// ProjectService defines use-case operations for projects and their rosters.
// All roster mutations are owner-only.
type ProjectService interface {
	Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error)
	ListForUser(ctx context.Context, userID string) ([]ProjectSummary, error)
	Get(ctx context.Context, projectID, actorID string) (*domain.Project, error)
	Update(ctx context.Context, input UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, projectID, actorID string) error

	Members(ctx context.Context, projectID, actorID string) ([]domain.Member, error)
	AddMember(ctx context.Context, input AddMemberInput) (*domain.Project, error)
	UpdateMemberRole(ctx context.Context, input UpdateMemberRoleInput) (*domain.Project, error)
	RemoveMember(ctx context.Context, projectID, actorID, userID string) (*domain.Project, error)
}
