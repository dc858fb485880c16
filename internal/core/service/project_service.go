package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/core/domain"
	"github.com/taskhive/taskhive/internal/core/ports"
)

// ProjectService implements project CRUD and roster management. The creator
// becomes the immutable owner and the first roster entry with the admin role;
// every roster mutation is owner-only.
type ProjectService struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
	tasks    ports.TaskRepository
	notes    ports.NoteRepository
	log      zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectRepository,
	users ports.UserRepository,
	tasks ports.TaskRepository,
	notes ports.NoteRepository,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{projects: projects, users: users, tasks: tasks, notes: notes, log: log}
}

func (s *ProjectService) Create(ctx context.Context, input ports.CreateProjectInput) (*domain.Project, error) {
	if input.Name == "" || input.Description == "" {
		return nil, domain.Validationf("name and description are required")
	}

	now := time.Now().UTC()
	project := &domain.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.ActorID,
		Members: []domain.Member{
			{UserID: input.ActorID, Role: domain.RoleAdmin, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create project")
		return nil, err
	}

	s.log.Info().Str("project_id", created.ID).Str("owner_id", input.ActorID).Msg("project created")
	return created, nil
}

func (s *ProjectService) ListForUser(ctx context.Context, userID string) ([]ports.ProjectSummary, error) {
	projects, err := s.projects.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, ports.ProjectSummary{Project: p, MemberCount: len(p.Members)})
	}
	return summaries, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID, actorID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(project, actorID); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, input ports.UpdateProjectInput) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(project, input.ActorID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, domain.Validationf("name is required")
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project and cascades to its tasks and notes. Children go
// first so the authorization root keeps gating access until the very end.
func (s *ProjectService) Delete(ctx context.Context, projectID, actorID string) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if err := requireOwner(project, actorID); err != nil {
		return err
	}

	if err := s.tasks.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.notes.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}

	s.log.Info().Str("project_id", projectID).Msg("project deleted")
	return nil
}

func (s *ProjectService) Members(ctx context.Context, projectID, actorID string) ([]domain.Member, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsMember(actorID) && !project.IsOwner(actorID) {
		return nil, domain.ErrNotProjectMember
	}
	return project.Members, nil
}

func (s *ProjectService) AddMember(ctx context.Context, input ports.AddMemberInput) (*domain.Project, error) {
	if input.Email == "" {
		return nil, domain.Validationf("email is required")
	}
	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !domain.ValidRole(role) {
		return nil, domain.Validationf("invalid role: must be admin, project_admin, or member")
	}

	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(project, input.ActorID); err != nil {
		return nil, err
	}

	invitee, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if project.IsMember(invitee.ID) {
		return nil, domain.ErrAlreadyMember
	}

	now := time.Now().UTC()
	project.Members = append(project.Members, domain.Member{
		UserID:   invitee.ID,
		Role:     role,
		JoinedAt: now,
	})
	project.UpdatedAt = now

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("project_id", project.ID).
		Str("user_id", invitee.ID).
		Str("role", string(role)).
		Msg("member added")
	return project, nil
}

func (s *ProjectService) UpdateMemberRole(ctx context.Context, input ports.UpdateMemberRoleInput) (*domain.Project, error) {
	if input.Role == "" {
		return nil, domain.Validationf("role is required")
	}
	if !domain.ValidRole(input.Role) {
		return nil, domain.Validationf("invalid role: must be admin, project_admin, or member")
	}

	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(project, input.ActorID); err != nil {
		return nil, err
	}

	member, ok := project.Member(input.UserID)
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	if project.IsOwner(input.UserID) {
		return nil, domain.Validationf("cannot change the project owner's role")
	}

	member.Role = input.Role
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, projectID, actorID, userID string) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(project, actorID); err != nil {
		return nil, err
	}

	if !project.IsMember(userID) {
		return nil, domain.ErrMemberNotFound
	}
	if project.IsOwner(userID) {
		return nil, domain.Validationf("cannot remove the project owner")
	}

	members := project.Members[:0]
	for _, m := range project.Members {
		if m.UserID != userID {
			members = append(members, m)
		}
	}
	project.Members = members
	project.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	s.log.Info().Str("project_id", projectID).Str("user_id", userID).Msg("member removed")
	return project, nil
}
