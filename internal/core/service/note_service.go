package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/core/domain"
	"github.com/taskhive/taskhive/internal/core/ports"
)

// NoteService implements note use cases. Reads require membership; mutations
// require the admin role strictly; project_admin is not enough here, unlike
// tasks.
type NoteService struct {
	notes    ports.NoteRepository
	projects ports.ProjectRepository
	log      zerolog.Logger
}

func NewNoteService(notes ports.NoteRepository, projects ports.ProjectRepository, log zerolog.Logger) *NoteService {
	return &NoteService{notes: notes, projects: projects, log: log}
}

func (s *NoteService) Create(ctx context.Context, input ports.CreateNoteInput) (*domain.Note, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(project, input.ActorID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if input.Title == "" || input.Content == "" {
		return nil, domain.Validationf("title and content are required")
	}

	now := time.Now().UTC()
	note := &domain.Note{
		ProjectID: input.ProjectID,
		Title:     input.Title,
		Content:   input.Content,
		CreatedBy: input.ActorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.notes.Create(ctx, note)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("note_id", created.ID).Str("project_id", input.ProjectID).Msg("note created")
	return created, nil
}

func (s *NoteService) List(ctx context.Context, projectID, actorID string) ([]*domain.Note, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(project, actorID); err != nil {
		return nil, err
	}
	return s.notes.ListByProject(ctx, projectID)
}

func (s *NoteService) Get(ctx context.Context, projectID, noteID, actorID string) (*domain.Note, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(project, actorID); err != nil {
		return nil, err
	}

	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.ProjectID != projectID {
		return nil, domain.Validationf("note does not belong to this project")
	}
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, input ports.UpdateNoteInput) (*domain.Note, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(project, input.ActorID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	note, err := s.notes.FindByID(ctx, input.NoteID)
	if err != nil {
		return nil, err
	}
	if note.ProjectID != input.ProjectID {
		return nil, domain.Validationf("note does not belong to this project")
	}

	if input.Title != nil && *input.Title != "" {
		note.Title = *input.Title
	}
	if input.Content != nil && *input.Content != "" {
		note.Content = *input.Content
	}
	note.UpdatedAt = time.Now().UTC()

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, projectID, noteID, actorID string) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if _, err := requireRole(project, actorID, domain.RoleAdmin); err != nil {
		return err
	}

	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.ProjectID != projectID {
		return domain.Validationf("note does not belong to this project")
	}

	if err := s.notes.Delete(ctx, noteID); err != nil {
		return err
	}
	s.log.Info().Str("note_id", noteID).Str("project_id", projectID).Msg("note deleted")
	return nil
}
