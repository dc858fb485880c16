package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/core/domain"
	"github.com/taskhive/taskhive/internal/core/ports"
)

// taskSortFields whitelists caller-chosen sort fields for task listings.
var taskSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"due_date":   "due_date",
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
}

// TaskService implements task, subtask and attachment use cases. Mutations
// are gated to admin|project_admin; reads and attachment upload only require
// membership.
type TaskService struct {
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	users    ports.UserRepository
	blobs    ports.BlobStore
	log      zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	blobs ports.BlobStore,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, users: users, blobs: blobs, log: log}
}

func (s *TaskService) Create(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(project, input.ActorID, domain.RoleAdmin, domain.RoleProjectAdmin); err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, domain.Validationf("title is required")
	}

	priority := domain.TaskPriority(input.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, domain.Validationf("invalid priority: must be low, medium, or high")
	}

	if input.AssignedTo != "" {
		if err := s.checkAssignee(ctx, project, input.AssignedTo); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.ActorID,
		Status:      domain.StatusTodo,
		Priority:    priority,
		DueDate:     input.DueDate,
		Subtasks:    []domain.Subtask{},
		Attachments: []domain.Attachment{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.log.Error().Err(err).Str("project_id", input.ProjectID).Msg("failed to create task")
		return nil, err
	}

	s.log.Info().Str("task_id", created.ID).Str("project_id", input.ProjectID).Msg("task created")
	return created, nil
}

func (s *TaskService) List(ctx context.Context, input ports.ListTasksInput) ([]*domain.Task, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(project, input.ActorID); err != nil {
		return nil, err
	}

	sortBy := "created_at"
	if input.SortBy != "" {
		field, ok := taskSortFields[input.SortBy]
		if !ok {
			return nil, domain.Validationf("invalid sort field: %s", input.SortBy)
		}
		sortBy = field
	}

	return s.tasks.List(ctx, ports.ListTasksFilter{
		ProjectID:  input.ProjectID,
		Status:     input.Status,
		AssignedTo: input.AssignedTo,
		Priority:   input.Priority,
		SortBy:     sortBy,
		SortDesc:   input.SortOrder != "asc",
	})
}

func (s *TaskService) Get(ctx context.Context, projectID, taskID, actorID string) (*domain.Task, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(project, actorID); err != nil {
		return nil, err
	}
	return s.tasks.FindByID(ctx, projectID, taskID)
}

func (s *TaskService) Update(ctx context.Context, input ports.UpdateTaskInput) (*domain.Task, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(project, input.ActorID, domain.RoleAdmin, domain.RoleProjectAdmin); err != nil {
		return nil, err
	}

	// Validate the whole patch before touching the task: a failure after a
	// partial apply must never be persisted.
	if input.Status != nil && *input.Status != "" && !domain.ValidStatus(domain.TaskStatus(*input.Status)) {
		return nil, domain.Validationf("invalid status: must be todo, in_progress, or done")
	}
	if input.Priority != nil && *input.Priority != "" && !domain.ValidPriority(domain.TaskPriority(*input.Priority)) {
		return nil, domain.Validationf("invalid priority: must be low, medium, or high")
	}
	if input.AssignedToSet && input.AssignedTo != nil && *input.AssignedTo != "" {
		if err := s.checkAssignee(ctx, project, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.FindByID(ctx, input.ProjectID, input.TaskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil && *input.Title != "" {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil && *input.Status != "" {
		task.Status = domain.TaskStatus(*input.Status)
	}
	if input.Priority != nil && *input.Priority != "" {
		task.Priority = domain.TaskPriority(*input.Priority)
	}
	if input.AssignedToSet {
		if input.AssignedTo == nil || *input.AssignedTo == "" {
			task.AssignedTo = ""
		} else {
			task.AssignedTo = *input.AssignedTo
		}
	}
	if input.DueDateSet {
		task.DueDate = input.DueDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, projectID, taskID, actorID string) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if _, err := requireRole(project, actorID, domain.RoleAdmin, domain.RoleProjectAdmin); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, projectID, taskID); err != nil {
		return err
	}
	s.log.Info().Str("task_id", taskID).Str("project_id", projectID).Msg("task deleted")
	return nil
}

func (s *TaskService) CreateSubtask(ctx context.Context, input ports.CreateSubtaskInput) (*domain.Task, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(project, input.ActorID, domain.RoleAdmin, domain.RoleProjectAdmin); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, domain.Validationf("title is required")
	}

	task, err := s.tasks.FindByID(ctx, input.ProjectID, input.TaskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	subtask := domain.Subtask{
		ID:        uuid.NewString(),
		Title:     input.Title,
		CreatedBy: input.ActorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.tasks.AddSubtask(ctx, task.ID, task.Version, subtask); err != nil {
		return nil, err
	}
	task.Subtasks = append(task.Subtasks, subtask)
	task.Version++
	return task, nil
}

// UpdateSubtask allows the subtask creator or an admin/project_admin to patch
// it, except the title, which only admin/project_admin may change.
func (s *TaskService) UpdateSubtask(ctx context.Context, input ports.UpdateSubtaskInput) (*domain.Task, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	member, err := requireMember(project, input.ActorID)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.FindBySubtask(ctx, input.ProjectID, input.SubtaskID)
	if err != nil {
		return nil, err
	}
	subtask, ok := task.Subtask(input.SubtaskID)
	if !ok {
		return nil, domain.ErrSubtaskNotFound
	}

	isElevated := member.Role == domain.RoleAdmin || member.Role == domain.RoleProjectAdmin
	isCreator := subtask.CreatedBy == input.ActorID
	if !isElevated && !isCreator {
		return nil, domain.ErrInsufficientRole
	}
	if input.Title != nil && *input.Title != "" && !isElevated {
		return nil, domain.ErrInsufficientRole
	}

	if input.Title != nil && *input.Title != "" {
		subtask.Title = *input.Title
	}
	if input.IsCompleted != nil {
		subtask.IsCompleted = *input.IsCompleted
	}
	subtask.UpdatedAt = time.Now().UTC()

	if err := s.tasks.UpdateSubtask(ctx, task.ID, task.Version, *subtask); err != nil {
		return nil, err
	}
	task.Version++
	return task, nil
}

func (s *TaskService) DeleteSubtask(ctx context.Context, projectID, subtaskID, actorID string) (*domain.Task, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireRole(project, actorID, domain.RoleAdmin, domain.RoleProjectAdmin); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindBySubtask(ctx, projectID, subtaskID)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.RemoveSubtask(ctx, task.ID, task.Version, subtaskID); err != nil {
		return nil, err
	}

	subtasks := task.Subtasks[:0]
	for _, st := range task.Subtasks {
		if st.ID != subtaskID {
			subtasks = append(subtasks, st)
		}
	}
	task.Subtasks = subtasks
	task.Version++
	return task, nil
}

// UploadAttachment is open to any project member.
func (s *TaskService) UploadAttachment(ctx context.Context, input ports.UploadAttachmentInput) (*domain.Task, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(project, input.ActorID); err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, input.ProjectID, input.TaskID)
	if err != nil {
		return nil, err
	}
	if input.Content == nil {
		return nil, domain.Validationf("no file uploaded")
	}

	locator, size, err := s.blobs.Save(ctx, input.FileName, input.Content)
	if err != nil {
		s.log.Error().Err(err).Str("task_id", task.ID).Msg("failed to store attachment")
		return nil, err
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	attachment := domain.Attachment{
		ID:         uuid.NewString(),
		URL:        locator,
		MimeType:   mimeType,
		Size:       size,
		UploadedBy: input.ActorID,
		UploadedAt: time.Now().UTC(),
	}

	if err := s.tasks.AddAttachment(ctx, task.ID, task.Version, attachment); err != nil {
		// The blob is orphaned on failure; remove it best-effort.
		_ = s.blobs.Delete(ctx, locator)
		return nil, err
	}
	task.Attachments = append(task.Attachments, attachment)
	task.Version++

	s.log.Info().Str("task_id", task.ID).Str("attachment_id", attachment.ID).Int64("size", size).Msg("attachment uploaded")
	return task, nil
}

// DeleteAttachment is permitted to admin/project_admin or the original
// uploader. The backing blob is removed first; a blob that is already gone is
// not an error.
func (s *TaskService) DeleteAttachment(ctx context.Context, projectID, taskID, attachmentID, actorID string) (*domain.Task, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	member, err := requireMember(project, actorID)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	attachment, ok := task.Attachment(attachmentID)
	if !ok {
		return nil, domain.ErrAttachmentNotFound
	}

	isElevated := member.Role == domain.RoleAdmin || member.Role == domain.RoleProjectAdmin
	if !isElevated && attachment.UploadedBy != actorID {
		return nil, domain.ErrInsufficientRole
	}

	if err := s.blobs.Delete(ctx, attachment.URL); err != nil {
		s.log.Warn().Err(err).Str("locator", attachment.URL).Msg("failed to delete attachment blob")
	}

	if err := s.tasks.RemoveAttachment(ctx, task.ID, task.Version, attachmentID); err != nil {
		return nil, err
	}

	attachments := task.Attachments[:0]
	for _, a := range task.Attachments {
		if a.ID != attachmentID {
			attachments = append(attachments, a)
		}
	}
	task.Attachments = attachments
	task.Version++
	return task, nil
}

// checkAssignee verifies the assignee exists and belongs to the project.
func (s *TaskService) checkAssignee(ctx context.Context, project *domain.Project, userID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}
	if !project.IsMember(userID) {
		return domain.Validationf("assigned user is not a project member")
	}
	return nil
}
