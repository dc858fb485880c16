package ports

import (
	"context"
	"io"
	"time"

	"github.com/taskhive/taskhive/internal/core/domain"
)

// CreateTaskInput carries the fields for creating a task. AssignedTo, when
// non-empty, must reference a current project member.
type CreateTaskInput struct {
	ProjectID   string
	ActorID     string
	Title       string
	Description string
	AssignedTo  string
	Priority    string
	DueDate     *time.Time
}

// ListTasksInput carries list parameters from the transport layer.
type ListTasksInput struct {
	ProjectID  string
	ActorID    string
	Status     string
	AssignedTo string
	Priority   string
	SortBy     string
	SortOrder  string
}

// UpdateTaskInput is a partial patch. Plain pointer fields follow
// omitted-means-unchanged. AssignedTo and DueDate additionally distinguish an
// explicit null (clear the value) from omission via their Set flags.
type UpdateTaskInput struct {
	ProjectID string
	TaskID    string
	ActorID   string

	Title       *string
	Description *string
	Status      *string
	Priority    *string

	AssignedTo    *string
	AssignedToSet bool
	DueDate       *time.Time
	DueDateSet    bool
}

// CreateSubtaskInput adds a checklist item to a task.
type CreateSubtaskInput struct {
	ProjectID string
	TaskID    string
	ActorID   string
	Title     string
}

// UpdateSubtaskInput patches a subtask. Subtasks are addressed by project and
// subtask id alone; the repository locates the parent task.
type UpdateSubtaskInput struct {
	ProjectID   string
	SubtaskID   string
	ActorID     string
	Title       *string
	IsCompleted *bool
}

// UploadAttachmentInput carries an uploaded file stream. Content nil means no
// file payload was present.
type UploadAttachmentInput struct {
	ProjectID string
	TaskID    string
	ActorID   string
	FileName  string
	MimeType  string
	Content   io.Reader
}

// TaskService defines use-case operations for tasks, subtasks and
// attachments. Reads require membership; task and subtask mutations require
// the admin or project_admin role; attachment upload is open to any member.
type TaskService interface {
	Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, input ListTasksInput) ([]*domain.Task, error)
	Get(ctx context.Context, projectID, taskID, actorID string) (*domain.Task, error)
	Update(ctx context.Context, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, projectID, taskID, actorID string) error

	CreateSubtask(ctx context.Context, input CreateSubtaskInput) (*domain.Task, error)
	UpdateSubtask(ctx context.Context, input UpdateSubtaskInput) (*domain.Task, error)
	DeleteSubtask(ctx context.Context, projectID, subtaskID, actorID string) (*domain.Task, error)

	UploadAttachment(ctx context.Context, input UploadAttachmentInput) (*domain.Task, error)
	DeleteAttachment(ctx context.Context, projectID, taskID, attachmentID, actorID string) (*domain.Task, error)
}
