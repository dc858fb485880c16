package ports

import (
	"context"

	"github.com/taskhive/taskhive/internal/core/domain"
)

// ListTasksFilter carries query parameters for listing tasks within a project.
// Empty filter fields match everything. SortBy must be a whitelisted field
// name (validated by the service); SortDesc selects descending order.
type ListTasksFilter struct {
	ProjectID  string
	Status     string
	AssignedTo string
	Priority   string
	SortBy     string
	SortDesc   bool
}

// TaskRepository defines persistence for task aggregates. Subtask and
// attachment operations address nested array elements by their task-scoped
// ids. All mutating calls are guarded by the loaded task version and surface
// domain.ErrVersionConflict on a concurrent write.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	// FindByID retrieves a task only when it belongs to the given project.
	FindByID(ctx context.Context, projectID, taskID string) (*domain.Task, error)
	// FindBySubtask locates the project's task containing the given subtask.
	FindBySubtask(ctx context.Context, projectID, subtaskID string) (*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, projectID, taskID string) error
	DeleteByProject(ctx context.Context, projectID string) error

	AddSubtask(ctx context.Context, taskID string, version int64, st domain.Subtask) error
	UpdateSubtask(ctx context.Context, taskID string, version int64, st domain.Subtask) error
	RemoveSubtask(ctx context.Context, taskID string, version int64, subtaskID string) error

	AddAttachment(ctx context.Context, taskID string, version int64, a domain.Attachment) error
	RemoveAttachment(ctx context.Context, taskID string, version int64, attachmentID string) error
}
