package domain

import "time"

// TaskStatus is the workboard column a task sits in. Any member with a write
// role may set any valid value; there is no enforced transition graph.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// ValidStatus reports whether s is a known task status.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// TaskPriority orders tasks within a column.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Subtask is a checklist item owned by a task. Its id is unique within the
// parent task only.
type Subtask struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	IsCompleted bool      `json:"is_completed" bson:"is_completed"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Attachment records an uploaded file. URL is the blob store locator, not a
// public address.
type Attachment struct {
	ID         string    `json:"id" bson:"_id"`
	URL        string    `json:"url" bson:"url"`
	MimeType   string    `json:"mime_type" bson:"mime_type"`
	Size       int64     `json:"size" bson:"size"`
	UploadedBy string    `json:"uploaded_by" bson:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// Task belongs to exactly one project; the reference is fixed at creation.
// AssignedTo is empty when the task is unassigned.
type Task struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	ProjectID   string       `json:"project_id" bson:"project_id"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	AssignedTo  string       `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	CreatedBy   string       `json:"created_by" bson:"created_by"`
	Status      TaskStatus   `json:"status" bson:"status"`
	Priority    TaskPriority `json:"priority" bson:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Subtasks    []Subtask    `json:"subtasks" bson:"subtasks"`
	Attachments []Attachment `json:"attachments" bson:"attachments"`
	Version     int64        `json:"-" bson:"version"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// Subtask returns the subtask with the given id, if present.
func (t *Task) Subtask(id string) (*Subtask, bool) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i], true
		}
	}
	return nil, false
}

// Attachment returns the attachment with the given id, if present.
func (t *Task) Attachment(id string) (*Attachment, bool) {
	for i := range t.Attachments {
		if t.Attachments[i].ID == id {
			return &t.Attachments[i], true
		}
	}
	return nil, false
}
