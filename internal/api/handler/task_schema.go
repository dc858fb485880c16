package handler

import "time"

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1"`
	Description string     `json:"description"`
	AssignedTo  string     `json:"assigned_to"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// updateTaskRequest is a partial patch. assigned_to and due_date use optional
// so an explicit null clears the value while omission leaves it alone.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`

	AssignedTo optional[string]    `json:"assigned_to"`
	DueDate    optional[time.Time] `json:"due_date"`
}

type createSubtaskRequest struct {
	Title string `json:"title" validate:"required,min=1"`
}

type updateSubtaskRequest struct {
	Title       *string `json:"title"`
	IsCompleted *bool   `json:"is_completed"`
}
