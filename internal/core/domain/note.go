package domain

import "time"

// Note is a project-scoped document. Mutations are gated to the admin role
// strictly; project_admin is intentionally not accepted here.
type Note struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ProjectID string    `json:"project_id" bson:"project_id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	CreatedBy string    `json:"created_by" bson:"created_by"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
