package domain

import "time"

// Role is a per-project membership role.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProjectAdmin Role = "project_admin"
	RoleMember       Role = "member"
)

// ValidRole reports whether r is one of the known membership roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleProjectAdmin, RoleMember:
		return true
	}
	return false
}

// Member is a single (user, role) entry in a project's roster.
type Member struct {
	UserID   string    `json:"user_id" bson:"user_id"`
	Role     Role      `json:"role" bson:"role"`
	JoinedAt time.Time `json:"joined_at" bson:"joined_at"`
}

// Project is the root of authorization: every task and note operation first
// loads the owning project and consults its roster.
type Project struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	OwnerID     string    `json:"owner_id" bson:"owner_id"`
	Members     []Member  `json:"members" bson:"members"`
	Version     int64     `json:"-" bson:"version"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Member returns the roster entry for userID, if any.
func (p *Project) Member(userID string) (*Member, bool) {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			return &p.Members[i], true
		}
	}
	return nil, false
}

// IsMember reports whether userID appears in the roster.
func (p *Project) IsMember(userID string) bool {
	_, ok := p.Member(userID)
	return ok
}

// IsOwner reports whether userID created the project. Ownership is a separate
// axis from the roster role and never changes.
func (p *Project) IsOwner(userID string) bool {
	return p.OwnerID == userID
}
