package handler

import "github.com/taskhive/taskhive/internal/core/domain"

type createProjectRequest struct {
	Name        string `json:"name"        validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type addMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"omitempty,oneof=admin project_admin member"`
}

type updateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin project_admin member"`
}

func domainRole(s string) domain.Role { return domain.Role(s) }

// projectSummary is the list-for-user shape: the project plus its roster size.
type projectSummary struct {
	*domain.Project
	MemberCount int `json:"member_count"`
}
