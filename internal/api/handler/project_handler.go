package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/api/metrics"
	"github.com/taskhive/taskhive/internal/core/ports"
)

// ProjectHandler handles project CRUD and roster management.
type ProjectHandler struct {
	projectService ports.ProjectService
	log            zerolog.Logger
}

func NewProjectHandler(projectService ports.ProjectService, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, log: log}
}

// Create creates a project owned by the caller.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  errorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projectService.Create(c.Request().Context(), ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ActorID:     userID,
	})
	if err != nil {
		return err
	}

	metrics.ProjectsCreatedTotal.Inc()
	return respond(c, http.StatusCreated, project, "Project created successfully")
}

// List returns every project the caller belongs to.
//
// @Summary      List my projects
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	summaries, err := h.projectService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	out := make([]projectSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, projectSummary{Project: s.Project, MemberCount: s.MemberCount})
	}
	return respond(c, http.StatusOK, out, "Projects fetched successfully")
}

// Get returns a single project the caller is a member of.
//
// @Summary      Get a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /projects/{projectId} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	project, err := h.projectService.Get(c.Request().Context(), c.Param("projectId"), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, project, "Project fetched successfully")
}

// Update patches the project's name and description. Owner only.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string                true  "Project ID"
// @Param        body       body      updateProjectRequest  true  "Fields to update"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /projects/{projectId} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	project, err := h.projectService.Update(c.Request().Context(), ports.UpdateProjectInput{
		ProjectID:   c.Param("projectId"),
		ActorID:     userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, project, "Project updated successfully")
}

// Delete removes the project and everything under it. Owner only.
//
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /projects/{projectId} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.projectService.Delete(c.Request().Context(), c.Param("projectId"), userID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Project deleted successfully")
}

// Members returns the project roster.
//
// @Summary      List project members
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /projects/{projectId}/members [get]
func (h *ProjectHandler) Members(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	members, err := h.projectService.Members(c.Request().Context(), c.Param("projectId"), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, members, "Members fetched successfully")
}

// AddMember invites a user by email. Owner only.
//
// @Summary      Add a project member
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string            true  "Project ID"
// @Param        body       body      addMemberRequest  true  "Invitee email and role"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /projects/{projectId}/members [post]
func (h *ProjectHandler) AddMember(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projectService.AddMember(c.Request().Context(), ports.AddMemberInput{
		ProjectID: c.Param("projectId"),
		ActorID:   userID,
		Email:     req.Email,
		Role:      domainRole(req.Role),
	})
	if err != nil {
		return err
	}

	role := req.Role
	if role == "" {
		role = "member"
	}
	metrics.MembersAddedTotal.WithLabelValues(role).Inc()
	return respond(c, http.StatusOK, project, "Member added successfully")
}

// UpdateMemberRole changes a roster entry's role. Owner only.
//
// @Summary      Update a member's role
// @Tags         projects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string                   true  "Project ID"
// @Param        userId     path      string                   true  "Member user ID"
// @Param        body       body      updateMemberRoleRequest  true  "New role"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /projects/{projectId}/members/{userId} [put]
func (h *ProjectHandler) UpdateMemberRole(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateMemberRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	project, err := h.projectService.UpdateMemberRole(c.Request().Context(), ports.UpdateMemberRoleInput{
		ProjectID: c.Param("projectId"),
		ActorID:   userID,
		UserID:    c.Param("userId"),
		Role:      domainRole(req.Role),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, project, "Member role updated successfully")
}

// RemoveMember drops a user from the roster. Owner only.
//
// @Summary      Remove a project member
// @Tags         projects
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        userId     path      string  true  "Member user ID"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /projects/{projectId}/members/{userId} [delete]
func (h *ProjectHandler) RemoveMember(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	project, err := h.projectService.RemoveMember(c.Request().Context(), c.Param("projectId"), userID, c.Param("userId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, project, "Member removed successfully")
}
