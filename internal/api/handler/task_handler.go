package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/api/metrics"
	"github.com/taskhive/taskhive/internal/core/domain"
	"github.com/taskhive/taskhive/internal/core/ports"
)

// TaskHandler handles tasks, subtasks and attachments.
type TaskHandler struct {
	taskService ports.TaskService
	log         zerolog.Logger
}

func NewTaskHandler(taskService ports.TaskService, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, log: log}
}

// Create creates a task in a project. Requires admin or project_admin.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string             true  "Project ID"
// @Param        body       body      createTaskRequest  true  "Task details"
// @Success      201        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /tasks/{projectId} [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), ports.CreateTaskInput{
		ProjectID:   c.Param("projectId"),
		ActorID:     userID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Priority)).Inc()
	return respond(c, http.StatusCreated, task, "Task created successfully")
}

// List returns a project's tasks with optional filters and sorting.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        projectId    path      string  true   "Project ID"
// @Param        status       query     string  false  "Filter by status"
// @Param        assigned_to  query     string  false  "Filter by assignee"
// @Param        priority     query     string  false  "Filter by priority"
// @Param        sort_by      query     string  false  "Sort field"
// @Param        sort_order   query     string  false  "asc or desc"
// @Success      200          {object}  apiResponse
// @Failure      403          {object}  errorResponse
// @Router       /tasks/{projectId} [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.List(c.Request().Context(), ports.ListTasksInput{
		ProjectID:  c.Param("projectId"),
		ActorID:    userID,
		Status:     c.QueryParam("status"),
		AssignedTo: c.QueryParam("assigned_to"),
		Priority:   c.QueryParam("priority"),
		SortBy:     c.QueryParam("sort_by"),
		SortOrder:  c.QueryParam("sort_order"),
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, tasks, "Tasks fetched successfully")
}

// Get returns a single task.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        taskId     path      string  true  "Task ID"
// @Success      200        {object}  apiResponse
// @Failure      404        {object}  errorResponse
// @Router       /tasks/{projectId}/t/{taskId} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), c.Param("projectId"), c.Param("taskId"), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, task, "Task fetched successfully")
}

// Update patches a task. Requires admin or project_admin.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string             true  "Project ID"
// @Param        taskId     path      string             true  "Task ID"
// @Param        body       body      updateTaskRequest  true  "Fields to update"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /tasks/{projectId}/t/{taskId} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	input := ports.UpdateTaskInput{
		ProjectID:   c.Param("projectId"),
		TaskID:      c.Param("taskId"),
		ActorID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if req.AssignedTo.set {
		input.AssignedToSet = true
		input.AssignedTo = req.AssignedTo.value
	}
	if req.DueDate.set {
		input.DueDateSet = true
		input.DueDate = req.DueDate.value
	}

	task, err := h.taskService.Update(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, task, "Task updated successfully")
}

// Delete removes a task. Requires admin or project_admin.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        taskId     path      string  true  "Task ID"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /tasks/{projectId}/t/{taskId} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), c.Param("projectId"), c.Param("taskId"), userID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Task deleted successfully")
}

// CreateSubtask adds a checklist item. Requires admin or project_admin.
//
// @Summary      Create a subtask
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string                true  "Project ID"
// @Param        taskId     path      string                true  "Task ID"
// @Param        body       body      createSubtaskRequest  true  "Subtask title"
// @Success      201        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /tasks/{projectId}/t/{taskId}/subtasks [post]
func (h *TaskHandler) CreateSubtask(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateSubtask(c.Request().Context(), ports.CreateSubtaskInput{
		ProjectID: c.Param("projectId"),
		TaskID:    c.Param("taskId"),
		ActorID:   userID,
		Title:     req.Title,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, task, "Subtask created successfully")
}

// UpdateSubtask patches a subtask. Completion may be toggled by the subtask's
// creator; title changes require admin or project_admin.
//
// @Summary      Update a subtask
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string                true  "Project ID"
// @Param        subTaskId  path      string                true  "Subtask ID"
// @Param        body       body      updateSubtaskRequest  true  "Fields to update"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /tasks/{projectId}/st/{subTaskId} [put]
func (h *TaskHandler) UpdateSubtask(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	task, err := h.taskService.UpdateSubtask(c.Request().Context(), ports.UpdateSubtaskInput{
		ProjectID:   c.Param("projectId"),
		SubtaskID:   c.Param("subTaskId"),
		ActorID:     userID,
		Title:       req.Title,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, task, "Subtask updated successfully")
}

// DeleteSubtask removes a subtask. Requires admin or project_admin.
//
// @Summary      Delete a subtask
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        subTaskId  path      string  true  "Subtask ID"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /tasks/{projectId}/st/{subTaskId} [delete]
func (h *TaskHandler) DeleteSubtask(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.DeleteSubtask(c.Request().Context(), c.Param("projectId"), c.Param("subTaskId"), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, task, "Subtask deleted successfully")
}

// UploadAttachment stores a multipart file against a task. Any member may
// upload.
//
// @Summary      Upload a task attachment
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        projectId   path      string  true  "Project ID"
// @Param        taskId      path      string  true  "Task ID"
// @Param        attachment  formData  file    true  "File to attach"
// @Success      201         {object}  apiResponse
// @Failure      400         {object}  errorResponse
// @Router       /tasks/{projectId}/t/{taskId}/attachments [post]
func (h *TaskHandler) UploadAttachment(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	input := ports.UploadAttachmentInput{
		ProjectID: c.Param("projectId"),
		TaskID:    c.Param("taskId"),
		ActorID:   userID,
	}

	// A missing file is not a transport error here; the service reports it
	// as a validation failure.
	if fh, ferr := c.FormFile("attachment"); ferr == nil {
		src, err := fh.Open()
		if err != nil {
			return err
		}
		defer src.Close()

		input.FileName = fh.Filename
		input.MimeType = fh.Header.Get("Content-Type")
		input.Content = src
	}

	task, err := h.taskService.UploadAttachment(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.AttachmentsUploadedTotal.Inc()
	if att := latestAttachment(task); att != nil {
		metrics.AttachmentBytesTotal.Add(float64(att.Size))
	}
	return respond(c, http.StatusCreated, task, "Attachment uploaded successfully")
}

// DeleteAttachment removes an attachment and its stored blob. Allowed for
// admin, project_admin or the original uploader.
//
// @Summary      Delete a task attachment
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        projectId     path      string  true  "Project ID"
// @Param        taskId        path      string  true  "Task ID"
// @Param        attachmentId  path      string  true  "Attachment ID"
// @Success      200           {object}  apiResponse
// @Failure      403           {object}  errorResponse
// @Router       /tasks/{projectId}/t/{taskId}/attachments/{attachmentId} [delete]
func (h *TaskHandler) DeleteAttachment(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.DeleteAttachment(c.Request().Context(),
		c.Param("projectId"), c.Param("taskId"), c.Param("attachmentId"), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, task, "Attachment deleted successfully")
}

// latestAttachment returns the most recently uploaded attachment, if any.
func latestAttachment(t *domain.Task) *domain.Attachment {
	if t == nil || len(t.Attachments) == 0 {
		return nil
	}
	return &t.Attachments[len(t.Attachments)-1]
}
