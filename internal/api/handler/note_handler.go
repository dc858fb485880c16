package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/api/metrics"
	"github.com/taskhive/taskhive/internal/core/ports"
)

type createNoteRequest struct {
	Title   string `json:"title"   validate:"required,min=1"`
	Content string `json:"content" validate:"required,min=1"`
}

type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// NoteHandler handles project notes.
type NoteHandler struct {
	noteService ports.NoteService
	log         zerolog.Logger
}

func NewNoteHandler(noteService ports.NoteService, log zerolog.Logger) *NoteHandler {
	return &NoteHandler{noteService: noteService, log: log}
}

// Create creates a note. Admin role only.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string             true  "Project ID"
// @Param        body       body      createNoteRequest  true  "Note details"
// @Success      201        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /notes/{projectId} [post]
func (h *NoteHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note, err := h.noteService.Create(c.Request().Context(), ports.CreateNoteInput{
		ProjectID: c.Param("projectId"),
		ActorID:   userID,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		return err
	}

	metrics.NotesCreatedTotal.Inc()
	return respond(c, http.StatusCreated, note, "Note created successfully")
}

// List returns a project's notes. Any member may read.
//
// @Summary      List notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /notes/{projectId} [get]
func (h *NoteHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	notes, err := h.noteService.List(c.Request().Context(), c.Param("projectId"), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, notes, "Notes fetched successfully")
}

// Get returns a single note. Any member may read.
//
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        noteId     path      string  true  "Note ID"
// @Success      200        {object}  apiResponse
// @Failure      404        {object}  errorResponse
// @Router       /notes/{projectId}/n/{noteId} [get]
func (h *NoteHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	note, err := h.noteService.Get(c.Request().Context(), c.Param("projectId"), c.Param("noteId"), userID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, note, "Note fetched successfully")
}

// Update patches a note. Admin role only.
//
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string             true  "Project ID"
// @Param        noteId     path      string             true  "Note ID"
// @Param        body       body      updateNoteRequest  true  "Fields to update"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /notes/{projectId}/n/{noteId} [put]
func (h *NoteHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	note, err := h.noteService.Update(c.Request().Context(), ports.UpdateNoteInput{
		ProjectID: c.Param("projectId"),
		NoteID:    c.Param("noteId"),
		ActorID:   userID,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, note, "Note updated successfully")
}

// Delete removes a note. Admin role only.
//
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        projectId  path      string  true  "Project ID"
// @Param        noteId     path      string  true  "Note ID"
// @Success      200        {object}  apiResponse
// @Failure      403        {object}  errorResponse
// @Router       /notes/{projectId}/n/{noteId} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.noteService.Delete(c.Request().Context(), c.Param("projectId"), c.Param("noteId"), userID); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "Note deleted successfully")
}
