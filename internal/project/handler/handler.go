// Package handler provides HTTP handlers for project endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/middleware"
	"github.com/konkursant/portal/internal/project/model"
	"github.com/konkursant/portal/internal/project/service"
)

// Handler handles HTTP requests for project endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new project handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// List handles GET /projects/all_access_projects request.
// @Summary List projects visible to the caller
// @Tags Projects
// @Produce json
// @Success 200 {object} model.ListProjectsResponse
// @Router /projects/all_access_projects [get].
func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	resp, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Create handles POST /projects/create request.
// @Summary Submit a project
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body model.CreateProjectRequest true "Request"
// @Success 201 {object} model.ProjectWithOwner
// @Failure 400 {object} ErrorResponse
// @Router /projects/create [post].
func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	var req model.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "title is required", http.StatusBadRequest)
		return
	}

	project, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// Get handles GET /projects/:project_id request.
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} model.ProjectWithOwner
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/{project_id} [get].
func (h *Handler) Get(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	project, err := h.service.Get(c.Request.Context(), actor, projectID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

// Delete handles DELETE /projects/delete/:project_id request.
// @Summary Delete a project with its reviews
// @Tags Projects
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} model.DeleteProjectResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /projects/delete/{project_id} [delete].
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, projectID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.DeleteProjectResponse{Detail: "Проект и связанные данные успешно удалены."})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrProjectNotFound):
		notFoundResponse(c, "project not found")
	case errors.Is(err, model.ErrAccessDenied):
		forbiddenResponse(c, err)
	case errors.Is(err, model.ErrInvalidTitle), errors.Is(err, model.ErrInvalidProjectID):
		errorResponse(c, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
	default:
		h.logger.Errorw("project request failed",
			"path", c.Request.URL.Path,
			"request_id", middleware.GetRequestID(c),
			"error", err,
		)
		internalErrorResponse(c)
	}
}

func projectIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("project_id"), 10, 64)
	if err != nil || id <= 0 {
		errorResponse(c, "INVALID_REQUEST", model.ErrInvalidProjectID.Error(), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
