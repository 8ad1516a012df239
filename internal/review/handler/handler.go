// Package handler provides HTTP handlers for review endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/middleware"
	"github.com/konkursant/portal/internal/review/model"
	"github.com/konkursant/portal/internal/review/service"
)

// Handler handles HTTP requests for review endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new review handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Schemas handles GET /reviews/schema request.
// @Summary List criterion schemas
// @Tags Reviews
// @Produce json
// @Success 200 {object} model.SchemaResponse
// @Router /reviews/schema [get].
func (h *Handler) Schemas(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Schemas())
}

// CreateReview handles POST /reviews/create_review/:project_id request.
// The body is a flat record: criterion keys sit next to feedback.
// @Summary Review a project
// @Tags Reviews
// @Accept json
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 201 {object} model.ReviewRecord
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /reviews/create_review/{project_id} [post].
func (h *Handler) CreateReview(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	var record model.ReviewRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateReview(c.Request.Context(), actor, projectID, record)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetProjectReviews handles GET /reviews/:project_id request.
// @Summary List reviews of a project
// @Tags Reviews
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} model.ReviewsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reviews/{project_id} [get].
func (h *Handler) GetProjectReviews(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	resp, err := h.service.GetProjectReviews(c.Request.Context(), actor, projectID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetVerifiedReviews handles GET /reviews/verified_projects request.
// @Summary List every submitted review
// @Tags Reviews
// @Produce json
// @Success 200 {object} model.ReviewsResponse
// @Failure 403 {object} ErrorResponse
// @Router /reviews/verified_projects [get].
func (h *Handler) GetVerifiedReviews(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	resp, err := h.service.GetVerifiedReviews(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProjectSummary handles GET /reviews/:project_id/summary request.
// @Summary Aggregate the reviews of a project
// @Tags Reviews
// @Produce json
// @Param project_id path int true "Project ID"
// @Success 200 {object} aggregate.ProjectSummary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reviews/{project_id}/summary [get].
func (h *Handler) GetProjectSummary(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	projectID, ok := projectIDParam(c)
	if !ok {
		return
	}

	summary, err := h.service.GetProjectSummary(c.Request.Context(), actor, projectID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetVerifiedSummaries handles GET /reviews/verified_projects/summary request.
// @Summary Aggregate every reviewed project
// @Tags Reviews
// @Produce json
// @Success 200 {object} aggregate.Report
// @Failure 403 {object} ErrorResponse
// @Router /reviews/verified_projects/summary [get].
func (h *Handler) GetVerifiedSummaries(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	report, err := h.service.GetVerifiedSummaries(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrProjectNotFound):
		notFoundResponse(c, "project not found")
	case errors.Is(err, model.ErrNotReviewer), errors.Is(err, model.ErrAccessDenied):
		forbiddenResponse(c, err)
	case errors.Is(err, model.ErrReviewExists):
		errorResponse(c, "REVIEW_EXISTS", err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrReviewLimitReached):
		errorResponse(c, "REVIEW_LIMIT", err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrInvalidScore):
		errorResponse(c, "INVALID_REQUEST", err.Error(), http.StatusBadRequest)
	default:
		h.logger.Errorw("review request failed",
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
		errorResponse(c, "INVALID_REQUEST", "invalid project ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
