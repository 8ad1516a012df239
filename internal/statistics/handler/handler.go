// Package handler provides HTTP handlers for statistics endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/middleware"
	"github.com/konkursant/portal/internal/statistics/model"
	"github.com/konkursant/portal/internal/statistics/service"
)

// Handler handles HTTP requests for statistics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new statistics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetReviewersStatistics handles GET /statistics/reviewers request.
// @Summary Get review activity per reviewer
// @Tags Statistics
// @Produce json
// @Success 200 {object} model.ReviewersStatisticsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /statistics/reviewers [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetReviewersStatistics(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	resp, err := h.service.GetReviewersStatistics(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, "error getting reviewers statistics", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProjectStatistics handles GET /statistics/projects request.
// @Summary Get review coverage of projects
// @Tags Statistics
// @Produce json
// @Success 200 {object} model.ProjectStatisticsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /statistics/projects [get] //nolint:godot // Swagger annotation should not end with period
func (h *Handler) GetProjectStatistics(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	resp, err := h.service.GetProjectStatistics(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, "error getting project statistics", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) respondError(c *gin.Context, msg string, err error) {
	if errors.Is(err, model.ErrAccessDenied) {
		forbiddenResponse(c, err)
		return
	}
	h.logger.Errorw(msg, "error", err)
	internalErrorResponse(c)
}
