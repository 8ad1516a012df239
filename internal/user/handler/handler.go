// Package handler provides HTTP handlers for user endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/middleware"
	"github.com/konkursant/portal/internal/user/model"
	"github.com/konkursant/portal/internal/user/service"
)

// Handler handles HTTP requests for user endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new user handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetMe handles GET /auth/users/me request.
// @Summary Get the authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} ErrorResponse
// @Router /auth/users/me [get].
func (h *Handler) GetMe(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	user, err := h.service.GetMe(c.Request.Context(), current.ID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			notFoundResponse(c, "user not found")
			return
		}
		h.logger.Errorw("GetMe handler failed", "user_id", current.ID, "error", err)
		internalErrorResponse(c)
		return
	}

	c.JSON(http.StatusOK, user)
}

// AssignRole handles PATCH /auth/assign-role request.
// @Summary Assign a role to a user by email
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body model.AssignRoleRequest true "Request"
// @Success 200 {object} model.AssignRoleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/assign-role [patch].
func (h *Handler) AssignRole(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		unauthorizedResponse(c)
		return
	}

	var req model.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, "INVALID_REQUEST", "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.AssignRole(c.Request.Context(), current, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotAdmin):
			forbiddenResponse(c, err)
		case errors.Is(err, model.ErrInvalidRole):
			errorResponse(c, "INVALID_REQUEST", "role must be one of user, reviewer, admin", http.StatusBadRequest)
		case errors.Is(err, model.ErrUserNotFound):
			notFoundResponse(c, "user not found")
		default:
			h.logger.Errorw("AssignRole handler failed", "email", req.Email, "error", err)
			internalErrorResponse(c)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
