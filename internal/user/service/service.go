// Package service provides business logic layer for user module.
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/user/model"
	"github.com/konkursant/portal/internal/user/repository"
)

// Service defines the interface for user business logic operations.
type Service interface {
	// GetMe returns the account of the authenticated user.
	GetMe(ctx context.Context, userID int64) (*model.User, error)

	// AssignRole changes the role of the user identified by email. Admin only.
	AssignRole(ctx context.Context, actor *model.User, req *model.AssignRoleRequest) (*model.AssignRoleResponse, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new user service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, logger: logger}
}

// GetMe returns the account of the authenticated user.
func (s *service) GetMe(ctx context.Context, userID int64) (*model.User, error) {
	s.logger.Debugw("GetMe called", "user_id", userID)

	if userID <= 0 {
		s.logger.Debugw("GetMe validation failed", "error", "non-positive user_id")
		return nil, model.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Errorw("GetMe failed", "user_id", userID, "error", err)
		return nil, err
	}

	return user, nil
}

// AssignRole changes the role of the user identified by email. Admin only.
func (s *service) AssignRole(
	ctx context.Context,
	actor *model.User,
	req *model.AssignRoleRequest,
) (*model.AssignRoleResponse, error) {
	s.logger.Debugw("AssignRole called", "email", req.Email, "role", req.Role)

	if actor == nil || !actor.IsAdmin() {
		s.logger.Warnw("AssignRole rejected: actor is not an administrator", "email", req.Email)
		return nil, model.ErrNotAdmin
	}

	if !req.Role.Valid() {
		s.logger.Debugw("AssignRole validation failed", "role", req.Role)
		return nil, model.ErrInvalidRole
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		s.logger.Debugw("AssignRole validation failed", "error", "empty email")
		return nil, model.ErrUserNotFound
	}

	user, err := s.repo.UpdateRole(ctx, email, req.Role)
	if err != nil {
		s.logger.Errorw("AssignRole failed", "email", email, "role", req.Role, "error", err)
		return nil, err
	}

	s.logger.Infow("AssignRole completed", "admin_id", actor.ID, "user_id", user.ID, "role", req.Role)
	return &model.AssignRoleResponse{
		User:    *user,
		Message: fmt.Sprintf("Роль %s назначена пользователю %s", req.Role, email),
	}, nil
}
