// Package service provides business logic layer for project module.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/project/model"
	"github.com/konkursant/portal/internal/project/repository"
	userModel "github.com/konkursant/portal/internal/user/model"
)

// Service defines the interface for project business logic operations.
type Service interface {
	// Create submits a project owned by the caller.
	Create(ctx context.Context, actor *userModel.User, req *model.CreateProjectRequest) (*model.ProjectWithOwner, error)

	// List returns every project for reviewers and admins, and the caller's own otherwise.
	List(ctx context.Context, actor *userModel.User) (*model.ListProjectsResponse, error)

	// Get returns a project visible to the caller.
	Get(ctx context.Context, actor *userModel.User, projectID int64) (*model.ProjectWithOwner, error)

	// Delete removes a project owned by the caller, or any project for reviewers and admins.
	Delete(ctx context.Context, actor *userModel.User, projectID int64) error
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new project service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, logger: logger}
}

// Create submits a project owned by the caller.
func (s *service) Create(
	ctx context.Context,
	actor *userModel.User,
	req *model.CreateProjectRequest,
) (*model.ProjectWithOwner, error) {
	s.logger.Debugw("Create called", "owner_id", actor.ID)

	title := strings.TrimSpace(req.Title)
	if title == "" || utf8.RuneCountInString(title) > model.MaxTitleLength {
		s.logger.Debugw("Create validation failed", "title_length", utf8.RuneCountInString(title))
		return nil, model.ErrInvalidTitle
	}

	project := &model.Project{
		OwnerID:     actor.ID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      model.StatusAwaitingReview,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		s.logger.Errorw("Create failed", "owner_id", actor.ID, "error", err)
		return nil, err
	}

	s.logger.Infow("Create completed", "project_id", project.ID, "owner_id", actor.ID)
	return &model.ProjectWithOwner{Project: *project, OwnerFullName: actor.FullName}, nil
}

// List returns every project for reviewers and admins, and the caller's own otherwise.
func (s *service) List(ctx context.Context, actor *userModel.User) (*model.ListProjectsResponse, error) {
	s.logger.Debugw("List called", "user_id", actor.ID, "role", actor.Role)

	var ownerID *int64
	if !actor.SeesAllProjects() {
		ownerID = &actor.ID
	}

	projects, err := s.repo.List(ctx, ownerID)
	if err != nil {
		s.logger.Errorw("List failed", "user_id", actor.ID, "error", err)
		return nil, err
	}

	s.logger.Infow("List completed", "user_id", actor.ID, "count", len(projects))
	return &model.ListProjectsResponse{Projects: projects}, nil
}

// Get returns a project visible to the caller.
func (s *service) Get(ctx context.Context, actor *userModel.User, projectID int64) (*model.ProjectWithOwner, error) {
	s.logger.Debugw("Get called", "user_id", actor.ID, "project_id", projectID)

	if projectID <= 0 {
		return nil, model.ErrInvalidProjectID
	}

	project, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !canAccess(actor, &project.Project) {
		s.logger.Warnw("Get access denied", "user_id", actor.ID, "project_id", projectID)
		return nil, model.ErrAccessDenied
	}

	return project, nil
}

// Delete removes a project owned by the caller, or any project for reviewers and admins.
func (s *service) Delete(ctx context.Context, actor *userModel.User, projectID int64) error {
	s.logger.Debugw("Delete called", "user_id", actor.ID, "project_id", projectID)

	if _, err := s.Get(ctx, actor, projectID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, projectID); err != nil {
		s.logger.Errorw("Delete failed", "project_id", projectID, "error", err)
		return err
	}

	s.logger.Infow("Delete completed", "user_id", actor.ID, "project_id", projectID)
	return nil
}

func canAccess(actor *userModel.User, project *model.Project) bool {
	return actor.SeesAllProjects() || project.OwnerID == actor.ID
}
