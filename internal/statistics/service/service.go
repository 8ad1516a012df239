// Package service provides business logic layer for statistics module.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/konkursant/portal/internal/review/aggregate"
	"github.com/konkursant/portal/internal/statistics/model"
	"github.com/konkursant/portal/internal/statistics/repository"
	userModel "github.com/konkursant/portal/internal/user/model"
)

// Service defines the interface for statistics business logic operations.
// Both operations are restricted to reviewers and admins.
type Service interface {
	// GetReviewersStatistics returns review activity per reviewer.
	GetReviewersStatistics(ctx context.Context, actor *userModel.User) (*model.ReviewersStatisticsResponse, error)

	// GetProjectStatistics returns review coverage across projects.
	GetProjectStatistics(ctx context.Context, actor *userModel.User) (*model.ProjectStatisticsResponse, error)
}

type service struct {
	repo   repository.Repository
	logger *zap.SugaredLogger
}

// New creates a new statistics service instance.
func New(repo repository.Repository, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

func authorize(actor *userModel.User) error {
	if actor == nil || !actor.SeesAllProjects() {
		return model.ErrAccessDenied
	}
	return nil
}

// GetReviewersStatistics returns review activity per reviewer.
func (s *service) GetReviewersStatistics(
	ctx context.Context,
	actor *userModel.User,
) (*model.ReviewersStatisticsResponse, error) {
	s.logger.Debugw("GetReviewersStatistics called")

	if err := authorize(actor); err != nil {
		return nil, err
	}

	reviewers, err := s.repo.GetReviewersStatistics(ctx)
	if err != nil {
		s.logger.Errorw("GetReviewersStatistics failed", "error", err)
		return nil, err
	}

	if reviewers == nil {
		reviewers = []model.ReviewerStatistics{}
	}

	s.logger.Infow("GetReviewersStatistics completed", "count", len(reviewers))
	return &model.ReviewersStatisticsResponse{
		Reviewers: reviewers,
		Total:     len(reviewers),
	}, nil
}

// GetProjectStatistics returns review coverage across projects.
func (s *service) GetProjectStatistics(
	ctx context.Context,
	actor *userModel.User,
) (*model.ProjectStatisticsResponse, error) {
	s.logger.Debugw("GetProjectStatistics called")

	if err := authorize(actor); err != nil {
		return nil, err
	}

	stats, err := s.repo.GetProjectStatistics(ctx)
	if err != nil {
		s.logger.Errorw("GetProjectStatistics failed", "error", err)
		return nil, err
	}
	stats.AverageReviewsPerProject = aggregate.RoundFloat2(stats.AverageReviewsPerProject)

	s.logger.Infow("GetProjectStatistics completed", "total_projects", stats.TotalProjects)
	return &model.ProjectStatisticsResponse{
		Statistics: *stats,
	}, nil
}
