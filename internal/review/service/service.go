// Package service provides business logic layer for review module.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/konkursant/portal/internal/review/aggregate"
	"github.com/konkursant/portal/internal/review/model"
	"github.com/konkursant/portal/internal/review/repository"
	userModel "github.com/konkursant/portal/internal/user/model"
)

// Service defines the interface for review business logic operations.
type Service interface {
	// Schemas describes the registered criterion schemas and the active one.
	Schemas() model.SchemaResponse

	// CreateReview stores the caller's review of a project. Reviewers only.
	CreateReview(
		ctx context.Context,
		actor *userModel.User,
		projectID int64,
		record model.ReviewRecord,
	) (*model.ReviewRecord, error)

	// GetProjectReviews returns the reviews of a project to reviewers and the project owner.
	GetProjectReviews(ctx context.Context, actor *userModel.User, projectID int64) (*model.ReviewsResponse, error)

	// GetVerifiedReviews returns every submitted review to reviewers and admins.
	GetVerifiedReviews(ctx context.Context, actor *userModel.User) (*model.ReviewsResponse, error)

	// GetProjectSummary aggregates the reviews of a project.
	GetProjectSummary(ctx context.Context, actor *userModel.User, projectID int64) (*aggregate.ProjectSummary, error)

	// GetVerifiedSummaries aggregates every reviewed project.
	GetVerifiedSummaries(ctx context.Context, actor *userModel.User) (*aggregate.Report, error)
}

// Options carries the scoring settings.
type Options struct {
	Registry             *model.Registry
	Schema               model.Schema
	MaxReviewsPerProject int
}

type service struct {
	repo   repository.Repository
	db     *gorm.DB
	opts   Options
	logger *zap.SugaredLogger
}

// New creates a new review service instance.
func New(repo repository.Repository, db *gorm.DB, opts Options, logger *zap.SugaredLogger) Service {
	return &service{
		repo:   repo,
		db:     db,
		opts:   opts,
		logger: logger,
	}
}

// Schemas describes the registered criterion schemas and the active one.
func (s *service) Schemas() model.SchemaResponse {
	resp := model.SchemaResponse{Active: s.opts.Schema.Version}
	for _, v := range s.opts.Registry.Versions() {
		schema, err := s.opts.Registry.Schema(v)
		if err != nil {
			continue
		}
		resp.Schemas = append(resp.Schemas, schema)
	}
	return resp
}

// CreateReview stores the caller's review of a project. Reviewers only.
func (s *service) CreateReview(
	ctx context.Context,
	actor *userModel.User,
	projectID int64,
	record model.ReviewRecord,
) (*model.ReviewRecord, error) {
	s.logger.Debugw("CreateReview called", "project_id", projectID, "reviewer_id", actor.ID)

	if !actor.IsReviewer() {
		s.logger.Warnw("CreateReview rejected: not a reviewer", "user_id", actor.ID, "role", actor.Role)
		return nil, model.ErrNotReviewer
	}

	review, err := s.buildReview(actor.ID, projectID, record)
	if err != nil {
		s.logger.Debugw("CreateReview validation failed", "project_id", projectID, "error", err)
		return nil, err
	}

	var result model.ReviewRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := repository.New(tx, s.logger)

		if txErr := txRepo.LockProject(ctx, projectID); txErr != nil {
			return txErr
		}

		info, txErr := txRepo.GetProjectInfo(ctx, projectID)
		if txErr != nil {
			return txErr
		}

		count, txErr := txRepo.CountForProject(ctx, projectID)
		if txErr != nil {
			return txErr
		}
		if count >= int64(s.opts.MaxReviewsPerProject) {
			return model.ErrReviewLimitReached
		}

		exists, txErr := txRepo.ExistsForReviewer(ctx, projectID, actor.ID)
		if txErr != nil {
			return txErr
		}
		if exists {
			return model.ErrReviewExists
		}

		if txErr = txRepo.Create(ctx, review); txErr != nil {
			return txErr
		}

		if txErr = txRepo.MarkProjectReviewed(ctx, projectID); txErr != nil {
			return txErr
		}

		result = review.ToRecord(info.Title, info.AuthorName)
		return nil
	})

	if err != nil {
		s.logger.Errorw("CreateReview failed", "project_id", projectID, "reviewer_id", actor.ID, "error", err)
		return nil, err
	}

	s.logger.Infow("CreateReview completed", "review_id", review.ID, "project_id", projectID, "reviewer_id", actor.ID)
	return &result, nil
}

// buildReview checks the submitted scores against the active schema. Keys outside the schema are dropped.
func (s *service) buildReview(reviewerID, projectID int64, record model.ReviewRecord) (*model.Review, error) {
	schema := s.opts.Schema
	if err := schema.Check(record); err != nil {
		return nil, err
	}

	keys := schema.Keys()
	scores := make([]model.ReviewScore, 0, len(keys))
	for _, key := range keys {
		score := record.Scores[key]
		if !score.IsInteger() {
			return nil, &model.ScoreError{Key: key, Reason: "must be a whole number"}
		}
		scores = append(scores, model.ReviewScore{CriterionKey: key, Score: int(score.Value)})
	}

	feedback := strings.TrimSpace(record.Feedback)
	if feedback == "" {
		feedback = model.DefaultFeedback
	}

	return &model.Review{
		ProjectID:     projectID,
		ReviewerID:    reviewerID,
		SchemaVersion: string(schema.Version),
		Feedback:      feedback,
		Scores:        scores,
	}, nil
}

// GetProjectReviews returns the reviews of a project to reviewers and the project owner.
func (s *service) GetProjectReviews(
	ctx context.Context,
	actor *userModel.User,
	projectID int64,
) (*model.ReviewsResponse, error) {
	s.logger.Debugw("GetProjectReviews called", "project_id", projectID, "user_id", actor.ID)

	if _, err := s.authorizeProject(ctx, actor, projectID); err != nil {
		return nil, err
	}

	records, err := s.repo.FetchReviewsForProject(ctx, projectID)
	if err != nil {
		s.logger.Errorw("GetProjectReviews failed", "project_id", projectID, "error", err)
		return nil, err
	}

	return &model.ReviewsResponse{Reviews: records}, nil
}

// GetVerifiedReviews returns every submitted review to reviewers and admins.
func (s *service) GetVerifiedReviews(ctx context.Context, actor *userModel.User) (*model.ReviewsResponse, error) {
	s.logger.Debugw("GetVerifiedReviews called", "user_id", actor.ID)

	if !actor.SeesAllProjects() {
		return nil, model.ErrAccessDenied
	}

	records, err := s.repo.FetchAllVerifiedReviews(ctx)
	if err != nil {
		s.logger.Errorw("GetVerifiedReviews failed", "error", err)
		return nil, err
	}

	s.logger.Infow("GetVerifiedReviews completed", "count", len(records))
	return &model.ReviewsResponse{Reviews: records}, nil
}

// GetProjectSummary aggregates the reviews of a project.
func (s *service) GetProjectSummary(
	ctx context.Context,
	actor *userModel.User,
	projectID int64,
) (*aggregate.ProjectSummary, error) {
	s.logger.Debugw("GetProjectSummary called", "project_id", projectID, "user_id", actor.ID)

	info, err := s.authorizeProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.FetchReviewsForProject(ctx, projectID)
	if err != nil {
		s.logger.Errorw("GetProjectSummary fetch failed", "project_id", projectID, "error", err)
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	summary := aggregate.Summarize(projectID, records, aggregate.SchemaFor(records, s.opts.Registry, s.opts.Schema))
	summary.ProjectTitle = info.Title
	summary.AuthorName = info.AuthorName
	s.logWarnings(summary)

	return &summary, nil
}

// GetVerifiedSummaries aggregates every reviewed project.
func (s *service) GetVerifiedSummaries(ctx context.Context, actor *userModel.User) (*aggregate.Report, error) {
	s.logger.Debugw("GetVerifiedSummaries called", "user_id", actor.ID)

	if !actor.SeesAllProjects() {
		return nil, model.ErrAccessDenied
	}

	records, err := s.repo.FetchAllVerifiedReviews(ctx)
	if err != nil {
		s.logger.Errorw("GetVerifiedSummaries fetch failed", "error", err)
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	summaries := aggregate.SummarizeFeed(records, s.opts.Registry, s.opts.Schema)
	for _, summary := range summaries {
		s.logWarnings(summary)
	}

	s.logger.Infow("GetVerifiedSummaries completed", "projects", len(summaries), "reviews", len(records))
	return &aggregate.Report{Projects: summaries}, nil
}

// authorizeProject allows reviewers and the project owner.
func (s *service) authorizeProject(
	ctx context.Context,
	actor *userModel.User,
	projectID int64,
) (*model.ProjectInfo, error) {
	info, err := s.repo.GetProjectInfo(ctx, projectID)
	if err != nil {
		if !errors.Is(err, model.ErrProjectNotFound) {
			s.logger.Errorw("project lookup failed", "project_id", projectID, "error", err)
		}
		return nil, err
	}

	if !actor.IsReviewer() && info.OwnerID != actor.ID {
		s.logger.Warnw("reviews access denied", "project_id", projectID, "user_id", actor.ID)
		return nil, model.ErrAccessDenied
	}

	return info, nil
}

func (s *service) logWarnings(summary aggregate.ProjectSummary) {
	if len(summary.Warnings) == 0 {
		return
	}
	messages := make([]string, 0, len(summary.Warnings))
	for _, w := range summary.Warnings {
		messages = append(messages, w.String())
	}
	s.logger.Warnw("review data quality warnings",
		"project_id", summary.ProjectID,
		"count", len(summary.Warnings),
		"warnings", messages,
	)
}
