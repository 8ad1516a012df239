// Package repository provides data access layer for statistics module.
package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	projectModel "github.com/konkursant/portal/internal/project/model"
	"github.com/konkursant/portal/internal/statistics/model"
	userModel "github.com/konkursant/portal/internal/user/model"
)

// Repository defines the interface for statistics data access operations.
type Repository interface {
	// GetReviewersStatistics returns every reviewer and every user who has submitted a review,
	// busiest first.
	GetReviewersStatistics(ctx context.Context) ([]model.ReviewerStatistics, error)

	// GetProjectStatistics returns review coverage across all projects.
	GetProjectStatistics(ctx context.Context) (*model.ProjectStatistics, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new statistics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// GetReviewersStatistics returns every reviewer and every user who has submitted a review.
func (r *repository) GetReviewersStatistics(ctx context.Context) ([]model.ReviewerStatistics, error) {
	r.logger.Debugw("GetReviewersStatistics called")

	var stats []model.ReviewerStatistics

	err := r.db.WithContext(ctx).
		Table("users").
		Select(`
			users.id_user,
			users.full_name,
			users.email,
			users.role,
			users.is_active,
			COUNT(reviews.id_review) AS review_count
		`).
		Joins("LEFT JOIN reviews ON reviews.reviewer_id = users.id_user").
		Where("users.role = ? OR reviews.id_review IS NOT NULL", string(userModel.RoleReviewer)).
		Group("users.id_user, users.full_name, users.email, users.role, users.is_active").
		Order("review_count DESC, users.id_user ASC").
		Scan(&stats).Error

	if err != nil {
		r.logger.Errorw("GetReviewersStatistics database error", "error", err)
		return nil, err
	}

	if stats == nil {
		stats = []model.ReviewerStatistics{}
	}

	r.logger.Debugw("GetReviewersStatistics completed", "count", len(stats))
	return stats, nil
}

// GetProjectStatistics returns review coverage across all projects.
func (r *repository) GetProjectStatistics(ctx context.Context) (*model.ProjectStatistics, error) {
	r.logger.Debugw("GetProjectStatistics called")

	var result struct {
		TotalProjects  int64   `gorm:"column:total_projects"`
		AwaitingReview int64   `gorm:"column:awaiting_review"`
		Reviewed       int64   `gorm:"column:reviewed"`
		AverageReviews float64 `gorm:"column:avg_reviews"`
		With0Reviews   int64   `gorm:"column:projects_0_reviews"`
		With1Review    int64   `gorm:"column:projects_1_review"`
		With2Reviews   int64   `gorm:"column:projects_2_reviews"`
		With3Plus      int64   `gorm:"column:projects_3_plus_reviews"`
	}

	err := r.db.WithContext(ctx).
		Table("projects").
		Select(`
			COUNT(*) AS total_projects,
			COALESCE(SUM(CASE WHEN projects.status = ? THEN 1 ELSE 0 END), 0) AS awaiting_review,
			COALESCE(SUM(CASE WHEN projects.status = ? THEN 1 ELSE 0 END), 0) AS reviewed,
			COALESCE(AVG(COALESCE(review_counts.review_count, 0)), 0) AS avg_reviews,
			COALESCE(SUM(CASE WHEN COALESCE(review_counts.review_count, 0) = 0 THEN 1 ELSE 0 END), 0) AS projects_0_reviews,
			COALESCE(SUM(CASE WHEN review_counts.review_count = 1 THEN 1 ELSE 0 END), 0) AS projects_1_review,
			COALESCE(SUM(CASE WHEN review_counts.review_count = 2 THEN 1 ELSE 0 END), 0) AS projects_2_reviews,
			COALESCE(SUM(CASE WHEN review_counts.review_count >= 3 THEN 1 ELSE 0 END), 0) AS projects_3_plus_reviews
		`, projectModel.StatusAwaitingReview, projectModel.StatusReviewed).
		Joins(`
			LEFT JOIN (
				SELECT project_id, CAST(COUNT(*) AS REAL) AS review_count
				FROM reviews
				GROUP BY project_id
			) review_counts ON projects.id_project = review_counts.project_id
		`).
		Scan(&result).Error

	if err != nil {
		r.logger.Errorw("GetProjectStatistics database error", "error", err)
		return nil, err
	}

	stats := &model.ProjectStatistics{
		TotalProjects:            int(result.TotalProjects),
		AwaitingReview:           int(result.AwaitingReview),
		Reviewed:                 int(result.Reviewed),
		AverageReviewsPerProject: result.AverageReviews,
		ProjectsWith0Reviews:     int(result.With0Reviews),
		ProjectsWith1Review:      int(result.With1Review),
		ProjectsWith2Reviews:     int(result.With2Reviews),
		ProjectsWith3PlusReviews: int(result.With3Plus),
	}

	r.logger.Debugw("GetProjectStatistics completed", "total_projects", stats.TotalProjects)
	return stats, nil
}
