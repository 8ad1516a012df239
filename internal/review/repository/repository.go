// Package repository provides data access layer for review module.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	projectModel "github.com/konkursant/portal/internal/project/model"
	"github.com/konkursant/portal/internal/review/model"
)

// Repository defines the interface for review data access operations.
type Repository interface {
	model.Fetcher

	// LockProject takes a row lock on the project until the surrounding transaction ends.
	LockProject(ctx context.Context, projectID int64) error

	// GetProjectInfo finds the reviewed project with its author's name.
	GetProjectInfo(ctx context.Context, projectID int64) (*model.ProjectInfo, error)

	// CountForProject returns how many reviews the project has collected.
	CountForProject(ctx context.Context, projectID int64) (int64, error)

	// ExistsForReviewer reports whether the reviewer already reviewed the project.
	ExistsForReviewer(ctx context.Context, projectID, reviewerID int64) (bool, error)

	// Create inserts a review together with its criterion scores.
	Create(ctx context.Context, review *model.Review) error

	// MarkProjectReviewed sets the project status to reviewed.
	MarkProjectReviewed(ctx context.Context, projectID int64) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new review repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// LockProject serializes review submissions for one project, so that the review count read
// afterwards in the same transaction stays valid until commit. SQLite has no row locks; its
// driver drops the clause and the single writer gives the same guarantee.
func (r *repository) LockProject(ctx context.Context, projectID int64) error {
	r.logger.Debugw("LockProject called", "project_id", projectID)

	var row struct {
		ID int64 `gorm:"column:id_project"`
	}
	err := r.db.WithContext(ctx).
		Table("projects").
		Select("id_project").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id_project = ?", projectID).
		Take(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ErrProjectNotFound
		}
		r.logger.Errorw("LockProject database error", "project_id", projectID, "error", err)
		return err
	}

	return nil
}

// GetProjectInfo finds the reviewed project with its author's name.
func (r *repository) GetProjectInfo(ctx context.Context, projectID int64) (*model.ProjectInfo, error) {
	r.logger.Debugw("GetProjectInfo called", "project_id", projectID)

	var info model.ProjectInfo
	err := r.db.WithContext(ctx).
		Table("projects").
		Select("projects.id_project, projects.owner_id, projects.title, projects.status, users.full_name AS author_name").
		Joins("JOIN users ON users.id_user = projects.owner_id").
		Where("projects.id_project = ?", projectID).
		Take(&info).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debugw("GetProjectInfo project not found", "project_id", projectID)
			return nil, model.ErrProjectNotFound
		}
		r.logger.Errorw("GetProjectInfo database error", "project_id", projectID, "error", err)
		return nil, err
	}

	return &info, nil
}

// CountForProject returns how many reviews the project has collected.
func (r *repository) CountForProject(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("project_id = ?", projectID).
		Count(&count).Error

	if err != nil {
		r.logger.Errorw("CountForProject database error", "project_id", projectID, "error", err)
		return 0, err
	}

	return count, nil
}

// ExistsForReviewer reports whether the reviewer already reviewed the project.
func (r *repository) ExistsForReviewer(ctx context.Context, projectID, reviewerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).
		Count(&count).Error

	if err != nil {
		r.logger.Errorw("ExistsForReviewer database error",
			"project_id", projectID,
			"reviewer_id", reviewerID,
			"error", err,
		)
		return false, err
	}

	return count > 0, nil
}

// Create inserts a review together with its criterion scores.
func (r *repository) Create(ctx context.Context, review *model.Review) error {
	r.logger.Debugw("Create called",
		"project_id", review.ProjectID,
		"reviewer_id", review.ReviewerID,
		"score_count", len(review.Scores),
	)

	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if isDuplicateError(err) {
			return model.ErrReviewExists
		}
		r.logger.Errorw("Create database error", "project_id", review.ProjectID, "error", err)
		return err
	}

	r.logger.Infow("Create completed", "review_id", review.ID, "project_id", review.ProjectID)
	return nil
}

// MarkProjectReviewed sets the project status to reviewed.
func (r *repository) MarkProjectReviewed(ctx context.Context, projectID int64) error {
	result := r.db.WithContext(ctx).
		Model(&projectModel.Project{}).
		Where("id_project = ?", projectID).
		Update("status", projectModel.StatusReviewed)

	if result.Error != nil {
		r.logger.Errorw("MarkProjectReviewed database error", "project_id", projectID, "error", result.Error)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return model.ErrProjectNotFound
	}

	return nil
}

// FetchReviewsForProject returns the records of one project in submission order.
func (r *repository) FetchReviewsForProject(ctx context.Context, projectID int64) ([]model.ReviewRecord, error) {
	r.logger.Debugw("FetchReviewsForProject called", "project_id", projectID)
	return r.fetch(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("reviews.project_id = ?", projectID)
	})
}

// FetchAllVerifiedReviews returns a flat multi-project feed of every submitted record.
func (r *repository) FetchAllVerifiedReviews(ctx context.Context) ([]model.ReviewRecord, error) {
	r.logger.Debugw("FetchAllVerifiedReviews called")
	return r.fetch(ctx, func(q *gorm.DB) *gorm.DB { return q })
}

// reviewRow is a stored review with its project's display fields.
type reviewRow struct {
	model.Review
	ProjectTitle string `gorm:"column:project_title"`
	AuthorName   string `gorm:"column:author_name"`
}

func (r *repository) fetch(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]model.ReviewRecord, error) {
	var rows []reviewRow
	err := scope(r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, projects.title AS project_title, users.full_name AS author_name").
		Joins("JOIN projects ON projects.id_project = reviews.project_id").
		Joins("JOIN users ON users.id_user = projects.owner_id")).
		Order("reviews.created_at ASC, reviews.id_review ASC").
		Scan(&rows).Error

	if err != nil {
		r.logger.Errorw("fetch reviews database error", "error", err)
		return nil, err
	}

	records := make([]model.ReviewRecord, 0, len(rows))
	if len(rows) == 0 {
		return records, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var scores []model.ReviewScore
	if err := r.db.WithContext(ctx).
		Where("review_id IN ?", ids).
		Order("review_id, criterion_key").
		Find(&scores).Error; err != nil {
		r.logger.Errorw("fetch review scores database error", "error", err)
		return nil, err
	}

	byReview := make(map[int64][]model.ReviewScore, len(rows))
	for _, s := range scores {
		byReview[s.ReviewID] = append(byReview[s.ReviewID], s)
	}

	for _, row := range rows {
		row.Review.Scores = byReview[row.ID]
		records = append(records, row.Review.ToRecord(row.ProjectTitle, row.AuthorName))
	}

	r.logger.Debugw("fetch reviews completed", "count", len(records))
	return records, nil
}

// isDuplicateError checks if error is a unique constraint violation.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint")
}
