// Package repository provides data access layer for project module.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/konkursant/portal/internal/project/model"
)

// Repository defines the interface for project data access operations.
type Repository interface {
	// Create inserts a project and fills its generated fields.
	Create(ctx context.Context, project *model.Project) error

	// GetByID finds a project together with its owner's name.
	GetByID(ctx context.Context, projectID int64) (*model.ProjectWithOwner, error)

	// List returns projects ordered by id; a nil ownerID lists every project.
	List(ctx context.Context, ownerID *int64) ([]model.ProjectWithOwner, error)

	// Delete removes a project with its reviews and scores.
	Delete(ctx context.Context, projectID int64) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new project repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

const selectWithOwner = "projects.*, users.full_name AS owner_full_name"

func (r *repository) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("projects").
		Select(selectWithOwner).
		Joins("JOIN users ON users.id_user = projects.owner_id")
}

// Create inserts a project and fills its generated fields.
func (r *repository) Create(ctx context.Context, project *model.Project) error {
	r.logger.Debugw("Create called", "owner_id", project.OwnerID, "title", project.Title)

	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		r.logger.Errorw("Create database error", "owner_id", project.OwnerID, "error", err)
		return err
	}

	r.logger.Infow("Create completed", "project_id", project.ID, "owner_id", project.OwnerID)
	return nil
}

// GetByID finds a project together with its owner's name.
func (r *repository) GetByID(ctx context.Context, projectID int64) (*model.ProjectWithOwner, error) {
	r.logger.Debugw("GetByID called", "project_id", projectID)

	var project model.ProjectWithOwner
	err := r.withOwner(ctx).
		Where("projects.id_project = ?", projectID).
		Take(&project).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debugw("GetByID project not found", "project_id", projectID)
			return nil, model.ErrProjectNotFound
		}
		r.logger.Errorw("GetByID database error", "project_id", projectID, "error", err)
		return nil, err
	}

	return &project, nil
}

// List returns projects ordered by id; a nil ownerID lists every project.
func (r *repository) List(ctx context.Context, ownerID *int64) ([]model.ProjectWithOwner, error) {
	r.logger.Debugw("List called", "owner_filter", ownerID != nil)

	query := r.withOwner(ctx)
	if ownerID != nil {
		query = query.Where("projects.owner_id = ?", *ownerID)
	}

	var projects []model.ProjectWithOwner
	if err := query.Order("projects.id_project").Scan(&projects).Error; err != nil {
		r.logger.Errorw("List database error", "error", err)
		return nil, err
	}

	if projects == nil {
		projects = []model.ProjectWithOwner{}
	}
	return projects, nil
}

// Delete removes a project with its reviews and scores.
func (r *repository) Delete(ctx context.Context, projectID int64) error {
	r.logger.Debugw("Delete called", "project_id", projectID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM review_scores WHERE review_id IN (SELECT id_review FROM reviews WHERE project_id = ?)",
			projectID,
		).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM reviews WHERE project_id = ?", projectID).Error; err != nil {
			return err
		}

		result := tx.Where("id_project = ?", projectID).Delete(&model.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return model.ErrProjectNotFound
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, model.ErrProjectNotFound) {
			r.logger.Debugw("Delete project not found", "project_id", projectID)
			return err
		}
		r.logger.Errorw("Delete database error", "project_id", projectID, "error", err)
		return err
	}

	r.logger.Infow("Delete completed", "project_id", projectID)
	return nil
}
