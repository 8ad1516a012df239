// Package repository provides data access layer for user module.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/konkursant/portal/internal/user/model"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	// GetByID finds user by id_user.
	GetByID(ctx context.Context, userID int64) (*model.User, error)

	// GetByEmail finds user by email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateRole sets the role of the user with the given email.
	UpdateRole(ctx context.Context, email string, role model.Role) (*model.User, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new user repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// GetByID finds user by id_user.
func (r *repository) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	r.logger.Debugw("GetByID called", "user_id", userID)

	var user model.User
	err := r.db.WithContext(ctx).
		Where("id_user = ?", userID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debugw("GetByID user not found", "user_id", userID)
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByID database error", "user_id", userID, "error", err)
		return nil, err
	}

	return &user, nil
}

// GetByEmail finds user by email.
func (r *repository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.logger.Debugw("GetByEmail called", "email", email)

	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debugw("GetByEmail user not found", "email", email)
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByEmail database error", "email", email, "error", err)
		return nil, err
	}

	return &user, nil
}

// UpdateRole sets the role of the user with the given email.
func (r *repository) UpdateRole(ctx context.Context, email string, role model.Role) (*model.User, error) {
	r.logger.Infow("UpdateRole called", "email", email, "role", role)

	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Update("role", role)

	if result.Error != nil {
		r.logger.Errorw("UpdateRole database error", "email", email, "error", result.Error)
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.Debugw("UpdateRole user not found", "email", email)
		return nil, model.ErrUserNotFound
	}

	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		r.logger.Errorw("UpdateRole failed to fetch updated user", "email", email, "error", err)
		return nil, err
	}

	r.logger.Infow("UpdateRole completed", "user_id", user.ID, "role", role)
	return user, nil
}
