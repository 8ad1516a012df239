package model

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses shown to applicants.
const (
	StatusAwaitingReview = "Ожидает проверки"
	StatusReviewed       = "Оценено"
)

// MaxTitleLength is the longest title the projects table accepts.
const MaxTitleLength = 255

// Project represents a submitted grant project.
// Matches the projects table schema.
type Project struct {
	ID          int64     `gorm:"primaryKey;column:id_project"                                       json:"id_project"`
	OwnerID     int64     `gorm:"column:owner_id;not null;index:idx_projects_owner_id"               json:"owner_id"`
	Title       string    `gorm:"column:title;type:varchar(255);not null"                            json:"title"`
	Description string    `gorm:"column:description;type:text;not null;default:''"                   json:"description"`
	Status      string    `gorm:"column:status;type:varchar(64);not null;index:idx_projects_status"  json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"          json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"          json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (p *Project) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

// IsReviewed reports whether the project has received at least one review.
func (p *Project) IsReviewed() bool {
	return p.Status == StatusReviewed
}

// ProjectWithOwner is a project joined with its owner's display name.
type ProjectWithOwner struct {
	Project
	OwnerFullName string `gorm:"column:owner_full_name" json:"owner_full_name"`
}
