package model

import (
	"time"
)

// Review is a stored review. Matches the reviews table schema.
type Review struct {
	ID            int64         `gorm:"primaryKey;column:id_review;type:bigserial"`
	ProjectID     int64         `gorm:"column:project_id;not null;uniqueIndex:idx_reviews_project_reviewer"`
	ReviewerID    int64         `gorm:"column:reviewer_id;not null;uniqueIndex:idx_reviews_project_reviewer;index:idx_reviews_reviewer_id"`
	SchemaVersion string        `gorm:"column:schema_version;type:varchar(32);not null"`
	Feedback      string        `gorm:"column:feedback;type:text;not null"`
	CreatedAt     time.Time     `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
	Scores        []ReviewScore `gorm:"foreignKey:ReviewID;references:ID"`
}

// TableName specifies the table name for GORM.
func (Review) TableName() string {
	return "reviews"
}

// ReviewScore is one criterion score of a stored review. Matches the review_scores table schema.
type ReviewScore struct {
	ReviewID     int64  `gorm:"primaryKey;column:review_id"`
	CriterionKey string `gorm:"primaryKey;column:criterion_key;type:varchar(64)"`
	Score        int    `gorm:"column:score;type:smallint;not null"`
}

// TableName specifies the table name for GORM.
func (ReviewScore) TableName() string {
	return "review_scores"
}

// ToRecord converts a stored review into a record, attaching the denormalized project fields.
func (r Review) ToRecord(projectTitle, authorName string) ReviewRecord {
	scores := make(map[string]Score, len(r.Scores))
	for _, s := range r.Scores {
		scores[s.CriterionKey] = NewScore(float64(s.Score))
	}
	return ReviewRecord{
		ProjectID:     r.ProjectID,
		ReviewerID:    r.ReviewerID,
		ProjectTitle:  projectTitle,
		AuthorName:    authorName,
		SchemaVersion: SchemaVersion(r.SchemaVersion),
		Scores:        scores,
		Feedback:      r.Feedback,
		Status:        StatusFinalized,
		CreatedAt:     r.CreatedAt,
	}
}
