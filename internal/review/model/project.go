package model

// ProjectInfo is the part of a project the review workflow needs.
type ProjectInfo struct {
	ID         int64  `gorm:"column:id_project"`
	OwnerID    int64  `gorm:"column:owner_id"`
	Title      string `gorm:"column:title"`
	AuthorName string `gorm:"column:author_name"`
	Status     string `gorm:"column:status"`
}
