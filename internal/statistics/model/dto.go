// Package model provides data transfer objects for statistics module.
package model

// ReviewerStatistics represents review activity of one reviewer.
type ReviewerStatistics struct {
	UserID      int64  `json:"user_id" gorm:"column:id_user"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	ReviewCount int    `json:"review_count"`
	IsActive    bool   `json:"is_active"`
}

// ReviewersStatisticsResponse represents response for reviewers statistics.
type ReviewersStatisticsResponse struct {
	Reviewers []ReviewerStatistics `json:"reviewers"`
	Total     int                  `json:"total"`
}

// ProjectStatistics represents review coverage of submitted projects.
type ProjectStatistics struct {
	TotalProjects            int     `json:"total_projects"`
	AwaitingReview           int     `json:"awaiting_review"`
	Reviewed                 int     `json:"reviewed"`
	AverageReviewsPerProject float64 `json:"average_reviews_per_project"`
	ProjectsWith0Reviews     int     `json:"projects_with_0_reviews"`
	ProjectsWith1Review      int     `json:"projects_with_1_review"`
	ProjectsWith2Reviews     int     `json:"projects_with_2_reviews"`
	ProjectsWith3PlusReviews int     `json:"projects_with_3_plus_reviews"`
}

// ProjectStatisticsResponse represents response for project statistics.
type ProjectStatisticsResponse struct {
	Statistics ProjectStatistics `json:"statistics"`
}
