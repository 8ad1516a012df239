// Package model provides data transfer objects and domain models for the project module.
package model

// CreateProjectRequest represents the request to submit a new project.
type CreateProjectRequest struct {
	Title       string `json:"title"       binding:"required"`
	Description string `json:"description"`
}

// ListProjectsResponse represents the projects visible to the caller.
type ListProjectsResponse struct {
	Projects []ProjectWithOwner `json:"projects"`
}

// DeleteProjectResponse confirms a deletion.
type DeleteProjectResponse struct {
	Detail string `json:"detail"`
}
