// Package model provides data transfer objects and domain models for the user module.
package model

// AssignRoleRequest represents the request to change a user's role.
type AssignRoleRequest struct {
	Email string `json:"email" binding:"required"`
	Role  Role   `json:"role"  binding:"required"`
}

// AssignRoleResponse represents the response after a role change.
type AssignRoleResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}
