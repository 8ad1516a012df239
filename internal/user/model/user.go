package model

import (
	"time"

	"gorm.io/gorm"
)

// Role is a user's permission level in the portal.
type Role string

const (
	// RoleUser submits projects and sees only their own.
	RoleUser Role = "user"
	// RoleReviewer scores projects and sees all of them.
	RoleReviewer Role = "reviewer"
	// RoleAdmin manages roles and sees all projects.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleReviewer, RoleAdmin:
		return true
	}
	return false
}

// User represents a portal account.
// Matches the users table schema.
type User struct {
	ID        int64     `gorm:"primaryKey;column:id_user"                                  json:"id_user"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;uniqueIndex"         json:"email"`
	FullName  string    `gorm:"column:full_name;type:varchar(255);not null"                 json:"full_name"`
	Role      Role      `gorm:"column:role;type:varchar(16);not null;default:user"          json:"role"`
	IsActive  bool      `gorm:"column:is_active;type:boolean;not null;default:true"         json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"   json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"   json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// IsReviewer reports whether the user may score projects.
func (u *User) IsReviewer() bool {
	return u.Role == RoleReviewer
}

// IsAdmin reports whether the user may manage roles.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SeesAllProjects reports whether the user has read access to every project.
func (u *User) SeesAllProjects() bool {
	return u.Role == RoleReviewer || u.Role == RoleAdmin
}
