// Package models contains data models for the time-tracker service.
package models

import "time"

// Auth providers recognized in User.AuthProvider.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User represents an account in the system. PasswordHash is empty for
// OAuth-only accounts; GoogleID is nil until an account is linked.
type User struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name" gorm:"not null"`
	LastName     string     `json:"last_name" gorm:"not null"`
	Role         string     `json:"role" gorm:"not null;default:employee"`
	DepartmentID *int64     `json:"department_id"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	HireDate     *time.Time `json:"hire_date" gorm:"type:date"`

	GoogleID       *string `json:"-" gorm:"uniqueIndex"`
	AuthProvider   string  `json:"auth_provider" gorm:"not null;default:local"`
	ProfilePicture string  `json:"profile_picture"`
	EmailVerified  bool    `json:"email_verified" gorm:"not null;default:false"`

	EmailVerificationToken   *string    `json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`

	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Department *Department `json:"-" gorm:"foreignKey:DepartmentID"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// FullName returns the display name used in report tables.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
