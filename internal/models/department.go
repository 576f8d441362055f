package models

import "time"

// Department is shared reference data; users optionally belong to one.
type Department struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	ManagerID   *int64    `json:"manager_id"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`

	Manager *User `json:"-" gorm:"foreignKey:ManagerID"`
}

// TableName returns the database table name for the Department model.
func (Department) TableName() string {
	return "departments"
}
