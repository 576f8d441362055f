package models

import "time"

// Project statuses.
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// Project is billable reference data that time entries may point at.
type Project struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	ClientName  string     `json:"client_name"`
	ProjectCode string     `json:"project_code" gorm:"uniqueIndex"`
	HourlyRate  float64    `json:"hourly_rate"`
	IsBillable  bool       `json:"is_billable" gorm:"not null;default:true"`
	StartDate   *time.Time `json:"start_date" gorm:"type:date"`
	EndDate     *time.Time `json:"end_date" gorm:"type:date"`
	Status      string     `json:"status" gorm:"not null;default:active"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName returns the database table name for the Project model.
func (Project) TableName() string {
	return "projects"
}
