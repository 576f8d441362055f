package models

import "time"

// Time entry statuses.
const (
	EntryStatusActive   = "active"
	EntryStatusApproved = "approved"
	EntryStatusRejected = "rejected"
)

// TimeEntry is one clock-in/clock-out cycle for a user. ClockOutTime is
// nil while the user is clocked in; at most one such entry may exist per
// user at any instant, enforced by a partial unique index on
// (user_id) WHERE clock_out_time IS NULL.
type TimeEntry struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	UserID        int64      `json:"user_id" gorm:"not null;index"`
	ClockInTime   time.Time  `json:"clock_in_time" gorm:"not null;index"`
	ClockOutTime  *time.Time `json:"clock_out_time"`
	TotalHours    *float64   `json:"total_hours"`
	BreakDuration float64    `json:"break_duration" gorm:"not null;default:0"`
	ProjectID     *int64     `json:"project_id"`
	LocationLat   *float64   `json:"location_lat"`
	LocationLon   *float64   `json:"location_lon"`
	Notes         string     `json:"notes"`
	IsOvertime    bool       `json:"is_overtime" gorm:"not null;default:false"`
	Status        string     `json:"status" gorm:"not null;default:active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	User    *User    `json:"-" gorm:"foreignKey:UserID"`
	Project *Project `json:"-" gorm:"foreignKey:ProjectID"`
}

// TableName returns the database table name for the TimeEntry model.
func (TimeEntry) TableName() string {
	return "time_entries"
}

// IsOpen reports whether the entry represents a user who is still
// clocked in.
func (e *TimeEntry) IsOpen() bool {
	return e.ClockOutTime == nil
}

// Duration returns the raw clock-in to clock-out span in hours, without
// break subtraction. Zero while the entry is open.
func (e *TimeEntry) Duration() float64 {
	if e.ClockOutTime == nil {
		return 0
	}
	return e.ClockOutTime.Sub(e.ClockInTime).Hours()
}

// WorkedHours returns the break-adjusted hours for the entry: the stored
// total when present, otherwise the span minus breaks, clamped at zero.
// Zero while the entry is open. All aggregation and reporting uses this
// single formula.
func (e *TimeEntry) WorkedHours() float64 {
	if e.ClockOutTime == nil {
		return 0
	}
	if e.TotalHours != nil {
		return *e.TotalHours
	}
	worked := e.Duration() - e.BreakDuration
	if worked < 0 {
		return 0
	}
	return worked
}
