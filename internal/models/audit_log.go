package models

import "time"

// Audit action tags.
const (
	ActionClockIn         = "CLOCK_IN"
	ActionClockOut        = "CLOCK_OUT"
	ActionBreakStart      = "BREAK_START"
	ActionBreakEnd        = "BREAK_END"
	ActionUpdateTimeEntry = "UPDATE_TIME_ENTRY"
	ActionUserRegistered  = "USER_REGISTERED"
	ActionEmailVerified   = "EMAIL_VERIFIED"
	ActionLoginSuccess    = "LOGIN_SUCCESS"
	ActionLoginFailure    = "LOGIN_FAILURE"
	ActionLogout          = "LOGOUT"
	ActionGoogleLogin     = "GOOGLE_LOGIN_SUCCESS"
	ActionGoogleLinked    = "GOOGLE_ACCOUNT_LINKED"
	ActionGoogleCreated   = "GOOGLE_ACCOUNT_CREATED"
)

// AuditLog is an append-only record of a user action. OldValues and
// NewValues hold JSON snapshots when a mutation is being recorded.
type AuditLog struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    *int64    `json:"user_id" gorm:"index"`
	Action    string    `json:"action" gorm:"not null"`
	Table     *string   `json:"table_name" gorm:"column:table_name"`
	RecordID  *int64    `json:"record_id"`
	OldValues *string   `json:"old_values"`
	NewValues *string   `json:"new_values"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// TableName returns the database table name for the AuditLog model.
func (AuditLog) TableName() string {
	return "audit_logs"
}
