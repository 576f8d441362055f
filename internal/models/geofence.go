package models

import "time"

// Geofence is a circular boundary used to authorize clock-in locations.
// Radius is in meters.
type Geofence struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	CenterLat float64   `json:"center_lat" gorm:"not null"`
	CenterLon float64   `json:"center_lon" gorm:"not null"`
	Radius    float64   `json:"radius" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for the Geofence model.
func (Geofence) TableName() string {
	return "geofences"
}
