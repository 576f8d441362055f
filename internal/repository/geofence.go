package repository

import (
	"context"
	"fmt"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"gorm.io/gorm"
)

// GeofenceRepository defines the interface for geofence data operations.
type GeofenceRepository interface {
	List(ctx context.Context) ([]*models.Geofence, error)
	ListActive(ctx context.Context) ([]*models.Geofence, error)
	Create(ctx context.Context, geofence *models.Geofence) error
}

type geofenceRepository struct {
	db *gorm.DB
}

// NewGeofenceRepository creates a new GeofenceRepository instance.
func NewGeofenceRepository(db *gorm.DB) GeofenceRepository {
	return &geofenceRepository{db: db}
}

func (r *geofenceRepository) List(ctx context.Context) ([]*models.Geofence, error) {
	var geofences []*models.Geofence
	if err := r.db.WithContext(ctx).Order("id").Find(&geofences).Error; err != nil {
		return nil, fmt.Errorf("failed to list geofences: %w", err)
	}
	return geofences, nil
}

func (r *geofenceRepository) ListActive(ctx context.Context) ([]*models.Geofence, error) {
	var geofences []*models.Geofence
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&geofences).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active geofences: %w", err)
	}
	return geofences, nil
}

func (r *geofenceRepository) Create(ctx context.Context, geofence *models.Geofence) error {
	if err := r.db.WithContext(ctx).Create(geofence).Error; err != nil {
		return fmt.Errorf("failed to create geofence: %w", err)
	}
	return nil
}
