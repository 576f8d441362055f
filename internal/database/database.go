// Package database provides the gorm connection and schema migrations.
package database

import (
	"fmt"

	"github.com/GunarsK-portfolio/timetracker-service/internal/config"
	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres database.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema. Besides AutoMigrate it installs
// the partial unique index that guarantees at most one open time entry
// per user, so concurrent clock-ins cannot both succeed.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Project{},
		&models.TimeEntry{},
		&models.Geofence{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uix_time_entries_open_entry
		 ON time_entries (user_id) WHERE clock_out_time IS NULL`,
	).Error
	if err != nil {
		return fmt.Errorf("failed to create open-entry index: %w", err)
	}

	return nil
}
