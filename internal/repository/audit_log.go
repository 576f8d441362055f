package repository

import (
	"context"
	"fmt"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"gorm.io/gorm"
)

// AuditLogRepository appends audit records. The core never reads them back.
type AuditLogRepository interface {
	Append(ctx context.Context, log *models.AuditLog) error
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository instance.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Append(ctx context.Context, log *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}
