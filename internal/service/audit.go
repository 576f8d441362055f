package service

import (
	"context"
	"encoding/json"

	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// RequestMeta carries the caller context recorded with every audit entry.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuditService appends audit records. Failures are logged and swallowed
// so an audit outage can never fail the primary mutation.
type AuditService interface {
	Log(ctx context.Context, userID int64, action string, meta RequestMeta)
	LogChange(ctx context.Context, userID int64, action, table string, recordID int64, oldValues, newValues any, meta RequestMeta)
}

type auditService struct {
	auditRepo repository.AuditLogRepository
	logger    *logrus.Logger
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo repository.AuditLogRepository, logger *logrus.Logger) AuditService {
	return &auditService{auditRepo: auditRepo, logger: logger}
}

// Log records an action. A zero userID marks an anonymous event, such
// as a failed login.
func (s *auditService) Log(ctx context.Context, userID int64, action string, meta RequestMeta) {
	log := &models.AuditLog{
		Action:    action,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if userID != 0 {
		log.UserID = &userID
	}
	s.append(ctx, log)
}

func (s *auditService) LogChange(ctx context.Context, userID int64, action, table string, recordID int64, oldValues, newValues any, meta RequestMeta) {
	log := &models.AuditLog{
		UserID:    &userID,
		Action:    action,
		Table:     &table,
		RecordID:  &recordID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if snapshot := marshalSnapshot(oldValues); snapshot != "" {
		log.OldValues = &snapshot
	}
	if snapshot := marshalSnapshot(newValues); snapshot != "" {
		log.NewValues = &snapshot
	}
	s.append(ctx, log)
}

func (s *auditService) append(ctx context.Context, log *models.AuditLog) {
	if err := s.auditRepo.Append(ctx, log); err != nil {
		s.logger.WithError(err).WithField("action", log.Action).Error("Failed to append audit log")
	}
}

func marshalSnapshot(values any) string {
	if values == nil {
		return ""
	}
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(data)
}
