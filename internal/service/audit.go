package service

import (
	"context"

	"shop-admin/internal/models"

	"gorm.io/gorm"
)

type AuditFilter struct {
	ListParams
	Module string
	Action string
	UserID uint
}

// AuditLogService reads the audit log. Entries are written only by the recorder.
type AuditLogService struct {
	db *gorm.DB
}

func NewAuditLogService(db *gorm.DB) *AuditLogService {
	return &AuditLogService{db: db}
}

// List returns entries newest first.
func (s *AuditLogService) List(ctx context.Context, f AuditFilter) (Page[models.AuditLog], error) {
	f.normalize()
	q := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if f.Module != "" {
		q = q.Where("module = ?", f.Module)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	q = searchLike(q, f.Search, "description")
	return paginate[models.AuditLog](q, f.ListParams, "created_at DESC, id DESC", "User")
}

func (s *AuditLogService) Get(ctx context.Context, id uint) (*models.AuditLog, error) {
	var entry models.AuditLog
	if err := s.db.WithContext(ctx).Preload("User").First(&entry, id).Error; err != nil {
		return nil, lookupErr(err, "audit log entry")
	}
	return &entry, nil
}
