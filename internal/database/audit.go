package database

import (
	"context"

	"shop-admin/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor identifies who performed an audited action.
type Actor struct {
	UserID *uint
	IP     string
}

// AuditRecorder appends entries to the audit log. It is best effort: a failed
// write is logged and reported to the failure hook, never to the caller.
type AuditRecorder struct {
	db        *gorm.DB
	log       *zap.Logger
	onFailure func()
}

type AuditOption func(*AuditRecorder)

// WithFailureHook registers fn to run after every failed write.
func WithFailureHook(fn func()) AuditOption {
	return func(r *AuditRecorder) { r.onFailure = fn }
}

func NewAuditRecorder(db *gorm.DB, log *zap.Logger, opts ...AuditOption) *AuditRecorder {
	r := &AuditRecorder{db: db, log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *AuditRecorder) Record(ctx context.Context, actor Actor, action, description, module string) {
	if r == nil || r.db == nil {
		return
	}

	entry := models.AuditLog{
		UserID:      actor.UserID,
		Action:      action,
		Description: description,
		Module:      module,
		IPAddress:   actor.IP,
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.log.Error("Failed to write audit log",
			zap.Error(err),
			zap.String("action", action),
			zap.String("module", module),
		)
		if r.onFailure != nil {
			r.onFailure()
		}
	}
}
