package repository

import (
	"context"

	"go-asset-ledger/internal/model"

	"gorm.io/gorm"
)

// AuditRepository appends and reads audit entries. There is deliberately no
// update or delete.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	ListRecent(ctx context.Context, limit int, actionType string) ([]model.AuditLog, error)
	Count(ctx context.Context, actionType string) (int64, error)
}

type auditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db}
}

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListRecent returns newest first; an empty actionType matches all.
func (r *auditRepo) ListRecent(ctx context.Context, limit int, actionType string) ([]model.AuditLog, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if actionType != "" {
		q = q.Where("action_type = ?", actionType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var logs []model.AuditLog
	err := q.Order("timestamp DESC").Order("id DESC").Find(&logs).Error
	return logs, err
}

func (r *auditRepo) Count(ctx context.Context, actionType string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditLog{})
	if actionType != "" {
		q = q.Where("action_type = ?", actionType)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
