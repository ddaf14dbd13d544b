package repository

import (
	"context"

	"go-asset-ledger/internal/model"

	"gorm.io/gorm"
)

// TransferFilter narrows ListTransfers; zero values match everything.
type TransferFilter struct {
	ItemID uint
	EmpID  string // matches either side of the transfer
	Limit  int
}

// TransferRepository is append-only.
type TransferRepository interface {
	Create(ctx context.Context, h *model.TransferHistory) error
	Find(ctx context.Context, filter TransferFilter) ([]model.TransferHistory, error)
	Count(ctx context.Context) (int64, error)
}

type transferRepo struct {
	db *gorm.DB
}

func NewTransferRepo(db *gorm.DB) TransferRepository {
	return &transferRepo{db}
}

func (r *transferRepo) Create(ctx context.Context, h *model.TransferHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *transferRepo) Find(ctx context.Context, filter TransferFilter) ([]model.TransferHistory, error) {
	q := r.db.WithContext(ctx).Model(&model.TransferHistory{})
	if filter.ItemID != 0 {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.EmpID != "" {
		q = q.Where("(from_emp_id = ? OR to_emp_id = ?)", filter.EmpID, filter.EmpID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var rows []model.TransferHistory
	err := q.Order("transfer_date DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *transferRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.TransferHistory{}).Count(&n).Error
	return n, err
}
