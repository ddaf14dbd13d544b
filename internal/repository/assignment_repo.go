package repository

import (
	"context"
	"errors"

	"go-asset-ledger/internal/model"

	"gorm.io/gorm"
)

// AssignmentRepository is read-only on purpose: assignment rows and the
// employee item counters they back are written by the ledger package alone.
type AssignmentRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Assignment, error)
	FindByEmployee(ctx context.Context, empID string) ([]model.Assignment, error)
	FindByItem(ctx context.Context, itemID uint) ([]model.Assignment, error)
	// FindHeld returns the unit of itemID held by empID, preferring the row whose
	// unique key equals uniqueKey and otherwise the oldest row. nil when none.
	FindHeld(ctx context.Context, empID string, itemID uint, uniqueKey string) (*model.Assignment, error)
	CountByEmployee(ctx context.Context, empID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db}
}

func (r *assignmentRepo) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var a model.Assignment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err, "assignment", id)
	}
	return &a, nil
}

func (r *assignmentRepo) FindByEmployee(ctx context.Context, empID string) ([]model.Assignment, error) {
	var rows []model.Assignment
	err := r.db.WithContext(ctx).Where("emp_id = ?", empID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *assignmentRepo) FindByItem(ctx context.Context, itemID uint) ([]model.Assignment, error) {
	var rows []model.Assignment
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *assignmentRepo) FindHeld(ctx context.Context, empID string, itemID uint, uniqueKey string) (*model.Assignment, error) {
	if uniqueKey != "" {
		var exact model.Assignment
		err := r.db.WithContext(ctx).
			Where("emp_id = ? AND item_id = ? AND unique_key = ?", empID, itemID, uniqueKey).
			Order("id ASC").First(&exact).Error
		if err == nil {
			return &exact, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var first model.Assignment
	err := r.db.WithContext(ctx).
		Where("emp_id = ? AND item_id = ?", empID, itemID).
		Order("id ASC").First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &first, nil
}

func (r *assignmentRepo) CountByEmployee(ctx context.Context, empID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).Where("emp_id = ?", empID).Count(&n).Error
	return n, err
}

func (r *assignmentRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).Count(&n).Error
	return n, err
}
