package ledger

import (
	"context"
	"errors"
	"sort"

	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Assignment rows and item counters are mutated only through the helpers below.

// lockEmployee loads the employee and, on postgres, holds its row until commit.
func lockEmployee(ctx context.Context, tx *gorm.DB, empID string) (*model.Employee, error) {
	q := tx.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var e model.Employee
	if err := q.First(&e, "emp_id = ?", empID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &repository.NotFoundError{Entity: "employee", Key: empID}
		}
		return nil, err
	}
	return &e, nil
}

func adjustItemCount(ctx context.Context, tx *gorm.DB, empID string, delta int) error {
	if delta == 0 {
		return nil
	}
	return tx.WithContext(ctx).Model(&model.Employee{}).
		Where("emp_id = ?", empID).
		UpdateColumn("item_count", gorm.Expr("item_count + ?", delta)).Error
}

func setItemCount(ctx context.Context, tx *gorm.DB, empID string, count int) error {
	return tx.WithContext(ctx).Model(&model.Employee{}).
		Where("emp_id = ?", empID).
		UpdateColumn("item_count", count).Error
}

func insertAssignment(ctx context.Context, tx *gorm.DB, a *model.Assignment) error {
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		return err
	}
	return adjustItemCount(ctx, tx, a.EmpID, 1)
}

// deleteAssignment removes one row and its attributes and decrements the holder.
func deleteAssignment(ctx context.Context, tx *gorm.DB, a *model.Assignment) error {
	if _, err := repository.NewAttributeRepo(tx).DeleteByAssignment(ctx, a.ID); err != nil {
		return err
	}
	res := tx.WithContext(ctx).Delete(&model.Assignment{}, "id = ?", a.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return adjustItemCount(ctx, tx, a.EmpID, -1)
}

// deleteAssignments removes rows in bulk and decrements each holder once.
// Holders that no longer exist are skipped.
func deleteAssignments(ctx context.Context, tx *gorm.DB, rows []model.Assignment, adjust bool) error {
	if len(rows) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(rows))
	perHolder := map[string]int{}
	for _, a := range rows {
		ids = append(ids, a.ID)
		perHolder[a.EmpID]++
	}
	if err := tx.WithContext(ctx).Where("assignment_id IN ?", ids).Delete(&model.AssignmentAttribute{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Assignment{}).Error; err != nil {
		return err
	}
	if !adjust {
		return nil
	}
	holders := make([]string, 0, len(perHolder))
	for emp := range perHolder {
		holders = append(holders, emp)
	}
	sort.Strings(holders)
	for _, emp := range holders {
		if err := adjustItemCount(ctx, tx, emp, -perHolder[emp]); err != nil {
			return err
		}
	}
	return nil
}
