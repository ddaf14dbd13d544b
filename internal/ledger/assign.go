package ledger

import (
	"context"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"

	"gorm.io/gorm"
)

type AssignRequest struct {
	EmpID     string `json:"emp_id" validate:"required,notblank"`
	ItemID    uint   `json:"item_id" validate:"required"`
	UniqueKey string `json:"unique_key" validate:"required,notblank,max=255"`
	Notes     string `json:"notes"`
	UserID    *uint  `json:"-"`
}

type TransferRequest struct {
	FromEmpID string `json:"from_emp_id" validate:"required,notblank"`
	ToEmpID   string `json:"to_emp_id" validate:"required,notblank"`
	ItemID    uint   `json:"item_id" validate:"required"`
	UniqueKey string `json:"unique_key" validate:"required,notblank,max=255"`
	Notes     string `json:"notes"`
	UserID    *uint  `json:"-"`
}

// TransferResult reports what a transfer did. SourceFound is false when the
// source employee held no matching unit; history is written regardless.
type TransferResult struct {
	Assignment  *model.Assignment      `json:"assignment"`
	History     *model.TransferHistory `json:"history"`
	SourceFound bool                   `json:"source_found"`
}

type UnassignRequest struct {
	EmpID  string `json:"emp_id" validate:"required,notblank"`
	ItemID uint   `json:"item_id" validate:"required"`
	// UniqueKey, when set, must match the held unit exactly.
	UniqueKey string `json:"unique_key"`
	UserID    *uint  `json:"-"`
}

// Assign records that the employee now holds one unit of the item.
// It fails with a NotFoundError when the item or the employee is missing.
// The unique key is not checked against units held by others.
func (l *Ledger) Assign(ctx context.Context, req AssignRequest) (*model.Assignment, error) {
	if err := l.validate("assign", &req); err != nil {
		return nil, err
	}
	var created *model.Assignment
	err := l.run(ctx, "assign", func(tx *gorm.DB) error {
		a, err := l.assign(ctx, tx, req)
		created = a
		return err
	})
	if err != nil {
		return nil, err
	}
	l.publish(Event{Type: audit.ActionAssignItem, EmpID: created.EmpID, ItemID: created.ItemID, UniqueKey: created.UniqueKey, At: created.DateAssigned})
	return created, nil
}

func (l *Ledger) assign(ctx context.Context, tx *gorm.DB, req AssignRequest) (*model.Assignment, error) {
	item, err := repository.NewItemRepo(tx).FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if _, err := lockEmployee(ctx, tx, req.EmpID); err != nil {
		return nil, err
	}

	a := &model.Assignment{
		EmpID:        req.EmpID,
		ItemID:       req.ItemID,
		UniqueKey:    req.UniqueKey,
		DateAssigned: l.stamp(),
		Notes:        req.Notes,
	}
	if err := insertAssignment(ctx, tx, a); err != nil {
		return nil, err
	}
	l.audit.InTx(tx).Logf(ctx, audit.ActionAssignItem, req.UserID,
		"assigned %s (item %d) unit %s to employee %s", item.Name, item.ID, a.UniqueKey, a.EmpID)
	return a, nil
}

// Transfer moves a unit from one employee to another.
//
// The source row for (from, item) is removed if present, preferring the one with
// the same unique key; the unit is then assigned to the target, carrying its
// attributes along. A transfer history row is appended even when the source held
// nothing. A missing target employee or item rolls the whole transfer back.
func (l *Ledger) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if err := l.validate("transfer", &req); err != nil {
		return nil, err
	}
	result := &TransferResult{}
	err := l.run(ctx, "transfer", func(tx *gorm.DB) error {
		src, err := repository.NewAssignmentRepo(tx).FindHeld(ctx, req.FromEmpID, req.ItemID, req.UniqueKey)
		if err != nil {
			return err
		}

		created, err := l.assign(ctx, tx, AssignRequest{
			EmpID:     req.ToEmpID,
			ItemID:    req.ItemID,
			UniqueKey: req.UniqueKey,
			Notes:     req.Notes,
			UserID:    req.UserID,
		})
		if err != nil {
			return err
		}
		result.Assignment = created

		if src != nil {
			result.SourceFound = true
			if _, err := repository.NewAttributeRepo(tx).Reassign(ctx, src.ID, created.ID); err != nil {
				return err
			}
			if err := deleteAssignment(ctx, tx, src); err != nil {
				return err
			}
		}

		history := &model.TransferHistory{
			ItemID:       req.ItemID,
			UniqueKey:    req.UniqueKey,
			FromEmpID:    req.FromEmpID,
			ToEmpID:      req.ToEmpID,
			TransferDate: created.DateAssigned,
			Notes:        req.Notes,
		}
		if err := repository.NewTransferRepo(tx).Create(ctx, history); err != nil {
			return err
		}
		result.History = history

		details := "transferred item %d unit %s from %s to %s"
		if src == nil {
			details += " (source held no matching unit)"
		}
		l.audit.InTx(tx).Logf(ctx, audit.ActionTransferItem, req.UserID, details,
			req.ItemID, req.UniqueKey, req.FromEmpID, req.ToEmpID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !result.SourceFound {
		l.log.Warn("transfer recorded without a source assignment",
			"from", req.FromEmpID, "to", req.ToEmpID, "item_id", req.ItemID, "unique_key", req.UniqueKey)
	}
	l.publish(Event{
		Type:      audit.ActionTransferItem,
		FromEmpID: req.FromEmpID,
		ToEmpID:   req.ToEmpID,
		ItemID:    req.ItemID,
		UniqueKey: req.UniqueKey,
		At:        result.History.TransferDate,
	})
	return result, nil
}

// Unassign removes the unit of the item held by the employee. It reports false,
// without error, when no matching unit is held.
func (l *Ledger) Unassign(ctx context.Context, req UnassignRequest) (bool, error) {
	if err := l.validate("unassign", &req); err != nil {
		return false, err
	}
	var removed *model.Assignment
	err := l.run(ctx, "unassign", func(tx *gorm.DB) error {
		a, err := repository.NewAssignmentRepo(tx).FindHeld(ctx, req.EmpID, req.ItemID, req.UniqueKey)
		if err != nil || a == nil {
			return err
		}
		if req.UniqueKey != "" && a.UniqueKey != req.UniqueKey {
			return nil
		}
		if err := deleteAssignment(ctx, tx, a); err != nil {
			return err
		}
		removed = a
		l.audit.InTx(tx).Logf(ctx, audit.ActionRemoveItem, req.UserID,
			"removed item %d unit %s from employee %s", a.ItemID, a.UniqueKey, a.EmpID)
		return nil
	})
	if err != nil || removed == nil {
		return false, err
	}
	l.publish(Event{Type: audit.ActionRemoveItem, EmpID: removed.EmpID, ItemID: removed.ItemID, UniqueKey: removed.UniqueKey, At: l.stamp()})
	return true, nil
}
