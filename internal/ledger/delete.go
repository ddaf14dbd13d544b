package ledger

import (
	"context"
	"errors"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/repository"

	"gorm.io/gorm"
)

// DeleteItem removes a catalog item together with every unit of it currently
// assigned (and their attributes), decrementing each holder's count.
// It reports false when the item does not exist.
func (l *Ledger) DeleteItem(ctx context.Context, itemID uint, userID *uint) (bool, error) {
	deleted := false
	released := 0
	err := l.run(ctx, "delete_item", func(tx *gorm.DB) error {
		item, err := repository.NewItemRepo(tx).FindByID(ctx, itemID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		held, err := repository.NewAssignmentRepo(tx).FindByItem(ctx, itemID)
		if err != nil {
			return err
		}
		if err := deleteAssignments(ctx, tx, held, true); err != nil {
			return err
		}
		if deleted, err = repository.NewItemRepo(tx).Delete(ctx, itemID); err != nil {
			return err
		}
		released = len(held)
		l.audit.InTx(tx).Logf(ctx, audit.ActionDeleteItem, userID,
			"deleted item %d (%s), released %d assigned units", item.ID, item.Name, released)
		return nil
	})
	if err != nil || !deleted {
		return false, err
	}
	l.publish(Event{Type: audit.ActionDeleteItem, ItemID: itemID, At: l.stamp()})
	return true, nil
}

// DeleteEmployee removes an employee and every unit they hold (with attributes).
// Transfer history mentioning the employee is kept. Reports false when absent.
func (l *Ledger) DeleteEmployee(ctx context.Context, empID string, userID *uint) (bool, error) {
	deleted := false
	err := l.run(ctx, "delete_employee", func(tx *gorm.DB) error {
		emp, err := lockEmployee(ctx, tx, empID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		held, err := repository.NewAssignmentRepo(tx).FindByEmployee(ctx, empID)
		if err != nil {
			return err
		}
		// The counter goes away with the row, so there is nothing to decrement.
		if err := deleteAssignments(ctx, tx, held, false); err != nil {
			return err
		}
		if deleted, err = repository.NewEmployeeRepo(tx).Delete(ctx, empID); err != nil {
			return err
		}
		l.audit.InTx(tx).Logf(ctx, audit.ActionDeleteEmployee, userID,
			"deleted employee %s (%s), released %d assigned units", emp.EmpID, emp.Name, len(held))
		return nil
	})
	if err != nil || !deleted {
		return false, err
	}
	l.publish(Event{Type: audit.ActionDeleteEmployee, EmpID: empID, At: l.stamp()})
	return true, nil
}
