package ledger

import (
	"context"
	"errors"
	"fmt"

	"go-asset-ledger/internal/audit"

	"gorm.io/gorm"
)

// ErrInvariantViolation matches every *InvariantViolation.
var ErrInvariantViolation = errors.New("item count invariant violated")

// InvariantViolation is an employee whose stored item_count differs from the
// number of assignment rows it holds. Only writes that bypass the ledger cause it.
type InvariantViolation struct {
	EmpID  string `json:"emp_id"`
	Stored int    `json:"stored"`
	Actual int    `json:"actual"`
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("employee %s: item_count %d, holds %d", v.EmpID, v.Stored, v.Actual)
}

func (v *InvariantViolation) Is(target error) bool { return target == ErrInvariantViolation }

const violationsSQL = `SELECT e.emp_id, e.item_count AS stored, COUNT(a.id) AS actual
FROM employees e
LEFT JOIN assignments a ON a.emp_id = e.emp_id
GROUP BY e.emp_id, e.item_count
HAVING e.item_count <> COUNT(a.id)
ORDER BY e.emp_id ASC`

func violations(ctx context.Context, db *gorm.DB) ([]InvariantViolation, error) {
	var out []InvariantViolation
	err := db.WithContext(ctx).Raw(violationsSQL).Scan(&out).Error
	return out, err
}

// Verify recounts every employee's assignments. It returns nil when all counters
// agree, otherwise an error joining one *InvariantViolation per drifted employee.
func (l *Ledger) Verify(ctx context.Context) error {
	l.mu.Lock()
	found, err := violations(ctx, l.db)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return nil
	}
	errs := make([]error, 0, len(found))
	for i := range found {
		errs = append(errs, &found[i])
	}
	return errors.Join(errs...)
}

// Reconcile rewrites drifted counters from the live assignment count and returns
// what it repaired. Each repair is audited.
func (l *Ledger) Reconcile(ctx context.Context, userID *uint) ([]InvariantViolation, error) {
	var repaired []InvariantViolation
	err := l.run(ctx, "reconcile", func(tx *gorm.DB) error {
		found, err := violations(ctx, tx)
		if err != nil {
			return err
		}
		for _, v := range found {
			if err := setItemCount(ctx, tx, v.EmpID, v.Actual); err != nil {
				return err
			}
			l.audit.InTx(tx).Logf(ctx, audit.ActionReconcileItemCount, userID,
				"employee %s item_count %d -> %d", v.EmpID, v.Stored, v.Actual)
		}
		repaired = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(repaired) > 0 {
		l.log.Warn("reconciled drifted item counts", "employees", len(repaired))
	}
	return repaired, nil
}
