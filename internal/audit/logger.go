// Package audit writes the append-only trail of mutating actions.
//
// Entries are best effort: a failed write is logged and counted but never fails
// the operation that triggered it, and is not retried.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-asset-ledger/internal/model"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/internal/telemetry"

	"gorm.io/gorm"
)

// Action types recorded in AuditLog.ActionType.
const (
	ActionAssignItem         = "assign_item"
	ActionTransferItem       = "transfer_item"
	ActionRemoveItem         = "remove_item"
	ActionCreateDivision     = "create_division"
	ActionUpdateDivision     = "update_division"
	ActionDeleteDivision     = "delete_division"
	ActionCreateEmployee     = "create_employee"
	ActionUpdateEmployee     = "update_employee"
	ActionDeleteEmployee     = "delete_employee"
	ActionCreateItem         = "create_item"
	ActionUpdateItem         = "update_item"
	ActionDeleteItem         = "delete_item"
	ActionAddAttribute       = "add_attribute"
	ActionUpdateAttribute    = "update_attribute"
	ActionDeleteAttribute    = "delete_attribute"
	ActionReconcileItemCount = "reconcile_item_count"
	ActionCreateUser         = "create_user"
	ActionChangePassword     = "change_password"
)

const savepoint = "audit_entry"

// MaxRecent caps how many entries Recent returns in one call.
const MaxRecent = 1000

// Logger appends audit entries either directly or inside a caller's transaction.
type Logger struct {
	db   *gorm.DB
	inTx bool
	now  func() time.Time
	log  *slog.Logger
}

// NewLogger returns a Logger writing through db.
func NewLogger(db *gorm.DB, log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{db: db, now: time.Now, log: log}
}

// InTx returns a copy of the logger bound to tx. Entries written through it commit
// or roll back with tx, but a failed insert is confined to a savepoint so tx stays usable.
func (l *Logger) InTx(tx *gorm.DB) *Logger {
	c := *l
	c.db = tx
	c.inTx = true
	return &c
}

// Log appends one entry stamped with the current time. userID may be nil for system actions.
func (l *Logger) Log(ctx context.Context, actionType, details string, userID *uint) {
	entry := &model.AuditLog{
		ActionType: actionType,
		Details:    details,
		Timestamp:  l.now().UTC(),
		UserID:     userID,
	}
	if err := l.write(ctx, entry); err != nil {
		telemetry.AuditWriteFailuresTotal.Inc()
		l.log.Warn("audit entry dropped", "action", actionType, "details", details, "error", err)
	}
}

// Logf is Log with a formatted details string.
func (l *Logger) Logf(ctx context.Context, actionType string, userID *uint, format string, args ...any) {
	l.Log(ctx, actionType, fmt.Sprintf(format, args...), userID)
}

func (l *Logger) write(ctx context.Context, entry *model.AuditLog) error {
	if !l.inTx {
		return repository.NewAuditRepo(l.db).Create(ctx, entry)
	}
	if err := l.db.SavePoint(savepoint).Error; err != nil {
		return fmt.Errorf("savepoint: %w", err)
	}
	if err := repository.NewAuditRepo(l.db).Create(ctx, entry); err != nil {
		if rbErr := l.db.RollbackTo(savepoint).Error; rbErr != nil {
			return fmt.Errorf("%w (rollback to savepoint: %v)", err, rbErr)
		}
		return err
	}
	return nil
}

// Recent returns the newest entries first, optionally filtered by action type.
// A non-positive limit means 100; larger limits are capped at MaxRecent.
func (l *Logger) Recent(ctx context.Context, limit int, actionType string) ([]model.AuditLog, error) {
	switch {
	case limit <= 0:
		limit = 100
	case limit > MaxRecent:
		limit = MaxRecent
	}
	return repository.NewAuditRepo(l.db).ListRecent(ctx, limit, actionType)
}
