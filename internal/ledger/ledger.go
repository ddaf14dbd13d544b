// Package ledger is the assignment ledger: the only code that creates or deletes
// assignment rows, and therefore the only writer of Employee.ItemCount.
//
// Every public operation runs as one transaction and is serialized with the
// others, so after any call returns each employee's item_count equals the
// number of assignment rows it holds.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go-asset-ledger/internal/audit"
	"go-asset-ledger/internal/repository"
	"go-asset-ledger/internal/telemetry"
	"go-asset-ledger/pkg/validator"

	"gorm.io/gorm"
)

// Notifier receives an Event after each committed ledger change.
type Notifier interface {
	Publish(Event)
}

// Event describes a committed ledger change for live front-end refresh.
type Event struct {
	Type      string    `json:"type"`
	EmpID     string    `json:"emp_id,omitempty"`
	FromEmpID string    `json:"from_emp_id,omitempty"`
	ToEmpID   string    `json:"to_emp_id,omitempty"`
	ItemID    uint      `json:"item_id,omitempty"`
	UniqueKey string    `json:"unique_key,omitempty"`
	At        time.Time `json:"at"`
}

type Option func(*Ledger)

// WithNotifier publishes committed changes to n.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithClock overrides time.Now for assignment and transfer dates.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

type Ledger struct {
	db       *gorm.DB
	audit    *audit.Logger
	notifier Notifier
	now      func() time.Time
	log      *slog.Logger

	mu sync.Mutex
}

func New(db *gorm.DB, auditLog *audit.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		db:    db,
		audit: auditLog,
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// run executes fn as one serialized transaction and records metrics.
func (l *Ledger) run(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	started := time.Now()
	l.mu.Lock()
	err := l.db.WithContext(ctx).Transaction(fn)
	l.mu.Unlock()

	result := outcome(err)
	telemetry.ObserveLedger(op, result, started)
	if result == "error" {
		l.log.Error("ledger operation failed", "operation", op, "error", err)
	}
	return err
}

// validate rejects a malformed request before any transaction is opened,
// still counting it under op.
func (l *Ledger) validate(op string, req any) error {
	started := time.Now()
	err := validator.Validate(req)
	if err != nil {
		telemetry.ObserveLedger(op, outcome(err), started)
	}
	return err
}

// outcome is the result label recorded for a finished operation.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, validator.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

func (l *Ledger) publish(ev Event) {
	if l.notifier == nil {
		return
	}
	l.notifier.Publish(ev)
}

func (l *Ledger) stamp() time.Time {
	return l.now().UTC()
}
