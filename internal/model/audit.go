package model

import "time"

// AuditLog is an append-only record of a mutating action.
// Rows are never updated or deleted.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"log_id"`
	ActionType string    `gorm:"type:varchar(50);not null;index" json:"action_type"`
	Details    string    `gorm:"type:text" json:"details"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
