package model

import "time"

// Division is an organizational grouping of employees.
// Employees reference it by id only; removing a division never removes its employees.
type Division struct {
	ID        uint      `gorm:"primaryKey" json:"division_id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required,max=100"`
	CreatedAt time.Time `json:"created_at"`
}

func (Division) TableName() string {
	return "divisions"
}
