package model

import "time"

// Employee is a person who can hold assigned units.
//
// ItemCount is denormalized: it mirrors the number of assignment rows for EmpID
// and is only ever written by the ledger package.
type Employee struct {
	EmpID      string    `gorm:"primaryKey;type:varchar(50)" json:"emp_id" validate:"required,max=50"`
	Name       string    `gorm:"type:varchar(255);not null;index" json:"name" validate:"required,max=255"`
	DivisionID *uint     `gorm:"index" json:"division_id"`
	ItemCount  int       `gorm:"not null;default:0" json:"item_count"`
	DateJoined time.Time `gorm:"not null" json:"date_joined"`
}

func (Employee) TableName() string {
	return "employees"
}
