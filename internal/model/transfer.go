package model

import "time"

// TransferHistory is an append-only record of a unit moving between employees.
type TransferHistory struct {
	ID           uint      `gorm:"primaryKey" json:"transfer_id"`
	ItemID       uint      `gorm:"not null;index" json:"item_id"`
	UniqueKey    string    `gorm:"type:varchar(255)" json:"unique_key"`
	FromEmpID    string    `gorm:"type:varchar(50);index" json:"from_emp_id"`
	ToEmpID      string    `gorm:"type:varchar(50);index" json:"to_emp_id"`
	TransferDate time.Time `gorm:"not null;index" json:"transfer_date"`
	Notes        string    `gorm:"type:text" json:"notes"`
}

func (TransferHistory) TableName() string {
	return "transfer_history"
}
