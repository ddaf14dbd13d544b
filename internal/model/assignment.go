package model

import "time"

// Assignment records that one physical unit of an Item is currently held by an Employee.
// Deleting the row means the unit is no longer with that employee.
type Assignment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EmpID        string    `gorm:"type:varchar(50);not null;index" json:"emp_id"`
	ItemID       uint      `gorm:"not null;index" json:"item_id"`
	UniqueKey    string    `gorm:"type:varchar(255);not null;index" json:"unique_key"`
	DateAssigned time.Time `gorm:"not null" json:"date_assigned"`
	Notes        string    `gorm:"type:text" json:"notes"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// AssignmentAttribute is one name/value pair owned by a single assignment
// (e.g. "warranty" -> "2027-01-31"). Names are unique per assignment.
type AssignmentAttribute struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	AssignmentID uint   `gorm:"not null;uniqueIndex:idx_assignment_attribute" json:"assignment_id"`
	Name         string `gorm:"type:varchar(100);not null;uniqueIndex:idx_assignment_attribute" json:"name"`
	Value        string `gorm:"type:text" json:"value"`
}

func (AssignmentAttribute) TableName() string {
	return "assignment_attributes"
}

// Attributes folds attribute rows into the name -> value map callers work with.
func Attributes(rows []AssignmentAttribute) map[string]string {
	attrs := make(map[string]string, len(rows))
	for _, r := range rows {
		attrs[r.Name] = r.Value
	}
	return attrs
}
