package model

import "time"

// Item is a catalog entry describing a class of physical asset (e.g. "Laptop").
// Physical units are told apart by Assignment.UniqueKey.
type Item struct {
	ID        uint      `gorm:"primaryKey" json:"item_id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required,max=255"`
	CreatedAt time.Time `json:"created_at"`
}

func (Item) TableName() string {
	return "items"
}
