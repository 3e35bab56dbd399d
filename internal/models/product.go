package models

import "time"

// Product represents a catalog entry.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:varchar(1000)"`
	Price       float64   `json:"price" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductChanges carries the fields of a partial product update. Nil fields
// are left untouched.
type ProductChanges struct {
	Name        *string
	Description *string
	Price       *float64
}

// Empty reports whether no field is set.
func (c ProductChanges) Empty() bool {
	return c.Name == nil && c.Description == nil && c.Price == nil
}

// Columns returns the changed fields keyed by column name.
func (c ProductChanges) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if c.Name != nil {
		cols["name"] = *c.Name
	}
	if c.Description != nil {
		cols["description"] = *c.Description
	}
	if c.Price != nil {
		cols["price"] = *c.Price
	}
	return cols
}
