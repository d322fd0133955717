package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MinTableCapacity = 1
	MaxTableCapacity = 12
)

type Table struct {
	ID            uint                      `json:"id" gorm:"primaryKey"`
	TableNo       int                       `json:"table_no" gorm:"uniqueIndex;not null"`
	Capacity      int                       `json:"capacity" gorm:"not null"`
	IsOccupied    bool                      `json:"is_occupied" gorm:"default:false"`
	NoOccupants   int                       `json:"no_occupants" gorm:"default:0"`
	ActiveOrderID *uint                     `json:"active_order_id"` // relation only, not ownership
	OrderIDs      datatypes.JSONSlice[uint] `json:"order_ids"`       // every order ever seated here, set semantics
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// RecordOrder appends an order to the table's history without duplicates
func (t *Table) RecordOrder(orderID uint) {
	for _, id := range t.OrderIDs {
		if id == orderID {
			return
		}
	}
	t.OrderIDs = append(t.OrderIDs, orderID)
}
