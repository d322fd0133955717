package models

import (
	"time"

	"gorm.io/datatypes"
)

type StockItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"uniqueIndex;not null"`
	Quantity     float64   `json:"quantity" gorm:"default:0"`
	Unit         string    `json:"unit" gorm:"not null"` // g, ml, pcs, ...
	MinThreshold float64   `json:"min_threshold" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LowStock reports whether the item has fallen to or below its threshold
func (s *StockItem) LowStock() bool {
	return s.Quantity <= s.MinThreshold
}

type Supplier struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Contact   string    `json:"contact"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PurchaseStatus is the lifecycle of a purchase order
type PurchaseStatus string

const (
	PurchaseDraft    PurchaseStatus = "DRAFT"
	PurchaseOrdered  PurchaseStatus = "ORDERED"
	PurchaseReceived PurchaseStatus = "RECEIVED"
)

// PurchaseLine is one stock item on a purchase order, with quantity and
// cost snapshotted at ordering time.
type PurchaseLine struct {
	StockItemID uint    `json:"stock_item_id"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
}

type PurchaseOrder struct {
	ID         uint                              `json:"id" gorm:"primaryKey"`
	SupplierID uint                              `json:"supplier_id" gorm:"not null;index"`
	Supplier   Supplier                          `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Status     PurchaseStatus                    `json:"status" gorm:"not null;default:'DRAFT'"`
	Lines      datatypes.JSONSlice[PurchaseLine] `json:"lines"`
	TotalCost  float64                           `json:"total_cost"`
	ReceivedAt *time.Time                        `json:"received_at"`
	CreatedAt  time.Time                         `json:"created_at"`
	UpdatedAt  time.Time                         `json:"updated_at"`
}

// RecomputeCost refreshes the total from the purchase lines
func (p *PurchaseOrder) RecomputeCost() {
	var total float64
	for _, l := range p.Lines {
		total += l.UnitCost * l.Quantity
	}
	p.TotalCost = total
}
