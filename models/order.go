package models

import (
	"time"

	"cafe-pos-api/pricing"

	"gorm.io/datatypes"
)

// OrderStatus represents the kitchen workflow states of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusServed    OrderStatus = "SERVED"
)

// OrderType distinguishes seated orders from takeaway
type OrderType string

const (
	OrderDineIn   OrderType = "dine_in"
	OrderTakeaway OrderType = "takeaway"
)

// FirstOrderNo is the display number of the very first order
const FirstOrderNo = 1001

type Order struct {
	ID              uint                                   `json:"id" gorm:"primaryKey"`
	OrderNo         int                                    `json:"order_no" gorm:"uniqueIndex;not null"`
	OrderType       OrderType                              `json:"order_type" gorm:"not null"`
	TableNos        datatypes.JSONSlice[int]               `json:"table_nos"` // empty for takeaway, >1 entry when tables are merged
	Lines           datatypes.JSONSlice[pricing.OrderLine] `json:"menu_items" gorm:"column:menu_items"`
	OriginalPrice   float64                                `json:"original_price"`
	DiscountPercent int                                    `json:"discount_percent" gorm:"default:0"`
	DiscountAmount  float64                                `json:"discount_amount" gorm:"default:0"`
	TotalPrice      float64                                `json:"total_price"`
	IsLocked        bool                                   `json:"is_locked" gorm:"default:false"`
	Status          OrderStatus                            `json:"order_status" gorm:"not null;default:'PENDING'"`
	Paid            bool                                   `json:"paid" gorm:"default:false"`
	StatusHistory   []OrderStatusHistory                   `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time                              `json:"created_at"`
	UpdatedAt       time.Time                              `json:"updated_at"`
}

// Recompute refreshes the derived price fields from the order's lines.
// Rounding to 2 decimals happens here because this is the persisted form.
func (o *Order) Recompute() {
	original, total := pricing.Totals(o.Lines, o.DiscountPercent, o.DiscountAmount)
	o.OriginalPrice = pricing.Round2(original)
	o.TotalPrice = pricing.Round2(total)
}

// AmountSaved is the discount the customer received, never negative
func (o *Order) AmountSaved() float64 {
	return pricing.Round2(pricing.Saved(o.OriginalPrice, o.TotalPrice))
}

// OrderStatusHistory tracks every status change for the audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Counter backs sequential number allocation (order numbers). Incremented
// with an atomic UPDATE so concurrent order creation cannot hand out
// duplicates.
type Counter struct {
	Name  string `gorm:"primaryKey"`
	Value int    `gorm:"not null"`
}
