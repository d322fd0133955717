package models

import (
	"strconv"
	"time"

	"cafe-pos-api/pricing"

	"gorm.io/datatypes"
)

type Category struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"uniqueIndex;not null"`
	SortOrder int        `json:"sort_order" gorm:"default:0"`
	MenuItems []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MenuItem carries the full option/ingredient definition the pricing
// resolver works from. Ingredients and option groups live in JSON columns;
// they are read and written as a unit, never queried field-by-field.
type MenuItem struct {
	ID              uint                                        `json:"id" gorm:"primaryKey"`
	CategoryID      uint                                        `json:"category_id" gorm:"not null;index"`
	Name            string                                      `json:"name" gorm:"not null"`
	Description     string                                      `json:"description"`
	BasePrice       float64                                     `json:"base_price" gorm:"not null"`
	IsAvailable     bool                                        `json:"is_available" gorm:"default:true"`
	BaseIngredients datatypes.JSONSlice[pricing.BaseIngredient] `json:"base_ingredients"`
	OptionGroups    datatypes.JSONSlice[pricing.OptionGroup]    `json:"option_groups"`
	CreatedAt       time.Time                                   `json:"created_at"`
	UpdatedAt       time.Time                                   `json:"updated_at"`
}

// Definition converts the stored menu item into the pricing module's view
func (m *MenuItem) Definition() pricing.ItemDefinition {
	return pricing.ItemDefinition{
		ID:              strconv.FormatUint(uint64(m.ID), 10),
		Name:            m.Name,
		BasePrice:       m.BasePrice,
		BaseIngredients: m.BaseIngredients,
		OptionGroups:    m.OptionGroups,
	}
}
