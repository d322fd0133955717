package pricing

// SelectionType tells whether an option group accepts one or many choices
type SelectionType string

const (
	SelectSingle   SelectionType = "single"
	SelectMultiple SelectionType = "multiple"
)

// BaseIngredient is a structural part of a menu item. It is included or
// excluded by the menu definition itself, not chosen by the caller.
type BaseIngredient struct {
	Key             string  `json:"key"`
	Label           string  `json:"label"`
	DefaultIncluded bool    `json:"default_included"`
	Removable       bool    `json:"removable"`
	PriceDelta      float64 `json:"price_delta"`
}

// Option is one selectable choice inside an option group
type Option struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	PriceDelta float64 `json:"price_delta"`
	Default    bool    `json:"default"`
}

// OptionGroup is a named set of related choices on a menu item
// (e.g. "Milk type"), single- or multiple-select.
type OptionGroup struct {
	GroupID       string        `json:"group_id"`
	Label         string        `json:"label"`
	SelectionType SelectionType `json:"selection_type"`
	Required      bool          `json:"required"`
	Options       []Option      `json:"options"`
}

// ItemDefinition is the pricing view of a menu item. Immutable from this
// package's perspective; menu management owns it.
type ItemDefinition struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	BasePrice       float64          `json:"base_price"`
	BaseIngredients []BaseIngredient `json:"base_ingredients"`
	OptionGroups    []OptionGroup    `json:"option_groups"`
}

// SelectionMap records which option keys were chosen per group for one line
type SelectionMap map[string][]string

// Modifier is a priced option selection that moves a line's unit price away
// from the item's base price. Zero-delta selections never appear here.
type Modifier struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	PriceDelta float64 `json:"price_delta"`
}

// Snapshot is the resolved price/ingredient view of one item configuration
type Snapshot struct {
	Ingredients []string   `json:"ingredients"`
	Modifiers   []Modifier `json:"modifiers"`
	BasePrice   float64    `json:"base_price"`
	UnitPrice   float64    `json:"unit_price"`
}

// OrderLine is one priced, quantified entry in an order. Name and prices are
// snapshots taken at add-time; later menu edits do not retroactively reprice.
type OrderLine struct {
	LineID      string       `json:"line_id"`
	MenuItemID  string       `json:"menu_item_id"`
	Name        string       `json:"name"`
	Quantity    int          `json:"quantity"`
	BasePrice   float64      `json:"base_price"`
	UnitPrice   float64      `json:"unit_price"`
	Ingredients []string     `json:"ingredients"`
	Modifiers   []Modifier   `json:"modifiers"`
	Selections  SelectionMap `json:"selections"`
	Served      bool         `json:"served"`
}
