package pricing

import "errors"

var (
	ErrLineItemNotFound = errors.New("line item not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrIndexOutOfRange  = errors.New("line index out of range")
)

// KeyKind discriminates the ways a caller may identify an order line
type KeyKind int

const (
	KeyLineID KeyKind = iota
	KeyMenuItemID
	KeyLegacyID
)

// LineKey identifies one order line. Older clients sent a menu item id or a
// bare record id instead of a line id; the handler boundary normalizes
// whichever it received into one of these, so the matching logic here never
// probes multiple optional fields.
type LineKey struct {
	Kind  KeyKind
	Value string
}

func ByLineID(id string) LineKey     { return LineKey{Kind: KeyLineID, Value: id} }
func ByMenuItemID(id string) LineKey { return LineKey{Kind: KeyMenuItemID, Value: id} }
func ByLegacyID(id string) LineKey   { return LineKey{Kind: KeyLegacyID, Value: id} }

// Matches reports whether this key identifies the given line
func (k LineKey) Matches(line OrderLine) bool {
	switch k.Kind {
	case KeyLineID:
		return line.LineID == k.Value
	case KeyMenuItemID, KeyLegacyID:
		return line.MenuItemID == k.Value
	}
	return false
}

// AddOrIncrement adds qty of the given item configuration to the lines. If a
// line with the same menu item and a semantically equal selection already
// exists, its quantity grows and no resnapshot happens; otherwise a new line
// is appended with a fresh id from newLineID.
func AddOrIncrement(lines []OrderLine, item ItemDefinition, qty int, selections SelectionMap, newLineID func() string) ([]OrderLine, error) {
	if qty < 1 {
		return lines, ErrInvalidQuantity
	}
	for i := range lines {
		if lines[i].MenuItemID == item.ID && SelectionsEqual(lines[i].Selections, selections) {
			lines[i].Quantity += qty
			return lines, nil
		}
	}
	snap := ResolveSnapshot(item, selections)
	lines = append(lines, OrderLine{
		LineID:      newLineID(),
		MenuItemID:  item.ID,
		Name:        item.Name,
		Quantity:    qty,
		BasePrice:   snap.BasePrice,
		UnitPrice:   snap.UnitPrice,
		Ingredients: snap.Ingredients,
		Modifiers:   snap.Modifiers,
		Selections:  CanonicalSelections(selections),
	})
	return lines, nil
}

// UpdateSelections re-resolves the snapshot of the line at index against a
// new selection map, overwriting its price and ingredient fields in place.
// Quantity and line id are untouched.
func UpdateSelections(lines []OrderLine, index int, item ItemDefinition, selections SelectionMap) error {
	if index < 0 || index >= len(lines) {
		return ErrIndexOutOfRange
	}
	snap := ResolveSnapshot(item, selections)
	line := &lines[index]
	line.BasePrice = snap.BasePrice
	line.UnitPrice = snap.UnitPrice
	line.Ingredients = snap.Ingredients
	line.Modifiers = snap.Modifiers
	line.Selections = CanonicalSelections(selections)
	return nil
}

// IncrementByKey bumps the matched line's quantity by one
func IncrementByKey(lines []OrderLine, key LineKey) ([]OrderLine, error) {
	for i := range lines {
		if key.Matches(lines[i]) {
			lines[i].Quantity++
			return lines, nil
		}
	}
	return lines, ErrLineItemNotFound
}

// DecrementByKey lowers the matched line's quantity by one; at zero the line
// is removed, preserving the relative order of the remaining lines.
func DecrementByKey(lines []OrderLine, key LineKey) ([]OrderLine, error) {
	for i := range lines {
		if key.Matches(lines[i]) {
			lines[i].Quantity--
			if lines[i].Quantity <= 0 {
				return append(lines[:i], lines[i+1:]...), nil
			}
			return lines, nil
		}
	}
	return lines, ErrLineItemNotFound
}

// RemoveByLineID removes the unique line with that id; absent ids are a
// no-op, matching the zero-lines-affected behavior of the storage layer.
func RemoveByLineID(lines []OrderLine, lineID string) []OrderLine {
	for i := range lines {
		if lines[i].LineID == lineID {
			return append(lines[:i], lines[i+1:]...)
		}
	}
	return lines
}

// RemoveAtIndex removes by position; the fallback path when no stable
// identifier is available.
func RemoveAtIndex(lines []OrderLine, index int) ([]OrderLine, error) {
	if index < 0 || index >= len(lines) {
		return lines, ErrIndexOutOfRange
	}
	return append(lines[:index], lines[index+1:]...), nil
}

// CloneLines deep-copies order lines, so a split or merged order shares no
// slices or maps with its source.
func CloneLines(lines []OrderLine) []OrderLine {
	out := make([]OrderLine, len(lines))
	for i, l := range lines {
		clone := l
		clone.Ingredients = append([]string(nil), l.Ingredients...)
		clone.Modifiers = append([]Modifier(nil), l.Modifiers...)
		if l.Selections != nil {
			clone.Selections = SelectionMap{}
			for group, keys := range l.Selections {
				clone.Selections[group] = append([]string(nil), keys...)
			}
		}
		out[i] = clone
	}
	return out
}
