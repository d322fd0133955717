package pricing

import "sort"

// CanonicalSelections builds an order-independent canonical form of a
// selection map: group ids sorted lexicographically, chosen keys sorted
// within each group, empty groups dropped. Used for the "same line" check
// when adding to an order.
func CanonicalSelections(sel SelectionMap) SelectionMap {
	canon := SelectionMap{}
	if sel == nil {
		return canon
	}
	groupIDs := make([]string, 0, len(sel))
	for id := range sel {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)
	for _, id := range groupIDs {
		keys := sel[id]
		if len(keys) == 0 {
			continue
		}
		sorted := make([]string, len(keys))
		copy(sorted, keys)
		sort.Strings(sorted)
		canon[id] = sorted
	}
	return canon
}

// SelectionsEqual reports whether two selection maps describe the same
// configuration, ignoring group and key ordering.
func SelectionsEqual(a, b SelectionMap) bool {
	ca, cb := CanonicalSelections(a), CanonicalSelections(b)
	if len(ca) != len(cb) {
		return false
	}
	for id, keysA := range ca {
		keysB, ok := cb[id]
		if !ok || len(keysA) != len(keysB) {
			return false
		}
		for i := range keysA {
			if keysA[i] != keysB[i] {
				return false
			}
		}
	}
	return true
}
