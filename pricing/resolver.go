package pricing

// ResolveSnapshot computes the effective ingredient list, priced modifiers
// and unit price for one configuration of a menu item. Pure function: no
// side effects, inputs are never mutated.
func ResolveSnapshot(item ItemDefinition, selections SelectionMap) Snapshot {
	snap := Snapshot{
		Ingredients: []string{},
		Modifiers:   []Modifier{},
		BasePrice:   item.BasePrice,
	}

	for _, ing := range item.BaseIngredients {
		if ing.DefaultIncluded {
			snap.Ingredients = append(snap.Ingredients, ing.Label)
		}
	}

	for _, group := range item.OptionGroups {
		chosen := chosenKeys(group, selections)
		if len(chosen) == 0 {
			continue
		}
		for _, opt := range group.Options {
			if !chosen[opt.Key] {
				continue
			}
			snap.Ingredients = append(snap.Ingredients, opt.Label)
			if opt.PriceDelta != 0 {
				snap.Modifiers = append(snap.Modifiers, Modifier{
					Key:        opt.Key,
					Label:      opt.Label,
					PriceDelta: opt.PriceDelta,
				})
			}
		}
	}

	snap.UnitPrice = snap.BasePrice
	for _, m := range snap.Modifiers {
		snap.UnitPrice += m.PriceDelta
	}
	return snap
}

// chosenKeys decides the effective key set for one group: caller selection
// first, then flagged defaults, then first-option fallback for required
// single-select groups. Keys unknown to the group are filtered out later by
// the option loop, so they contribute nothing and raise no error.
func chosenKeys(group OptionGroup, selections SelectionMap) map[string]bool {
	set := map[string]bool{}
	if keys, ok := selections[group.GroupID]; ok && len(keys) > 0 {
		for _, k := range keys {
			set[k] = true
		}
		return set
	}
	for _, opt := range group.Options {
		if opt.Default {
			set[opt.Key] = true
		}
	}
	if len(set) > 0 {
		return set
	}
	if group.SelectionType == SelectSingle && group.Required && len(group.Options) > 0 {
		set[group.Options[0].Key] = true
	}
	return set
}
