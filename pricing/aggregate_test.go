package pricing

import (
	"fmt"
	"testing"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("line-%d", n)
	}
}

func TestAddOrIncrementMergesSemanticallyEqualSelections(t *testing.T) {
	item := latteDefinition()
	newID := sequentialIDs()

	lines, err := AddOrIncrement(nil, item, 1, SelectionMap{"milk": {"almond"}, "extras": {"shot", "vanilla"}}, newID)
	if err != nil {
		t.Fatal(err)
	}
	// same configuration, different key and group ordering
	lines, err = AddOrIncrement(lines, item, 2, SelectionMap{"extras": {"vanilla", "shot"}, "milk": {"almond"}}, newID)
	if err != nil {
		t.Fatal(err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}
	original, _ := Totals(lines, 0, 0)
	if Round2(original) != 33.00 { // (9 + 0.5 + 1 + 0.5) × 3
		t.Fatalf("expected 33.00, got %v", original)
	}
}

func TestAddOrIncrementExampleAccumulation(t *testing.T) {
	// $9.00 base, almond +0.50, quantities 1 then 2 → one line of 3 worth 28.50
	item := latteDefinition()
	newID := sequentialIDs()
	lines, _ := AddOrIncrement(nil, item, 1, SelectionMap{"milk": {"almond"}}, newID)
	lines, _ = AddOrIncrement(lines, item, 2, SelectionMap{"milk": {"almond"}}, newID)
	if len(lines) != 1 || lines[0].Quantity != 3 {
		t.Fatalf("expected single line of 3, got %+v", lines)
	}
	original, _ := Totals(lines, 0, 0)
	if Round2(original) != 28.50 {
		t.Fatalf("expected 28.50, got %v", original)
	}
}

func TestAddOrIncrementDifferentSelectionsStaySeparate(t *testing.T) {
	item := latteDefinition()
	newID := sequentialIDs()
	lines, _ := AddOrIncrement(nil, item, 1, SelectionMap{"milk": {"almond"}}, newID)
	lines, _ = AddOrIncrement(lines, item, 1, SelectionMap{"milk": {"oat"}}, newID)
	if len(lines) != 2 {
		t.Fatalf("different configurations must not merge, got %d lines", len(lines))
	}
	if lines[0].LineID == lines[1].LineID {
		t.Fatal("each new line needs a fresh line id")
	}
}

func TestAddOrIncrementRejectsBadQuantity(t *testing.T) {
	if _, err := AddOrIncrement(nil, latteDefinition(), 0, nil, sequentialIDs()); err != ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestUpdateSelectionsKeepsIdentityAndQuantity(t *testing.T) {
	item := latteDefinition()
	lines, _ := AddOrIncrement(nil, item, 2, SelectionMap{"milk": {"whole"}}, sequentialIDs())
	id := lines[0].LineID

	if err := UpdateSelections(lines, 0, item, SelectionMap{"milk": {"oat"}, "extras": {"shot"}}); err != nil {
		t.Fatal(err)
	}
	if lines[0].LineID != id || lines[0].Quantity != 2 {
		t.Fatal("line id and quantity must survive a selection edit")
	}
	if lines[0].UnitPrice != 10.70 {
		t.Fatalf("expected repriced 10.70, got %v", lines[0].UnitPrice)
	}
	if err := UpdateSelections(lines, 5, item, nil); err != ErrIndexOutOfRange {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestDecrementRemovesAtZero(t *testing.T) {
	item := latteDefinition()
	newID := sequentialIDs()
	lines, _ := AddOrIncrement(nil, item, 1, SelectionMap{"milk": {"almond"}}, newID)
	lines, _ = AddOrIncrement(lines, item, 2, SelectionMap{"milk": {"oat"}}, newID)
	second := lines[1].LineID

	lines, err := DecrementByKey(lines, ByLineID(lines[0].LineID))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("quantity-1 line should be removed, got %d lines", len(lines))
	}
	if lines[0].LineID != second {
		t.Fatal("surviving lines must keep their relative order")
	}

	lines, _ = DecrementByKey(lines, ByLineID(second))
	if len(lines) != 1 || lines[0].Quantity != 1 {
		t.Fatalf("quantity>1 line should only shrink, got %+v", lines)
	}
}

func TestIncrementByLegacyKeys(t *testing.T) {
	lines, _ := AddOrIncrement(nil, latteDefinition(), 1, SelectionMap{"milk": {"almond"}}, sequentialIDs())

	lines, err := IncrementByKey(lines, ByMenuItemID("latte"))
	if err != nil {
		t.Fatal(err)
	}
	lines, err = IncrementByKey(lines, ByLegacyID("latte"))
	if err != nil {
		t.Fatal(err)
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3 after two legacy increments, got %d", lines[0].Quantity)
	}
	if _, err := IncrementByKey(lines, ByLineID("missing")); err != ErrLineItemNotFound {
		t.Fatalf("expected ErrLineItemNotFound, got %v", err)
	}
}

func TestRemoveByLineIDIsNoOpWhenAbsent(t *testing.T) {
	lines, _ := AddOrIncrement(nil, latteDefinition(), 1, nil, sequentialIDs())
	out := RemoveByLineID(lines, "nope")
	if len(out) != 1 {
		t.Fatal("removing an unknown line id must affect nothing")
	}
	out = RemoveByLineID(out, out[0].LineID)
	if len(out) != 0 {
		t.Fatal("line should be removed by its id")
	}
}

func TestRemoveAtIndex(t *testing.T) {
	item := latteDefinition()
	newID := sequentialIDs()
	lines, _ := AddOrIncrement(nil, item, 1, SelectionMap{"milk": {"whole"}}, newID)
	lines, _ = AddOrIncrement(lines, item, 1, SelectionMap{"milk": {"oat"}}, newID)

	lines, err := RemoveAtIndex(lines, 0)
	if err != nil || len(lines) != 1 {
		t.Fatalf("expected one line left, err=%v", err)
	}
	if _, err := RemoveAtIndex(lines, 3); err != ErrIndexOutOfRange {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestCloneLinesIsDeepCopy(t *testing.T) {
	item := latteDefinition()
	lines, _ := AddOrIncrement(nil, item, 2, SelectionMap{"milk": {"almond"}, "extras": {"shot"}}, sequentialIDs())

	clones := CloneLines(lines)
	clones[0].Quantity = 99
	clones[0].Ingredients[0] = "tampered"
	clones[0].Selections["milk"][0] = "tampered"

	if lines[0].Quantity != 2 {
		t.Fatalf("clone mutation leaked into source quantity: %d", lines[0].Quantity)
	}
	if lines[0].Ingredients[0] == "tampered" {
		t.Fatal("clone shares the ingredients slice with its source")
	}
	if lines[0].Selections["milk"][0] == "tampered" {
		t.Fatal("clone shares the selection map with its source")
	}
	if clones[0].LineID != lines[0].LineID {
		t.Fatal("clones must keep their source line ids")
	}
}

func TestSelectionsEqualIgnoresOrdering(t *testing.T) {
	a := SelectionMap{"g1": {"b", "a"}, "g2": {"x"}}
	b := SelectionMap{"g2": {"x"}, "g1": {"a", "b"}}
	if !SelectionsEqual(a, b) {
		t.Fatal("order-independent maps must compare equal")
	}
	c := SelectionMap{"g1": {"a"}, "g2": {"x"}}
	if SelectionsEqual(a, c) {
		t.Fatal("different key sets must not compare equal")
	}
	if !SelectionsEqual(nil, SelectionMap{"g": {}}) {
		t.Fatal("empty groups are dropped from the canonical form")
	}
}
