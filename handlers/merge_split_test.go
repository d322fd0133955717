package handlers_test

import (
	"net/http"
	"reflect"
	"testing"

	"cafe-pos-api/config"
	"cafe-pos-api/models"

	"github.com/gin-gonic/gin"
)

func addLatte(t *testing.T, r *gin.Engine, token string, orderID uint, item models.MenuItem, qty int, milk string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/orders/"+itoa(orderID)+"/lines", token, gin.H{
		"menu_item_id": item.ID,
		"quantity":     qty,
		"selections":   gin.H{"milk": []string{milk}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add line: status %d body %s", w.Code, w.Body.String())
	}
}

func mergeTables(t *testing.T, r *gin.Engine, token string, target uint, tableNos []int) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/manage/tables/merge", token, gin.H{
		"target_order_id": target,
		"table_nos":       tableNos,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("merge %v into %d: status %d body %s", tableNos, target, w.Code, w.Body.String())
	}
}

func tableNosOf(t *testing.T, orderID uint) []int {
	t.Helper()
	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		t.Fatalf("load order %d: %v", orderID, err)
	}
	return []int(order.TableNos)
}

func TestMergeUnionProperty(t *testing.T) {
	r := setupRouter(t)
	_, waiterToken := createUser(t, "w@cafe.test", models.RoleWaiter)
	_, managerToken := createUser(t, "m@cafe.test", models.RoleManager)
	item := createLatte(t)
	createTable(t, 1, 4)
	createTable(t, 2, 4)
	createTable(t, 3, 4)

	orderA := openDineIn(t, r, waiterToken, 1)
	orderB := openDineIn(t, r, waiterToken, 2)
	orderC := openDineIn(t, r, waiterToken, 3)
	addLatte(t, r, waiterToken, orderA.ID, item, 1, "whole")
	addLatte(t, r, waiterToken, orderB.ID, item, 2, "almond")
	addLatte(t, r, waiterToken, orderC.ID, item, 1, "almond")

	mergeTables(t, r, managerToken, orderA.ID, []int{1, 2})
	if got := tableNosOf(t, orderA.ID); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("after first merge expected tables [1 2], got %v", got)
	}

	// incremental merge must not lose previously merged tables
	mergeTables(t, r, managerToken, orderA.ID, []int{3})
	if got := tableNosOf(t, orderA.ID); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("after second merge expected tables [1 2 3], got %v", got)
	}

	// merge is idempotent
	mergeTables(t, r, managerToken, orderA.ID, []int{1, 2})
	if got := tableNosOf(t, orderA.ID); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("re-merging must not change tables, got %v", got)
	}

	// absorbed unpaid orders are gone, their tables point at the target
	var absorbed models.Order
	if err := config.DB.First(&absorbed, orderB.ID).Error; err == nil {
		t.Fatal("absorbed unpaid order should be deleted")
	}
	var table models.Table
	config.DB.First(&table, "table_no = ?", 2)
	if table.ActiveOrderID == nil || *table.ActiveOrderID != orderA.ID {
		t.Fatalf("table 2 must point at the merged order, got %v", table.ActiveOrderID)
	}

	// merged order carries every absorbed line: 1 + 2 + 1 lattes
	var merged models.Order
	config.DB.First(&merged, orderA.ID)
	totalQty := 0
	for _, line := range merged.Lines {
		totalQty += line.Quantity
	}
	if totalQty != 4 {
		t.Fatalf("expected 4 lattes across merged lines, got %d", totalQty)
	}
}

func TestMergeNeverDeletesPaidOrders(t *testing.T) {
	r := setupRouter(t)
	_, waiterToken := createUser(t, "w@cafe.test", models.RoleWaiter)
	_, managerToken := createUser(t, "m@cafe.test", models.RoleManager)
	item := createLatte(t)
	createTable(t, 1, 4)
	createTable(t, 2, 4)

	orderA := openDineIn(t, r, waiterToken, 1)
	orderB := openDineIn(t, r, waiterToken, 2)
	addLatte(t, r, waiterToken, orderB.ID, item, 1, "whole")

	w := doJSON(t, r, http.MethodPut, "/api/orders/"+itoa(orderB.ID)+"/pay", waiterToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pay: status %d body %s", w.Code, w.Body.String())
	}

	mergeTables(t, r, managerToken, orderA.ID, []int{1, 2})

	var paid models.Order
	if err := config.DB.First(&paid, orderB.ID).Error; err != nil {
		t.Fatal("paid order must never be deleted by a merge")
	}
	if len(paid.TableNos) != 0 {
		t.Fatalf("paid order should be orphaned from its tables, got %v", paid.TableNos)
	}
}

func TestSplitMergeRoundTrip(t *testing.T) {
	r := setupRouter(t)
	_, waiterToken := createUser(t, "w@cafe.test", models.RoleWaiter)
	_, managerToken := createUser(t, "m@cafe.test", models.RoleManager)
	item := createLatte(t)
	createTable(t, 1, 4)
	createTable(t, 2, 4)

	orderA := openDineIn(t, r, waiterToken, 1)
	orderB := openDineIn(t, r, waiterToken, 2)
	addLatte(t, r, waiterToken, orderA.ID, item, 1, "whole")
	addLatte(t, r, waiterToken, orderB.ID, item, 2, "almond")

	mergeTables(t, r, managerToken, orderA.ID, []int{1, 2})
	var merged models.Order
	config.DB.First(&merged, orderA.ID)

	w := doJSON(t, r, http.MethodPost, "/api/manage/tables/split", managerToken, gin.H{
		"source_order_id": orderA.ID,
		"table_nos":       []int{1},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("split: status %d body %s", w.Code, w.Body.String())
	}

	// table 1 now has its own order with a deep copy of the merged lines
	var table1 models.Table
	config.DB.First(&table1, "table_no = ?", 1)
	if table1.ActiveOrderID == nil || *table1.ActiveOrderID == orderA.ID {
		t.Fatal("table 1 must point at a fresh split order")
	}
	var split models.Order
	config.DB.First(&split, *table1.ActiveOrderID)
	if split.Paid {
		t.Fatal("split order must start unpaid")
	}
	if split.OrderNo <= merged.OrderNo {
		t.Fatalf("split order needs a fresh sequential number, got %d", split.OrderNo)
	}
	if !reflect.DeepEqual([]int(split.TableNos), []int{1}) {
		t.Fatalf("split order must seat only table 1, got %v", split.TableNos)
	}
	if len(split.Lines) != len(merged.Lines) {
		t.Fatalf("split lines must copy the merged lines, got %d vs %d", len(split.Lines), len(merged.Lines))
	}
	for i := range split.Lines {
		if !reflect.DeepEqual(split.Lines[i], merged.Lines[i]) {
			t.Fatalf("line %d differs between split and merged order", i)
		}
	}

	// table 2 stays on the original merged order
	if got := tableNosOf(t, orderA.ID); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("source order should keep table 2 only, got %v", got)
	}
	var table2 models.Table
	config.DB.First(&table2, "table_no = ?", 2)
	if table2.ActiveOrderID == nil || *table2.ActiveOrderID != orderA.ID {
		t.Fatal("table 2 must remain on the merged order")
	}

	// splitting out the last table deletes the unpaid source
	w = doJSON(t, r, http.MethodPost, "/api/manage/tables/split", managerToken, gin.H{
		"source_order_id": orderA.ID,
		"table_nos":       []int{2},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("second split: status %d body %s", w.Code, w.Body.String())
	}
	var gone models.Order
	if err := config.DB.First(&gone, orderA.ID).Error; err == nil {
		t.Fatal("table-less unpaid source order should be deleted")
	}
}

func TestSplitRejectsTableNotOnOrder(t *testing.T) {
	r := setupRouter(t)
	_, waiterToken := createUser(t, "w@cafe.test", models.RoleWaiter)
	_, managerToken := createUser(t, "m@cafe.test", models.RoleManager)
	createTable(t, 1, 4)
	createTable(t, 5, 4)
	order := openDineIn(t, r, waiterToken, 1)

	w := doJSON(t, r, http.MethodPost, "/api/manage/tables/split", managerToken, gin.H{
		"source_order_id": order.ID,
		"table_nos":       []int{5},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("splitting a table the order does not seat must be rejected, got %d", w.Code)
	}
}
