package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"cafe-pos-api/config"
	"cafe-pos-api/middleware"
	"cafe-pos-api/models"
	"cafe-pos-api/pricing"
	"cafe-pos-api/routes"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.InitDBAt(filepath.Join(t.TempDir(), "pos_test.db"))
	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func createUser(t *testing.T, email string, role models.UserRole) (models.User, string) {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	user := models.User{Name: string(role) + " user", Email: email, PasswordHash: string(hash), Role: role}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := middleware.GenerateToken(&user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func createTable(t *testing.T, tableNo, capacity int) models.Table {
	t.Helper()
	table := models.Table{TableNo: tableNo, Capacity: capacity, OrderIDs: []uint{}}
	if err := config.DB.Create(&table).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return table
}

func createLatte(t *testing.T) models.MenuItem {
	t.Helper()
	category := models.Category{Name: "Coffee"}
	if err := config.DB.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	item := models.MenuItem{
		CategoryID:  category.ID,
		Name:        "Latte",
		BasePrice:   9.00,
		IsAvailable: true,
		BaseIngredients: []pricing.BaseIngredient{
			{Key: "espresso", Label: "Espresso", DefaultIncluded: true},
		},
		OptionGroups: []pricing.OptionGroup{
			{
				GroupID:       "milk",
				Label:         "Milk type",
				SelectionType: pricing.SelectSingle,
				Required:      true,
				Options: []pricing.Option{
					{Key: "whole", Label: "Whole milk"},
					{Key: "almond", Label: "Almond milk", PriceDelta: 0.5},
				},
			},
		},
	}
	if err := config.DB.Create(&item).Error; err != nil {
		t.Fatalf("create menu item: %v", err)
	}
	return item
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func openDineIn(t *testing.T, r *gin.Engine, token string, tableNo int) models.Order {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/orders", token, gin.H{
		"order_type": "dine_in",
		"table_no":   tableNo,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("open order for table %d: status %d body %s", tableNo, w.Code, w.Body.String())
	}
	var resp struct {
		Order models.Order `json:"order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	return resp.Order
}

func TestOrderNumbersAreSequentialFrom1001(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "w@cafe.test", models.RoleWaiter)
	createTable(t, 1, 4)
	createTable(t, 2, 4)

	first := openDineIn(t, r, token, 1)
	second := openDineIn(t, r, token, 2)

	if first.OrderNo != 1001 || second.OrderNo != 1002 {
		t.Fatalf("expected order numbers 1001 and 1002, got %d and %d", first.OrderNo, second.OrderNo)
	}
}

func TestAddLineMergesAndRecomputesTotals(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "w@cafe.test", models.RoleWaiter)
	createTable(t, 1, 4)
	item := createLatte(t)
	order := openDineIn(t, r, token, 1)

	path := "/api/orders/" + itoa(order.ID) + "/lines"
	w := doJSON(t, r, http.MethodPost, path, token, gin.H{
		"menu_item_id": item.ID,
		"quantity":     1,
		"selections":   gin.H{"milk": []string{"almond"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add line: status %d body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, path, token, gin.H{
		"menu_item_id": item.ID,
		"quantity":     2,
		"selections":   gin.H{"milk": []string{"almond"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("second add: status %d body %s", w.Code, w.Body.String())
	}

	var stored models.Order
	config.DB.First(&stored, order.ID)
	if len(stored.Lines) != 1 {
		t.Fatalf("identical configurations must merge into one line, got %d", len(stored.Lines))
	}
	if stored.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", stored.Lines[0].Quantity)
	}
	if stored.OriginalPrice != 28.50 || stored.TotalPrice != 28.50 {
		t.Fatalf("expected totals 28.50, got original %v total %v", stored.OriginalPrice, stored.TotalPrice)
	}
}

func TestDiscountBoundsAndTotals(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "w@cafe.test", models.RoleWaiter)
	createTable(t, 1, 4)
	item := createLatte(t)
	order := openDineIn(t, r, token, 1)

	// two lattes at 9.00 with whole milk: original 18.00
	doJSON(t, r, http.MethodPost, "/api/orders/"+itoa(order.ID)+"/lines", token, gin.H{
		"menu_item_id": item.ID,
		"quantity":     2,
		"selections":   gin.H{"milk": []string{"whole"}},
	})

	w := doJSON(t, r, http.MethodPut, "/api/orders/"+itoa(order.ID)+"/discount", token, gin.H{
		"percent": 50, "amount": 4.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set discount: status %d body %s", w.Code, w.Body.String())
	}
	var stored models.Order
	config.DB.First(&stored, order.ID)
	if stored.TotalPrice != 5.00 { // 18 − 9 − 4
		t.Fatalf("expected total 5.00, got %v", stored.TotalPrice)
	}

	w = doJSON(t, r, http.MethodPut, "/api/orders/"+itoa(order.ID)+"/discount", token, gin.H{"percent": 101})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("percent 101 must be rejected, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPut, "/api/orders/"+itoa(order.ID)+"/discount", token, gin.H{"amount": 1.999})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("amount with 3 decimals must be rejected, got %d", w.Code)
	}

	// 0 resets both
	doJSON(t, r, http.MethodPut, "/api/orders/"+itoa(order.ID)+"/discount", token, gin.H{"percent": 0, "amount": 0.0})
	config.DB.First(&stored, order.ID)
	if stored.TotalPrice != 18.00 {
		t.Fatalf("reset should restore 18.00, got %v", stored.TotalPrice)
	}
}

func TestLockedOrderRejectsWaiterButNotManager(t *testing.T) {
	r := setupRouter(t)
	_, waiterToken := createUser(t, "w@cafe.test", models.RoleWaiter)
	_, managerToken := createUser(t, "m@cafe.test", models.RoleManager)
	createTable(t, 1, 4)
	item := createLatte(t)
	order := openDineIn(t, r, waiterToken, 1)

	w := doJSON(t, r, http.MethodPut, "/api/manage/orders/"+itoa(order.ID)+"/lock", managerToken, gin.H{"locked": true})
	if w.Code != http.StatusOK {
		t.Fatalf("lock: status %d body %s", w.Code, w.Body.String())
	}

	body := gin.H{"menu_item_id": item.ID, "quantity": 1}
	w = doJSON(t, r, http.MethodPost, "/api/orders/"+itoa(order.ID)+"/lines", waiterToken, body)
	if w.Code != http.StatusLocked {
		t.Fatalf("waiter edit on locked order must answer 423, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/orders/"+itoa(order.ID)+"/lines", managerToken, body)
	if w.Code != http.StatusOK {
		t.Fatalf("manager edit on locked order must pass, got %d body %s", w.Code, w.Body.String())
	}
}

func TestDecrementThroughAPIRemovesAtZero(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "w@cafe.test", models.RoleWaiter)
	createTable(t, 1, 4)
	item := createLatte(t)
	order := openDineIn(t, r, token, 1)

	doJSON(t, r, http.MethodPost, "/api/orders/"+itoa(order.ID)+"/lines", token, gin.H{
		"menu_item_id": item.ID, "quantity": 1,
	})
	var stored models.Order
	config.DB.First(&stored, order.ID)
	lineID := stored.Lines[0].LineID

	w := doJSON(t, r, http.MethodPost, "/api/orders/"+itoa(order.ID)+"/lines/decrement", token, gin.H{"line_id": lineID})
	if w.Code != http.StatusOK {
		t.Fatalf("decrement: status %d body %s", w.Code, w.Body.String())
	}
	config.DB.First(&stored, order.ID)
	if len(stored.Lines) != 0 {
		t.Fatalf("decrementing a quantity-1 line must remove it, got %d lines", len(stored.Lines))
	}
	if stored.TotalPrice != 0 {
		t.Fatalf("empty order must total 0, got %v", stored.TotalPrice)
	}
}

func TestTableCapacityBounds(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "m@cafe.test", models.RoleManager)

	for _, capacity := range []int{0, 13} {
		w := doJSON(t, r, http.MethodPost, "/api/manage/tables", token, gin.H{"table_no": 9, "capacity": capacity})
		if w.Code != http.StatusBadRequest {
			t.Errorf("capacity %d must be rejected, got %d", capacity, w.Code)
		}
	}
	w := doJSON(t, r, http.MethodPost, "/api/manage/tables", token, gin.H{"table_no": 9, "capacity": 12})
	if w.Code != http.StatusCreated {
		t.Fatalf("capacity 12 must be accepted, got %d body %s", w.Code, w.Body.String())
	}
}

func TestDuplicateCategoryNameRejected(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "m@cafe.test", models.RoleManager)

	w := doJSON(t, r, http.MethodPost, "/api/manage/categories", token, gin.H{"name": "Coffee"})
	if w.Code != http.StatusCreated {
		t.Fatalf("first category: status %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/manage/categories", token, gin.H{"name": "Coffee"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate category name must answer 409, got %d", w.Code)
	}
}

func TestLastAdminCannotBeRemovedOrDemoted(t *testing.T) {
	r := setupRouter(t)
	admin, token := createUser(t, "a@cafe.test", models.RoleAdmin)

	w := doJSON(t, r, http.MethodDelete, "/api/admin/users/"+itoa(admin.ID), token, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("removing the last admin must be refused, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPut, "/api/admin/users/"+itoa(admin.ID)+"/role", token, gin.H{"role": "waiter"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("demoting the last admin must be refused, got %d", w.Code)
	}

	second, _ := createUser(t, "a2@cafe.test", models.RoleAdmin)
	w = doJSON(t, r, http.MethodDelete, "/api/admin/users/"+itoa(second.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("removing a non-last admin must work, got %d body %s", w.Code, w.Body.String())
	}
}

func TestKitchenStatusFlow(t *testing.T) {
	r := setupRouter(t)
	_, waiterToken := createUser(t, "w@cafe.test", models.RoleWaiter)
	_, kitchenToken := createUser(t, "k@cafe.test", models.RoleKitchen)
	createTable(t, 1, 4)
	order := openDineIn(t, r, waiterToken, 1)

	// waiter may not start preparation
	w := doJSON(t, r, http.MethodPut, "/api/orders/"+itoa(order.ID)+"/status", waiterToken, gin.H{"status": "PREPARING"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("waiter starting preparation must be refused, got %d", w.Code)
	}

	for _, status := range []string{"PREPARING", "READY"} {
		w = doJSON(t, r, http.MethodPut, "/api/orders/"+itoa(order.ID)+"/status", kitchenToken, gin.H{"status": status})
		if w.Code != http.StatusOK {
			t.Fatalf("kitchen -> %s: status %d body %s", status, w.Code, w.Body.String())
		}
	}
	w = doJSON(t, r, http.MethodPut, "/api/orders/"+itoa(order.ID)+"/status", waiterToken, gin.H{"status": "SERVED"})
	if w.Code != http.StatusOK {
		t.Fatalf("waiter serving a ready order must pass, got %d body %s", w.Code, w.Body.String())
	}

	var histories []models.OrderStatusHistory
	config.DB.Where("order_id = ?", order.ID).Find(&histories)
	if len(histories) != 4 { // opened + three transitions
		t.Fatalf("expected 4 history rows, got %d", len(histories))
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
