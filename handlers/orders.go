package handlers

import (
	"net/http"
	"strconv"
	"time"

	"cafe-pos-api/config"
	"cafe-pos-api/middleware"
	"cafe-pos-api/models"
	"cafe-pos-api/pricing"
	"cafe-pos-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newLineID is the identifier generator for order lines
func newLineID() string {
	return uuid.NewString()
}

// nextOrderNo hands out the next sequential display number inside tx.
// The counter row is bumped with an atomic UPDATE, so two concurrent order
// creations cannot read the same value.
func nextOrderNo(tx *gorm.DB) (int, error) {
	res := tx.Model(&models.Counter{}).
		Where("name = ?", "order_no").
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		if err := tx.Create(&models.Counter{Name: "order_no", Value: models.FirstOrderNo}).Error; err != nil {
			return 0, err
		}
		return models.FirstOrderNo, nil
	}
	var counter models.Counter
	if err := tx.First(&counter, "name = ?", "order_no").Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}

// loadOrder fetches the order in the :id param, answering 404 itself
func loadOrder(c *gin.Context) (*models.Order, bool) {
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	return &order, true
}

// ensureUnlocked enforces the edit gate: a locked order only accepts
// mutations from manager-tier callers.
func ensureUnlocked(c *gin.Context, order *models.Order) bool {
	if order.IsLocked && !middleware.IsManagerTier(c) {
		c.JSON(http.StatusLocked, gin.H{
			"error":    "Order is locked",
			"order_id": order.ID,
		})
		return false
	}
	return true
}

// saveOrder recomputes totals and persists; every mutation ends here
func saveOrder(c *gin.Context, order *models.Order) bool {
	order.Recompute()
	if err := config.DB.Save(order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save order"})
		return false
	}
	return true
}

type OpenOrderRequest struct {
	OrderType   models.OrderType `json:"order_type" binding:"required"`
	TableNo     int              `json:"table_no"`
	NoOccupants int              `json:"no_occupants"`
}

// OpenOrder starts a new order: dine-in seated at a table, or takeaway
func OpenOrder(c *gin.Context) {
	var req OpenOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.OrderType != models.OrderDineIn && req.OrderType != models.OrderTakeaway {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_type must be dine_in or takeaway"})
		return
	}

	var table models.Table
	if req.OrderType == models.OrderDineIn {
		if req.TableNo == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table_no is required for dine-in orders"})
			return
		}
		if err := config.DB.First(&table, "table_no = ?", req.TableNo).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
			return
		}
	}

	var order models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		orderNo, err := nextOrderNo(tx)
		if err != nil {
			return err
		}
		order = models.Order{
			OrderNo:   orderNo,
			OrderType: req.OrderType,
			Status:    models.StatusPending,
			Lines:     []pricing.OrderLine{},
		}
		if req.OrderType == models.OrderDineIn {
			order.TableNos = []int{req.TableNo}
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if req.OrderType == models.OrderDineIn {
			table.IsOccupied = true
			if req.NoOccupants > 0 {
				table.NoOccupants = req.NoOccupants
			}
			table.ActiveOrderID = &order.ID
			table.RecordOrder(order.ID)
			if err := tx.Save(&table).Error; err != nil {
				return err
			}
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: middleware.GetUserID(c),
			Note:      "Order opened",
		}).Error
	})
	if err != nil {
		middleware.CountOrderOperation("open", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open order"})
		return
	}

	middleware.CountOrderOperation("open", "ok")
	publishOrderEvent(&order, "opened")
	c.JSON(http.StatusCreated, gin.H{"message": "Order opened", "order": order})
}

// ListOrders returns orders with optional status/type/paid filters
func ListOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderType := c.Query("type"); orderType != "" {
		query = query.Where("order_type = ?", orderType)
	}
	if paid := c.Query("paid"); paid != "" {
		query = query.Where("paid = ?", paid == "true")
	}
	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{"order_summary": summary, "count": len(orders), "orders": orders})
}

// GetOrder returns one order with its audit trail and derived figures
func GetOrder(c *gin.Context) {
	var order models.Order
	if err := config.DB.Preload("StatusHistory").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	elapsed := time.Since(order.CreatedAt).Minutes()
	c.JSON(http.StatusOK, gin.H{
		"order":           order,
		"amount_saved":    order.AmountSaved(),
		"minutes_elapsed": int(elapsed),
	})
}

type AddLineRequest struct {
	MenuItemID uint                 `json:"menu_item_id" binding:"required"`
	Quantity   int                  `json:"quantity" binding:"required,min=1"`
	Selections pricing.SelectionMap `json:"selections"`
}

// AddLine adds a configured menu item to the order, merging into an
// existing line when the configuration is semantically identical.
func AddLine(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	if !ensureUnlocked(c, order) {
		return
	}

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var menuItem models.MenuItem
	if err := config.DB.First(&menuItem, req.MenuItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if !menuItem.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + menuItem.Name + "' is not available"})
		return
	}

	lines, err := pricing.AddOrIncrement(order.Lines, menuItem.Definition(), req.Quantity, req.Selections, newLineID)
	if err != nil {
		middleware.CountOrderOperation("add_line", "error")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order.Lines = lines
	if !saveOrder(c, order) {
		return
	}
	middleware.CountOrderOperation("add_line", "ok")
	c.JSON(http.StatusOK, gin.H{"message": "Line added", "order": order})
}

type UpdateSelectionsRequest struct {
	Selections pricing.SelectionMap `json:"selections"`
}

// UpdateLineSelections re-resolves one line against a new selection map.
// Quantity and line id survive the edit.
func UpdateLineSelections(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	if !ensureUnlocked(c, order) {
		return
	}

	index, err := strconv.Atoi(c.Param("lineRef"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Line index must be numeric"})
		return
	}
	if index < 0 || index >= len(order.Lines) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Line item not found"})
		return
	}

	var req UpdateSelectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menuItemID, err := strconv.ParseUint(order.Lines[index].MenuItemID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Line has no resolvable menu item"})
		return
	}
	var menuItem models.MenuItem
	if err := config.DB.First(&menuItem, menuItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	if err := pricing.UpdateSelections(order.Lines, index, menuItem.Definition(), req.Selections); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !saveOrder(c, order) {
		return
	}
	middleware.CountOrderOperation("update_selections", "ok")
	c.JSON(http.StatusOK, gin.H{"message": "Line updated", "order": order})
}

// LineKeyRequest accepts the three ways clients identify a line: the stable
// line id, or for older clients the menu item id or a bare record id. It is
// normalized into a single pricing.LineKey here at the boundary.
type LineKeyRequest struct {
	LineID     string `json:"line_id"`
	MenuItemID string `json:"menu_item_id"`
	LegacyID   string `json:"id"`
}

func (r LineKeyRequest) Key() (pricing.LineKey, bool) {
	switch {
	case r.LineID != "":
		return pricing.ByLineID(r.LineID), true
	case r.MenuItemID != "":
		return pricing.ByMenuItemID(r.MenuItemID), true
	case r.LegacyID != "":
		return pricing.ByLegacyID(r.LegacyID), true
	}
	return pricing.LineKey{}, false
}

// IncrementLine bumps a line's quantity by one
func IncrementLine(c *gin.Context) {
	adjustLine(c, "increment", pricing.IncrementByKey)
}

// DecrementLine lowers a line's quantity by one; at zero the line goes away
func DecrementLine(c *gin.Context) {
	adjustLine(c, "decrement", pricing.DecrementByKey)
}

func adjustLine(c *gin.Context, operation string, apply func([]pricing.OrderLine, pricing.LineKey) ([]pricing.OrderLine, error)) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	if !ensureUnlocked(c, order) {
		return
	}

	var req LineKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key, ok := req.Key()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "line_id, menu_item_id or id is required"})
		return
	}

	lines, err := apply(order.Lines, key)
	if err != nil {
		middleware.CountOrderOperation(operation, "error")
		c.JSON(http.StatusNotFound, gin.H{"error": "Line item not found"})
		return
	}
	order.Lines = lines
	if !saveOrder(c, order) {
		return
	}
	middleware.CountOrderOperation(operation, "ok")
	c.JSON(http.StatusOK, gin.H{"message": "Quantity updated", "order": order})
}

// RemoveLine deletes the line with the given id; unknown ids affect nothing
func RemoveLine(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	if !ensureUnlocked(c, order) {
		return
	}
	before := len(order.Lines)
	order.Lines = pricing.RemoveByLineID(order.Lines, c.Param("lineRef"))
	if !saveOrder(c, order) {
		return
	}
	middleware.CountOrderOperation("remove_line", "ok")
	c.JSON(http.StatusOK, gin.H{
		"message": "Line removed",
		"removed": before - len(order.Lines),
		"order":   order,
	})
}

// RemoveLineAtIndex deletes a line by position; the fallback path when no
// stable identifier is available.
func RemoveLineAtIndex(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	if !ensureUnlocked(c, order) {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Line index must be numeric"})
		return
	}
	lines, err := pricing.RemoveAtIndex(order.Lines, index)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Line item not found"})
		return
	}
	order.Lines = lines
	if !saveOrder(c, order) {
		return
	}
	middleware.CountOrderOperation("remove_line", "ok")
	c.JSON(http.StatusOK, gin.H{"message": "Line removed", "order": order})
}

type MarkServedRequest struct {
	Served *bool `json:"served" binding:"required"`
}

// MarkLineServed flips the kitchen served flag on a single line. This is
// kitchen workflow rather than an edit, so the lock gate does not apply:
// a locked (paid) order can still have its lines delivered.
func MarkLineServed(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	var req MarkServedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lineID := c.Param("lineRef")
	found := false
	for i := range order.Lines {
		if order.Lines[i].LineID == lineID {
			order.Lines[i].Served = *req.Served
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Line item not found"})
		return
	}
	if !saveOrder(c, order) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Line updated", "order": order})
}

type DiscountRequest struct {
	Percent *int     `json:"percent"`
	Amount  *float64 `json:"amount"`
}

// SetDiscount sets or resets the order's discounts. Percent 1-100 sets,
// 0 resets; flat amount > 0 with at most 2 decimals sets, 0 resets.
func SetDiscount(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	if !ensureUnlocked(c, order) {
		return
	}

	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Percent == nil && req.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "percent or amount is required"})
		return
	}
	if req.Percent != nil {
		if err := pricing.ValidatePercent(*req.Percent); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order.DiscountPercent = *req.Percent
	}
	if req.Amount != nil {
		if err := pricing.ValidateFlat(*req.Amount); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order.DiscountAmount = *req.Amount
	}
	if !saveOrder(c, order) {
		return
	}
	middleware.CountOrderOperation("discount", "ok")
	c.JSON(http.StatusOK, gin.H{
		"message":      "Discount applied",
		"order":        order,
		"amount_saved": order.AmountSaved(),
	})
}

type LockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// SetOrderLock locks or unlocks an order for editing — manager tier only
func SetOrderLock(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	var req LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(order).Update("is_locked", *req.Locked)
	c.JSON(http.StatusOK, gin.H{"message": "Lock updated", "order_id": order.ID, "is_locked": *req.Locked})
}

// PayOrder settles the bill; a paid order is terminal by convention
func PayOrder(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	if order.Paid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Order is already paid"})
		return
	}
	config.DB.Model(order).Updates(map[string]interface{}{"paid": true, "is_locked": true})
	order.Paid = true
	order.IsLocked = true

	middleware.CountOrderOperation("pay", "ok")
	publishOrderEvent(order, "paid")
	c.JSON(http.StatusOK, gin.H{
		"message":      "Order paid",
		"order_id":     order.ID,
		"total_price":  order.TotalPrice,
		"amount_saved": order.AmountSaved(),
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// actorForRole maps a staff role onto the state machine's actor names
func actorForRole(role models.UserRole) string {
	switch role {
	case models.RoleKitchen:
		return "kitchen"
	case models.RoleWaiter:
		return "waiter"
	}
	return string(role)
}

// UpdateOrderStatus advances the kitchen workflow. Kitchen and waiter
// roles go through the state machine; manager tier may set any state.
func UpdateOrderStatus(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !middleware.IsManagerTier(c) {
		actor := actorForRole(middleware.GetRole(c))
		if err := statemachine.CanTransition(order.Status, req.Status, actor); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":         "Cannot update order status",
				"reason":        err.Error(),
				"current_state": order.Status,
			})
			return
		}
	}

	prevStatus := order.Status
	config.DB.Model(order).Update("status", req.Status)
	order.Status = req.Status

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  middleware.GetUserID(c),
		Note:       req.Note,
	}
	config.DB.Create(&history)

	middleware.CountOrderOperation("status", "ok")
	publishOrderEvent(order, "status_changed")
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}

// GetStateMachineInfo returns the kitchen workflow for informational purposes
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{string(models.StatusServed)},
		"description":     "Kitchen Order Lifecycle State Machine",
	})
}
