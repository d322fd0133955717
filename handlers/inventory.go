package handlers

import (
	"net/http"
	"time"

	"cafe-pos-api/config"
	"cafe-pos-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ── Stock ───────────────────────────────────────────────────────────────────

type StockItemRequest struct {
	Name         string  `json:"name" binding:"required"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit" binding:"required"`
	MinThreshold float64 `json:"min_threshold"`
}

// CreateStockItem registers a tracked ingredient or consumable
func CreateStockItem(c *gin.Context) {
	var req StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity < 0 || req.MinThreshold < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity and threshold must not be negative"})
		return
	}
	var existing models.StockItem
	if result := config.DB.Where("name = ?", req.Name).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Stock item name already exists"})
		return
	}
	item := models.StockItem{
		Name:         req.Name,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		MinThreshold: req.MinThreshold,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Stock item created", "item": item})
}

// ListStock returns all stock items, flagging the ones running low
func ListStock(c *gin.Context) {
	var items []models.StockItem
	config.DB.Order("name asc").Find(&items)

	low := 0
	for _, it := range items {
		if it.LowStock() {
			low++
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "low_stock_count": low, "items": items})
}

// ListLowStock returns only items at or below their threshold
func ListLowStock(c *gin.Context) {
	var items []models.StockItem
	config.DB.Where("quantity <= min_threshold").Order("name asc").Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

type AdjustStockRequest struct {
	Delta  float64 `json:"delta" binding:"required"`
	Reason string  `json:"reason"`
}

// AdjustStock adds or removes quantity; stock can never go negative
func AdjustStock(c *gin.Context) {
	var item models.StockItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
		return
	}
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.Quantity+req.Delta < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Adjustment would drive stock negative",
			"available": item.Quantity,
		})
		return
	}
	config.DB.Model(&item).Update("quantity", gorm.Expr("quantity + ?", req.Delta))
	config.DB.First(&item, item.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Stock adjusted", "item": item})
}

// DeleteStockItem removes a tracked item
func DeleteStockItem(c *gin.Context) {
	var item models.StockItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
		return
	}
	config.DB.Delete(&item)
	c.JSON(http.StatusOK, gin.H{"message": "Stock item deleted"})
}

// ── Suppliers ───────────────────────────────────────────────────────────────

type SupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// CreateSupplier registers a supplier; names are unique
func CreateSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var existing models.Supplier
	if result := config.DB.Where("name = ?", req.Name).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Supplier name already exists"})
		return
	}
	supplier := models.Supplier{Name: req.Name, Contact: req.Contact, Phone: req.Phone, Email: req.Email}
	if err := config.DB.Create(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Supplier created", "supplier": supplier})
}

// ListSuppliers returns all suppliers
func ListSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	config.DB.Order("name asc").Find(&suppliers)
	c.JSON(http.StatusOK, gin.H{"count": len(suppliers), "suppliers": suppliers})
}

// UpdateSupplier edits supplier contact details
func UpdateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := config.DB.First(&supplier, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var existing models.Supplier
	if result := config.DB.Where("name = ? AND id <> ?", req.Name, supplier.ID).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Supplier name already exists"})
		return
	}
	config.DB.Model(&supplier).Updates(map[string]interface{}{
		"name": req.Name, "contact": req.Contact, "phone": req.Phone, "email": req.Email,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Supplier updated", "supplier": supplier})
}

// DeleteSupplier removes a supplier with no open purchase orders
func DeleteSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := config.DB.First(&supplier, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}
	var open int64
	config.DB.Model(&models.PurchaseOrder{}).
		Where("supplier_id = ? AND status <> ?", supplier.ID, models.PurchaseReceived).
		Count(&open)
	if open > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Supplier still has open purchase orders"})
		return
	}
	config.DB.Delete(&supplier)
	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted"})
}

// ── Purchase orders ─────────────────────────────────────────────────────────

type PurchaseOrderRequest struct {
	SupplierID uint `json:"supplier_id" binding:"required"`
	Lines      []struct {
		StockItemID uint    `json:"stock_item_id" binding:"required"`
		Quantity    float64 `json:"quantity" binding:"required,gt=0"`
		UnitCost    float64 `json:"unit_cost" binding:"required,gt=0"`
	} `json:"lines" binding:"required,min=1"`
}

// CreatePurchaseOrder drafts a purchase order, snapshotting item names
func CreatePurchaseOrder(c *gin.Context) {
	var req PurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var supplier models.Supplier
	if err := config.DB.First(&supplier, req.SupplierID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	var lines []models.PurchaseLine
	for _, reqLine := range req.Lines {
		var stock models.StockItem
		if err := config.DB.First(&stock, reqLine.StockItemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
			return
		}
		lines = append(lines, models.PurchaseLine{
			StockItemID: stock.ID,
			Name:        stock.Name,
			Quantity:    reqLine.Quantity,
			UnitCost:    reqLine.UnitCost,
		})
	}

	po := models.PurchaseOrder{
		SupplierID: req.SupplierID,
		Status:     models.PurchaseDraft,
		Lines:      lines,
	}
	po.RecomputeCost()
	if err := config.DB.Create(&po).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase order"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Purchase order created", "purchase_order": po})
}

// ListPurchaseOrders returns purchase orders, filterable by status
func ListPurchaseOrders(c *gin.Context) {
	var orders []models.PurchaseOrder
	query := config.DB.Preload("Supplier")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "purchase_orders": orders})
}

// MarkPurchaseOrdered moves a draft to ordered
func MarkPurchaseOrdered(c *gin.Context) {
	var po models.PurchaseOrder
	if err := config.DB.First(&po, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		return
	}
	if po.Status != models.PurchaseDraft {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Only draft purchase orders can be placed"})
		return
	}
	config.DB.Model(&po).Update("status", models.PurchaseOrdered)
	c.JSON(http.StatusOK, gin.H{"message": "Purchase order placed", "purchase_order_id": po.ID})
}

// ReceivePurchaseOrder books the delivery: all line quantities are added to
// stock and the order is closed, atomically.
func ReceivePurchaseOrder(c *gin.Context) {
	var po models.PurchaseOrder
	if err := config.DB.First(&po, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		return
	}
	if po.Status == models.PurchaseReceived {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Purchase order already received"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, line := range po.Lines {
			res := tx.Model(&models.StockItem{}).
				Where("id = ?", line.StockItemID).
				Update("quantity", gorm.Expr("quantity + ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
		}
		now := time.Now()
		return tx.Model(&po).Updates(map[string]interface{}{
			"status":      models.PurchaseReceived,
			"received_at": &now,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to receive purchase order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase order received", "purchase_order_id": po.ID})
}
