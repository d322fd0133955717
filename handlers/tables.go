package handlers

import (
	"net/http"

	"cafe-pos-api/config"
	"cafe-pos-api/models"

	"github.com/gin-gonic/gin"
)

type TableRequest struct {
	TableNo  int `json:"table_no" binding:"required"`
	Capacity int `json:"capacity" binding:"required"`
}

// CreateTable registers a table; capacity must be 1-12
func CreateTable(c *gin.Context) {
	var req TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Capacity < models.MinTableCapacity || req.Capacity > models.MaxTableCapacity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be between 1 and 12"})
		return
	}
	var existing models.Table
	if result := config.DB.Where("table_no = ?", req.TableNo).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Table number already exists"})
		return
	}
	table := models.Table{TableNo: req.TableNo, Capacity: req.Capacity, OrderIDs: []uint{}}
	if err := config.DB.Create(&table).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create table"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Table created", "table": table})
}

// ListTables returns every table, optionally only the free ones
func ListTables(c *gin.Context) {
	var tables []models.Table
	query := config.DB
	if free := c.Query("free"); free == "true" {
		query = query.Where("is_occupied = ?", false)
	}
	query.Order("table_no asc").Find(&tables)
	c.JSON(http.StatusOK, gin.H{"count": len(tables), "tables": tables})
}

// GetTable returns a table with its active order, if any
func GetTable(c *gin.Context) {
	var table models.Table
	if err := config.DB.First(&table, "table_no = ?", c.Param("tableNo")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	resp := gin.H{"table": table}
	if table.ActiveOrderID != nil {
		var order models.Order
		if err := config.DB.First(&order, *table.ActiveOrderID).Error; err == nil {
			resp["active_order"] = order
		}
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateTableCapacity resizes a table within the 1-12 bound
func UpdateTableCapacity(c *gin.Context) {
	var table models.Table
	if err := config.DB.First(&table, "table_no = ?", c.Param("tableNo")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	var req struct {
		Capacity int `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Capacity < models.MinTableCapacity || req.Capacity > models.MaxTableCapacity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Capacity must be between 1 and 12"})
		return
	}
	config.DB.Model(&table).Update("capacity", req.Capacity)
	c.JSON(http.StatusOK, gin.H{"message": "Capacity updated", "table_no": table.TableNo, "capacity": req.Capacity})
}

type SeatRequest struct {
	NoOccupants int `json:"no_occupants" binding:"required,min=1"`
}

// SeatTable marks a table occupied with a party size
func SeatTable(c *gin.Context) {
	var table models.Table
	if err := config.DB.First(&table, "table_no = ?", c.Param("tableNo")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	var req SeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NoOccupants > table.Capacity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Party exceeds table capacity"})
		return
	}
	config.DB.Model(&table).Updates(map[string]interface{}{"is_occupied": true, "no_occupants": req.NoOccupants})
	c.JSON(http.StatusOK, gin.H{"message": "Table seated", "table_no": table.TableNo})
}

// ClearTable frees a table after the party leaves. Unpaid active orders
// keep their table association; clearing only resets seating.
func ClearTable(c *gin.Context) {
	var table models.Table
	if err := config.DB.First(&table, "table_no = ?", c.Param("tableNo")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	config.DB.Model(&table).Updates(map[string]interface{}{
		"is_occupied":     false,
		"no_occupants":    0,
		"active_order_id": nil,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Table cleared", "table_no": table.TableNo})
}

// DeleteTable removes an unoccupied table
func DeleteTable(c *gin.Context) {
	var table models.Table
	if err := config.DB.First(&table, "table_no = ?", c.Param("tableNo")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	if table.IsOccupied {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot delete an occupied table"})
		return
	}
	config.DB.Delete(&table)
	c.JSON(http.StatusOK, gin.H{"message": "Table deleted"})
}
