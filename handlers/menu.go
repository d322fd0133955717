package handlers

import (
	"net/http"

	"cafe-pos-api/config"
	"cafe-pos-api/models"
	"cafe-pos-api/pricing"

	"github.com/gin-gonic/gin"
)

// ── Categories ──────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// CreateCategory adds a menu category; names are unique
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var existing models.Category
	if result := config.DB.Where("name = ?", req.Name).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category name already exists"})
		return
	}
	category := models.Category{Name: req.Name, SortOrder: req.SortOrder}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

// UpdateCategory renames a category, still enforcing unique names
func UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var existing models.Category
	if result := config.DB.Where("name = ? AND id <> ?", req.Name, category.ID).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category name already exists"})
		return
	}
	config.DB.Model(&category).Updates(map[string]interface{}{"name": req.Name, "sort_order": req.SortOrder})
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": category})
}

// DeleteCategory removes an empty category
func DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	var itemCount int64
	config.DB.Model(&models.MenuItem{}).Where("category_id = ?", category.ID).Count(&itemCount)
	if itemCount > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Category still has menu items"})
		return
	}
	config.DB.Delete(&category)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// ── Menu items ──────────────────────────────────────────────────────────────

type MenuItemRequest struct {
	CategoryID      uint                     `json:"category_id" binding:"required"`
	Name            string                   `json:"name" binding:"required"`
	Description     string                   `json:"description"`
	BasePrice       float64                  `json:"base_price" binding:"required,gt=0"`
	BaseIngredients []pricing.BaseIngredient `json:"base_ingredients"`
	OptionGroups    []pricing.OptionGroup    `json:"option_groups"`
}

// CreateMenuItem adds a new item with its ingredient and option definition
func CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var category models.Category
	if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	var existing models.MenuItem
	if result := config.DB.Where("category_id = ? AND name = ?", req.CategoryID, req.Name).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Menu item name already exists in this category"})
		return
	}

	item := models.MenuItem{
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		BaseIngredients: req.BaseIngredients,
		OptionGroups:    req.OptionGroups,
		IsAvailable:     true,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item created", "item": item})
}

// UpdateMenuItem updates a menu item's fields. Existing order lines keep
// their add-time snapshots; repricing only affects future lines.
func UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var existing models.MenuItem
	if result := config.DB.Where("category_id = ? AND name = ? AND id <> ?", req.CategoryID, req.Name, item.ID).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Menu item name already exists in this category"})
		return
	}

	item.CategoryID = req.CategoryID
	item.Name = req.Name
	item.Description = req.Description
	item.BasePrice = req.BasePrice
	item.BaseIngredients = req.BaseIngredients
	item.OptionGroups = req.OptionGroups
	if err := config.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// SetMenuItemAvailability flips an item on or off the live menu
func SetMenuItemAvailability(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(&item).Update("is_available", *req.IsAvailable)
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "item_id": item.ID, "is_available": *req.IsAvailable})
}

// DeleteMenuItem removes a menu item
func DeleteMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	config.DB.Delete(&item)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// ── Public menu ─────────────────────────────────────────────────────────────

// GetMenu returns the menu grouped by category (public)
func GetMenu(c *gin.Context) {
	var categories []models.Category
	config.DB.Preload("MenuItems").Order("sort_order asc").Find(&categories)
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "menu": categories})
}

// ListMenuItems returns menu items with optional filters
func ListMenuItems(c *gin.Context) {
	var items []models.MenuItem
	query := config.DB
	if category := c.Query("category_id"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if available := c.Query("available"); available == "true" {
		query = query.Where("is_available = ?", true)
	}
	query.Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// GetMenuItem returns one item with its full option definition
func GetMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := config.DB.First(&item, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}
