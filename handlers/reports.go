package handlers

import (
	"net/http"
	"sort"
	"time"

	"cafe-pos-api/config"
	"cafe-pos-api/models"
	"cafe-pos-api/pricing"

	"github.com/gin-gonic/gin"
)

// paidOrdersBetween loads the paid orders inside an optional from/to range
// (YYYY-MM-DD query params, inclusive).
func paidOrdersBetween(c *gin.Context) ([]models.Order, bool) {
	query := config.DB.Where("paid = ?", true)
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return nil, false
		}
		query = query.Where("created_at >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return nil, false
		}
		query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
	}
	var orders []models.Order
	query.Find(&orders)
	return orders, true
}

// SalesSummary aggregates revenue over paid orders in a date range
func SalesSummary(c *gin.Context) {
	orders, ok := paidOrdersBetween(c)
	if !ok {
		return
	}

	var revenue, saved float64
	byType := map[string]float64{}
	for _, o := range orders {
		revenue += o.TotalPrice
		saved += o.AmountSaved()
		byType[string(o.OrderType)] += o.TotalPrice
	}

	c.JSON(http.StatusOK, gin.H{
		"order_count":     len(orders),
		"total_revenue":   pricing.Round2(revenue),
		"total_discounts": pricing.Round2(saved),
		"revenue_by_type": byType,
	})
}

type popularItem struct {
	MenuItemID   string  `json:"menu_item_id"`
	Name         string  `json:"name"`
	QuantitySold int     `json:"quantity_sold"`
	TotalValue   float64 `json:"total_value"`
}

// PopularItems ranks menu items by quantity sold across paid orders
func PopularItems(c *gin.Context) {
	orders, ok := paidOrdersBetween(c)
	if !ok {
		return
	}

	byItem := map[string]*popularItem{}
	for _, o := range orders {
		for _, line := range o.Lines {
			entry, exists := byItem[line.MenuItemID]
			if !exists {
				entry = &popularItem{MenuItemID: line.MenuItemID, Name: line.Name}
				byItem[line.MenuItemID] = entry
			}
			entry.QuantitySold += line.Quantity
			entry.TotalValue += line.UnitPrice * float64(line.Quantity)
		}
	}

	items := make([]popularItem, 0, len(byItem))
	for _, entry := range byItem {
		entry.TotalValue = pricing.Round2(entry.TotalValue)
		items = append(items, *entry)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].QuantitySold != items[j].QuantitySold {
			return items[i].QuantitySold > items[j].QuantitySold
		}
		return items[i].Name < items[j].Name
	})

	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}
