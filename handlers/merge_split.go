package handlers

import (
	"net/http"
	"sort"

	"cafe-pos-api/config"
	"cafe-pos-api/middleware"
	"cafe-pos-api/models"
	"cafe-pos-api/pricing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MergeTablesRequest struct {
	TableNos      []int `json:"table_nos" binding:"required,min=1"`
	TargetOrderID uint  `json:"target_order_id" binding:"required"`
}

// MergeTables unions several dine-in tables into one billing order. The
// whole restructure runs in a single transaction so a partial failure can
// never leave a table pointing at a deleted order.
//
// The merged table list is the union of the requested tables, the tables
// already recorded on the target, and any table whose active order is the
// target — this keeps merge idempotent and incremental merges lossless.
func MergeTables(c *gin.Context) {
	var req MergeTablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target models.Order
	if err := config.DB.First(&target, req.TargetOrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	var tables []models.Table
	config.DB.Where("table_no IN ?", req.TableNos).Find(&tables)
	if len(tables) != len(req.TableNos) {
		c.JSON(http.StatusNotFound, gin.H{"error": "One or more tables not found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// Union of requested tables, the target's recorded tables, and
		// tables already pointing at the target.
		union := map[int]bool{}
		for _, n := range req.TableNos {
			union[n] = true
		}
		for _, n := range target.TableNos {
			union[n] = true
		}
		var alreadyMerged []models.Table
		tx.Where("active_order_id = ?", target.ID).Find(&alreadyMerged)
		for _, t := range alreadyMerged {
			union[t.TableNo] = true
		}

		// Absorb every other order the involved tables point at
		absorbed := map[uint]bool{}
		for _, t := range tables {
			if t.ActiveOrderID == nil || *t.ActiveOrderID == target.ID || absorbed[*t.ActiveOrderID] {
				continue
			}
			var other models.Order
			if err := tx.First(&other, *t.ActiveOrderID).Error; err != nil {
				continue // stale reference, nothing to absorb
			}
			absorbed[other.ID] = true

			target.Lines = append(pricing.CloneLines(target.Lines), pricing.CloneLines(other.Lines)...)

			// Redirect every table pointing at the absorbed order
			var pointing []models.Table
			tx.Where("active_order_id = ?", other.ID).Find(&pointing)
			for i := range pointing {
				pointing[i].ActiveOrderID = &target.ID
				pointing[i].RecordOrder(target.ID)
				if err := tx.Save(&pointing[i]).Error; err != nil {
					return err
				}
			}

			// Paid orders are never deleted, only orphaned from tables
			if other.Paid {
				other.TableNos = []int{}
				if err := tx.Model(&other).Update("table_nos", other.TableNos).Error; err != nil {
					return err
				}
			} else if err := tx.Delete(&other).Error; err != nil {
				return err
			}
		}

		merged := make([]int, 0, len(union))
		for n := range union {
			merged = append(merged, n)
		}
		sort.Ints(merged)
		target.TableNos = merged
		target.Recompute()
		if err := tx.Save(&target).Error; err != nil {
			return err
		}

		// Every requested table now seats the target order
		for i := range tables {
			tables[i].ActiveOrderID = &target.ID
			tables[i].IsOccupied = true
			tables[i].RecordOrder(target.ID)
			if err := tx.Save(&tables[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		middleware.CountOrderOperation("merge", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to merge tables"})
		return
	}

	middleware.CountOrderOperation("merge", "ok")
	publishOrderEvent(&target, "merged")
	c.JSON(http.StatusOK, gin.H{"message": "Tables merged", "order": target})
}

type SplitTablesRequest struct {
	SourceOrderID uint  `json:"source_order_id" binding:"required"`
	TableNos      []int `json:"table_nos" binding:"required,min=1"`
}

// SplitTables carves tables back out of a merged order. Each split table
// gets a brand-new order carrying a deep copy of the source's lines, a
// fresh order number, and a reset paid flag.
func SplitTables(c *gin.Context) {
	var req SplitTablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var source models.Order
	if err := config.DB.First(&source, req.SourceOrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	onSource := map[int]bool{}
	for _, n := range source.TableNos {
		onSource[n] = true
	}
	for _, n := range req.TableNos {
		if !onSource[n] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Table is not part of this order"})
			return
		}
	}

	var created []models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, tableNo := range req.TableNos {
			var table models.Table
			if err := tx.First(&table, "table_no = ?", tableNo).Error; err != nil {
				return err
			}

			orderNo, err := nextOrderNo(tx)
			if err != nil {
				return err
			}
			split := models.Order{
				OrderNo:         orderNo,
				OrderType:       source.OrderType,
				TableNos:        []int{tableNo},
				Lines:           pricing.CloneLines(source.Lines),
				DiscountPercent: source.DiscountPercent,
				DiscountAmount:  source.DiscountAmount,
				Status:          source.Status,
			}
			split.Recompute()
			if err := tx.Create(&split).Error; err != nil {
				return err
			}

			table.ActiveOrderID = &split.ID
			table.RecordOrder(split.ID)
			if err := tx.Save(&table).Error; err != nil {
				return err
			}
			created = append(created, split)
		}

		// Drop the split tables from the source order
		split := map[int]bool{}
		for _, n := range req.TableNos {
			split[n] = true
		}
		var remaining []int
		for _, n := range source.TableNos {
			if !split[n] {
				remaining = append(remaining, n)
			}
		}

		if len(remaining) == 0 {
			if source.Paid {
				// preserved for payment and audit history
				source.TableNos = []int{}
				return tx.Model(&source).Update("table_nos", source.TableNos).Error
			}
			return tx.Delete(&source).Error
		}
		source.TableNos = remaining
		return tx.Save(&source).Error
	})
	if err != nil {
		middleware.CountOrderOperation("split", "error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to split tables"})
		return
	}

	middleware.CountOrderOperation("split", "ok")
	for i := range created {
		publishOrderEvent(&created[i], "split")
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Tables split",
		"count":   len(created),
		"orders":  created,
	})
}
