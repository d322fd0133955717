package handlers

import (
	"net/http"

	"cafe-pos-api/config"
	"cafe-pos-api/middleware"
	"cafe-pos-api/models"

	"github.com/gin-gonic/gin"
)

// AdminGetAllUsers returns all staff accounts — admin only
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

type UpdateUserRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required"`
}

// AdminUpdateUserRole changes a staff member's role. Demoting the last
// remaining admin is refused, the system must always have one.
func AdminUpdateUserRole(c *gin.Context) {
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	validRoles := map[models.UserRole]bool{
		models.RoleAdmin:   true,
		models.RoleManager: true,
		models.RoleWaiter:  true,
		models.RoleKitchen: true,
	}
	if !validRoles[req.Role] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: admin, manager, waiter, or kitchen"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.Role == models.RoleAdmin && req.Role != models.RoleAdmin && lastAdmin(user.ID) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot demote the last admin"})
		return
	}

	config.DB.Model(&user).Update("role", req.Role)
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user_id": user.ID, "role": req.Role})
}

// AdminDeleteUser removes a staff account; the last admin cannot be removed
func AdminDeleteUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.Role == models.RoleAdmin && lastAdmin(user.ID) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot remove the last admin"})
		return
	}

	config.DB.Delete(&user)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted", "user_id": user.ID})
}

// lastAdmin reports whether the given user is the only admin account left
func lastAdmin(exceptID uint) bool {
	var others int64
	config.DB.Model(&models.User{}).
		Where("role = ? AND id <> ?", models.RoleAdmin, exceptID).
		Count(&others)
	return others == 0
}

// AdminForceOrderStatus lets a manager-tier caller override any order state
// (emergency use); the state machine is bypassed on purpose.
func AdminForceOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Reason string             `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	prevStatus := order.Status
	config.DB.Model(&order).Update("status", req.Status)

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  middleware.GetUserID(c),
		Note:       "[OVERRIDE] " + req.Reason,
	}
	config.DB.Create(&history)

	publishOrderEvent(&order, "status_changed")

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}
