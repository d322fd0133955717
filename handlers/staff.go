package handlers

import (
	"net/http"

	"cafe-pos-api/config"
	"cafe-pos-api/models"
	"cafe-pos-api/pricing"

	"github.com/gin-gonic/gin"
)

// ── Shifts ──────────────────────────────────────────────────────────────────

type ShiftRequest struct {
	StaffID   uint            `json:"staff_id" binding:"required"`
	Day       string          `json:"day" binding:"required"` // YYYY-MM-DD
	StartTime string          `json:"start_time" binding:"required"`
	EndTime   string          `json:"end_time" binding:"required"`
	Role      models.UserRole `json:"role" binding:"required"`
	Notes     string          `json:"notes"`
}

// CreateShift rosters a staff member, rejecting overlapping shifts
func CreateShift(c *gin.Context) {
	var req ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StartTime >= req.EndTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Shift must end after it starts"})
		return
	}
	var staff models.User
	if err := config.DB.First(&staff, req.StaffID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
		return
	}

	shift := models.Shift{
		StaffID:   req.StaffID,
		Day:       req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Role:      req.Role,
		Notes:     req.Notes,
	}

	var sameDay []models.Shift
	config.DB.Where("staff_id = ? AND day = ?", req.StaffID, req.Day).Find(&sameDay)
	for i := range sameDay {
		if shift.Overlaps(&sameDay[i]) {
			c.JSON(http.StatusConflict, gin.H{
				"error":    "Shift overlaps an existing shift",
				"existing": sameDay[i],
			})
			return
		}
	}

	if err := config.DB.Create(&shift).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shift"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Shift created", "shift": shift})
}

// ListShifts returns the roster, filterable by day or staff member
func ListShifts(c *gin.Context) {
	var shifts []models.Shift
	query := config.DB.Preload("Staff")
	if day := c.Query("day"); day != "" {
		query = query.Where("day = ?", day)
	}
	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	query.Order("day asc, start_time asc").Find(&shifts)
	c.JSON(http.StatusOK, gin.H{"count": len(shifts), "shifts": shifts})
}

// DeleteShift removes a rostered shift
func DeleteShift(c *gin.Context) {
	var shift models.Shift
	if err := config.DB.First(&shift, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shift not found"})
		return
	}
	config.DB.Delete(&shift)
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted"})
}

// ── Tax & deductions ────────────────────────────────────────────────────────

type DeductionRequest struct {
	StaffID uint    `json:"staff_id" binding:"required"`
	Period  string  `json:"period" binding:"required"` // YYYY-MM
	Label   string  `json:"label" binding:"required"`
	Amount  float64 `json:"amount"`
	Percent int     `json:"percent"`
}

// CreateDeduction records a flat or percentage deduction for a pay period
func CreateDeduction(c *gin.Context) {
	var req DeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := pricing.ValidatePercent(req.Percent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be negative"})
		return
	}
	var staff models.User
	if err := config.DB.First(&staff, req.StaffID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
		return
	}

	deduction := models.TaxDeduction{
		StaffID: req.StaffID,
		Period:  req.Period,
		Label:   req.Label,
		Amount:  req.Amount,
		Percent: req.Percent,
	}
	if err := config.DB.Create(&deduction).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deduction"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Deduction recorded", "deduction": deduction})
}

// ListDeductions returns deduction records, filterable by staff and period
func ListDeductions(c *gin.Context) {
	var deductions []models.TaxDeduction
	query := config.DB.Preload("Staff")
	if staffID := c.Query("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if period := c.Query("period"); period != "" {
		query = query.Where("period = ?", period)
	}
	query.Order("period desc").Find(&deductions)
	c.JSON(http.StatusOK, gin.H{"count": len(deductions), "deductions": deductions})
}

// DeleteDeduction removes a deduction record
func DeleteDeduction(c *gin.Context) {
	var deduction models.TaxDeduction
	if err := config.DB.First(&deduction, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deduction not found"})
		return
	}
	config.DB.Delete(&deduction)
	c.JSON(http.StatusOK, gin.H{"message": "Deduction deleted"})
}

type PayrollSummaryRequest struct {
	StaffID uint    `json:"staff_id" binding:"required"`
	Period  string  `json:"period" binding:"required"`
	Gross   float64 `json:"gross" binding:"required,gt=0"`
}

// PayrollSummary applies a staff member's period deductions to a gross
// figure. Percent and flat deductions apply against the gross additively,
// the same way order discounts apply against the original price.
func PayrollSummary(c *gin.Context) {
	var req PayrollSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var deductions []models.TaxDeduction
	config.DB.Where("staff_id = ? AND period = ?", req.StaffID, req.Period).Find(&deductions)

	net := req.Gross
	var totalDeducted float64
	for _, d := range deductions {
		take := d.Amount + req.Gross*float64(d.Percent)/100
		totalDeducted += take
		net -= take
	}
	if net < 0 {
		net = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"staff_id":       req.StaffID,
		"period":         req.Period,
		"gross":          pricing.Round2(req.Gross),
		"total_deducted": pricing.Round2(totalDeducted),
		"net":            pricing.Round2(net),
		"deductions":     deductions,
	})
}
