package routes

import (
	"cafe-pos-api/handlers"
	"cafe-pos-api/middleware"
	"cafe-pos-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Menu browsing (no auth needed)
		public.GET("/menu", handlers.GetMenu)
		public.GET("/menu/items", handlers.ListMenuItems)
		public.GET("/menu/items/:itemId", handlers.GetMenuItem)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.GET("/tables", handlers.ListTables)
		auth.GET("/tables/:tableNo", handlers.GetTable)
		auth.GET("/orders", handlers.ListOrders)
		auth.GET("/orders/:id", handlers.GetOrder)
	}

	// ── Front-of-house routes (waiters and up) ─────────────────────
	foh := r.Group("/api")
	foh.Use(middleware.AuthRequired(), middleware.RoleRequired(
		models.RoleWaiter, models.RoleManager, models.RoleAdmin))
	{
		foh.POST("/orders", handlers.OpenOrder)
		foh.POST("/orders/:id/lines", handlers.AddLine)
		foh.PUT("/orders/:id/lines/:lineRef/selections", handlers.UpdateLineSelections)
		foh.POST("/orders/:id/lines/increment", handlers.IncrementLine)
		foh.POST("/orders/:id/lines/decrement", handlers.DecrementLine)
		foh.DELETE("/orders/:id/lines/:lineRef", handlers.RemoveLine)
		foh.DELETE("/orders/:id/line-index/:index", handlers.RemoveLineAtIndex)
		foh.PUT("/orders/:id/discount", handlers.SetDiscount)
		foh.PUT("/orders/:id/pay", handlers.PayOrder)

		foh.PUT("/tables/:tableNo/seat", handlers.SeatTable)
		foh.PUT("/tables/:tableNo/clear", handlers.ClearTable)
	}

	// ── Kitchen workflow routes ────────────────────────────────────
	kitchen := r.Group("/api")
	kitchen.Use(middleware.AuthRequired(), middleware.RoleRequired(
		models.RoleKitchen, models.RoleWaiter, models.RoleManager, models.RoleAdmin))
	{
		kitchen.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		kitchen.PUT("/orders/:id/lines/:lineRef/served", handlers.MarkLineServed)
	}

	// ── Manager routes ─────────────────────────────────────────────
	manager := r.Group("/api/manage")
	manager.Use(middleware.AuthRequired(), middleware.ManagerTierRequired())
	{
		// Menu management
		manager.POST("/categories", handlers.CreateCategory)
		manager.PUT("/categories/:id", handlers.UpdateCategory)
		manager.DELETE("/categories/:id", handlers.DeleteCategory)
		manager.POST("/menu/items", handlers.CreateMenuItem)
		manager.PUT("/menu/items/:itemId", handlers.UpdateMenuItem)
		manager.PUT("/menu/items/:itemId/availability", handlers.SetMenuItemAvailability)
		manager.DELETE("/menu/items/:itemId", handlers.DeleteMenuItem)

		// Table management
		manager.POST("/tables", handlers.CreateTable)
		manager.PUT("/tables/:tableNo/capacity", handlers.UpdateTableCapacity)
		manager.DELETE("/tables/:tableNo", handlers.DeleteTable)
		manager.POST("/tables/merge", handlers.MergeTables)
		manager.POST("/tables/split", handlers.SplitTables)

		// Order administration
		manager.PUT("/orders/:id/lock", handlers.SetOrderLock)
		manager.PUT("/orders/:id/status", handlers.AdminForceOrderStatus)

		// Inventory
		manager.POST("/stock", handlers.CreateStockItem)
		manager.GET("/stock", handlers.ListStock)
		manager.GET("/stock/low", handlers.ListLowStock)
		manager.PUT("/stock/:id/adjust", handlers.AdjustStock)
		manager.DELETE("/stock/:id", handlers.DeleteStockItem)
		manager.POST("/suppliers", handlers.CreateSupplier)
		manager.GET("/suppliers", handlers.ListSuppliers)
		manager.PUT("/suppliers/:id", handlers.UpdateSupplier)
		manager.DELETE("/suppliers/:id", handlers.DeleteSupplier)
		manager.POST("/purchase-orders", handlers.CreatePurchaseOrder)
		manager.GET("/purchase-orders", handlers.ListPurchaseOrders)
		manager.PUT("/purchase-orders/:id/place", handlers.MarkPurchaseOrdered)
		manager.PUT("/purchase-orders/:id/receive", handlers.ReceivePurchaseOrder)

		// Staff rostering & deductions
		manager.POST("/shifts", handlers.CreateShift)
		manager.GET("/shifts", handlers.ListShifts)
		manager.DELETE("/shifts/:id", handlers.DeleteShift)
		manager.POST("/deductions", handlers.CreateDeduction)
		manager.GET("/deductions", handlers.ListDeductions)
		manager.DELETE("/deductions/:id", handlers.DeleteDeduction)
		manager.POST("/payroll/summary", handlers.PayrollSummary)

		// Reports
		manager.GET("/reports/sales", handlers.SalesSummary)
		manager.GET("/reports/popular-items", handlers.PopularItems)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.PUT("/users/:id/role", handlers.AdminUpdateUserRole)
		admin.DELETE("/users/:id", handlers.AdminDeleteUser)
	}
}
