package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-dashboard-go/internal/report"
	"store-dashboard-go/internal/store"
)

// NewRouter builds the gin engine with every API route registered.
func NewRouter(st *store.Store, reports *report.Service, logger *zap.Logger) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery())

	h := NewHandler(st, reports, logger)

	e.GET("/api/status", h.StatusHandler)

	e.POST("/api/sales", h.CreateSaleHandler)
	e.POST("/api/expenses", h.CreateExpenseHandler)
	e.GET("/api/sales/recent", h.RecentSalesHandler)
	e.GET("/api/expenses/recent", h.RecentExpensesHandler)

	e.GET("/api/reports/summary", h.SummaryHandler)
	e.GET("/api/reports/daily", h.DailyHandler)
	e.GET("/api/reports/categories", h.CategoriesHandler)
	e.GET("/api/reports/items", h.ItemsHandler)
	e.GET("/api/reports/expense-types", h.ExpenseTypesHandler)
	e.GET("/api/reports/activity", h.ActivityHandler)
	e.GET("/api/reports/forecast", h.ForecastHandler)

	e.GET("/api/export/sales.csv", h.ExportSalesHandler)
	e.GET("/api/export/expenses.csv", h.ExportExpensesHandler)
	e.GET("/api/export/summary.csv", h.ExportSummaryHandler)

	return e
}
