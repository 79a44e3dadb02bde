package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-dashboard-go/internal/export"
	"store-dashboard-go/internal/report"
	"store-dashboard-go/internal/store"
)

const (
	dateLayout       = "2006-01-02"
	defaultRangeDays = 30
	defaultRecent    = 10
	maxRecent        = 100
)

// Handler binds the record store and report service to HTTP.
type Handler struct {
	store   *store.Store
	reports *report.Service
	logger  *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(st *store.Store, reports *report.Service, logger *zap.Logger) *Handler {
	return &Handler{store: st, reports: reports, logger: logger}
}

// StatusHandler reports service liveness.
func (h *Handler) StatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// CreateSaleHandler handles POST /api/sales.
func (h *Handler) CreateSaleHandler(c *gin.Context) {
	var in store.SaleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	sale, err := h.store.RecordSale(in)
	if err != nil {
		h.writeRecordError(c, err, "sale")
		return
	}

	h.reports.Invalidate()
	c.JSON(http.StatusCreated, sale)
}

// CreateExpenseHandler handles POST /api/expenses.
func (h *Handler) CreateExpenseHandler(c *gin.Context) {
	var in store.ExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	expense, err := h.store.RecordExpense(in)
	if err != nil {
		h.writeRecordError(c, err, "expense")
		return
	}

	h.reports.Invalidate()
	c.JSON(http.StatusCreated, expense)
}

func (h *Handler) writeRecordError(c *gin.Context, err error, kind string) {
	if isValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Error("Failed to record "+kind, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record " + kind})
}

func isValidationError(err error) bool {
	for _, v := range []error{
		store.ErrEmptyItemName,
		store.ErrEmptyExpenseType,
		store.ErrInvalidPrice,
		store.ErrInvalidQuantity,
		store.ErrInvalidCost,
		store.ErrInvalidAmount,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// RecentSalesHandler handles GET /api/sales/recent.
func (h *Handler) RecentSalesHandler(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	sales, err := h.store.RecentSales(limit)
	if err != nil {
		h.logger.Error("Failed to get recent sales", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get recent sales"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// RecentExpensesHandler handles GET /api/expenses/recent.
func (h *Handler) RecentExpensesHandler(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	expenses, err := h.store.RecentExpenses(limit)
	if err != nil {
		h.logger.Error("Failed to get recent expenses", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get recent expenses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("limit", strconv.Itoa(defaultRecent))
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	if limit > maxRecent {
		limit = maxRecent
	}
	return limit, true
}

// parseRange reads start/end query params as YYYY-MM-DD. The range defaults
// to the last 30 days, and the end date is widened to the end of its day so
// both bounds stay inclusive.
func (h *Handler) parseRange(c *gin.Context) (start, end time.Time, ok bool) {
	now := time.Now().UTC()
	end = report.Day(now).AddDate(0, 0, 1).Add(-time.Nanosecond)
	start = report.Day(now).AddDate(0, 0, -defaultRangeDays)

	if raw := c.Query("start"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be formatted as YYYY-MM-DD"})
			return start, end, false
		}
		start = t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be formatted as YYYY-MM-DD"})
			return start, end, false
		}
		end = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return start, end, true
}

func (h *Handler) dashboard(c *gin.Context) (report.Dashboard, bool) {
	start, end, ok := h.parseRange(c)
	if !ok {
		return report.Dashboard{}, false
	}
	d, err := h.reports.Dashboard(start, end)
	if err != nil {
		h.logger.Error("Failed to compute dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute report"})
		return report.Dashboard{}, false
	}
	return d, true
}

// SummaryHandler handles GET /api/reports/summary.
func (h *Handler) SummaryHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"start":      d.Start,
		"end":        d.End,
		"summary":    d.Summary,
		"comparison": d.Comparison,
	})
}

// DailyHandler handles GET /api/reports/daily.
func (h *Handler) DailyHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"start": d.Start, "end": d.End, "daily": d.Daily})
}

// CategoriesHandler handles GET /api/reports/categories.
func (h *Handler) CategoriesHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"start": d.Start, "end": d.End, "categories": d.Categories})
}

// ItemsHandler handles GET /api/reports/items.
func (h *Handler) ItemsHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"start": d.Start, "end": d.End, "items": d.Items})
}

// ExpenseTypesHandler handles GET /api/reports/expense-types.
func (h *Handler) ExpenseTypesHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"start": d.Start, "end": d.End, "expense_types": d.ExpenseTypes})
}

// ActivityHandler handles GET /api/reports/activity.
func (h *Handler) ActivityHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"start": d.Start, "end": d.End, "activity": d.Activity})
}

// ForecastHandler handles GET /api/reports/forecast.
func (h *Handler) ForecastHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"start": d.Start, "end": d.End, "forecast": d.Forecast})
}

// ExportSalesHandler handles GET /api/export/sales.csv.
func (h *Handler) ExportSalesHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="sales.csv"`)
	if err := export.WriteSales(c.Writer, d.Sales); err != nil {
		h.logger.Error("Failed to write sales CSV", zap.Error(err))
	}
}

// ExportExpensesHandler handles GET /api/export/expenses.csv.
func (h *Handler) ExportExpensesHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="expenses.csv"`)
	if err := export.WriteExpenses(c.Writer, d.Expenses); err != nil {
		h.logger.Error("Failed to write expenses CSV", zap.Error(err))
	}
}

// ExportSummaryHandler handles GET /api/export/summary.csv.
func (h *Handler) ExportSummaryHandler(c *gin.Context) {
	d, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="summary.csv"`)
	if err := export.WriteSummary(c.Writer, d.Summary, store.DefaultCurrency); err != nil {
		h.logger.Error("Failed to write summary CSV", zap.Error(err))
	}
}
