package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"store-dashboard-go/internal/cache"
	"store-dashboard-go/internal/database"
	"store-dashboard-go/internal/report"
	"store-dashboard-go/internal/store"
)

func setupRouter(t *testing.T) (*gin.Engine, *store.Store) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	st := store.NewStore(db, zap.NewNop())
	c := cache.NewTTLCache[report.Dashboard](16, 5*time.Minute)
	reports := report.NewService(st, c, zap.NewNop(), 7)

	return NewRouter(st, reports, zap.NewNop()), st
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestStatusHandler(t *testing.T) {
	router, _ := setupRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateSaleHandler(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sales", map[string]any{
		"item_name":      "Tea",
		"category":       "Beverage",
		"price_per_unit": 10,
		"quantity_sold":  3,
		"cost":           5,
		"timestamp":      "2024-03-10T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var sale struct {
		TotalSale float64 `json:"total_sale"`
		Profit    float64 `json:"profit"`
		Currency  string  `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, 30.0, sale.TotalSale)
	assert.Equal(t, 25.0, sale.Profit)
	assert.Equal(t, "TRY", sale.Currency)
}

func TestCreateSaleHandler_Validation(t *testing.T) {
	router, _ := setupRouter(t)

	testCases := []struct {
		name string
		body map[string]any
	}{
		{
			name: "Negative price",
			body: map[string]any{"item_name": "Tea", "category": "Beverage", "price_per_unit": -1, "quantity_sold": 1},
		},
		{
			name: "Zero quantity",
			body: map[string]any{"item_name": "Tea", "category": "Beverage", "price_per_unit": 1, "quantity_sold": 0},
		},
		{
			name: "Empty item name",
			body: map[string]any{"item_name": "", "category": "Beverage", "price_per_unit": 1, "quantity_sold": 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/sales", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCreateSaleHandler_MalformedJSON(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateExpenseHandler(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/expenses", map[string]any{
		"expense_type": "Rent",
		"amount":       500,
		"timestamp":    "2024-03-10T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/expenses", map[string]any{
		"expense_type": "Rent",
		"amount":       -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryHandler_EndToEnd(t *testing.T) {
	router, _ := setupRouter(t)

	// One sale and one expense on the same day.
	w := doJSON(t, router, http.MethodPost, "/api/sales", map[string]any{
		"item_name": "Tea", "category": "Beverage", "price_per_unit": 10, "quantity_sold": 3,
		"timestamp": "2024-03-10T12:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/expenses", map[string]any{
		"expense_type": "Rent", "amount": 10, "timestamp": "2024-03-10T08:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/reports/summary?start=2024-03-10&end=2024-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary report.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 30.0, resp.Summary.TotalSales)
	assert.Equal(t, 10.0, resp.Summary.TotalExpenses)
	assert.Equal(t, 20.0, resp.Summary.NetProfit)
	assert.InDelta(t, 200.0, resp.Summary.ROI, 1e-9)
}

func TestSummaryHandler_ExpenseOnlyROI(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/expenses", map[string]any{
		"expense_type": "Rent", "amount": 500, "timestamp": "2024-03-10T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/reports/summary?start=2024-03-10&end=2024-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Summary report.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, -100.0, resp.Summary.ROI, 1e-9)
}

func TestDailyHandler_BucketPerDay(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sales", map[string]any{
		"item_name": "Tea", "category": "Beverage", "price_per_unit": 10, "quantity_sold": 3,
		"timestamp": "2024-03-10T12:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/reports/daily?start=2024-03-08&end=2024-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Daily []report.DailyBucket `json:"daily"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Daily, 3)
	assert.Zero(t, resp.Daily[0].Sales)
	assert.Zero(t, resp.Daily[1].Sales)
	assert.Equal(t, 30.0, resp.Daily[2].Sales)
}

func TestExpenseTypesHandler(t *testing.T) {
	router, _ := setupRouter(t)

	for _, e := range []map[string]any{
		{"expense_type": "Rent", "amount": 500, "timestamp": "2024-03-10T09:00:00Z"},
		{"expense_type": "Transport", "amount": 100, "timestamp": "2024-03-10T10:00:00Z"},
		{"expense_type": "Transport", "amount": 100, "timestamp": "2024-03-10T11:00:00Z"},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/expenses", e)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/reports/expense-types?start=2024-03-10&end=2024-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ExpenseTypes []report.ExpenseTypeRow `json:"expense_types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.ExpenseTypes, 2)
	assert.Equal(t, "Rent", resp.ExpenseTypes[0].Key)
	assert.Equal(t, 500.0, resp.ExpenseTypes[0].Amount)
	assert.Equal(t, "Transport", resp.ExpenseTypes[1].Key)
	assert.Equal(t, 2, resp.ExpenseTypes[1].Transactions)
	assert.InDelta(t, 200.0/700.0*100, resp.ExpenseTypes[1].SharePct, 1e-9)
}

func TestReportHandlers_BadDate(t *testing.T) {
	router, _ := setupRouter(t)

	for _, path := range []string{
		"/api/reports/summary?start=10-03-2024",
		"/api/reports/daily?end=notadate",
		"/api/export/sales.csv?start=2024/03/10",
	} {
		w := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestRecentHandlers(t *testing.T) {
	router, _ := setupRouter(t)

	for i := 1; i <= 4; i++ {
		w := doJSON(t, router, http.MethodPost, "/api/sales", map[string]any{
			"item_name": "Tea", "category": "Beverage", "price_per_unit": i, "quantity_sold": 1,
			"timestamp": fmt.Sprintf("2024-03-%02dT00:00:00Z", i),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/sales/recent?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Sales []struct {
			PricePerUnit float64 `json:"price_per_unit"`
		} `json:"sales"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Sales, 2)
	assert.Equal(t, 4.0, resp.Sales[0].PricePerUnit)

	w = doJSON(t, router, http.MethodGet, "/api/sales/recent?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportSalesHandler(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sales", map[string]any{
		"item_name": "Tea", "category": "Beverage", "price_per_unit": 10, "quantity_sold": 3,
		"timestamp": "2024-03-10T14:30:05Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/export/sales.csv?start=2024-03-10&end=2024-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Date,Time,Item,Category,Quantity,Price per Unit,Total Sale")
	assert.Contains(t, w.Body.String(), "2024-03-10,14:30:05,Tea,Beverage,3,10.00,30.00")
}

func TestWriteInvalidatesReportCache(t *testing.T) {
	router, _ := setupRouter(t)

	post := func(price float64) {
		w := doJSON(t, router, http.MethodPost, "/api/sales", map[string]any{
			"item_name": "Tea", "category": "Beverage", "price_per_unit": price, "quantity_sold": 1,
			"timestamp": "2024-03-10T12:00:00Z",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	total := func() float64 {
		w := doJSON(t, router, http.MethodGet, "/api/reports/summary?start=2024-03-10&end=2024-03-10", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Summary report.Summary `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Summary.TotalSales
	}

	post(10)
	assert.Equal(t, 10.0, total())

	// The second write purges the cached report, so the next read sees it.
	post(5)
	assert.Equal(t, 15.0, total())
}
