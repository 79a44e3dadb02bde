package report

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"store-dashboard-go/internal/cache"
	"store-dashboard-go/internal/models"
	"store-dashboard-go/internal/store"
)

// Dashboard bundles every report computed for one date range. The whole
// bundle is produced from a single pair of range reads, so all views of one
// page load agree on the underlying rows.
type Dashboard struct {
	Start        time.Time        `json:"start"`
	End          time.Time        `json:"end"`
	Summary      Summary          `json:"summary"`
	Comparison   Comparison       `json:"comparison"`
	Daily        []DailyBucket    `json:"daily"`
	Categories   []BreakdownRow   `json:"categories"`
	Items        []BreakdownRow   `json:"items"`
	ExpenseTypes []ExpenseTypeRow `json:"expense_types"`
	Activity     Activity         `json:"activity"`
	Forecast     ForecastResult   `json:"forecast"`
	Sales        []models.Sale    `json:"sales"`
	Expenses     []models.Expense `json:"expenses"`
}

// Service computes dashboard reports from the record store, memoizing
// results per date range for a short time.
type Service struct {
	store        *store.Store
	cache        cache.Cache[Dashboard]
	logger       *zap.Logger
	forecastDays int
}

// NewService creates a report service. The cache is injected so callers
// control its TTL and capacity.
func NewService(st *store.Store, c cache.Cache[Dashboard], logger *zap.Logger, forecastDays int) *Service {
	if forecastDays <= 0 {
		forecastDays = 7
	}
	return &Service{
		store:        st,
		cache:        c,
		logger:       logger,
		forecastDays: forecastDays,
	}
}

// Dashboard returns the full report bundle for [start, end], serving a
// cached copy when one is still fresh.
func (s *Service) Dashboard(start, end time.Time) (Dashboard, error) {
	key := cacheKey(start, end)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("Dashboard served from cache", zap.String("key", key))
		return cached, nil
	}

	d, err := s.compute(start, end)
	if err != nil {
		return Dashboard{}, err
	}
	s.cache.Set(key, d)
	return d, nil
}

// Invalidate drops all cached reports. The store calls into the database on
// the next dashboard request, so a freshly recorded transaction is visible
// immediately.
func (s *Service) Invalidate() {
	s.cache.Purge()
}

func (s *Service) compute(start, end time.Time) (Dashboard, error) {
	sales, err := s.store.SalesInRange(start, end)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load sales: %w", err)
	}
	expenses, err := s.store.ExpensesInRange(start, end)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load expenses: %w", err)
	}

	// The preceding window has the same length and ends the instant the
	// current one starts.
	span := end.Sub(start)
	prevEnd := start.Add(-time.Nanosecond)
	prevStart := prevEnd.Add(-span)

	prevSales, err := s.store.SalesInRange(prevStart, prevEnd)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load previous sales: %w", err)
	}
	prevExpenses, err := s.store.ExpensesInRange(prevStart, prevEnd)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load previous expenses: %w", err)
	}

	summary := Summarize(sales, expenses)
	daily := DailySeries(sales, expenses, start, end)

	d := Dashboard{
		Start:        start,
		End:          end,
		Summary:      summary,
		Comparison:   Compare(summary, Summarize(prevSales, prevExpenses), prevStart, prevEnd),
		Daily:        daily,
		Categories:   CategoryBreakdown(sales),
		Items:        ItemBreakdown(sales),
		ExpenseTypes: ExpenseTypeBreakdown(expenses),
		Activity:     ActivityProfile(sales),
		Forecast:     Forecast(daily, s.forecastDays),
		Sales:        sales,
		Expenses:     expenses,
	}

	s.logger.Info("Dashboard computed",
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("sales", len(sales)),
		zap.Int("expenses", len(expenses)),
		zap.Float64("total_sales", summary.TotalSales),
	)
	return d, nil
}

func cacheKey(start, end time.Time) string {
	return fmt.Sprintf("dashboard|%s|%s", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
}
