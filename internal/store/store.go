package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"store-dashboard-go/internal/models"
)

// DefaultCurrency is applied to every record that does not specify one.
const DefaultCurrency = "TRY"

// Validation errors returned by the record operations.
var (
	ErrEmptyItemName    = errors.New("item name must not be empty")
	ErrEmptyExpenseType = errors.New("expense type must not be empty")
	ErrInvalidPrice     = errors.New("price per unit must not be negative")
	ErrInvalidQuantity  = errors.New("quantity sold must be positive")
	ErrInvalidCost      = errors.New("cost must not be negative")
	ErrInvalidAmount    = errors.New("amount must not be negative")
)

// SaleInput carries the caller-supplied fields of a new sale.
// Cost defaults to zero: the entry form historically never collected it,
// in which case Profit equals TotalSale.
type SaleInput struct {
	ItemName     string    `json:"item_name"`
	Category     string    `json:"category"`
	PricePerUnit float64   `json:"price_per_unit"`
	QuantitySold int       `json:"quantity_sold"`
	Cost         float64   `json:"cost"`
	Timestamp    time.Time `json:"timestamp"`
}

// ExpenseInput carries the caller-supplied fields of a new expense.
type ExpenseInput struct {
	ExpenseType string    `json:"expense_type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Store owns persistence of sales and expenses. Rows are created once and
// only ever read back; there is no update or delete path.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewStore creates a new Store on top of an open database.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Validate reports the first invalid field of the input, if any.
func (in SaleInput) Validate() error {
	if strings.TrimSpace(in.ItemName) == "" {
		return ErrEmptyItemName
	}
	if in.PricePerUnit < 0 {
		return ErrInvalidPrice
	}
	if in.QuantitySold <= 0 {
		return ErrInvalidQuantity
	}
	if in.Cost < 0 {
		return ErrInvalidCost
	}
	return nil
}

// Validate reports the first invalid field of the input, if any.
func (in ExpenseInput) Validate() error {
	if strings.TrimSpace(in.ExpenseType) == "" {
		return ErrEmptyExpenseType
	}
	if in.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// RecordSale validates the input, derives TotalSale and Profit, and persists
// the sale. The stored row, including its assigned ID and resolved timestamp,
// is returned. Nothing is written when validation fails.
func (s *Store) RecordSale(in SaleInput) (*models.Sale, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	totalSale := in.PricePerUnit * float64(in.QuantitySold)
	sale := models.Sale{
		ItemName:     in.ItemName,
		Category:     in.Category,
		PricePerUnit: in.PricePerUnit,
		QuantitySold: in.QuantitySold,
		TotalSale:    totalSale,
		Cost:         in.Cost,
		Profit:       totalSale - in.Cost,
		Currency:     DefaultCurrency,
		Timestamp:    ts,
	}

	if err := s.db.Create(&sale).Error; err != nil {
		s.logger.Error("Failed to persist sale", zap.String("item", in.ItemName), zap.Error(err))
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	s.logger.Info("Sale recorded",
		zap.Uint("id", sale.ID),
		zap.String("item", sale.ItemName),
		zap.String("category", sale.Category),
		zap.Float64("total_sale", sale.TotalSale),
	)
	return &sale, nil
}

// RecordExpense validates the input and persists the expense.
func (s *Store) RecordExpense(in ExpenseInput) (*models.Expense, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	expense := models.Expense{
		ExpenseType: in.ExpenseType,
		Amount:      in.Amount,
		Description: in.Description,
		Currency:    DefaultCurrency,
		Timestamp:   ts,
	}

	if err := s.db.Create(&expense).Error; err != nil {
		s.logger.Error("Failed to persist expense", zap.String("type", in.ExpenseType), zap.Error(err))
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	s.logger.Info("Expense recorded",
		zap.Uint("id", expense.ID),
		zap.String("type", expense.ExpenseType),
		zap.Float64("amount", expense.Amount),
	)
	return &expense, nil
}

// SalesInRange returns all sales with a timestamp in [start, end], both bounds
// inclusive. An inverted or empty range yields an empty slice, not an error.
func (s *Store) SalesInRange(start, end time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	if err := s.db.Where("timestamp >= ? AND timestamp <= ?", start, end).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to query sales in range: %w", err)
	}
	return sales, nil
}

// ExpensesInRange returns all expenses with a timestamp in [start, end].
func (s *Store) ExpensesInRange(start, end time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Where("timestamp >= ? AND timestamp <= ?", start, end).Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to query expenses in range: %w", err)
	}
	return expenses, nil
}

// RecentSales returns up to limit sales, most recent first.
func (s *Store) RecentSales(limit int) ([]models.Sale, error) {
	var sales []models.Sale
	if err := s.db.Order("timestamp desc").Limit(limit).Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("failed to query recent sales: %w", err)
	}
	return sales, nil
}

// RecentExpenses returns up to limit expenses, most recent first.
func (s *Store) RecentExpenses(limit int) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.Order("timestamp desc").Limit(limit).Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to query recent expenses: %w", err)
	}
	return expenses, nil
}
