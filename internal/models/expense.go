package models

import (
	"time"

	"gorm.io/gorm"
)

// Expense represents a single expense transaction.
type Expense struct {
	gorm.Model
	ExpenseType string    `gorm:"not null;index" json:"expense_type"`
	Amount      float64   `gorm:"not null" json:"amount"`
	Description string    `json:"description,omitempty"`
	Currency    string    `gorm:"default:TRY" json:"currency"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
}
